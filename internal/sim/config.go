package sim

// Config carries the tunables that encode gameplay feel. The values are
// empirical; adjust them freely without touching the simulation contracts.
type Config struct {
	InitialSpeed float64 `json:"initialSpeed"` // world units per second at run start
	MaxSpeed     float64 `json:"maxSpeed"`
	SpeedRamp    float64 `json:"speedRamp"` // units per second gained each second
	ScoreRate    float64 `json:"scoreRate"` // points per second survived

	SpawnInterval  float64 `json:"spawnInterval"`  // seconds between spawns at run start
	SpawnDecrement float64 `json:"spawnDecrement"` // interval shrink per spawn
	SpawnFloor     float64 `json:"spawnFloor"`     // interval never drops below this

	LaneCooldown  float64 `json:"laneCooldown"`  // seconds between accepted lane changes
	LaneGain      float64 `json:"laneGain"`      // proportional gain for lane convergence
	JumpDuration  float64 `json:"jumpDuration"`  // seconds airborne
	JumpApex      float64 `json:"jumpApex"`      // peak height above rest
	JumpClearance float64 `json:"jumpClearance"` // vertical offset that clears a hazard

	PoseLowerBound    float64 `json:"poseLowerBound"` // mirrored hip x below this maps to lane 0
	PoseUpperBound    float64 `json:"poseUpperBound"` // mirrored hip x above this maps to lane 2
	PoseJumpThreshold float64 `json:"poseJumpThreshold"`
	PoseJumpCooldown  float64 `json:"poseJumpCooldown"`
	PoseBaselineBlend float64 `json:"poseBaselineBlend"` // EMA weight for posture drift

	Seed int64 `json:"-"` // 0 means seed from wall clock
}

// DefaultConfig returns the tuning shipped with the game.
func DefaultConfig() Config {
	return Config{
		InitialSpeed: 8,
		MaxSpeed:     20,
		SpeedRamp:    0.25,
		ScoreRate:    10,

		SpawnInterval:  1.2,
		SpawnDecrement: 0.02,
		SpawnFloor:     0.35,

		LaneCooldown:  1.0,
		LaneGain:      10,
		JumpDuration:  0.7,
		JumpApex:      1.6,
		JumpClearance: 0.8,

		PoseLowerBound:    0.34,
		PoseUpperBound:    0.66,
		PoseJumpThreshold: 0.07,
		PoseJumpCooldown:  0.9,
		PoseBaselineBlend: 0.08,
	}
}

// normalized fills zero or nonsensical fields from the defaults so a partially
// populated config cannot stall the simulation.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.InitialSpeed <= 0 {
		c.InitialSpeed = def.InitialSpeed
	}
	if c.MaxSpeed < c.InitialSpeed {
		c.MaxSpeed = c.InitialSpeed
	}
	if c.SpeedRamp < 0 {
		c.SpeedRamp = 0
	}
	if c.ScoreRate <= 0 {
		c.ScoreRate = def.ScoreRate
	}
	if c.SpawnInterval <= 0 {
		c.SpawnInterval = def.SpawnInterval
	}
	if c.SpawnDecrement < 0 {
		c.SpawnDecrement = 0
	}
	if c.SpawnFloor <= 0 {
		c.SpawnFloor = def.SpawnFloor
	}
	if c.SpawnFloor > c.SpawnInterval {
		c.SpawnFloor = c.SpawnInterval
	}
	if c.LaneCooldown <= 0 {
		c.LaneCooldown = def.LaneCooldown
	}
	if c.LaneGain <= 0 {
		c.LaneGain = def.LaneGain
	}
	if c.JumpDuration <= 0 {
		c.JumpDuration = def.JumpDuration
	}
	if c.JumpApex <= 0 {
		c.JumpApex = def.JumpApex
	}
	if c.JumpClearance <= 0 {
		c.JumpClearance = def.JumpClearance
	}
	if c.PoseLowerBound <= 0 || c.PoseLowerBound >= 1 {
		c.PoseLowerBound = def.PoseLowerBound
	}
	if c.PoseUpperBound <= c.PoseLowerBound || c.PoseUpperBound >= 1 {
		c.PoseUpperBound = def.PoseUpperBound
	}
	if c.PoseJumpThreshold <= 0 {
		c.PoseJumpThreshold = def.PoseJumpThreshold
	}
	if c.PoseJumpCooldown <= 0 {
		c.PoseJumpCooldown = def.PoseJumpCooldown
	}
	if c.PoseBaselineBlend <= 0 || c.PoseBaselineBlend > 1 {
		c.PoseBaselineBlend = def.PoseBaselineBlend
	}
	return c
}
