package sim

import "math"

// Player owns the lane-change and jump state machine. All mutation happens
// through SetTargetLane, TriggerJump, and Tick; callers read the exported
// fields between ticks.
type Player struct {
	CurrentLane Lane
	TargetLane  Lane
	Jumping     bool

	X, Y, Z float64

	cfg          Config
	laneCooldown float64
	jumpElapsed  float64
	bouncePhase  float64
}

// NewPlayer places the player in the center lane at rest height.
func NewPlayer(cfg Config) *Player {
	return &Player{
		CurrentLane: 1,
		TargetLane:  1,
		X:           LaneX(1),
		Y:           playerBaseY,
		Z:           playerFixedZ,
		cfg:         cfg,
	}
}

// SetTargetLane requests a lane change. Requests during the cooldown window
// and requests for the current target are ignored.
func (p *Player) SetTargetLane(lane Lane) {
	lane = ClampLane(lane)
	if p.laneCooldown > 0 || lane == p.TargetLane {
		return
	}
	p.TargetLane = lane
	p.laneCooldown = p.cfg.LaneCooldown
}

// TriggerJump starts a jump unless one is already in flight.
func (p *Player) TriggerJump() {
	if p.Jumping {
		return
	}
	p.Jumping = true
	p.jumpElapsed = 0
}

// Tick advances the cooldown, the vertical arc, and the horizontal glide
// toward the target lane.
func (p *Player) Tick(dt float64) {
	p.laneCooldown -= dt
	if p.laneCooldown < 0 {
		p.laneCooldown = 0
	}

	if p.Jumping {
		p.jumpElapsed += dt
		progress := p.jumpElapsed / p.cfg.JumpDuration
		if progress >= 1 {
			p.Jumping = false
			p.Y = playerBaseY
		} else {
			// parabola peaking at JumpApex above rest when progress = 0.5
			p.Y = playerBaseY + 4*p.cfg.JumpApex*(progress-progress*progress)
		}
	} else {
		p.bouncePhase += dt * idleBounceFrequency
		p.Y = playerBaseY + math.Abs(math.Sin(p.bouncePhase))*idleBounceAmplitude
	}

	targetX := LaneX(p.TargetLane)
	remaining := targetX - p.X
	if math.Abs(remaining) <= laneSnapEpsilon {
		p.X = targetX
		p.CurrentLane = p.TargetLane
		return
	}
	step := remaining * p.cfg.LaneGain * dt
	if math.Abs(step) > math.Abs(remaining) {
		step = remaining
	}
	p.X += step
	if math.Abs(targetX-p.X) <= laneSnapEpsilon {
		// snap so collision checks see exact lane geometry
		p.X = targetX
		p.CurrentLane = p.TargetLane
	}
}

// VerticalOffset is the height above rest, used for jump clearance checks.
func (p *Player) VerticalOffset() float64 {
	return p.Y - playerBaseY
}

// LaneCooldownRemaining reports the seconds left before the next lane change
// is accepted.
func (p *Player) LaneCooldownRemaining() float64 {
	return p.laneCooldown
}

// JumpElapsed reports the seconds since the current jump started.
func (p *Player) JumpElapsed() float64 {
	return p.jumpElapsed
}
