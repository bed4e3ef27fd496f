package sim

// PoseSample is one normalized estimation frame delivered by the pose
// collaborator. The sampler runs at its own cadence, generally slower than
// the tick rate, and the latest sample wins.
type PoseSample struct {
	HipX      float64 // 0..1 across the camera frame
	ShoulderY float64 // 0 = top of frame, 1 = bottom
	SentAt    int64   // source timestamp in milliseconds
}

// PoseIntent is the command vocabulary derived from one pose sample.
type PoseIntent struct {
	TargetLane Lane
	SetLane    bool
	Jump       bool
}

// InputMapper folds discrete keyboard commands and the continuous pose signal
// into the same lane/jump vocabulary. It owns the adaptive resting baseline
// for the vertical signal; nothing else mutates it.
type InputMapper struct {
	cfg Config

	baseline     float64
	hasBaseline  bool
	jumpCooldown float64
	lastSampleAt int64
}

// NewInputMapper starts with no baseline; the first in-range vertical sample
// is adopted as the resting posture.
func NewInputMapper(cfg Config) *InputMapper {
	return &InputMapper{cfg: cfg}
}

// Tick decays the jump cooldown. It runs once per simulation tick whether or
// not new samples arrived.
func (m *InputMapper) Tick(dt float64) {
	m.jumpCooldown -= dt
	if m.jumpCooldown < 0 {
		m.jumpCooldown = 0
	}
}

// MapPose converts a sample into lane and jump intents. A sample whose
// timestamp equals the previously processed one is a stale duplicate from the
// async sampler and is skipped. jumping tells the mapper whether the player is
// currently airborne so posture drift is not absorbed mid-jump.
func (m *InputMapper) MapPose(sample PoseSample, jumping bool) PoseIntent {
	if sample.SentAt != 0 && sample.SentAt == m.lastSampleAt {
		return PoseIntent{}
	}
	m.lastSampleAt = sample.SentAt

	var intent PoseIntent

	if sample.HipX >= 0 && sample.HipX <= 1 {
		// mirror: the camera faces the player
		x := 1 - sample.HipX
		switch {
		case x < m.cfg.PoseLowerBound:
			intent.TargetLane = 0
		case x > m.cfg.PoseUpperBound:
			intent.TargetLane = 2
		default:
			intent.TargetLane = 1
		}
		intent.SetLane = true
	}

	y := sample.ShoulderY
	if y <= 0 || y > 1 {
		return intent
	}
	if !m.hasBaseline {
		m.baseline = y
		m.hasBaseline = true
		return intent
	}

	rise := m.baseline - y // shoulders moving up shrink y
	switch {
	case m.jumpCooldown <= 0 && rise > m.cfg.PoseJumpThreshold:
		intent.Jump = true
		m.jumpCooldown = m.cfg.PoseJumpCooldown
		// shift the baseline up so the tail of the same motion cannot fire twice
		m.baseline -= poseBaselineNudge
	case rise < -m.cfg.PoseJumpThreshold/2 && !jumping:
		// the person settled lower; follow slowly instead of resetting
		m.baseline += (y - m.baseline) * m.cfg.PoseBaselineBlend
	}
	return intent
}

// Baseline reports the adaptive resting shoulder height, if one was adopted.
func (m *InputMapper) Baseline() (float64, bool) {
	return m.baseline, m.hasBaseline
}

// JumpCooldownRemaining reports seconds until the next pose jump can fire.
func (m *InputMapper) JumpCooldownRemaining() float64 {
	return m.jumpCooldown
}
