package sim

import (
	"math"
	"testing"
)

func TestMapPoseLaneThirdsAreMirrored(t *testing.T) {
	m := NewInputMapper(DefaultConfig())

	// The camera faces the player, so stepping to the player's left raises
	// the reported hip x.
	cases := []struct {
		hipX float64
		lane Lane
	}{
		{hipX: 0.9, lane: 0},
		{hipX: 0.5, lane: 1},
		{hipX: 0.1, lane: 2},
	}
	for i, tc := range cases {
		intent := m.MapPose(PoseSample{HipX: tc.hipX, ShoulderY: 0.5, SentAt: int64(i + 1)}, false)
		if !intent.SetLane {
			t.Fatalf("expected a lane intent for hipX=%v", tc.hipX)
		}
		if intent.TargetLane != tc.lane {
			t.Fatalf("hipX=%v: expected lane %d, got %d", tc.hipX, tc.lane, intent.TargetLane)
		}
	}
}

func TestMapPoseIgnoresOutOfRangeHipX(t *testing.T) {
	m := NewInputMapper(DefaultConfig())

	intent := m.MapPose(PoseSample{HipX: -0.2, ShoulderY: 0.5, SentAt: 1}, false)
	if intent.SetLane {
		t.Fatalf("expected no lane intent for hipX outside [0,1]")
	}
}

func TestMapPoseSkipsStaleDuplicates(t *testing.T) {
	m := NewInputMapper(DefaultConfig())

	m.MapPose(PoseSample{HipX: 0.5, ShoulderY: 0.5, SentAt: 100}, false)
	intent := m.MapPose(PoseSample{HipX: 0.9, ShoulderY: 0.3, SentAt: 100}, false)
	if intent.SetLane || intent.Jump {
		t.Fatalf("expected a duplicate timestamp to be skipped entirely, got %+v", intent)
	}
}

func TestMapPoseAdoptsBaselineFromFirstSample(t *testing.T) {
	m := NewInputMapper(DefaultConfig())

	if _, ok := m.Baseline(); ok {
		t.Fatalf("expected no baseline before the first sample")
	}

	intent := m.MapPose(PoseSample{HipX: 0.5, ShoulderY: 0.62, SentAt: 1}, false)
	if intent.Jump {
		t.Fatalf("the baseline-adopting sample must not trigger a jump")
	}
	baseline, ok := m.Baseline()
	if !ok || baseline != 0.62 {
		t.Fatalf("expected baseline 0.62 adopted, got %v (ok=%v)", baseline, ok)
	}
}

func TestMapPoseRejectsInvalidVerticalSamples(t *testing.T) {
	m := NewInputMapper(DefaultConfig())

	m.MapPose(PoseSample{HipX: 0.5, ShoulderY: 0, SentAt: 1}, false)
	m.MapPose(PoseSample{HipX: 0.5, ShoulderY: 1.4, SentAt: 2}, false)
	if _, ok := m.Baseline(); ok {
		t.Fatalf("expected out-of-range vertical samples to be discarded")
	}
}

func TestMapPoseJumpThresholdAndCooldown(t *testing.T) {
	cfg := DefaultConfig()
	m := NewInputMapper(cfg)

	m.MapPose(PoseSample{HipX: 0.5, ShoulderY: 0.5, SentAt: 1}, false)

	// A rise past the threshold fires exactly once.
	intent := m.MapPose(PoseSample{HipX: 0.5, ShoulderY: 0.40, SentAt: 2}, false)
	if !intent.Jump {
		t.Fatalf("expected a jump for a rise past the threshold")
	}
	if m.JumpCooldownRemaining() != cfg.PoseJumpCooldown {
		t.Fatalf("expected the cooldown armed, got %v", m.JumpCooldownRemaining())
	}

	// The tail of the same motion arrives while the cooldown holds.
	intent = m.MapPose(PoseSample{HipX: 0.5, ShoulderY: 0.38, SentAt: 3}, true)
	if intent.Jump {
		t.Fatalf("expected no second jump during the cooldown")
	}

	// Once the cooldown decays a fresh rise fires again.
	m.Tick(cfg.PoseJumpCooldown + 0.1)
	intent = m.MapPose(PoseSample{HipX: 0.5, ShoulderY: 0.38, SentAt: 4}, false)
	if !intent.Jump {
		t.Fatalf("expected a jump after the cooldown decayed")
	}
}

func TestMapPoseJumpNudgesBaselineUp(t *testing.T) {
	m := NewInputMapper(DefaultConfig())

	m.MapPose(PoseSample{HipX: 0.5, ShoulderY: 0.5, SentAt: 1}, false)
	m.MapPose(PoseSample{HipX: 0.5, ShoulderY: 0.40, SentAt: 2}, false)

	baseline, _ := m.Baseline()
	if baseline >= 0.5 {
		t.Fatalf("expected the baseline shifted up after a jump, got %v", baseline)
	}
}

func TestMapPoseAbsorbsPostureDrift(t *testing.T) {
	cfg := DefaultConfig()
	m := NewInputMapper(cfg)

	m.MapPose(PoseSample{HipX: 0.5, ShoulderY: 0.5, SentAt: 1}, false)

	// The person settles lower; the baseline follows as an EMA.
	m.MapPose(PoseSample{HipX: 0.5, ShoulderY: 0.6, SentAt: 2}, false)
	baseline, _ := m.Baseline()
	want := 0.5 + (0.6-0.5)*cfg.PoseBaselineBlend
	if math.Abs(baseline-want) > 1e-12 {
		t.Fatalf("expected baseline %v after drift, got %v", want, baseline)
	}

	// Mid-jump the drop is part of the arc, not posture drift.
	m2 := NewInputMapper(cfg)
	m2.MapPose(PoseSample{HipX: 0.5, ShoulderY: 0.5, SentAt: 1}, false)
	m2.MapPose(PoseSample{HipX: 0.5, ShoulderY: 0.6, SentAt: 2}, true)
	baseline2, _ := m2.Baseline()
	if baseline2 != 0.5 {
		t.Fatalf("expected no drift absorption while airborne, got %v", baseline2)
	}
}
