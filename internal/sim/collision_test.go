package sim

import "testing"

func hazardAt(lane Lane, worldZ float64) *Hazard {
	return &Hazard{Lane: lane, WorldZ: worldZ, Active: true}
}

func TestDetectCollisionSameLaneSameDepth(t *testing.T) {
	cfg := DefaultConfig()
	p := NewPlayer(cfg)

	if !DetectCollision(p, []*Hazard{hazardAt(1, p.Z)}, cfg) {
		t.Fatalf("expected a hit for an overlapping hazard in the player's lane")
	}
}

func TestDetectCollisionIgnoresOtherLanes(t *testing.T) {
	cfg := DefaultConfig()
	p := NewPlayer(cfg)

	hazards := []*Hazard{hazardAt(0, p.Z), hazardAt(2, p.Z)}
	if DetectCollision(p, hazards, cfg) {
		t.Fatalf("expected no hit for hazards in adjacent lanes")
	}
}

func TestDetectCollisionIgnoresDistantHazards(t *testing.T) {
	cfg := DefaultConfig()
	p := NewPlayer(cfg)

	hazards := []*Hazard{
		hazardAt(1, p.Z-hazardDepth), // still approaching
		hazardAt(1, p.Z+hazardDepth), // already passed
	}
	if DetectCollision(p, hazards, cfg) {
		t.Fatalf("expected no hit outside the hazard depth window")
	}
}

func TestDetectCollisionSkipsInactiveAndNil(t *testing.T) {
	cfg := DefaultConfig()
	p := NewPlayer(cfg)

	inactive := hazardAt(1, p.Z)
	inactive.Active = false
	if DetectCollision(p, []*Hazard{nil, inactive}, cfg) {
		t.Fatalf("expected inactive and nil entries to be skipped")
	}
}

func TestDetectCollisionClearedByJumpHeight(t *testing.T) {
	cfg := DefaultConfig()
	p := NewPlayer(cfg)
	hazards := []*Hazard{hazardAt(1, p.Z)}

	p.TriggerJump()
	p.Tick(cfg.JumpDuration / 2)
	if p.VerticalOffset() <= cfg.JumpClearance {
		t.Fatalf("test setup: apex %v does not clear %v", p.VerticalOffset(), cfg.JumpClearance)
	}
	if DetectCollision(p, hazards, cfg) {
		t.Fatalf("expected no hit while jumping above the clearance height")
	}
}

func TestDetectCollisionHitsAtLowJumpHeight(t *testing.T) {
	cfg := DefaultConfig()
	p := NewPlayer(cfg)
	hazards := []*Hazard{hazardAt(1, p.Z)}

	p.TriggerJump()
	// Early in the arc the player is airborne but below the clearance.
	p.Tick(cfg.JumpDuration / 20)
	if !p.Jumping {
		t.Fatalf("test setup: expected the player to still be airborne")
	}
	if p.VerticalOffset() > cfg.JumpClearance {
		t.Fatalf("test setup: offset %v already clears %v", p.VerticalOffset(), cfg.JumpClearance)
	}
	if !DetectCollision(p, hazards, cfg) {
		t.Fatalf("expected a hit while airborne below the clearance height")
	}
}

func TestDetectCollisionWhenHazardSweepsIn(t *testing.T) {
	cfg := DefaultConfig()
	p := NewPlayer(cfg)

	// A hazard 50 units out at speed 10 reaches the player after 5 seconds.
	h := hazardAt(1, p.Z-50)
	const speed, dt = 10.0, 1.0 / 30.0
	hit := false
	for i := 0; i < 30*6; i++ {
		h.WorldZ += speed * dt
		if DetectCollision(p, []*Hazard{h}, cfg) {
			hit = true
			break
		}
	}
	if !hit {
		t.Fatalf("expected the sweeping hazard to hit the stationary player")
	}
	if h.WorldZ < p.Z-hazardDepth/2-speed*dt || h.WorldZ > p.Z+hazardDepth/2 {
		t.Fatalf("hit registered outside the depth window at z=%v", h.WorldZ)
	}
}

func TestDetectCollisionDuringLaneGlide(t *testing.T) {
	cfg := DefaultConfig()
	p := NewPlayer(cfg)

	// Partway between lanes the player overlaps neither lane center enough
	// to count, then overlaps the destination lane once close to it.
	p.SetTargetLane(2)
	p.Tick(0.02)
	if DetectCollision(p, []*Hazard{hazardAt(2, p.Z)}, cfg) {
		t.Fatalf("expected no hit at x=%v far from the lane 2 center", p.X)
	}

	for i := 0; i < 200 && p.CurrentLane != 2; i++ {
		p.Tick(1.0 / 60.0)
	}
	if !DetectCollision(p, []*Hazard{hazardAt(2, p.Z)}, cfg) {
		t.Fatalf("expected a hit after arriving in lane 2")
	}
}
