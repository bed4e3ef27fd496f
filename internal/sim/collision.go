package sim

import "math"

// DetectCollision reports whether any active hazard overlaps the player.
// Overlap means the player's x is within the collision margin of the hazard's
// lane center and the player's z falls inside the hazard depth. An overlapping
// hazard is cleared only while the player is jumping above the clearance
// height. Scan order does not matter: any hit ends the run.
func DetectCollision(p *Player, hazards []*Hazard, cfg Config) bool {
	for _, h := range hazards {
		if h == nil || !h.Active {
			continue
		}
		if math.Abs(p.X-LaneX(h.Lane)) >= laneHalfWidth*collisionMargin {
			continue
		}
		if p.Z < h.WorldZ-hazardDepth/2 || p.Z > h.WorldZ+hazardDepth/2 {
			continue
		}
		if p.Jumping && p.VerticalOffset() > cfg.JumpClearance {
			continue
		}
		return true
	}
	return false
}
