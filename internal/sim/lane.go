package sim

// Lane identifies one of the three tracks the player and hazards occupy.
type Lane int

// LaneCount is fixed; every lane-valued field is clamped into [0, LaneCount).
const LaneCount = 3

var laneOffsetX = [LaneCount]float64{-laneWidth, 0, laneWidth}

// ClampLane forces l into the valid lane range.
func ClampLane(l Lane) Lane {
	if l < 0 {
		return 0
	}
	if l >= LaneCount {
		return LaneCount - 1
	}
	return l
}

// LaneX returns the world x offset of a lane.
func LaneX(l Lane) float64 {
	return laneOffsetX[ClampLane(l)]
}
