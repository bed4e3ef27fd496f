package sim

import "math"

// PlayerView is the render-facing slice of player state.
type PlayerView struct {
	Lane       int     `json:"lane"`
	TargetLane int     `json:"targetLane"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Jumping    bool    `json:"jumping"`
}

// HazardView is the render-facing slice of one active hazard.
type HazardView struct {
	Lane   int     `json:"lane"`
	WorldZ float64 `json:"worldZ"`
}

// Snapshot is everything a presentation layer needs to draw one frame. The
// core never reads anything back from the renderer.
type Snapshot struct {
	Tick     uint64       `json:"t"`
	Score    int          `json:"score"`
	Speed    float64      `json:"speed"`
	Running  bool         `json:"running"`
	GameOver bool         `json:"gameOver"`
	Player   PlayerView   `json:"player"`
	Hazards  []HazardView `json:"hazards"`
}

// Snapshot captures the current state for broadcasting. The score is floored
// to an integer for display.
func (s *Session) Snapshot() Snapshot {
	hazards := make([]HazardView, 0, len(s.spawner.active))
	for _, h := range s.spawner.active {
		hazards = append(hazards, HazardView{Lane: int(h.Lane), WorldZ: h.WorldZ})
	}
	return Snapshot{
		Tick:     s.tick,
		Score:    int(math.Floor(s.score)),
		Speed:    s.speed,
		Running:  s.running,
		GameOver: s.gameOver,
		Player: PlayerView{
			Lane:       int(s.player.CurrentLane),
			TargetLane: int(s.player.TargetLane),
			X:          s.player.X,
			Y:          s.player.Y,
			Z:          s.player.Z,
			Jumping:    s.player.Jumping,
		},
		Hazards: hazards,
	}
}
