package sim

import (
	"context"
	"math/rand"
	"time"

	"lane-dash/server/internal/telemetry"
	"lane-dash/server/logging"
	"lane-dash/server/logging/gameplay"
)

// Deps carries the observability seams injected by the hub. Nil members are
// replaced with no-ops so tests can construct bare sessions.
type Deps struct {
	Publisher logging.Publisher
	Metrics   telemetry.Metrics
}

// Session owns one complete run: the player, the hazard field, input mapping,
// scoring, and the terminal game-over transition. It is single-threaded; the
// driver advances it once per frame and nothing inside blocks.
type Session struct {
	id  string
	cfg Config

	player  *Player
	spawner *Spawner
	input   *InputMapper
	rng     *rand.Rand

	pending []Command

	tick     uint64
	score    float64
	speed    float64
	running  bool
	gameOver bool

	publisher logging.Publisher
	metrics   telemetry.Metrics
}

// NewSession builds a stopped session. Call Start to begin ticking.
func NewSession(id string, cfg Config, deps Deps) *Session {
	cfg = cfg.normalized()
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	publisher := deps.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = telemetry.NopMetrics()
	}

	s := &Session{
		id:        id,
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(seed)),
		speed:     cfg.InitialSpeed,
		publisher: publisher,
		metrics:   metrics,
	}
	s.player = NewPlayer(cfg)
	s.input = NewInputMapper(cfg)
	s.spawner = NewSpawner(cfg, s.rng, SpawnerHooks{
		OnSpawn:   s.onSpawn,
		OnDespawn: s.onDespawn,
	})
	return s
}

// Start resets all owned state to initial values and enables ticking. Pool
// contents survive so restarts reuse already-allocated instances.
func (s *Session) Start() {
	s.spawner.Reset()
	s.player = NewPlayer(s.cfg)
	s.input = NewInputMapper(s.cfg)
	s.pending = s.pending[:0]
	s.tick = 0
	s.score = 0
	s.speed = s.cfg.InitialSpeed
	s.gameOver = false
	s.running = true

	gameplay.SessionStart(context.Background(), s.publisher, s.tick, s.id, gameplay.SessionStartPayload{
		InitialSpeed:  s.cfg.InitialSpeed,
		SpawnInterval: s.cfg.SpawnInterval,
	})
}

// Stop halts ticking and freezes score and speed for display. Active hazards
// return to their pools so the next Start begins with clean pool state.
func (s *Session) Stop() {
	wasRunning := s.running
	s.running = false
	s.spawner.Reset()
	if wasRunning {
		gameplay.SessionStop(context.Background(), s.publisher, s.tick, s.id)
	}
}

// Enqueue stages a command for the next Advance. The hub serializes access,
// so no locking happens here.
func (s *Session) Enqueue(cmd Command) {
	s.pending = append(s.pending, cmd)
}

// Advance runs one simulation tick: drain staged commands, advance the player,
// ramp speed, move and spawn hazards, then resolve collision and scoring.
func (s *Session) Advance(dt float64) {
	if dt < 0 {
		invariantf("session %s: negative dt %v", s.id, dt)
		return
	}
	if !s.running || s.gameOver {
		return
	}

	s.drainCommands()
	s.input.Tick(dt)
	s.player.Tick(dt)

	s.speed += s.cfg.SpeedRamp * dt
	if s.speed > s.cfg.MaxSpeed {
		s.speed = s.cfg.MaxSpeed
	}

	s.spawner.Tick(dt, s.player.Z, s.speed)

	if DetectCollision(s.player, s.spawner.Active(), s.cfg) {
		s.gameOver = true
		s.running = false
		s.metrics.Add("collisions", 1)
		gameplay.SessionGameOver(context.Background(), s.publisher, s.tick, s.id, gameplay.SessionGameOverPayload{
			Score: int(s.score),
			Speed: s.speed,
		})
		return
	}

	s.score += s.cfg.ScoreRate * dt
	s.tick++
	s.metrics.Add("sim_ticks", 1)
}

func (s *Session) drainCommands() {
	for _, cmd := range s.pending {
		s.metrics.Add("commands", 1)
		switch cmd.Type {
		case CommandMoveLeft:
			s.player.SetTargetLane(s.player.TargetLane - 1)
		case CommandMoveRight:
			s.player.SetTargetLane(s.player.TargetLane + 1)
		case CommandJump:
			s.player.TriggerJump()
		case CommandPose:
			if cmd.Pose == nil {
				continue
			}
			s.metrics.Add("pose_samples", 1)
			intent := s.input.MapPose(*cmd.Pose, s.player.Jumping)
			if intent.SetLane {
				s.player.SetTargetLane(intent.TargetLane)
			}
			if intent.Jump {
				s.player.TriggerJump()
				gameplay.InputJump(context.Background(), s.publisher, s.tick, s.id, gameplay.InputSourcePose)
			}
		default:
			invariantf("session %s: unknown command type %q", s.id, cmd.Type)
		}
	}
	for i := range s.pending {
		s.pending[i] = Command{}
	}
	s.pending = s.pending[:0]
}

func (s *Session) onSpawn(h *Hazard) {
	s.metrics.Add("hazard_spawns", 1)
	gameplay.HazardSpawn(context.Background(), s.publisher, s.tick, s.id, gameplay.HazardSpawnPayload{
		Lane:   int(h.Lane),
		WorldZ: h.WorldZ,
		Active: len(s.spawner.active),
	})
}

func (s *Session) onDespawn(h *Hazard) {
	s.metrics.Add("hazard_despawns", 1)
	gameplay.HazardDespawn(context.Background(), s.publisher, s.tick, s.id, int(h.Lane))
}

// ID returns the identifier the hub assigned to this run.
func (s *Session) ID() string { return s.id }

// Config returns the normalized tuning in effect.
func (s *Session) Config() Config { return s.cfg }

// Running reports whether the session accepts ticks.
func (s *Session) Running() bool { return s.running }

// GameOver reports whether the run ended in a collision.
func (s *Session) GameOver() bool { return s.gameOver }

// Score returns the un-floored score accumulator.
func (s *Session) Score() float64 { return s.score }

// Speed returns the current world scroll speed.
func (s *Session) Speed() float64 { return s.speed }

// TickCount returns the number of completed ticks this run.
func (s *Session) TickCount() uint64 { return s.tick }

// Player exposes the player state machine for the input and render paths.
func (s *Session) Player() *Player { return s.player }

// Spawner exposes the hazard field, mainly for diagnostics.
func (s *Session) Spawner() *Spawner { return s.spawner }
