// Package gameplay publishes the structured events emitted by the run
// simulation: session lifecycle, hazard lifecycle, and input triggers.
package gameplay

import (
	"context"

	"lane-dash/server/logging"
)

const (
	EventSessionStart    logging.EventType = "session.start"
	EventSessionStop     logging.EventType = "session.stop"
	EventSessionGameOver logging.EventType = "session.game_over"
	EventHazardSpawn     logging.EventType = "hazard.spawn"
	EventHazardDespawn   logging.EventType = "hazard.despawn"
	EventInputJump       logging.EventType = "input.jump"
	EventPoseStatus      logging.EventType = "input.pose_status"
)

// Input sources reported on jump events.
const (
	InputSourcePose     = "pose"
	InputSourceKeyboard = "keyboard"
)

// Pose status causes reported by the client collaborator.
const (
	PoseStatusOK               = "ok"
	PoseStatusInitFailed       = "init_failed"
	PoseStatusPermissionDenied = "permission_denied"
	PoseStatusLost             = "lost"
)

func sessionRef(id string) logging.EntityRef {
	return logging.EntityRef{ID: id, Kind: logging.EntityKindSession}
}

// SessionStartPayload records the tuning a run began with.
type SessionStartPayload struct {
	InitialSpeed  float64 `json:"initialSpeed"`
	SpawnInterval float64 `json:"spawnInterval"`
}

func SessionStart(ctx context.Context, pub logging.Publisher, tick uint64, sessionID string, payload SessionStartPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventSessionStart,
		Tick:     tick,
		Actor:    sessionRef(sessionID),
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}

func SessionStop(ctx context.Context, pub logging.Publisher, tick uint64, sessionID string) {
	publish(ctx, pub, logging.Event{
		Type:     EventSessionStop,
		Tick:     tick,
		Actor:    sessionRef(sessionID),
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
	})
}

// SessionGameOverPayload captures the final standing of a run.
type SessionGameOverPayload struct {
	Score int     `json:"score"`
	Speed float64 `json:"speed"`
}

func SessionGameOver(ctx context.Context, pub logging.Publisher, tick uint64, sessionID string, payload SessionGameOverPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventSessionGameOver,
		Tick:     tick,
		Actor:    sessionRef(sessionID),
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}

// HazardSpawnPayload describes a freshly activated hazard.
type HazardSpawnPayload struct {
	Lane   int     `json:"lane"`
	WorldZ float64 `json:"worldZ"`
	Active int     `json:"active"`
}

func HazardSpawn(ctx context.Context, pub logging.Publisher, tick uint64, sessionID string, payload HazardSpawnPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventHazardSpawn,
		Tick:     tick,
		Actor:    sessionRef(sessionID),
		Severity: logging.SeverityDebug,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}

func HazardDespawn(ctx context.Context, pub logging.Publisher, tick uint64, sessionID string, lane int) {
	publish(ctx, pub, logging.Event{
		Type:     EventHazardDespawn,
		Tick:     tick,
		Actor:    sessionRef(sessionID),
		Severity: logging.SeverityDebug,
		Category: logging.CategoryGameplay,
		Payload:  map[string]any{"lane": lane},
	})
}

func InputJump(ctx context.Context, pub logging.Publisher, tick uint64, sessionID string, source string) {
	publish(ctx, pub, logging.Event{
		Type:     EventInputJump,
		Tick:     tick,
		Actor:    sessionRef(sessionID),
		Severity: logging.SeverityDebug,
		Category: logging.CategoryInput,
		Payload:  map[string]any{"source": source},
	})
}

// PoseStatusPayload reports the pose collaborator's health as seen by the
// client. Failures keep the run alive on keyboard input.
type PoseStatusPayload struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func PoseStatus(ctx context.Context, pub logging.Publisher, tick uint64, sessionID string, payload PoseStatusPayload) {
	severity := logging.SeverityInfo
	if payload.Status != PoseStatusOK {
		severity = logging.SeverityWarn
	}
	publish(ctx, pub, logging.Event{
		Type:     EventPoseStatus,
		Tick:     tick,
		Actor:    sessionRef(sessionID),
		Severity: severity,
		Category: logging.CategoryInput,
		Payload:  payload,
	})
}

func publish(ctx context.Context, pub logging.Publisher, event logging.Event) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, event)
}
