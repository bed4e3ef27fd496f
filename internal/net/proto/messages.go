// Package proto defines the versioned websocket payloads exchanged with the
// browser and terminal clients. The jsonschema tags feed cmd/schema, which
// renders a machine-readable contract for client tooling.
package proto

import "lane-dash/server/internal/sim"

// Version tracks the wire-protocol revision expected by clients.
const Version = 1

// Client message type identifiers.
const (
	TypeInput      = "input"
	TypePose       = "pose"
	TypePoseStatus = "poseStatus"
	TypeStart      = "start"
	TypeStop       = "stop"
	TypeHeartbeat  = "heartbeat"
)

// Keyboard actions carried by TypeInput messages.
const (
	ActionLeft  = "left"
	ActionRight = "right"
	ActionJump  = "jump"
)

// Outbound message type identifiers.
const (
	TypeState = "state"
	TypeError = "error"
)

// ClientMessage is the single inbound envelope. Which fields matter depends
// on Type; unknown types are discarded by the websocket session.
type ClientMessage struct {
	Ver       int     `json:"ver,omitempty" jsonschema:"description=Protocol version the client speaks"`
	Type      string  `json:"type" jsonschema:"title=Message type,enum=input,enum=pose,enum=poseStatus,enum=start,enum=stop,enum=heartbeat"`
	Action    string  `json:"action,omitempty" jsonschema:"enum=left,enum=right,enum=jump,description=Keyboard command for input messages"`
	HipX      float64 `json:"hipX,omitempty" jsonschema:"minimum=0,maximum=1,description=Normalized horizontal hip position from the pose estimator"`
	ShoulderY float64 `json:"shoulderY,omitempty" jsonschema:"minimum=0,maximum=1,description=Normalized vertical shoulder position; 0 is the top of the frame"`
	Status    string  `json:"status,omitempty" jsonschema:"enum=ok,enum=init_failed,enum=permission_denied,enum=lost,description=Pose pipeline status for poseStatus messages"`
	Detail    string  `json:"detail,omitempty" jsonschema:"description=Free-form diagnostic detail for poseStatus messages"`
	SentAt    int64   `json:"sentAt,omitempty" jsonschema:"description=Client timestamp in milliseconds; deduplicates pose samples and feeds heartbeat RTT"`
}

// JoinResponse answers POST /join with the new run's identity and the tuning
// the simulation will use.
type JoinResponse struct {
	Ver      int          `json:"ver"`
	ID       string       `json:"id" jsonschema:"description=Run identifier to pass to /ws"`
	TickRate int          `json:"tickRate"`
	Config   sim.Config   `json:"config"`
	Snapshot sim.Snapshot `json:"snapshot"`
}

// StateMessage is the per-tick broadcast a renderer draws from.
type StateMessage struct {
	Ver        int          `json:"ver"`
	Type       string       `json:"type"`
	Snapshot   sim.Snapshot `json:"snapshot"`
	ServerTime int64        `json:"serverTime"`
}

// HeartbeatMessage echoes a client heartbeat with the measured round trip.
type HeartbeatMessage struct {
	Ver        int    `json:"ver"`
	Type       string `json:"type"`
	ServerTime int64  `json:"serverTime"`
	ClientTime int64  `json:"clientTime"`
	RTTMillis  int64  `json:"rtt"`
}

// ErrorMessage reports a rejected request before the connection closes.
type ErrorMessage struct {
	Ver    int    `json:"ver"`
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// NewStateMessage wraps a snapshot in the versioned envelope.
func NewStateMessage(snapshot sim.Snapshot, serverTime int64) StateMessage {
	return StateMessage{Ver: Version, Type: TypeState, Snapshot: snapshot, ServerTime: serverTime}
}

// NewErrorMessage builds a versioned error payload.
func NewErrorMessage(reason string) ErrorMessage {
	return ErrorMessage{Ver: Version, Type: TypeError, Reason: reason}
}
