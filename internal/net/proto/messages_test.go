package proto

import (
	"encoding/json"
	"testing"

	"lane-dash/server/internal/sim"
)

func TestNewStateMessageCarriesVersionAndType(t *testing.T) {
	snapshot := sim.Snapshot{Score: 12, Running: true}
	msg := NewStateMessage(snapshot, 1700000000000)

	if msg.Ver != Version {
		t.Fatalf("expected version %d, got %d", Version, msg.Ver)
	}
	if msg.Type != TypeState {
		t.Fatalf("expected type %q, got %q", TypeState, msg.Type)
	}
	if msg.Snapshot.Score != 12 || !msg.Snapshot.Running {
		t.Fatalf("snapshot not carried through: %+v", msg.Snapshot)
	}
}

func TestNewErrorMessage(t *testing.T) {
	msg := NewErrorMessage("unknown run")
	if msg.Ver != Version || msg.Type != TypeError || msg.Reason != "unknown run" {
		t.Fatalf("unexpected error message: %+v", msg)
	}
}

func TestClientMessageDecodesWireFields(t *testing.T) {
	raw := `{"ver":1,"type":"pose","hipX":0.25,"shoulderY":0.62,"sentAt":1700000000123}`

	var msg ClientMessage
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if msg.Type != TypePose {
		t.Fatalf("expected type %q, got %q", TypePose, msg.Type)
	}
	if msg.HipX != 0.25 || msg.ShoulderY != 0.62 {
		t.Fatalf("pose fields decoded wrong: %+v", msg)
	}
	if msg.SentAt != 1700000000123 {
		t.Fatalf("expected the client timestamp preserved, got %d", msg.SentAt)
	}
}
