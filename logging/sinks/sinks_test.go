package sinks

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"lane-dash/server/logging"
)

func TestConsoleWritesOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsole(&buf)

	err := sink.Write(logging.Event{
		Type:     "session.game_over",
		Tick:     120,
		Actor:    logging.EntityRef{ID: "run-1", Kind: logging.EntityKindSession},
		Severity: logging.SeverityInfo,
		Payload:  map[string]any{"score": 42},
	})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	line := buf.String()
	if strings.Count(line, "\n") != 1 {
		t.Fatalf("expected exactly one line, got %q", line)
	}
	for _, want := range []string{"[session.game_over]", "tick=120", "actor=session:run-1", "severity=info", `"score":42`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in the console line %q", want, line)
		}
	}
}

func TestJSONEmitsDecodableNDJSON(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSON(&buf)

	events := []logging.Event{
		{Type: "hazard.spawn", Tick: 1, Severity: logging.SeverityDebug},
		{Type: "hazard.despawn", Tick: 9, Severity: logging.SeverityDebug},
	}
	for _, ev := range events {
		if err := sink.Write(ev); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}
	if err := sink.Close(context.Background()); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two NDJSON lines, got %d", len(lines))
	}
	for i, line := range lines {
		var decoded logging.Event
		if err := json.Unmarshal([]byte(line), &decoded); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", i, err)
		}
		if decoded.Type != events[i].Type || decoded.Tick != events[i].Tick {
			t.Fatalf("line %d round-tripped wrong: %+v", i, decoded)
		}
	}
}

func TestMemoryRecordsAndResets(t *testing.T) {
	sink := NewMemory()

	if err := sink.Write(logging.Event{Type: "input.jump"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if got := sink.Events(); len(got) != 1 || got[0].Type != "input.jump" {
		t.Fatalf("unexpected recorded events: %+v", got)
	}

	sink.Reset()
	if got := sink.Events(); len(got) != 0 {
		t.Fatalf("expected no events after reset, got %d", len(got))
	}
}
