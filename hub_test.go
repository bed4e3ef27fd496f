package server

import (
	"testing"
	"time"

	"lane-dash/server/internal/sim"
)

func newQuietHub() *Hub {
	cfg := DefaultHubConfig()
	cfg.Sim.Seed = 1
	cfg.Sim.SpawnInterval = 1000
	cfg.Sim.SpawnFloor = 1000
	return NewHubWithConfig(cfg, nil)
}

func TestJoinAllocatesIndependentStoppedRuns(t *testing.T) {
	hub := newQuietHub()

	first := hub.Join()
	second := hub.Join()

	if first.ID == second.ID {
		t.Fatalf("expected unique run IDs, both are %q", first.ID)
	}
	if first.Ver != 1 {
		t.Fatalf("expected protocol version 1, got %d", first.Ver)
	}
	if first.TickRate != hub.TickRate() {
		t.Fatalf("expected tick rate %d in the join response, got %d", hub.TickRate(), first.TickRate)
	}
	if first.Snapshot.Running {
		t.Fatalf("a freshly joined run must be stopped until the client starts it")
	}
	if first.Snapshot.Player.Lane != 1 {
		t.Fatalf("expected the player centered at join, lane %d", first.Snapshot.Player.Lane)
	}
}

func TestHubOperationsOnUnknownRun(t *testing.T) {
	hub := newQuietHub()

	if hub.StartRun("missing") {
		t.Fatalf("expected StartRun to fail for an unknown run")
	}
	if hub.StopRun("missing") {
		t.Fatalf("expected StopRun to fail for an unknown run")
	}
	if hub.Command("missing", sim.Command{Type: sim.CommandJump}) {
		t.Fatalf("expected Command to fail for an unknown run")
	}
	if _, ok := hub.UpdateHeartbeat("missing", time.Now(), 0); ok {
		t.Fatalf("expected UpdateHeartbeat to fail for an unknown run")
	}
	if hub.PoseStatus("missing", "ok", "") {
		t.Fatalf("expected PoseStatus to fail for an unknown run")
	}
}

func TestHubCommandsApplyOnAdvance(t *testing.T) {
	hub := newQuietHub()
	join := hub.Join()

	if !hub.StartRun(join.ID) {
		t.Fatalf("expected StartRun to succeed")
	}
	if !hub.Command(join.ID, sim.Command{Type: sim.CommandMoveLeft}) {
		t.Fatalf("expected Command to succeed")
	}

	hub.advance(time.Now(), 1.0/30.0)

	hub.mu.Lock()
	run := hub.runs[join.ID]
	target := run.session.Player().TargetLane
	hub.mu.Unlock()
	if target != 0 {
		t.Fatalf("expected the staged move applied on advance, target is %d", target)
	}
}

func TestHubAdvanceSkipsStoppedRuns(t *testing.T) {
	hub := newQuietHub()
	join := hub.Join()

	hub.advance(time.Now(), 1.0/30.0)

	hub.mu.Lock()
	tick := hub.runs[join.ID].session.TickCount()
	hub.mu.Unlock()
	if tick != 0 {
		t.Fatalf("a run the client never started must not tick, got %d", tick)
	}
}

func TestHubPrunesRunsAfterHeartbeatTimeout(t *testing.T) {
	hub := newQuietHub()
	join := hub.Join()
	hub.StartRun(join.ID)

	hub.advance(time.Now().Add(disconnectAfter+time.Second), 1.0/30.0)

	hub.mu.Lock()
	_, ok := hub.runs[join.ID]
	hub.mu.Unlock()
	if ok {
		t.Fatalf("expected the run pruned after the heartbeat timeout")
	}
}

func TestHubHeartbeatKeepsRunAlive(t *testing.T) {
	hub := newQuietHub()
	join := hub.Join()
	hub.StartRun(join.ID)

	later := time.Now().Add(disconnectAfter + time.Second)
	if _, ok := hub.UpdateHeartbeat(join.ID, later, 0); !ok {
		t.Fatalf("expected UpdateHeartbeat to succeed")
	}
	hub.advance(later, 1.0/30.0)

	hub.mu.Lock()
	_, ok := hub.runs[join.ID]
	hub.mu.Unlock()
	if !ok {
		t.Fatalf("expected a freshly heartbeaten run to survive the sweep")
	}
}

func TestHubHeartbeatComputesRTT(t *testing.T) {
	hub := newQuietHub()
	join := hub.Join()

	received := time.Now()
	sent := received.Add(-40 * time.Millisecond).UnixMilli()
	rtt, ok := hub.UpdateHeartbeat(join.ID, received, sent)
	if !ok {
		t.Fatalf("expected UpdateHeartbeat to succeed")
	}
	if rtt < 30*time.Millisecond || rtt > 50*time.Millisecond {
		t.Fatalf("expected an RTT near 40ms, got %v", rtt)
	}
}

func TestHubDisconnectStopsSession(t *testing.T) {
	hub := newQuietHub()
	join := hub.Join()
	hub.StartRun(join.ID)

	hub.mu.Lock()
	session := hub.runs[join.ID].session
	hub.mu.Unlock()

	hub.Disconnect(join.ID)

	hub.mu.Lock()
	_, ok := hub.runs[join.ID]
	hub.mu.Unlock()
	if ok {
		t.Fatalf("expected the run removed on disconnect")
	}
	if session.Running() {
		t.Fatalf("expected the session stopped on disconnect")
	}
}

func TestHubDiagnosticsListsRuns(t *testing.T) {
	hub := newQuietHub()
	join := hub.Join()
	hub.StartRun(join.ID)
	hub.advance(time.Now(), 1.0/30.0)

	diag := hub.Diagnostics()
	if diag.Status != "ok" {
		t.Fatalf("expected status ok, got %q", diag.Status)
	}
	if diag.TickRate != hub.TickRate() {
		t.Fatalf("expected tick rate %d, got %d", hub.TickRate(), diag.TickRate)
	}
	if len(diag.Runs) != 1 {
		t.Fatalf("expected one run in diagnostics, got %d", len(diag.Runs))
	}
	run := diag.Runs[0]
	if run.ID != join.ID {
		t.Fatalf("expected run %q in diagnostics, got %q", join.ID, run.ID)
	}
	if !run.Running {
		t.Fatalf("expected the run reported as running")
	}
	if diag.Telemetry.Simulation["sim_ticks"] == 0 {
		t.Fatalf("expected simulation tick counters in the diagnostics payload")
	}
}
