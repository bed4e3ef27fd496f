// Package server owns the run registry and the fixed-rate simulation loop
// that advances every active run and broadcasts its state.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"lane-dash/server/internal/net/proto"
	"lane-dash/server/internal/sim"
	"lane-dash/server/internal/telemetry"
	"lane-dash/server/logging"
	"lane-dash/server/logging/gameplay"
)

// HubConfig tunes the hub and the sessions it creates.
type HubConfig struct {
	TickRate int
	Sim      sim.Config
	Logger   telemetry.Logger
}

// DefaultHubConfig returns the shipped tick rate and simulation tuning.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		TickRate: defaultTickRate,
		Sim:      sim.DefaultConfig(),
	}
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Send writes one frame under the write lock and deadline.
func (s *subscriber) Send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// runState pairs one session with its connection metadata. Each connected
// player owns an independent run; runs never interact.
type runState struct {
	id            string
	session       *sim.Session
	sub           *subscriber
	lastHeartbeat time.Time
	lastRTT       time.Duration
}

// Hub owns all live runs and their subscribers.
type Hub struct {
	mu     sync.Mutex
	runs   map[string]*runState
	nextID atomic.Uint64

	cfg       HubConfig
	logger    telemetry.Logger
	publisher logging.Publisher
	counters  *telemetryCounters
}

// NewHub creates a hub with default configuration and no event publisher.
func NewHub() *Hub {
	return NewHubWithConfig(DefaultHubConfig(), nil)
}

// NewHubWithConfig creates a hub that publishes gameplay events to the given
// publisher. A nil publisher discards events.
func NewHubWithConfig(cfg HubConfig, publisher logging.Publisher) *Hub {
	if cfg.TickRate <= 0 {
		cfg.TickRate = defaultTickRate
	}
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	return &Hub{
		runs:      make(map[string]*runState),
		cfg:       cfg,
		logger:    logger,
		publisher: publisher,
		counters:  newTelemetryCounters(),
	}
}

// TickRate reports the simulation frequency in ticks per second.
func (h *Hub) TickRate() int {
	return h.cfg.TickRate
}

// Join allocates a new run with a stopped session and returns its identity,
// the effective tuning, and the initial snapshot.
func (h *Hub) Join() proto.JoinResponse {
	id := h.nextID.Add(1)
	runID := fmt.Sprintf("run-%d", id)
	session := sim.NewSession(runID, h.cfg.Sim, sim.Deps{
		Publisher: h.publisher,
		Metrics:   h.counters,
	})
	run := &runState{id: runID, session: session, lastHeartbeat: time.Now()}

	h.mu.Lock()
	h.runs[runID] = run
	resp := proto.JoinResponse{
		Ver:      proto.Version,
		ID:       runID,
		TickRate: h.cfg.TickRate,
		Config:   session.Config(),
		Snapshot: session.Snapshot(),
	}
	h.mu.Unlock()

	return resp
}

// Subscribe associates a websocket connection with an existing run. A second
// subscription replaces the first.
func (h *Hub) Subscribe(runID string, conn *websocket.Conn) (*subscriber, sim.Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	run, ok := h.runs[runID]
	if !ok {
		return nil, sim.Snapshot{}, false
	}
	run.lastHeartbeat = time.Now()
	if run.sub != nil {
		run.sub.conn.Close()
	}
	sub := &subscriber{conn: conn}
	run.sub = sub
	return sub, run.session.Snapshot(), true
}

// Disconnect removes a run, stops its session so pooled state is released,
// and closes any live connection.
func (h *Hub) Disconnect(runID string) {
	h.mu.Lock()
	run, ok := h.runs[runID]
	if ok {
		delete(h.runs, runID)
	}
	h.mu.Unlock()

	if !ok {
		return
	}
	run.session.Stop()
	if run.sub != nil {
		run.sub.conn.Close()
	}
	h.logger.Printf("run %s removed", runID)
}

// StartRun begins (or restarts) the run's session.
func (h *Hub) StartRun(runID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	run, ok := h.runs[runID]
	if !ok {
		return false
	}
	run.session.Start()
	return true
}

// StopRun halts the run's session, freezing score and speed for display.
func (h *Hub) StopRun(runID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	run, ok := h.runs[runID]
	if !ok {
		return false
	}
	run.session.Stop()
	return true
}

// Command stages a simulation command for the run's next tick.
func (h *Hub) Command(runID string, cmd sim.Command) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	run, ok := h.runs[runID]
	if !ok {
		return false
	}
	run.session.Enqueue(cmd)
	return true
}

// PoseStatus records the client-reported health of the pose pipeline. A
// failed pipeline is not fatal to the run; keyboard input remains available.
func (h *Hub) PoseStatus(runID, status, detail string) bool {
	h.mu.Lock()
	run, ok := h.runs[runID]
	var tick uint64
	if ok {
		tick = run.session.TickCount()
	}
	h.mu.Unlock()

	if !ok {
		return false
	}
	gameplay.PoseStatus(context.Background(), h.publisher, tick, runID, gameplay.PoseStatusPayload{
		Status: status,
		Detail: detail,
	})
	return true
}

// UpdateHeartbeat refreshes connectivity metadata and computes the RTT from
// the client-sent timestamp.
func (h *Hub) UpdateHeartbeat(runID string, receivedAt time.Time, clientSent int64) (time.Duration, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	run, ok := h.runs[runID]
	if !ok {
		return 0, false
	}
	run.lastHeartbeat = receivedAt

	if clientSent > 0 {
		clientTime := time.UnixMilli(clientSent)
		if clientTime.Before(receivedAt.Add(5 * time.Second)) {
			rtt := receivedAt.Sub(clientTime)
			if rtt < 0 {
				rtt = 0
			}
			run.lastRTT = rtt
		}
	}
	return run.lastRTT, true
}

type outboundState struct {
	sub      *subscriber
	data     []byte
	runID    string
	entities int
}

// advance runs one hub tick under the lock: prune timed-out runs, advance
// every session, and marshal the per-run broadcasts. Sends happen outside
// the lock.
func (h *Hub) advance(now time.Time, dt float64) ([]outboundState, []*subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var toClose []*subscriber
	var outbound []outboundState
	for id, run := range h.runs {
		if now.Sub(run.lastHeartbeat) > disconnectAfter {
			if run.sub != nil {
				toClose = append(toClose, run.sub)
			}
			run.session.Stop()
			delete(h.runs, id)
			h.logger.Printf("disconnecting %s due to heartbeat timeout", id)
			continue
		}

		run.session.Advance(dt)

		if run.sub == nil {
			continue
		}
		msg := proto.NewStateMessage(run.session.Snapshot(), now.UnixMilli())
		data, err := json.Marshal(msg)
		if err != nil {
			h.logger.Printf("failed to marshal state for %s: %v", id, err)
			continue
		}
		outbound = append(outbound, outboundState{
			sub:      run.sub,
			data:     data,
			runID:    id,
			entities: 1 + len(msg.Snapshot.Hazards),
		})
	}
	return outbound, toClose
}

// RunSimulation drives every run at the configured tick rate until stop
// closes. dt comes from the wall clock so a delayed tick advances further.
func (h *Hub) RunSimulation(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second / time.Duration(h.cfg.TickRate))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			if dt <= 0 {
				dt = 1.0 / float64(h.cfg.TickRate)
			}
			last = now

			started := time.Now()
			outbound, toClose := h.advance(now, dt)
			for _, sub := range toClose {
				sub.conn.Close()
			}
			for _, ob := range outbound {
				if err := ob.sub.Send(ob.data); err != nil {
					h.logger.Printf("failed to send state to %s: %v", ob.runID, err)
					h.Disconnect(ob.runID)
					continue
				}
				h.counters.RecordBroadcast(len(ob.data), ob.entities)
			}
			h.counters.RecordTick(time.Since(started))
		}
	}
}

// RunDiagnostics summarizes one live run for the diagnostics endpoint.
type RunDiagnostics struct {
	ID             string `json:"id"`
	Running        bool   `json:"running"`
	GameOver       bool   `json:"gameOver"`
	Score          int    `json:"score"`
	Tick           uint64 `json:"tick"`
	ActiveHazards  int    `json:"activeHazards"`
	PooledHazards  int    `json:"pooledHazards"`
	PooledEmitters int    `json:"pooledEmitters"`
	LastHeartbeat  int64  `json:"lastHeartbeat"`
	RTTMillis      int64  `json:"rttMillis"`
}

// DiagnosticsSnapshot captures hub-wide state for /diagnostics.
type DiagnosticsSnapshot struct {
	Status     string            `json:"status"`
	ServerTime int64             `json:"serverTime"`
	TickRate   int               `json:"tickRate"`
	Runs       []RunDiagnostics  `json:"runs"`
	Telemetry  TelemetrySnapshot `json:"telemetry"`
}

// Diagnostics builds the current diagnostics payload.
func (h *Hub) Diagnostics() DiagnosticsSnapshot {
	h.mu.Lock()
	runs := make([]RunDiagnostics, 0, len(h.runs))
	for _, run := range h.runs {
		snapshot := run.session.Snapshot()
		runs = append(runs, RunDiagnostics{
			ID:             run.id,
			Running:        snapshot.Running,
			GameOver:       snapshot.GameOver,
			Score:          snapshot.Score,
			Tick:           snapshot.Tick,
			ActiveHazards:  len(snapshot.Hazards),
			PooledHazards:  run.session.Spawner().PooledHazards(),
			PooledEmitters: run.session.Spawner().PooledEmitters(),
			LastHeartbeat:  run.lastHeartbeat.UnixMilli(),
			RTTMillis:      run.lastRTT.Milliseconds(),
		})
	}
	h.mu.Unlock()

	return DiagnosticsSnapshot{
		Status:     "ok",
		ServerTime: time.Now().UnixMilli(),
		TickRate:   h.cfg.TickRate,
		Runs:       runs,
		Telemetry:  h.counters.Snapshot(),
	}
}
