package server

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// telemetryCounters aggregates cheap atomic counters for the diagnostics
// endpoint. The typed fields cover the broadcast path; the keyed map backs
// the telemetry.Metrics seam the simulation writes through.
type telemetryCounters struct {
	ticks              atomic.Uint64
	broadcasts         atomic.Uint64
	bytesSent          atomic.Uint64
	entitiesSent       atomic.Uint64
	tickDurationMillis atomic.Int64
	debug              bool

	mu  sync.RWMutex
	sim map[string]*atomic.Uint64
}

// TelemetrySnapshot is the diagnostics view of the counters.
type TelemetrySnapshot struct {
	Ticks              uint64            `json:"ticks"`
	Broadcasts         uint64            `json:"broadcasts"`
	BytesSent          uint64            `json:"bytesSent"`
	EntitiesSent       uint64            `json:"entitiesSent"`
	TickDurationMillis int64             `json:"tickDurationMillis"`
	Simulation         map[string]uint64 `json:"simulation"`
}

func newTelemetryCounters() *telemetryCounters {
	t := &telemetryCounters{sim: make(map[string]*atomic.Uint64)}
	if os.Getenv("DEBUG_TELEMETRY") == "1" {
		t.debug = true
	}
	return t
}

func (t *telemetryCounters) counter(key string) *atomic.Uint64 {
	t.mu.RLock()
	c, ok := t.sim[key]
	t.mu.RUnlock()
	if ok {
		return c
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok = t.sim[key]; ok {
		return c
	}
	c = &atomic.Uint64{}
	t.sim[key] = c
	return c
}

// Add implements telemetry.Metrics.
func (t *telemetryCounters) Add(key string, delta uint64) {
	t.counter(key).Add(delta)
	if t.debug {
		fmt.Fprintf(os.Stderr, "[telemetry] %s += %d\n", key, delta)
	}
}

// Store implements telemetry.Metrics.
func (t *telemetryCounters) Store(key string, value uint64) {
	t.counter(key).Store(value)
}

func (t *telemetryCounters) RecordBroadcast(bytes, entities int) {
	if bytes < 0 {
		bytes = 0
	}
	if entities < 0 {
		entities = 0
	}
	t.broadcasts.Add(1)
	t.bytesSent.Add(uint64(bytes))
	t.entitiesSent.Add(uint64(entities))
}

func (t *telemetryCounters) RecordTick(duration time.Duration) {
	t.ticks.Add(1)
	t.tickDurationMillis.Store(duration.Milliseconds())
}

func (t *telemetryCounters) Snapshot() TelemetrySnapshot {
	t.mu.RLock()
	sim := make(map[string]uint64, len(t.sim))
	for key, c := range t.sim {
		sim[key] = c.Load()
	}
	t.mu.RUnlock()
	return TelemetrySnapshot{
		Ticks:              t.ticks.Load(),
		Broadcasts:         t.broadcasts.Load(),
		BytesSent:          t.bytesSent.Load(),
		EntitiesSent:       t.entitiesSent.Load(),
		TickDurationMillis: t.tickDurationMillis.Load(),
		Simulation:         sim,
	}
}
