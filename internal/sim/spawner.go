package sim

import "math/rand"

// Hazard is one obstacle sweeping toward the player. Instances live in the
// spawner's pool between activations and are never held by another component.
type Hazard struct {
	Lane    Lane
	WorldZ  float64
	Active  bool
	Emitter *Emitter
}

// SpawnerHooks lets the session observe hazard lifecycle transitions without
// the spawner knowing about logging or telemetry.
type SpawnerHooks struct {
	OnSpawn   func(h *Hazard)
	OnDespawn func(h *Hazard)
}

// Spawner owns procedural spawn scheduling, hazard movement, despawn, and the
// difficulty ramp. It is the sole owner of the hazard and emitter pools.
type Spawner struct {
	cfg   Config
	rng   *rand.Rand
	hooks SpawnerHooks

	timer    float64
	interval float64

	active      []*Hazard
	hazardPool  *Pool[Hazard]
	emitterPool *Pool[Emitter]
}

// NewSpawner builds a spawner with empty pools and the configured initial
// spawn interval.
func NewSpawner(cfg Config, rng *rand.Rand, hooks SpawnerHooks) *Spawner {
	s := &Spawner{
		cfg:      cfg,
		rng:      rng,
		hooks:    hooks,
		interval: cfg.SpawnInterval,
	}
	s.hazardPool = NewPool(
		func() *Hazard { return &Hazard{} },
		func(h *Hazard) { *h = Hazard{} },
	)
	s.emitterPool = NewPool(newEmitter, func(e *Emitter) { e.reseed(rng) })
	return s
}

// Tick advances the spawn schedule and every active hazard. Hazards that
// passed the player by the despawn margin return to the pool together with
// their emitter.
func (s *Spawner) Tick(dt, playerZ, speed float64) {
	s.timer += dt
	if s.timer >= s.interval {
		s.spawn(playerZ)
		s.timer = 0
		s.interval -= s.cfg.SpawnDecrement
		if s.interval < s.cfg.SpawnFloor {
			s.interval = s.cfg.SpawnFloor
		}
	}

	retained := s.active[:0]
	for _, h := range s.active {
		h.WorldZ += speed * dt
		if h.Emitter != nil {
			h.Emitter.Z += speed * dt
			h.Emitter.Tick(dt, s.rng)
		}
		if h.WorldZ > playerZ+despawnMargin {
			s.release(h)
			continue
		}
		retained = append(retained, h)
	}
	for i := len(retained); i < len(s.active); i++ {
		s.active[i] = nil
	}
	s.active = retained
}

func (s *Spawner) spawn(playerZ float64) {
	h := s.hazardPool.Acquire()
	h.Lane = Lane(s.rng.Intn(LaneCount))
	h.WorldZ = playerZ - spawnDistance
	h.Active = true

	em := s.emitterPool.Acquire()
	em.X = LaneX(h.Lane)
	em.Y = emitterHeightOffset
	em.Z = h.WorldZ
	h.Emitter = em

	s.active = append(s.active, h)
	if s.hooks.OnSpawn != nil {
		s.hooks.OnSpawn(h)
	}
}

func (s *Spawner) release(h *Hazard) {
	if !h.Active {
		invariantf("spawner: releasing hazard in lane %d twice", h.Lane)
		return
	}
	if s.hooks.OnDespawn != nil {
		s.hooks.OnDespawn(h)
	}
	if h.Emitter != nil {
		s.emitterPool.Release(h.Emitter)
		h.Emitter = nil
	}
	h.Active = false
	s.hazardPool.Release(h)
}

// Active exposes the hazards currently in flight, oldest first.
func (s *Spawner) Active() []*Hazard {
	return s.active
}

// Interval reports the current spawn interval.
func (s *Spawner) Interval() float64 {
	return s.interval
}

// Reset releases every active hazard and emitter back to the pools and
// restores the initial spawn schedule. Pool contents survive so a fresh run
// reuses the instances already allocated.
func (s *Spawner) Reset() {
	for i, h := range s.active {
		s.release(h)
		s.active[i] = nil
	}
	s.active = s.active[:0]
	s.timer = 0
	s.interval = s.cfg.SpawnInterval
}

// PooledHazards reports the free hazard count, for diagnostics and tests.
func (s *Spawner) PooledHazards() int {
	return s.hazardPool.FreeCount()
}

// PooledEmitters reports the free emitter count, for diagnostics and tests.
func (s *Spawner) PooledEmitters() int {
	return s.emitterPool.FreeCount()
}
