package sim

import "math/rand"

type particle struct {
	offsetX, offsetY, offsetZ float64
	age                       float64
}

// Emitter simulates the ambient motes trailing an active hazard. Its world
// position is kept locked to the owning hazard by the spawner; the particle
// offsets are relative to that position.
type Emitter struct {
	X, Y, Z float64

	particles [emitterParticleCount]particle
}

func newEmitter() *Emitter {
	return &Emitter{}
}

// reseed randomizes every particle position and staggers the ages with a
// uniform phase so a freshly acquired emitter looks populated instead of
// pulsing in lockstep.
func (e *Emitter) reseed(rng *rand.Rand) {
	e.X, e.Y, e.Z = 0, 0, 0
	for i := range e.particles {
		e.particles[i] = particle{
			offsetX: (rng.Float64()*2 - 1) * particleSpread,
			offsetY: rng.Float64() * particleSpread,
			offsetZ: (rng.Float64()*2 - 1) * particleSpread,
			age:     rng.Float64() * particleLifetime,
		}
	}
}

// Tick ages every particle, drifts it upward, and respawns it at a fresh
// random offset once its lifetime elapses.
func (e *Emitter) Tick(dt float64, rng *rand.Rand) {
	for i := range e.particles {
		pt := &e.particles[i]
		pt.age += dt
		pt.offsetY += particleRiseSpeed * dt
		if pt.age >= particleLifetime {
			pt.offsetX = (rng.Float64()*2 - 1) * particleSpread
			pt.offsetY = rng.Float64() * particleSpread
			pt.offsetZ = (rng.Float64()*2 - 1) * particleSpread
			pt.age = 0
		}
	}
}
