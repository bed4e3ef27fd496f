package sim

// Track geometry and effect sizing. Unlike Config these are structural: the
// renderer and the collision contract both assume them.
const (
	laneWidth       = 2.0
	laneHalfWidth   = laneWidth / 2
	collisionMargin = 0.8 // fraction of the lane half width counted as overlap

	playerBaseY     = 0.5
	playerFixedZ    = 0.0 // the world scrolls; the player's z never moves
	laneSnapEpsilon = 0.01

	idleBounceAmplitude = 0.08
	idleBounceFrequency = 9.0 // radians per second

	areaLength    = 60.0
	spawnDistance = areaLength * 0.9 // how far ahead of the player hazards appear
	hazardDepth   = 1.0
	despawnMargin = 2 * hazardDepth // past the player by this much means gone

	emitterParticleCount = 25
	particleLifetime     = 1.2
	particleRiseSpeed    = 0.8
	particleSpread       = 0.6
	emitterHeightOffset  = 1.1 // emitters hover above their hazard

	poseBaselineNudge = 0.02 // post-jump shift that blocks immediate re-trigger
)
