package sim

import "math"

// spawn tuning for dissonances. Ranges are sampled uniformly.
const (
	dissonanceRadiusMin     = 10
	dissonanceRadiusMax     = 22
	dissonanceSpeedMin      = 20
	dissonanceSpeedMax      = 60
	dissonanceLifeMin       = 8
	dissonanceLifeMax       = 14
	dissonanceDisruptionMin = 5
	dissonanceDisruptionMax = 15
	spawnPlacementAttempts  = 16
)

// updateDissonances advances the spawn timer, moves obstacles by kind
// and expires the old ones in place.
func (e *Engine) updateDissonances(dt float64) {
	e.dissonanceTimer += dt
	if e.cfg.DissonanceRate > 0 {
		interval := 1 / e.cfg.DissonanceRate
		// The timer only drains on an actual spawn; time accumulated
		// while at the cap carries over, so a freed slot refills
		// immediately.
		for e.dissonanceTimer >= interval && len(e.dissonances) < e.cfg.Limits.MaxDissonances {
			e.dissonanceTimer -= interval
			e.dissonances = append(e.dissonances, e.spawnDissonance())
		}
	}

	for _, d := range e.dissonances {
		d.Age += dt
		if d.Age >= d.LifeTime {
			d.Active = false
			continue
		}

		switch d.Kind {
		case DissonanceMoving, DissonanceDisruptive:
			d.Pos = d.Pos.Add(d.Vel.Scale(dt))
			e.bounceDissonance(d)
		case DissonancePulsating:
			d.Opacity = 0.5 + 0.5*sin01(d.Age*d.PulseFrequency+d.PulsePhase)
		}
		d.Rotation += d.RotationSpeed * dt

		// Fade out over the last second of life.
		if remain := d.LifeTime - d.Age; remain < 1 {
			d.Opacity = math.Min(d.Opacity, remain)
		}
	}

	// In-place filter, no allocation.
	n := 0
	for _, d := range e.dissonances {
		if d.Active {
			e.dissonances[n] = d
			n++
		}
	}
	e.dissonances = e.dissonances[:n]
}

// spawnDissonance places a new obstacle away from the core. Placement
// is resampled a bounded number of times; if the field is too crowded
// the last candidate is accepted rather than spinning.
func (e *Engine) spawnDissonance() *Dissonance {
	pos := e.randomSpawnPos()
	kind := DissonanceKind(e.rng.Intn(4))
	d := &Dissonance{
		ID:              newID("dis"),
		Kind:            kind,
		Shape:           DissonanceShape(e.rng.Intn(4)),
		Pos:             pos,
		Radius:          e.randRange(dissonanceRadiusMin, dissonanceRadiusMax),
		Counters:        EnergyTypes[e.rng.Intn(len(EnergyTypes))],
		DisruptionLevel: e.randRange(dissonanceDisruptionMin, dissonanceDisruptionMax),
		Opacity:         1,
		LifeTime:        e.randRange(dissonanceLifeMin, dissonanceLifeMax),
		RotationSpeed:   e.randRange(-2, 2),
		Active:          true,
	}

	switch kind {
	case DissonanceMoving, DissonanceDisruptive:
		angle := e.rng.Float64() * 2 * math.Pi
		speed := e.randRange(dissonanceSpeedMin, dissonanceSpeedMax)
		if kind == DissonanceDisruptive {
			speed *= 1.5
		}
		d.Vel = Vec{math.Cos(angle) * speed, math.Sin(angle) * speed}
	case DissonancePulsating:
		d.PulseFrequency = e.randRange(2, 5)
		d.PulsePhase = e.rng.Float64() * 2 * math.Pi
	}
	return d
}

// randomSpawnPos samples a field position at least MinSpawnDistance
// away from the core, with a bounded number of attempts.
func (e *Engine) randomSpawnPos() Vec {
	var pos Vec
	for i := 0; i < spawnPlacementAttempts; i++ {
		pos = Vec{
			X: e.rng.Float64() * e.cfg.FieldWidth,
			Y: e.rng.Float64() * e.cfg.FieldHeight,
		}
		if e.core == nil || pos.Distance(e.core.Pos) >= e.cfg.MinSpawnDistance {
			return pos
		}
	}
	return pos
}

func (e *Engine) bounceDissonance(d *Dissonance) {
	if d.Pos.X < d.Radius {
		d.Pos.X = d.Radius
		d.Vel.X = -d.Vel.X
	} else if d.Pos.X > e.cfg.FieldWidth-d.Radius {
		d.Pos.X = e.cfg.FieldWidth - d.Radius
		d.Vel.X = -d.Vel.X
	}
	if d.Pos.Y < d.Radius {
		d.Pos.Y = d.Radius
		d.Vel.Y = -d.Vel.Y
	} else if d.Pos.Y > e.cfg.FieldHeight-d.Radius {
		d.Pos.Y = e.cfg.FieldHeight - d.Radius
		d.Vel.Y = -d.Vel.Y
	}
}

// randRange samples uniformly in [lo, hi).
func (e *Engine) randRange(lo, hi float64) float64 {
	return lo + e.rng.Float64()*(hi-lo)
}
