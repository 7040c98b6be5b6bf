package sim

import (
	"math"
	"sort"
	"strings"
)

// newResonatorRing places resonators evenly on a circle around the
// field center, round-robining energy types across the fixed set.
func newResonatorRing(cfg Config) []*Resonator {
	ring := make([]*Resonator, 0, cfg.ResonatorCount)
	center := cfg.center()
	for i := 0; i < cfg.ResonatorCount; i++ {
		angle := 2 * math.Pi * float64(i) / float64(cfg.ResonatorCount)
		ring = append(ring, &Resonator{
			ID:     newID("res"),
			Pos:    Vec{center.X + math.Cos(angle)*cfg.ResonatorRing, center.Y + math.Sin(angle)*cfg.ResonatorRing},
			Energy: EnergyTypes[i%len(EnergyTypes)],
			Radius: cfg.ResonatorRadius,
		})
	}
	return ring
}

// emitWave creates an expanding wavefront. Callers are responsible for
// any energy cost; this is also used by resonance amplifiers, which are
// free.
func (e *Engine) emitWave(origin Vec, energy EnergyType) *Wave {
	if len(e.waves) >= e.cfg.Limits.MaxWaves {
		return nil
	}
	w := &Wave{
		ID:          newID("wave"),
		Origin:      origin,
		Energy:      energy,
		MaxRadius:   e.cfg.MaxWaveDistance,
		Speed:       e.cfg.WaveSpeed,
		Opacity:     e.cfg.WaveOpacity,
		baseOpacity: e.cfg.WaveOpacity,
		LifeTime:    e.cfg.WaveLifeTime,
		Triggered:   make(map[string]bool),
		Active:      true,
	}
	e.waves = append(e.waves, w)
	return w
}

// updateWaves expands wavefronts, activates resonators they pass over,
// forms connections, ages connections and runs pattern detection.
func (e *Engine) updateWaves(dt float64) {
	for _, w := range e.waves {
		w.Age += dt
		w.Radius += w.Speed * dt // radius never decreases
		w.Opacity = math.Max(0, w.baseOpacity*(1-w.Age/w.LifeTime))
		if w.Radius > w.MaxRadius || w.Age >= w.LifeTime {
			w.Active = false
			continue
		}

		for _, r := range e.resonators {
			if r.Energy != w.Energy || w.Triggered[r.ID] {
				continue
			}
			// The wavefront is a thin ring; a resonator fires when the
			// ring passes within its own radius.
			if math.Abs(r.Pos.Distance(w.Origin)-w.Radius) < r.Radius {
				w.Triggered[r.ID] = true
				e.activateResonator(r, w)
			}
		}
	}

	n := 0
	for _, w := range e.waves {
		if w.Active {
			e.waves[n] = w
			n++
		}
	}
	e.waves = e.waves[:n]

	e.updateResonatorIntensity(dt)
	e.updateConnections(dt)
	e.detectPatterns()

	for _, p := range e.patterns {
		p.ActiveTime += dt
	}
}

// activateResonator lights a resonator and connects it to every other
// activated resonator of the same energy it is not yet linked with.
func (e *Engine) activateResonator(r *Resonator, w *Wave) {
	if !r.Activated {
		r.Activated = true
		e.bus.Emit(EventResonatorActivated, e.tickCount, ResonatorActivatedPayload{
			ResonatorID: r.ID,
			WaveID:      w.ID,
			Energy:      r.Energy.String(),
		})
	}

	for _, other := range e.resonators {
		if other == r || !other.Activated || other.Energy != r.Energy {
			continue
		}
		if e.connected(r.ID, other.ID) {
			continue
		}
		if len(e.connections) >= e.cfg.Limits.MaxConnections {
			return
		}
		c := &Connection{
			ID:         newID("con"),
			Resonators: [2]string{r.ID, other.ID},
			Energy:     r.Energy,
			Intensity:  1,
			Duration:   -1,
			Active:     true,
		}
		e.connections = append(e.connections, c)
		r.Connections = append(r.Connections, c.ID)
		other.Connections = append(other.Connections, c.ID)
		e.bus.Emit(EventResonatorConnected, e.tickCount, ConnectionPayload{
			ConnectionID: c.ID,
			Resonators:   c.Resonators,
			Energy:       c.Energy.String(),
		})
	}
}

func (e *Engine) connected(a, b string) bool {
	for _, c := range e.connections {
		if c.Active && c.touches(a) && c.touches(b) {
			return true
		}
	}
	return false
}

// updateResonatorIntensity rises intensity while a matching wavefront
// is passing, decays slowly while activated, fast otherwise. An
// activated resonator whose intensity drains to zero deactivates, which
// tears down its connections on the next pass.
func (e *Engine) updateResonatorIntensity(dt float64) {
	for _, r := range e.resonators {
		if e.wavefrontOver(r) {
			r.Intensity = clamp(r.Intensity+e.cfg.IntensityRise*dt, 0, 1)
			continue
		}
		rate := e.cfg.IntensityFastDecay
		if r.Activated {
			rate = e.cfg.IntensitySlowDecay
		}
		r.Intensity = clamp(r.Intensity-rate*dt, 0, 1)
		if r.Activated && r.Intensity <= 0 {
			r.Activated = false
		}
	}
}

func (e *Engine) wavefrontOver(r *Resonator) bool {
	for _, w := range e.waves {
		if w.Active && w.Energy == r.Energy &&
			math.Abs(r.Pos.Distance(w.Origin)-w.Radius) < r.Radius {
			return true
		}
	}
	return false
}

// updateConnections ages connections and drops the ones whose endpoints
// are gone or deactivated. A dangling endpoint id is recoverable: the
// connection is removed, never dereferenced.
func (e *Engine) updateConnections(dt float64) {
	byID := make(map[string]*Resonator, len(e.resonators))
	for _, r := range e.resonators {
		byID[r.ID] = r
	}

	n := 0
	for _, c := range e.connections {
		c.Age += dt
		if c.Duration >= 0 && c.Age >= c.Duration {
			c.Active = false
		}
		for _, id := range c.Resonators {
			if r, ok := byID[id]; !ok || !r.Activated {
				c.Active = false
				break
			}
		}
		if c.Active {
			e.connections[n] = c
			n++
			continue
		}
		for _, id := range c.Resonators {
			if r, ok := byID[id]; ok {
				r.Connections = removeString(r.Connections, c.ID)
			}
		}
	}
	e.connections = e.connections[:n]
}

func removeString(s []string, v string) []string {
	n := 0
	for _, x := range s {
		if x != v {
			s[n] = x
			n++
		}
	}
	return s[:n]
}

// detectPatterns promotes any same-energy group of three or more
// active connections into a pattern, unless that exact resonator id set
// is already recognized. Every third completed pattern raises the
// harmony level; reaching VictoryHarmony ends the session in victory.
// Energy types are walked in fixed order so event order is replayable.
func (e *Engine) detectPatterns() {
	for _, energy := range EnergyTypes {
		var conns []*Connection
		for _, c := range e.connections {
			if c.Energy == energy {
				conns = append(conns, c)
			}
		}
		if len(conns) < 3 {
			continue
		}
		ids := sortedResonatorSet(conns)
		key := patternKey(ids)
		if e.knownPatterns[key] {
			continue
		}
		if len(e.patterns) >= e.cfg.Limits.MaxPatterns {
			continue
		}

		connIDs := make([]string, 0, len(conns))
		for _, c := range conns {
			connIDs = append(connIDs, c.ID)
		}
		p := &Pattern{
			ID:          newID("pat"),
			Name:        patternName(energy, len(ids)),
			Energy:      energy,
			Resonators:  ids,
			Connections: connIDs,
			Value:       e.cfg.PatternBaseValue * float64(len(ids)),
		}
		e.patterns = append(e.patterns, p)
		e.knownPatterns[key] = true
		e.patternsDone++
		e.score += p.Value
		e.bus.Emit(EventPatternCompleted, e.tickCount, PatternPayload{
			PatternID:  p.ID,
			Name:       p.Name,
			Energy:     energy.String(),
			Resonators: ids,
			Value:      p.Value,
		})

		if e.patternsDone%3 == 0 {
			e.core.HarmonyLevel++
			e.bus.Emit(EventHarmonyIncreased, e.tickCount, HarmonyPayload{
				Level:    e.core.HarmonyLevel,
				Patterns: e.patternsDone,
			})
			if e.core.HarmonyLevel >= e.cfg.VictoryHarmony {
				e.finish(PhaseVictory, "harmony reached")
			}
		}
	}
}

// patternKey is the canonical identity of a pattern: the sorted,
// joined resonator id set.
func patternKey(ids []string) string {
	return strings.Join(ids, "|")
}

// sortedResonatorSet collects the distinct resonator ids of a
// connection group, sorted.
func sortedResonatorSet(conns []*Connection) []string {
	seen := make(map[string]bool, len(conns)*2)
	ids := make([]string, 0, len(conns)*2)
	for _, c := range conns {
		for _, id := range c.Resonators {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	sort.Strings(ids)
	return ids
}
