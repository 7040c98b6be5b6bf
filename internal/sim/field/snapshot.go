package field

// Snapshot is a value copy of the field state for rendering or the API.
type Snapshot struct {
	Time   float64 `json:"time"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	GridCols int       `json:"gridCols"`
	GridRows int       `json:"gridRows"`
	Grid     []float64 `json:"grid"`

	Particles []ParticleSnapshot `json:"particles"`
}

type ParticleSnapshot struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Life float64 `json:"life"` // remaining fraction in [0, 1]
	Size float64 `json:"size"`
}

// Snapshot copies the grid and particle state.
func (v *Visualizer) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()

	s := Snapshot{
		Time:     v.time,
		Width:    v.cfg.Width,
		Height:   v.cfg.Height,
		GridCols: v.cfg.GridCols,
		GridRows: v.cfg.GridRows,
		Grid:     append([]float64(nil), v.grid...),
	}
	s.Particles = make([]ParticleSnapshot, len(v.particles))
	for i := range v.particles {
		p := &v.particles[i]
		frac := 0.0
		if p.maxLife > 0 {
			frac = p.life / p.maxLife
		}
		s.Particles[i] = ParticleSnapshot{X: p.x, Y: p.y, Life: frac, Size: p.size}
	}
	return s
}
