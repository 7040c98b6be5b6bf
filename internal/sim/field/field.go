// Package field renders the decorative interference field: six
// oscillating sources summed over a coarse grid, plus a vortex particle
// pool. It is purely presentational and runs on its own clock,
// independent of the simulation phase.
package field

import (
	"math"
	"math/rand"
	"sync"
	"time"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Config tunes the visualizer. Zero fields fall back to DefaultConfig.
type Config struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`

	GridCols int     `yaml:"grid_cols" json:"gridCols"`
	GridRows int     `yaml:"grid_rows" json:"gridRows"`
	Falloff  float64 `yaml:"falloff" json:"falloff"`

	ParticleCount   int     `yaml:"particle_count" json:"particleCount"`
	MaxRadius       float64 `yaml:"max_radius" json:"maxRadius"`
	CentripetalPull float64 `yaml:"centripetal_pull" json:"centripetalPull"`
	TwistBase       float64 `yaml:"twist_base" json:"twistBase"`
	BreathFrequency float64 `yaml:"breath_frequency" json:"breathFrequency"`
	BreathAmplitude float64 `yaml:"breath_amplitude" json:"breathAmplitude"`
	TurbulenceScale float64 `yaml:"turbulence_scale" json:"turbulenceScale"`
	TurbulenceForce float64 `yaml:"turbulence_force" json:"turbulenceForce"`
	ImpulseForce    float64 `yaml:"impulse_force" json:"impulseForce"`
	ImpulseDecay    float64 `yaml:"impulse_decay" json:"impulseDecay"`

	Seed int64 `yaml:"seed" json:"seed"`
}

// DefaultConfig matches the 800x600 simulation field.
func DefaultConfig() Config {
	return Config{
		Width:  800,
		Height: 600,

		GridCols: 40,
		GridRows: 30,
		Falloff:  220,

		ParticleCount:   180,
		MaxRadius:       260,
		CentripetalPull: 0.6,
		TwistBase:       0.9,
		BreathFrequency: 0.25,
		BreathAmplitude: 0.35,
		TurbulenceScale: 0.004,
		TurbulenceForce: 18,
		ImpulseForce:    90,
		ImpulseDecay:    2.5,
	}
}

func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.Width == 0 {
		c.Width = d.Width
	}
	if c.Height == 0 {
		c.Height = d.Height
	}
	if c.GridCols == 0 {
		c.GridCols = d.GridCols
	}
	if c.GridRows == 0 {
		c.GridRows = d.GridRows
	}
	if c.Falloff == 0 {
		c.Falloff = d.Falloff
	}
	if c.ParticleCount == 0 {
		c.ParticleCount = d.ParticleCount
	}
	if c.MaxRadius == 0 {
		c.MaxRadius = d.MaxRadius
	}
	if c.CentripetalPull == 0 {
		c.CentripetalPull = d.CentripetalPull
	}
	if c.TwistBase == 0 {
		c.TwistBase = d.TwistBase
	}
	if c.BreathFrequency == 0 {
		c.BreathFrequency = d.BreathFrequency
	}
	if c.BreathAmplitude == 0 {
		c.BreathAmplitude = d.BreathAmplitude
	}
	if c.TurbulenceScale == 0 {
		c.TurbulenceScale = d.TurbulenceScale
	}
	if c.TurbulenceForce == 0 {
		c.TurbulenceForce = d.TurbulenceForce
	}
	if c.ImpulseForce == 0 {
		c.ImpulseForce = d.ImpulseForce
	}
	if c.ImpulseDecay == 0 {
		c.ImpulseDecay = d.ImpulseDecay
	}
	return c
}

// source is one oscillator contributing to the interference sum.
type source struct {
	x, y       float64
	frequency  float64
	wavelength float64
	phase      float64
	amplitude  float64
}

// Visualizer computes the interference grid and drives the particle
// vortex. All methods are safe for concurrent use; Advance is expected
// to be called from a single render loop.
type Visualizer struct {
	mu  sync.RWMutex
	cfg Config

	sources   []source
	grid      []float64
	particles []particle

	noise opensimplex.Noise
	rng   *rand.Rand
	time  float64

	impulseX, impulseY float64
	impulseStrength    float64
}

// New builds a visualizer with five sources on a spiral around the
// center plus one at the center itself.
func New(cfg Config) *Visualizer {
	cfg = cfg.normalized()
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	v := &Visualizer{
		cfg:   cfg,
		grid:  make([]float64, cfg.GridCols*cfg.GridRows),
		noise: opensimplex.NewNormalized(seed),
		rng:   rand.New(rand.NewSource(seed)),
	}

	cx, cy := cfg.Width/2, cfg.Height/2
	v.sources = append(v.sources, source{
		x: cx, y: cy,
		frequency:  0.6,
		wavelength: 120,
		amplitude:  1,
	})
	// Golden-angle spiral keeps the outer sources from lining up.
	const goldenAngle = 2.399963
	for i := 0; i < 5; i++ {
		angle := goldenAngle * float64(i+1)
		radius := 60 + 45*float64(i)
		v.sources = append(v.sources, source{
			x:          cx + math.Cos(angle)*radius,
			y:          cy + math.Sin(angle)*radius,
			frequency:  0.4 + 0.15*float64(i),
			wavelength: 90 + 25*float64(i),
			phase:      angle,
			amplitude:  0.8 - 0.1*float64(i),
		})
	}

	v.particles = make([]particle, cfg.ParticleCount)
	for i := range v.particles {
		v.respawnParticle(&v.particles[i])
	}
	return v
}

// Advance moves the field clock by dt seconds and recomputes the grid
// and particles.
func (v *Visualizer) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	v.time += dt
	v.sampleGrid()
	v.updateParticles(dt)
	v.impulseStrength *= math.Exp(-v.cfg.ImpulseDecay * dt)
}

// Pulse feeds a player input impulse into the vortex. The direction
// need not be normalized; a zero vector is ignored.
func (v *Visualizer) Pulse(dx, dy float64) {
	l := math.Hypot(dx, dy)
	if l < 1e-9 {
		return
	}
	v.mu.Lock()
	v.impulseX = dx / l
	v.impulseY = dy / l
	v.impulseStrength = v.cfg.ImpulseForce
	v.mu.Unlock()
}

// sampleGrid evaluates the interference sum at each cell center:
// sin(2π·d/λ + t·f + φ) · A · exp(-d/falloff), summed over sources.
func (v *Visualizer) sampleGrid() {
	cellW := v.cfg.Width / float64(v.cfg.GridCols)
	cellH := v.cfg.Height / float64(v.cfg.GridRows)

	for row := 0; row < v.cfg.GridRows; row++ {
		y := (float64(row) + 0.5) * cellH
		for col := 0; col < v.cfg.GridCols; col++ {
			x := (float64(col) + 0.5) * cellW
			sum := 0.0
			for i := range v.sources {
				s := &v.sources[i]
				d := math.Hypot(x-s.x, y-s.y)
				sum += math.Sin(2*math.Pi*d/s.wavelength+v.time*s.frequency+s.phase) *
					s.amplitude * math.Exp(-d/v.cfg.Falloff)
			}
			v.grid[row*v.cfg.GridCols+col] = sum
		}
	}
}
