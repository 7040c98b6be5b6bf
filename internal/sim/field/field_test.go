package field

import (
	"math"
	"testing"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Seed = 1
	return cfg
}

// TestGridDimensions verifies the grid length matches the configured
// cell count and values stay finite.
func TestGridDimensions(t *testing.T) {
	v := New(testConfig())
	v.Advance(0.1)

	snap := v.Snapshot()
	if len(snap.Grid) != snap.GridCols*snap.GridRows {
		t.Fatalf("grid length %d != %d x %d", len(snap.Grid), snap.GridCols, snap.GridRows)
	}
	for i, val := range snap.Grid {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			t.Fatalf("cell %d is not finite: %v", i, val)
		}
	}
}

// TestParticlesStayInsideVortex runs the vortex for a while and checks
// every particle stays within the configured radius of the center.
func TestParticlesStayInsideVortex(t *testing.T) {
	cfg := testConfig()
	v := New(cfg)

	cx, cy := cfg.Width/2, cfg.Height/2
	for i := 0; i < 600; i++ {
		v.Advance(1.0 / 60)
	}

	snap := v.Snapshot()
	if len(snap.Particles) != cfg.ParticleCount {
		t.Fatalf("expected %d particles, got %d", cfg.ParticleCount, len(snap.Particles))
	}
	for i, p := range snap.Particles {
		d := math.Hypot(p.X-cx, p.Y-cy)
		if d > cfg.MaxRadius+1e-6 {
			t.Errorf("particle %d escaped the vortex: r=%v", i, d)
		}
		if p.Life < 0 || p.Life > 1 {
			t.Errorf("particle %d life fraction out of range: %v", i, p.Life)
		}
	}
}

// TestPulseZeroGuard verifies a zero-direction pulse leaves the impulse
// untouched.
func TestPulseZeroGuard(t *testing.T) {
	v := New(testConfig())

	v.Pulse(0, 0)
	v.Pulse(1e-12, -1e-12)
	if v.impulseStrength != 0 {
		t.Errorf("zero pulse set impulse strength %v", v.impulseStrength)
	}

	v.Pulse(3, 4)
	if v.impulseStrength == 0 {
		t.Error("real pulse should set impulse strength")
	}
	if got := math.Hypot(v.impulseX, v.impulseY); math.Abs(got-1) > 1e-9 {
		t.Errorf("pulse direction not normalized: %v", got)
	}
}

// TestImpulseDecays verifies a pulse fades out over time.
func TestImpulseDecays(t *testing.T) {
	v := New(testConfig())
	v.Pulse(1, 0)
	before := v.impulseStrength

	for i := 0; i < 120; i++ {
		v.Advance(1.0 / 60)
	}

	if v.impulseStrength >= before*0.1 {
		t.Errorf("impulse barely decayed: %v -> %v", before, v.impulseStrength)
	}
}

// TestSameSeedSameField verifies two visualizers with the same seed
// evolve identically.
func TestSameSeedSameField(t *testing.T) {
	a := New(testConfig())
	b := New(testConfig())

	for i := 0; i < 60; i++ {
		a.Advance(1.0 / 60)
		b.Advance(1.0 / 60)
	}

	sa, sb := a.Snapshot(), b.Snapshot()
	for i := range sa.Grid {
		if sa.Grid[i] != sb.Grid[i] {
			t.Fatalf("grids diverged at cell %d: %v vs %v", i, sa.Grid[i], sb.Grid[i])
		}
	}
	for i := range sa.Particles {
		if sa.Particles[i] != sb.Particles[i] {
			t.Fatalf("particles diverged at %d: %+v vs %+v", i, sa.Particles[i], sb.Particles[i])
		}
	}
}

// TestAdvanceGuards verifies non-positive dt does not move the clock.
func TestAdvanceGuards(t *testing.T) {
	v := New(testConfig())
	v.Advance(0)
	v.Advance(-1)
	if v.Snapshot().Time != 0 {
		t.Errorf("clock moved on non-positive dt: %v", v.Snapshot().Time)
	}
}

// TestZeroConfigFallsBack verifies a zero-value config picks up every
// default.
func TestZeroConfigFallsBack(t *testing.T) {
	got := Config{}.normalized()
	want := DefaultConfig()
	if got != want {
		t.Errorf("normalized zero config: got %+v, want %+v", got, want)
	}
}
