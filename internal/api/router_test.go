package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/1toe/zen-zen/internal/sim"
	"github.com/1toe/zen-zen/internal/sim/field"
)

// testRouter wires a real engine and visualizer behind the router with
// logging off and the rate limiter effectively disabled.
func testRouter(t *testing.T) (http.Handler, *sim.Engine) {
	t.Helper()

	cfg := sim.Default()
	cfg.Seed = 1
	engine := sim.NewEngine(cfg)
	engine.Ready()

	viz := field.New(field.Config{Seed: 1})

	router := NewRouter(RouterConfig{
		Engine:         engine,
		Field:          viz,
		DisableLogging: true,
		RateLimitConfig: &RateLimitConfig{
			RequestsPerSecond: 10000,
			Burst:             10000,
		},
	})
	return router, engine
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "127.0.0.1:5000"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// TestSnapshotEndpoint verifies GET /api/snapshot returns the engine
// state as JSON.
func TestSnapshotEndpoint(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/snapshot", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var snap sim.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Phase != "menu" {
		t.Errorf("expected menu phase, got %q", snap.Phase)
	}
}

// TestLifecycleEndpoints drives the session over HTTP.
func TestLifecycleEndpoints(t *testing.T) {
	router, engine := testRouter(t)

	for _, step := range []struct {
		path string
		want sim.Phase
	}{
		{"/api/game/start", sim.PhasePlaying},
		{"/api/game/pause", sim.PhasePaused},
		{"/api/game/resume", sim.PhasePlaying},
		{"/api/game/end", sim.PhaseGameOver},
		{"/api/game/reset", sim.PhaseMenu},
	} {
		rec := doJSON(t, router, http.MethodPost, step.path, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status %d", step.path, rec.Code)
		}
		var resp struct {
			OK    bool   `json:"ok"`
			Phase string `json:"phase"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: decode: %v", step.path, err)
		}
		if resp.Phase != step.want.String() {
			t.Errorf("%s: phase %q, want %q", step.path, resp.Phase, step.want)
		}
		if engine.Phase() != step.want {
			t.Errorf("%s: engine phase %s, want %s", step.path, engine.Phase(), step.want)
		}
	}
}

// TestStartWithOverrides verifies config overrides in the start body
// reach the engine.
func TestStartWithOverrides(t *testing.T) {
	router, engine := testRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/game/start", map[string]any{
		"victoryHarmony": 3,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if got := engine.Config().VictoryHarmony; got != 3 {
		t.Errorf("override lost: victory harmony %d", got)
	}
}

// TestImpulseAndWaveEndpoints verifies the core commands apply.
func TestImpulseAndWaveEndpoints(t *testing.T) {
	router, engine := testRouter(t)
	doJSON(t, router, http.MethodPost, "/api/game/start", nil)

	rec := doJSON(t, router, http.MethodPost, "/api/core/impulse", map[string]float64{"x": 1, "y": 0})
	if rec.Code != http.StatusOK {
		t.Fatalf("impulse status %d", rec.Code)
	}
	if v := engine.Snapshot().Core.Vel.X; v <= 0 {
		t.Errorf("impulse did not apply: vx=%v", v)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/core/wave", map[string]string{"energy": "vibrant"})
	if rec.Code != http.StatusOK {
		t.Fatalf("wave status %d", rec.Code)
	}
	if got := len(engine.Snapshot().Waves); got != 1 {
		t.Errorf("expected 1 wave, got %d", got)
	}
}

// pulsingField counts Pulse calls while delegating to the real
// visualizer.
type pulsingField struct {
	*field.Visualizer
	pulses int
}

func (p *pulsingField) Pulse(dx, dy float64) {
	p.pulses++
	p.Visualizer.Pulse(dx, dy)
}

// TestImpulseReachesVisualizer verifies an accepted impulse also feeds
// the vortex, and a rejected one does not.
func TestImpulseReachesVisualizer(t *testing.T) {
	cfg := sim.Default()
	cfg.Seed = 1
	engine := sim.NewEngine(cfg)
	engine.Ready()

	viz := &pulsingField{Visualizer: field.New(field.Config{Seed: 1})}
	router := NewRouter(RouterConfig{
		Engine:         engine,
		Field:          viz,
		DisableLogging: true,
		RateLimitConfig: &RateLimitConfig{
			RequestsPerSecond: 10000,
			Burst:             10000,
		},
	})

	// Menu phase: the engine ignores the impulse, so must the vortex.
	doJSON(t, router, http.MethodPost, "/api/core/impulse", map[string]float64{"x": 1, "y": 0})
	if viz.pulses != 0 {
		t.Fatalf("impulse in menu phase pulsed the vortex %d times", viz.pulses)
	}

	doJSON(t, router, http.MethodPost, "/api/game/start", nil)
	doJSON(t, router, http.MethodPost, "/api/core/impulse", map[string]float64{"x": 1, "y": 0})
	if viz.pulses != 1 {
		t.Errorf("expected 1 vortex pulse, got %d", viz.pulses)
	}

	doJSON(t, router, http.MethodPost, "/api/core/wave", map[string]string{"energy": "calm"})
	if viz.pulses != 1 {
		t.Errorf("wave should not pulse the vortex, got %d", viz.pulses)
	}
}

// TestMalformedBodiesRejected verifies bad JSON is a 400, not a crash.
func TestMalformedBodiesRejected(t *testing.T) {
	router, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/core/impulse", bytes.NewBufferString("{broken"))
	req.RemoteAddr = "127.0.0.1:5000"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("impulse: status %d, want 400", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/game/start", bytes.NewBufferString("{broken"))
	req.RemoteAddr = "127.0.0.1:5000"
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("start: status %d, want 400", rec.Code)
	}
}

// TestStatsEndpoint verifies engine counters and rate limiter counters
// are served together.
func TestStatsEndpoint(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var stats map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats["phase"] != "menu" {
		t.Errorf("expected menu phase, got %v", stats["phase"])
	}
	if _, ok := stats["rate_limiter"]; !ok {
		t.Error("rate limiter counters missing from stats")
	}
}

// TestScoresWithoutStore verifies the scores route degrades to an empty
// list when persistence is disabled.
func TestScoresWithoutStore(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/scores", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("expected empty list, got %q", body)
	}
}

// TestFieldEndpoint verifies the visualizer snapshot is served.
func TestFieldEndpoint(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/field", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var snap field.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snap.Grid) != snap.GridCols*snap.GridRows {
		t.Errorf("grid size mismatch: %d != %d x %d", len(snap.Grid), snap.GridCols, snap.GridRows)
	}
}
