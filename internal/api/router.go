package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/1toe/zen-zen/internal/sim"
	"github.com/1toe/zen-zen/internal/sim/field"
	"github.com/1toe/zen-zen/internal/store"
)

// EngineInterface defines the simulation engine methods used by the
// API. This interface enables mocking for tests without spinning up
// the full tick loop. Keep this minimal - only include methods the API
// layer actually calls.
type EngineInterface interface {
	Snapshot() *sim.Snapshot
	Phase() sim.Phase
	Score() float64
	FPS() float64
	HarmonyLevel() int
	Stats() map[string]any

	Start(overrides *sim.Config)
	Pause()
	Resume()
	End()
	Reset()
	ApplyImpulse(dir sim.Vec)
	GenerateWave(energy sim.EnergyType)
}

// FieldInterface exposes the visualizer to the API. Pulse lets the
// impulse route feed player input into the vortex.
type FieldInterface interface {
	Snapshot() field.Snapshot
	Pulse(dx, dy float64)
}

// ScoreStore exposes persisted high scores. May be nil when the store
// is disabled; the route then returns an empty list.
type ScoreStore interface {
	TopScores(n int) ([]store.Score, error)
}

// RouterConfig contains all dependencies needed to construct the HTTP
// router. Designed for dependency injection and testability.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    Engine: engine,
//	    Field:  viz,
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000,
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Engine is the simulation engine (required).
	Engine EngineInterface

	// Field is the interference-field visualizer (required).
	Field FieldInterface

	// Scores is the optional persisted score source.
	Scores ScoreStore

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is optional configuration for the rate limiter.
	// Only used if RateLimiter is nil. If both are nil, uses
	// DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional list of allowed CORS origins.
	// If nil, uses the default local development origins.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful
	// for benchmarks).
	DisableLogging bool
}

// routerHandlers holds the handler dependencies.
type routerHandlers struct {
	engine  EngineInterface
	field   FieldInterface
	scores  ScoreStore
	limiter *IPRateLimiter
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// IMPORTANT: This function is PURE - it has no side effects:
//   - No goroutines are started
//   - No network listeners are opened
//   - No background workers are launched
//
// This makes it safe to use in tests with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware - Order matters!
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	// Rate limiting (BEFORE CORS to reject early and save CPU)
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	h := &routerHandlers{
		engine:  cfg.Engine,
		field:   cfg.Field,
		scores:  cfg.Scores,
		limiter: rateLimiter,
	}

	r.Route("/api", func(r chi.Router) {
		// Read side
		r.Get("/snapshot", h.handleGetSnapshot)
		r.Get("/field", h.handleGetField)
		r.Get("/score", h.handleGetScore)
		r.Get("/stats", h.handleGetStats)
		r.Get("/scores", h.handleGetScores)

		// Lifecycle commands
		r.Post("/game/start", h.handleGameStart)
		r.Post("/game/pause", h.handleGamePause)
		r.Post("/game/resume", h.handleGameResume)
		r.Post("/game/end", h.handleGameEnd)
		r.Post("/game/reset", h.handleGameReset)

		// Core commands
		r.Post("/core/impulse", h.handleImpulse)
		r.Post("/core/wave", h.handleWave)
	})

	return r
}
