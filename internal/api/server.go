package api

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Server is the HTTP API server with WebSocket support.
// It combines the HTTP router with the WebSocket hub for real-time
// snapshot and event delivery.
type Server struct {
	engine      EngineInterface
	field       FieldInterface
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter
}

// NewServer creates a new API server with default production
// configuration.
//
// IMPORTANT: Background workers do NOT start until Start() is called.
// This enables testing by allowing the server to be constructed without
// starting goroutines or opening network listeners.
//
// For testing HTTP endpoints without WebSocket support, use NewRouter()
// directly.
func NewServer(engine EngineInterface, viz FieldInterface, scores ScoreStore) *Server {
	s := &Server{
		engine: engine,
		field:  viz,
		wsHub:  NewWebSocketHub(),
	}

	s.rateLimiter = NewIPRateLimiter(DefaultRateLimitConfig)

	s.router = NewRouter(RouterConfig{
		Engine:      engine,
		Field:       viz,
		Scores:      scores,
		RateLimiter: s.rateLimiter,
	})

	// WebSocket route needs the hub instance, so it can't be part of
	// the pure NewRouter factory.
	s.router.Get("/ws", s.handleWS)

	return s
}

// Hub returns the WebSocket hub, for wiring event subscriptions.
func (s *Server) Hub() *WebSocketHub {
	return s.wsHub
}

// Start begins the HTTP server AND starts background workers.
// This is the ONLY method that starts goroutines or opens network
// listeners. Call it once; to stop the server, signal the process.
func (s *Server) Start(addr string) error {
	go s.wsHub.Run()
	s.wsHub.StartBroadcastLoop(s.engine, s.field)

	log.Printf("🌐 API server starting on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// Router returns the HTTP handler for use with httptest.
// Use this in integration tests instead of calling Start().
func (s *Server) Router() http.Handler {
	return s.router
}

// Stop performs graceful shutdown of background workers.
func (s *Server) Stop() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	s.wsHub.HandleWebSocket(w, r)
}
