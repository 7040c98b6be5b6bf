package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/1toe/zen-zen/internal/sim"
	"github.com/1toe/zen-zen/internal/store"
)

// Handler methods for routerHandlers.
// These are used by both the standalone router (for testing) and the
// full Server.

func (h *routerHandlers) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.Snapshot())
}

func (h *routerHandlers) handleGetField(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.field.Snapshot())
}

func (h *routerHandlers) handleGetScore(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"score":   h.engine.Score(),
		"harmony": h.engine.HarmonyLevel(),
		"phase":   h.engine.Phase().String(),
	})
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats := h.engine.Stats()
	if h.limiter != nil {
		stats["rate_limiter"] = h.limiter.Stats()
	}
	writeJSON(w, stats)
}

func (h *routerHandlers) handleGetScores(w http.ResponseWriter, r *http.Request) {
	if h.scores == nil {
		writeJSON(w, []store.Score{})
		return
	}
	n := 10
	if q := r.URL.Query().Get("limit"); q != "" {
		if v, err := strconv.Atoi(q); err == nil && v > 0 && v <= 100 {
			n = v
		}
	}
	scores, err := h.scores.TopScores(n)
	if err != nil {
		writeError(w, "failed to load scores", http.StatusInternalServerError)
		return
	}
	writeJSON(w, scores)
}

// Lifecycle commands. Invalid command/phase pairs are no-ops inside the
// engine, so the response always reports the resulting phase rather
// than an error.

func (h *routerHandlers) handleGameStart(w http.ResponseWriter, r *http.Request) {
	var overrides *sim.Config
	if r.ContentLength > 0 {
		var cfg sim.Config
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			writeError(w, "invalid config overrides", http.StatusBadRequest)
			return
		}
		overrides = &cfg
	}
	h.engine.Start(overrides)
	writePhase(w, h.engine)
}

func (h *routerHandlers) handleGamePause(w http.ResponseWriter, r *http.Request) {
	h.engine.Pause()
	writePhase(w, h.engine)
}

func (h *routerHandlers) handleGameResume(w http.ResponseWriter, r *http.Request) {
	h.engine.Resume()
	writePhase(w, h.engine)
}

func (h *routerHandlers) handleGameEnd(w http.ResponseWriter, r *http.Request) {
	h.engine.End()
	writePhase(w, h.engine)
}

func (h *routerHandlers) handleGameReset(w http.ResponseWriter, r *http.Request) {
	h.engine.Reset()
	writePhase(w, h.engine)
}

func (h *routerHandlers) handleImpulse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.engine.ApplyImpulse(sim.Vec{X: req.X, Y: req.Y})
	// The vortex reacts only to impulses the engine accepted.
	if h.engine.Phase() == sim.PhasePlaying {
		h.field.Pulse(req.X, req.Y)
	}
	writePhase(w, h.engine)
}

func (h *routerHandlers) handleWave(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Energy string `json:"energy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.engine.GenerateWave(sim.ParseEnergyType(req.Energy))
	writePhase(w, h.engine)
}

// Helper functions (package-level for reuse)

func writePhase(w http.ResponseWriter, engine EngineInterface) {
	writeJSON(w, map[string]any{
		"ok":    true,
		"phase": engine.Phase().String(),
	})
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
