package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/1toe/zen-zen/internal/api"
	"github.com/1toe/zen-zen/internal/config"
	"github.com/1toe/zen-zen/internal/sim"
	"github.com/1toe/zen-zen/internal/sim/field"
	"github.com/1toe/zen-zen/internal/store"
)

var flagPort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the engine with the HTTP/WebSocket API",
	Long: `Run the simulation engine and serve snapshots, commands and the
event stream over HTTP and WebSocket.

The session starts in the menu phase; POST /api/game/start begins play.
A localhost-only debug server exposes /metrics and pprof.

Examples:
  zen serve
  zen serve --port 8080
  EVENT_LOG=events.ndjson zen serve`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&flagPort, "port", 0, "HTTP port (overrides config)")
}

func runServe(_ *cobra.Command, _ []string) error {
	// .env is optional; absence is not an error.
	_ = godotenv.Load()

	logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		Prefix:          "zen",
	})

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagPort > 0 {
		cfg.Server.Port = flagPort
	}
	if flagSeed != 0 {
		cfg.Sim.Seed = flagSeed
	}

	engine := sim.NewEngine(cfg.Sim)
	viz := field.New(cfg.Field)

	if cfg.Server.EventLog != "" {
		el := sim.NewEventLog()
		if err := el.Start(cfg.Server.EventLog); err != nil {
			return fmt.Errorf("failed to open event log: %w", err)
		}
		defer el.Stop()
		engine.AttachEventLog(el)
		logger.Info("event log enabled", "path", cfg.Server.EventLog)
	}

	var st *store.Store
	if cfg.Store.Path != "" {
		st, err = store.Open(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer st.Close()
		logger.Info("store opened", "path", cfg.Store.Path)
	}

	server := api.NewServer(engine, viz, st)
	defer server.Stop()

	wireEvents(engine, server.Hub(), st, logger)

	// Headless engines have no assets to load.
	engine.Ready()

	go tickLoop(engine, viz, cfg.Server.TickRate)

	if err := api.StartDebugServer(api.ObservabilityConfig{
		Enabled:    true,
		ListenAddr: fmt.Sprintf("127.0.0.1:%d", cfg.Server.DebugPort),
	}); err != nil {
		return err
	}

	logger.Info("serving", "port", cfg.Server.Port, "tick_rate", cfg.Server.TickRate)
	return server.Start(fmt.Sprintf(":%d", cfg.Server.Port))
}

// wireEvents fans engine events out to the WebSocket hub, prometheus
// and the score store. The engine itself stays decoupled from all
// three.
func wireEvents(engine *sim.Engine, hub *api.WebSocketHub, st *store.Store, logger *charmlog.Logger) {
	var sessionStart time.Time

	engine.Subscribe(func(ev sim.Event) {
		api.RecordEvent(ev.TypeName)
		hub.Broadcast("sim:event", ev)

		switch ev.Type {
		case sim.EventGameStarted:
			sessionStart = time.Now()
		case sim.EventGameEnded:
			if st == nil {
				return
			}
			started := sessionStart
			if started.IsZero() {
				started = time.Now()
			}
			var ended sim.EndedPayload
			_ = json.Unmarshal(ev.Payload, &ended)
			sc := store.Score{
				StartedAt: started.Unix(),
				EndedAt:   time.Now().Unix(),
				Score:     ended.Score,
				Harmony:   ended.Harmony,
				Patterns:  ended.Patterns,
				Reason:    ended.Reason,
			}
			if id, err := st.SaveScore(sc); err != nil {
				logger.Error("failed to persist score", "err", err)
			} else {
				logger.Info("score persisted", "id", id, "score", sc.Score)
			}
		}
	})
}

// tickLoop drives the engine and visualizer at the configured rate.
func tickLoop(engine *sim.Engine, viz *field.Visualizer, tickRate int) {
	if tickRate <= 0 {
		tickRate = 30
	}
	interval := time.Second / time.Duration(tickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for now := range ticker.C {
		dt := now.Sub(last).Seconds()
		last = now

		tickStart := time.Now()
		engine.Tick(dt)
		viz.Advance(dt)
		api.RecordTick(time.Since(tickStart))

		api.UpdateSessionGauges(engine.Score(), engine.HarmonyLevel())
		snap := engine.Snapshot()
		api.UpdateEntityCount("dissonance", len(snap.Dissonances))
		api.UpdateEntityCount("amplifier", len(snap.Amplifiers))
		api.UpdateEntityCount("wave", len(snap.Waves))
		api.UpdateEntityCount("connection", len(snap.Connections))
		api.UpdateEntityCount("pattern", len(snap.Patterns))
		api.UpdateEntityCount("resonator", len(snap.Resonators))
	}
}
