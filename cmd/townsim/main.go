// Command townsim runs the procedural town social simulation.
package main

import (
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/talgya/townlife/internal/ecs"
	"github.com/talgya/townlife/internal/persistence"
	"github.com/talgya/townlife/internal/relationship"
	"github.com/talgya/townlife/internal/sim"
	"github.com/talgya/townlife/internal/town"
	"github.com/talgya/townlife/internal/traits"
)

func main() {
	cfg, err := sim.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	simulation := sim.New(cfg)
	slog.Info("townlife simulation",
		"town", cfg.TownName,
		"seed", simulation.Seed(),
		"months", cfg.Months)

	// ── Database ──────────────────────────────────────────────────────
	var db *persistence.DB
	var runID string
	if cfg.DBPath != "" {
		db, err = persistence.Open(cfg.DBPath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		runID, err = db.CreateRun(simulation.Seed(), cfg.TownName)
		if err != nil {
			slog.Error("failed to register run", "error", err)
			os.Exit(1)
		}
		slog.Info("database opened", "path", cfg.DBPath, "run", runID)
	}

	// Buffer every dispatched event; flushed to the database per step.
	var pending []ecs.Event
	collect := func(w *ecs.World, event ecs.Event) {
		pending = append(pending, event)
	}
	events := simulation.World().Events()
	for _, kind := range []string{
		sim.EventSocialized,
		sim.EventMonthElapsed,
		traits.EventTraitAdded,
		traits.EventTraitRemoved,
		relationship.EventRelationshipCreated,
	} {
		events.Subscribe(kind, collect)
	}

	// ── Run ───────────────────────────────────────────────────────────
	completed := 0
	for month := 0; month < cfg.Months; month++ {
		if err := simulation.Step(); err != nil {
			slog.Error("step failed", "month", month+1, "error", err)
			break
		}
		completed++

		if db != nil {
			if err := db.SaveEvents(runID, pending); err != nil {
				slog.Error("failed to save events", "error", err)
				os.Exit(1)
			}
		}
		pending = pending[:0]
	}

	// ── Summary ───────────────────────────────────────────────────────
	characters := town.Characters(simulation.World())
	if db != nil {
		if err := db.SaveCharacters(runID, characters); err != nil {
			slog.Error("failed to save characters", "error", err)
			os.Exit(1)
		}
		if err := db.FinishRun(runID, completed); err != nil {
			slog.Error("failed to finalize run", "error", err)
			os.Exit(1)
		}

		count, err := db.EventCount(runID)
		if err == nil {
			slog.Info("run complete",
				"months", completed,
				"characters", len(characters),
				"events", humanize.Comma(int64(count)))
			return
		}
	}
	slog.Info("run complete", "months", completed, "characters", len(characters))
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
