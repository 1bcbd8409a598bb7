package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/togglebot/internal/config"
	"github.com/udisondev/togglebot/internal/db"
	"github.com/udisondev/togglebot/internal/engine"
	"github.com/udisondev/togglebot/internal/journal"
)

func newRunCmd(configPath *string) *cobra.Command {
	var ticks int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scripts against the simulated host",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if ticks > 0 {
				cfg.Sim.SessionTicks = ticks
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().IntVar(&ticks, "ticks", 0, "end the session after N ticks (0 = until signal)")
	return cmd
}

func run(ctx context.Context, cfg config.Config) error {
	setupLogging(cfg.LogLevel)
	slog.Info("togglebot starting",
		"log_level", cfg.LogLevel,
		"tick_interval", cfg.TickInterval,
		"database", cfg.Database.Enabled)

	var (
		recorder journal.Recorder
		sessions engine.SessionStore
		memory   *journal.Memory
	)
	if cfg.Database.Enabled {
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		version, err := db.RunMigrations(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied", "version", version)

		recorder = db.NewTransitionRepository(database.Pool())
		sessions = db.NewSessionRepository(database.Pool())
	} else {
		memory = journal.NewMemory()
		recorder = memory
	}

	a, err := buildApp(cfg, recorder, sessions)
	if err != nil {
		return fmt.Errorf("wiring scripts: %w", err)
	}
	for _, s := range a.scripts {
		slog.Info("script loaded", "script", s.Name())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := a.engine.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("engine: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	logSummary(a, memory)
	return nil
}

func logSummary(a *app, memory *journal.Memory) {
	attrs := []any{}
	if memory != nil {
		attrs = append(attrs, "transitions", len(memory.Transitions()))
	}
	if a.guard != nil {
		allowed, vetoed := a.guard.Stats()
		attrs = append(attrs, "orders_allowed", allowed, "orders_vetoed", vetoed)
	}
	d := a.sim.Draws()
	attrs = append(attrs, "draw_calls", d.FilledRects+d.OutlinedRects+d.Circles)
	slog.Info("togglebot stopped", attrs...)
}
