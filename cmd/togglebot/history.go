package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/udisondev/togglebot/internal/config"
	"github.com/udisondev/togglebot/internal/db"
	"github.com/udisondev/togglebot/internal/journal"
)

func newHistoryCmd(configPath *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent toggle transitions from the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			setupLogging(cfg.LogLevel)

			ctx := cmd.Context()
			database, err := db.New(ctx, cfg.Database.DSN())
			if err != nil {
				return err
			}
			defer database.Close()

			trs, err := db.NewTransitionRepository(database.Pool()).Recent(ctx, limit)
			if err != nil {
				return err
			}
			printHistory(cmd.OutOrStdout(), trs, time.Now())
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of transitions to show")
	return cmd
}

func printHistory(w io.Writer, trs []journal.Transition, now time.Time) {
	if len(trs) == 0 {
		fmt.Fprintln(w, "no transitions recorded")
		return
	}
	for _, tr := range trs {
		fmt.Fprintf(w, "%-14s %-8s %-10s hp=%-6g threshold=%-6g session=%s\n",
			humanize.RelTime(tr.At, now, "ago", "from now"),
			tr.Script,
			tr.Action,
			tr.Metric,
			tr.Threshold,
			tr.SessionID)
	}
}
