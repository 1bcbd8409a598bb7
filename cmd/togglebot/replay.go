package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/udisondev/togglebot/internal/toggle"
)

func newReplayCmd() *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "replay METRIC...",
		Short: "Feed a metric sequence through a toggle controller and print the actions",
		Long: `Each argument is a metric sample or the word "reset". Samples may also be ` +
			`comma separated: togglebot replay --threshold 500 600,500,499,501`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := parseSteps(args)
			if err != nil {
				return err
			}
			return replay(cmd.OutOrStdout(), threshold, steps)
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 500, "threshold compared against every sample")
	return cmd
}

// step is one replay input: a sample, or a reset when reset is true.
type step struct {
	metric float64
	reset  bool
}

func parseSteps(args []string) ([]step, error) {
	var steps []step
	for _, arg := range args {
		for _, tok := range strings.Split(arg, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			if strings.EqualFold(tok, "reset") {
				steps = append(steps, step{reset: true})
				continue
			}
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, fmt.Errorf("parsing sample %q: %w", tok, err)
			}
			steps = append(steps, step{metric: v})
		}
	}
	return steps, nil
}

func replay(w io.Writer, threshold float64, steps []step) error {
	ctrl := toggle.NewController()
	for _, s := range steps {
		if s.reset {
			ctrl.Reset()
			fmt.Fprintln(w, "reset")
			continue
		}
		action, err := ctrl.Evaluate(s.metric, threshold)
		if err != nil {
			return fmt.Errorf("evaluating %v: %w", s.metric, err)
		}
		fmt.Fprintf(w, "%g\t%s\n", s.metric, action)
	}
	return nil
}
