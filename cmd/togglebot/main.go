package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const DefaultConfigPath = "config/togglebot.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	configPath := DefaultConfigPath
	if p := os.Getenv("TOGGLEBOT_CONFIG"); p != "" {
		configPath = p
	}

	root := &cobra.Command{
		Use:   "togglebot",
		Short: "Event-driven automation scripts for a game client host.",
		Long: `togglebot runs threshold toggles, overlays, hotkeys and an order humanizer ` +
			`against a host feed. The bundled host is an in-memory simulation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", configPath, "path to YAML config")

	root.AddCommand(
		newRunCmd(&configPath),
		newReplayCmd(),
		newHistoryCmd(&configPath),
	)
	return root
}

// setupLogging configures slog based on config log level.
func setupLogging(level string) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	})))
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
