// Command hiddencity is the entry point for the hidden-city fare engine. It
// loads configuration, applies command-line overrides, wires dependencies,
// and runs the configured mode until completion or shutdown signal.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jclinedev/hiddencity/internal/app"
	"github.com/jclinedev/hiddencity/internal/config"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to configuration file")
	from := flag.String("from", "", "override origin airport code")
	to := flag.String("to", "", "override destination airport code")
	date := flag.String("date", "", "override travel date (MM/DD/YYYY)")
	mode := flag.String("mode", "", "override mode (scan, watch, serve)")
	flag.Parse()

	// Logs go to stderr so scan-mode output on stdout stays clean.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config",
			slog.String("path", *configPath),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	if *from != "" {
		cfg.Search.LeavingFrom = *from
	}
	if *to != "" {
		cfg.Search.GoingTo = *to
	}
	if *date != "" {
		cfg.Search.Date = *date
	}
	if *mode != "" {
		cfg.Mode = *mode
	}

	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("hidden-city engine starting",
		slog.String("mode", cfg.Mode),
		slog.String("config", *configPath),
		slog.String("route", cfg.Search.LeavingFrom+"-"+cfg.Search.GoingTo),
	)

	application := app.New(cfg, logger)
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		// context.Canceled is expected on clean shutdown.
		if err == context.Canceled {
			logger.Info("shut down gracefully")
		} else {
			logger.Error("exited with error",
				slog.String("error", err.Error()),
			)
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			os.Exit(1)
		}
	}

	logger.Info("stopped")
}
