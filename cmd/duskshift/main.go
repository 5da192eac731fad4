package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/heliodor/duskshift/internal/adjust"
	"github.com/heliodor/duskshift/internal/backend"
	"github.com/heliodor/duskshift/internal/solar"
	"github.com/heliodor/duskshift/pkg/config"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Load configuration with hierarchy: defaults → file → env → flags
	cfg, err := config.Load(args)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "duskshift: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "duskshift: %v\n", err)
		return 1
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg),
	}))
	slog.SetDefault(logger)

	logger.Info("Starting duskshift",
		"latitude", cfg.Latitude,
		"longitude", cfg.Longitude,
		"day_temp", cfg.DayTemp,
		"night_temp", cfg.NightTemp,
		"one_shot", cfg.OneShot)

	adapter, err := backend.Open(cfg, logger)
	if err != nil {
		logger.Error("Display backend initialization failed", "error", err)
		return 1
	}

	if cfg.OneShot {
		return oneShot(cfg, adapter, logger)
	}

	scheduler := adjust.NewScheduler(adapter, cfg, logger)
	adjust.NotifySignals(&scheduler.Disable, &scheduler.Shutdown)

	if err := scheduler.Run(); err != nil {
		logger.Error("Continuous adjustment failed", "error", err)
		return 1
	}
	return 0
}

// oneShot computes and applies a single temperature, then exits. It
// bypasses the engine state machine entirely: no fades, no restore.
func oneShot(cfg *config.Config, adapter backend.Adapter, logger *slog.Logger) int {
	defer adapter.Free()

	now := time.Now()
	elevation := solar.Elevation(now, cfg.Latitude, cfg.Longitude)
	temp := adjust.CalculateTemp(elevation, cfg.DayTemp, cfg.NightTemp, cfg.Transitions)

	logger.Info("One-shot adjustment",
		"elevation", elevation,
		"period", adjust.Period(elevation),
		"kelvin", temp)

	if err := adapter.SetTemperature(temp, cfg.Gamma); err != nil {
		logger.Error("Temperature adjustment failed", "error", err)
		return 1
	}
	return 0
}

func logLevel(cfg *config.Config) slog.Level {
	if cfg.Verbose {
		return slog.LevelDebug
	}
	switch cfg.LogLevel {
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
