// Package main is the entry point for the excusegen application.
// excusegen logs a randomly assembled excuse on every tick, never repeating
// a phrase until each list has been used up.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/randomizedcoder/norepeat/internal/config"
	"github.com/randomizedcoder/norepeat/internal/health"
	"github.com/randomizedcoder/norepeat/internal/loop"
	"github.com/randomizedcoder/norepeat/internal/wordlist"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(cfg.Level())
	logger, err := zcfg.Build()
	if err != nil {
		// Fallback to stderr if logger creation fails
		os.Stderr.WriteString("failed to create logger: " + err.Error() + "\n")
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return 1
	}

	logger.Info("excusegen starting",
		zap.String("version", version),
		zap.Duration("sleep_duration", cfg.SleepDuration),
		zap.Int("health_port", cfg.HealthPort),
		zap.Int("reset_threshold", cfg.ResetThreshold),
		zap.String("wordlist", cfg.WordlistPath),
	)

	words := wordlist.Default()
	if cfg.WordlistPath != "" {
		if words, err = wordlist.Load(cfg.WordlistPath); err != nil {
			logger.Error("load word list", zap.String("path", cfg.WordlistPath), zap.Error(err))
			return 1
		}
	}

	looper, err := loop.New(cfg, words, logger)
	if err != nil {
		logger.Error("create loop", zap.Error(err))
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	healthServer := health.NewServer(cfg.HealthPort, logger)
	healthServer.SetStats(func() any { return looper.Stats() })
	go func() {
		if err := healthServer.Start(ctx); err != nil {
			logger.Error("health server failed", zap.Error(err))
			cancel()
		}
	}()

	go looper.Run(ctx)

	select {
	case <-healthServer.Listening():
		healthServer.SetReady(true)
	case <-ctx.Done():
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	if sig := waitForShutdown(ctx, sigChan, looper, logger); sig != nil {
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	}

	cancel()

	if err := healthServer.Shutdown(context.Background()); err != nil {
		logger.Error("health server shutdown failed", zap.Error(err))
	}

	logger.Info("excusegen stopped", zap.Uint64("total_excuses", looper.Count()))
	return 0
}

type resetter interface {
	Reset()
}

// waitForShutdown resets r on every SIGHUP and returns the first other
// signal, or nil once ctx is done.
func waitForShutdown(ctx context.Context, sigs <-chan os.Signal, r resetter, logger *zap.Logger) os.Signal {
	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-sigs:
			if sig != syscall.SIGHUP {
				return sig
			}
			logger.Info("resetting word pools", zap.String("signal", sig.String()))
			r.Reset()
		}
	}
}
