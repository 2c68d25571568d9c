package main

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

type countingResetter struct {
	resets int
}

func (c *countingResetter) Reset() {
	c.resets++
}

func TestWaitForShutdown_HangupResets(t *testing.T) {
	logger := zaptest.NewLogger(t)
	sigs := make(chan os.Signal, 3)
	sigs <- syscall.SIGHUP
	sigs <- syscall.SIGHUP
	sigs <- syscall.SIGTERM

	r := &countingResetter{}
	sig := waitForShutdown(context.Background(), sigs, r, logger)

	if sig != syscall.SIGTERM {
		t.Errorf("waitForShutdown() = %v, want %v", sig, syscall.SIGTERM)
	}
	if r.resets != 2 {
		t.Errorf("resets = %d, want 2", r.resets)
	}
}

func TestWaitForShutdown_ContextDone(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan os.Signal, 1)
	go func() {
		done <- waitForShutdown(ctx, make(chan os.Signal), &countingResetter{}, logger)
	}()

	select {
	case sig := <-done:
		if sig != nil {
			t.Errorf("waitForShutdown() = %v, want nil", sig)
		}
	case <-time.After(time.Second):
		t.Error("waitForShutdown() did not return after context cancellation")
	}
}
