package inbound

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/otcgate/internal/verification/usecase"
)

type countingSweeper struct {
	calls chan struct{}
	err   error
}

func (c *countingSweeper) SweepAttempts(context.Context) (*usecase.SweepAttemptsOutput, error) {
	c.calls <- struct{}{}
	if c.err != nil {
		return nil, c.err
	}
	return &usecase.SweepAttemptsOutput{}, nil
}

func TestRunSweeper(t *testing.T) {
	// Arrange
	ctx, cancel := context.WithCancel(context.Background())
	tick := make(chan time.Time)
	sw := &countingSweeper{calls: make(chan struct{}, 4), err: errors.New("db down")}
	done := make(chan error, 1)

	// Act
	go func() { done <- runSweeper(ctx, sw, tick) }()
	tick <- time.Now()
	tick <- time.Now()
	cancel()

	// Assert
	if err := <-done; err != nil {
		t.Fatalf("runSweeper returned %v", err)
	}
	if got := len(sw.calls); got != 2 {
		t.Fatalf("sweep calls = %d, want 2", got)
	}
}
