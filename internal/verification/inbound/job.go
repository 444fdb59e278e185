package inbound

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/otcgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/otcgate/internal/verification/usecase"
)

type ucSweeper interface {
	SweepAttempts(ctx context.Context) (*usecase.SweepAttemptsOutput, error)
}

// RegisterSweeper runs SweepAttempts every interval until ctx is canceled.
// A non-positive interval disables the job.
func RegisterSweeper(ctx context.Context, routine *goroutine.Manager, uc ucSweeper, interval time.Duration) {
	if interval <= 0 {
		slog.InfoContext(ctx, "verification sweeper disabled")
		return
	}

	routine.Go(ctx, "verification.sweeper", func(ctx context.Context) error {
		slog.InfoContext(ctx, "Running job for sweeping verification attempts", "interval", interval.String())
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		return runSweeper(ctx, uc, ticker.C)
	})
}

func runSweeper(ctx context.Context, uc ucSweeper, tick <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
			// errors are already logged by the usecase
			_, _ = uc.SweepAttempts(ctx)
		}
	}
}
