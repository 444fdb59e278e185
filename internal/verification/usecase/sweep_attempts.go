package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/otcgate/internal/pkg/goerror"
)

type SweepAttemptsOutput struct {
	Attempts    int64
	SendRecords int64
}

// SweepAttempts removes abandoned signups and send records that fell out of
// the daily window.
func (s *Usecase) SweepAttempts(ctx context.Context) (*SweepAttemptsOutput, error) {
	ctx, span := s.startSpan(ctx, "SweepAttempts")
	defer span.End()

	now := s.clock.Now()

	attempts, err := s.repoAttempt.DeleteStaleAttempts(ctx, now.Add(-s.policy.AttemptTTL))
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete stale attempts", "error", err)
		return nil, goerror.NewServer(err)
	}

	records, err := s.limiter.Prune(ctx, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to prune send log", "error", err)
		return nil, goerror.NewServer(err)
	}

	if attempts > 0 || records > 0 {
		slog.InfoContext(ctx, "verification sweep finished", "attempts", attempts, "send_records", records)
	}

	return &SweepAttemptsOutput{Attempts: attempts, SendRecords: records}, nil
}
