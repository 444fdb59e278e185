package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/otcgate/internal/verification/entity"
)

const (
	ReasonCooldown   = "cooldown"
	ReasonDailyLimit = "daily_limit"
)

// Decision is the outcome of Limiter.Check.
type Decision struct {
	Allowed    bool
	Reason     string
	RetryAfter time.Duration
	SentToday  int
}

// Limiter gates code sends with a cool-down and a rolling daily cap counted
// from the send log. Check never writes.
type Limiter struct {
	log         SendLog
	cooldown    time.Duration
	dailyWindow time.Duration
	dailyCap    int
}

func NewLimiter(log SendLog, p Policy) *Limiter {
	p = p.withDefaults()
	return &Limiter{
		log:         log,
		cooldown:    p.Cooldown,
		dailyWindow: p.DailyWindow,
		dailyCap:    p.DailyCap,
	}
}

func (l *Limiter) Check(ctx context.Context, kind entity.Kind, subjectKey int64, now time.Time) (Decision, error) {
	stats, err := l.log.Stats(ctx, kind, subjectKey, now.Add(-l.dailyWindow))
	if err != nil {
		return Decision{}, err
	}

	if stats.Count > 0 {
		if since := now.Sub(stats.Latest); since < l.cooldown {
			return Decision{
				Reason:     ReasonCooldown,
				RetryAfter: l.cooldown - since,
				SentToday:  stats.Count,
			}, nil
		}
	}

	if stats.Count >= l.dailyCap {
		return Decision{
			Reason:     ReasonDailyLimit,
			RetryAfter: stats.Oldest.Add(l.dailyWindow).Sub(now),
			SentToday:  stats.Count,
		}, nil
	}

	return Decision{Allowed: true, SentToday: stats.Count}, nil
}

func (l *Limiter) Record(ctx context.Context, kind entity.Kind, subjectKey int64, at time.Time) error {
	return l.log.Record(ctx, kind, subjectKey, at)
}

// Prune drops send records that can no longer affect a decision at now.
func (l *Limiter) Prune(ctx context.Context, now time.Time) (int64, error) {
	return l.log.Prune(ctx, now.Add(-l.dailyWindow))
}
