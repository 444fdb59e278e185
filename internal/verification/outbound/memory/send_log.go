package memory

import (
	"context"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/otcgate/internal/verification/entity"
)

// SendLog is a process-local send history.
type SendLog struct {
	mu    sync.Mutex
	sends map[slotKey][]time.Time
}

func NewSendLog() *SendLog {
	return &SendLog{sends: make(map[slotKey][]time.Time)}
}

func (l *SendLog) Stats(_ context.Context, kind entity.Kind, subjectKey int64, since time.Time) (entity.SendStats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var stats entity.SendStats
	for _, at := range l.sends[slotKey{kind, subjectKey}] {
		if !at.After(since) {
			continue
		}
		if stats.Count == 0 || at.Before(stats.Oldest) {
			stats.Oldest = at
		}
		if stats.Count == 0 || at.After(stats.Latest) {
			stats.Latest = at
		}
		stats.Count++
	}
	return stats, nil
}

func (l *SendLog) Record(_ context.Context, kind entity.Kind, subjectKey int64, at time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := slotKey{kind, subjectKey}
	l.sends[key] = append(l.sends[key], at)
	return nil
}

func (l *SendLog) Prune(_ context.Context, before time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var n int64
	for key, times := range l.sends {
		kept := lo.Filter(times, func(at time.Time, _ int) bool { return at.After(before) })
		n += int64(len(times) - len(kept))
		if len(kept) == 0 {
			delete(l.sends, key)
			continue
		}
		l.sends[key] = kept
	}
	return n, nil
}
