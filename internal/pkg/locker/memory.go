package locker

import (
	"context"
	"sync"
	"time"
)

type lease struct {
	token     uint64
	expiresAt time.Time
}

// Memory is a process-local Locker for single instance deployments and tests.
type Memory struct {
	mu     sync.Mutex
	leases map[string]lease
	seq    uint64
	now    func() time.Time
}

func NewMemory() *Memory {
	return &Memory{leases: make(map[string]lease), now: time.Now}
}

func (m *Memory) Acquire(_ context.Context, key string, ttl time.Duration) (Release, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if cur, held := m.leases[key]; held && now.Before(cur.expiresAt) {
		return nil, ErrLocked
	}

	m.seq++
	token := m.seq
	m.leases[key] = lease{token: token, expiresAt: now.Add(ttl)}

	return func(context.Context) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		if cur, held := m.leases[key]; held && cur.token == token {
			delete(m.leases, key)
		}
		return nil
	}, nil
}
