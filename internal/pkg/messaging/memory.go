package messaging

import (
	"context"
	"io"
	"strconv"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// Memory is an in-process broker. Every Consume call on a topic is its own
// subscriber and receives every message published after it subscribed. A
// Nack redelivers the message to the same subscriber once more.
type Memory struct {
	mu     sync.RWMutex
	subs   map[string][]chan *delivery
	closed bool
	seq    atomic.Uint64
}

func NewMemory() *Memory {
	return &Memory{subs: map[string][]chan *delivery{}}
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *Memory) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if destination == "" {
		return PublishResult{}, ErrDestinationRequired
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return PublishResult{}, io.ErrClosedPipe
	}

	id := strconv.FormatUint(m.seq.Inc(), 10)
	now := time.Now()

	for _, ch := range m.subs[destination] {
		headers := make(map[string]string, len(msg.Headers))
		for k, v := range msg.Headers {
			headers[k] = v
		}

		select {
		case ch <- &delivery{body: msg.Body, headers: headers, id: id, source: destination, timestamp: now}:
		case <-ctx.Done():
			return PublishResult{}, ctx.Err()
		}
	}

	return PublishResult{MessageID: id, Topic: destination, Timestamp: now}, nil
}

func (m *Memory) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	if source == "" {
		return ErrDestinationRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}

	co := newConsumeOptions(opts...)
	ch := make(chan *delivery, 64)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return io.ErrClosedPipe
	}
	m.subs[source] = append(m.subs[source], ch)
	m.mu.Unlock()

	defer m.unsubscribe(source, ch)

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case d := <-ch:
					if d.attempt == 0 {
						d.nack = func(context.Context) error {
							retry := &delivery{body: d.body, headers: d.headers, id: d.id, source: d.source, timestamp: d.timestamp, attempt: d.attempt + 1}
							select {
							case ch <- retry:
							default:
							}
							return nil
						}
					}
					//nolint:errcheck // handler errors are logged by the handler
					dispatch(ctx, "memory", d, handler, co.autoAck)
				}
			}
		})
	}

	wg.Wait()
	return ctx.Err()
}

func (m *Memory) unsubscribe(source string, ch chan *delivery) {
	m.mu.Lock()
	defer m.mu.Unlock()

	subs := m.subs[source]
	for i, c := range subs {
		if c == ch {
			m.subs[source] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}
