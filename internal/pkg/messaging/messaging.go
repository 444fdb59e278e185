package messaging

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/atomic"
)

var (
	ErrDestinationRequired = errors.New("messaging: destination is required")
	ErrHandlerRequired     = errors.New("messaging: handler is required")
)

// Messaging publishes to and consumes from one broker.
type Messaging interface {
	io.Closer
	Publisher
	Consumer
}

type Publisher interface {
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// Consumer blocks in Consume until ctx is canceled or the subscription fails.
type Consumer interface {
	Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes one delivery. With auto-ack enabled a nil error acks and
// a non-nil error nacks, unless the handler already responded.
type Handler func(ctx context.Context, msg Message) error

// OutgoingMessage is a broker-agnostic message. Headers map to NATS headers,
// Kafka headers and Pub/Sub attributes; NSQ has no header support.
type OutgoingMessage struct {
	Body        []byte
	Key         []byte
	Headers     map[string]string
	OrderingKey string
}

type PublishResult struct {
	MessageID string
	Topic     string
	Timestamp time.Time
}

// Message is a received delivery.
type Message interface {
	Body() []byte
	Header(key string) string
	ID() string
	Source() string
	Timestamp() time.Time
	Ack(ctx context.Context) error
	Nack(ctx context.Context) error
}

// delivery adapts a broker message to Message. Only the first Ack or Nack
// reaches the broker.
type delivery struct {
	body      []byte
	headers   map[string]string
	id        string
	source    string
	timestamp time.Time
	ack       func(ctx context.Context) error
	nack      func(ctx context.Context) error
	responded atomic.Bool
	attempt   int
}

func (d *delivery) Body() []byte             { return d.body }
func (d *delivery) Header(key string) string { return d.headers[key] }
func (d *delivery) ID() string               { return d.id }
func (d *delivery) Source() string           { return d.source }
func (d *delivery) Timestamp() time.Time     { return d.timestamp }

func (d *delivery) Ack(ctx context.Context) error {
	if !d.responded.CompareAndSwap(false, true) || d.ack == nil {
		return nil
	}
	return d.ack(ctx)
}

func (d *delivery) Nack(ctx context.Context) error {
	if !d.responded.CompareAndSwap(false, true) || d.nack == nil {
		return nil
	}
	return d.nack(ctx)
}

// dispatch runs handler with panic recovery and applies auto-ack.
func dispatch(ctx context.Context, kind string, d *delivery, handler Handler, autoAck bool) error {
	herr := callHandlerWithRecover(ctx, kind, func() error {
		return handler(ctx, d)
	})

	if !autoAck || d.responded.Load() {
		return herr
	}
	if herr != nil {
		return errors.Join(herr, d.Nack(ctx))
	}
	return d.Ack(ctx)
}
