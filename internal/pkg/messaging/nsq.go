package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	nsq "github.com/nsqio/go-nsq"
)

var (
	ErrNSQChannelRequired       = errors.New("messaging: nsq channel is required")
	ErrNSQProducerAddrRequired  = errors.New("messaging: nsq producer address is required")
	ErrNSQConsumerAddrsRequired = errors.New("messaging: nsq consumer nsqd/lookupd addresses are required")
)

type NSQConfig struct {
	ProducerAddr         string
	ConsumerNSQDAddrs    []string
	ConsumerLookupdAddrs []string

	// ProducerConfig and ConsumerConfig default to nsq.NewConfig() when nil.
	ProducerConfig *nsq.Config
	ConsumerConfig *nsq.Config
}

// NSQ publishes through one nsqd and consumes via lookupd (preferred) or a
// fixed nsqd list. Nack requeues with the client's default backoff.
type NSQ struct {
	cfg      NSQConfig
	producer *nsq.Producer

	mu        sync.Mutex
	consumers []*nsq.Consumer
	closed    bool
}

func NewNSQ(cfg NSQConfig) (*NSQ, error) {
	n := &NSQ{cfg: cfg}

	if cfg.ProducerAddr != "" {
		pcfg := cfg.ProducerConfig
		if pcfg == nil {
			pcfg = nsq.NewConfig()
		}
		p, err := nsq.NewProducer(cfg.ProducerAddr, pcfg)
		if err != nil {
			return nil, fmt.Errorf("messaging: nsq new producer: %w", err)
		}
		p.SetLoggerLevel(nsq.LogLevelError)
		n.producer = p
	}

	return n, nil
}

func (n *NSQ) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	consumers := n.consumers
	n.consumers = nil
	n.mu.Unlock()

	for _, c := range consumers {
		c.Stop()
		<-c.StopChan
	}
	if n.producer != nil {
		n.producer.Stop()
	}
	return nil
}

func (n *NSQ) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if destination == "" {
		return PublishResult{}, ErrDestinationRequired
	}
	if n.producer == nil {
		return PublishResult{}, ErrNSQProducerAddrRequired
	}

	if err := n.producer.Publish(destination, msg.Body); err != nil {
		return PublishResult{}, fmt.Errorf("messaging: nsq publish: %w", err)
	}

	return PublishResult{Topic: destination, Timestamp: time.Now()}, nil
}

func (n *NSQ) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	if source == "" {
		return ErrDestinationRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}
	if len(n.cfg.ConsumerNSQDAddrs) == 0 && len(n.cfg.ConsumerLookupdAddrs) == 0 {
		return ErrNSQConsumerAddrsRequired
	}

	co := newConsumeOptions(opts...)
	if co.channel == "" {
		return ErrNSQChannelRequired
	}

	ccfg := n.consumerConfig()
	ccfg.MaxInFlight = max(co.maxInFlight, co.concurrency)

	consumer, err := nsq.NewConsumer(source, co.channel, ccfg)
	if err != nil {
		return fmt.Errorf("messaging: nsq new consumer: %w", err)
	}
	consumer.SetLoggerLevel(nsq.LogLevelError)

	consumer.AddConcurrentHandlers(nsq.HandlerFunc(func(m *nsq.Message) error {
		m.DisableAutoResponse()
		d := &delivery{
			body:      m.Body,
			id:        string(m.ID[:]),
			source:    source,
			timestamp: time.Unix(0, m.Timestamp),
			ack:       func(context.Context) error { m.Finish(); return nil },
			nack:      func(context.Context) error { m.Requeue(-1); return nil },
		}
		return dispatch(ctx, "nsq", d, handler, co.autoAck)
	}), co.concurrency)

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		consumer.Stop()
		<-consumer.StopChan
		return io.ErrClosedPipe
	}
	n.consumers = append(n.consumers, consumer)
	n.mu.Unlock()

	if len(n.cfg.ConsumerLookupdAddrs) > 0 {
		err = consumer.ConnectToNSQLookupds(n.cfg.ConsumerLookupdAddrs)
	} else {
		err = consumer.ConnectToNSQDs(n.cfg.ConsumerNSQDAddrs)
	}
	if err != nil {
		consumer.Stop()
		<-consumer.StopChan
		return fmt.Errorf("messaging: nsq connect: %w", err)
	}

	select {
	case <-ctx.Done():
		consumer.Stop()
		<-consumer.StopChan
		return ctx.Err()
	case <-consumer.StopChan:
		return nil
	}
}

// consumerConfig returns a fresh config per consumer carrying the configured
// retry and polling knobs. Zero values keep the nsq defaults.
func (n *NSQ) consumerConfig() *nsq.Config {
	ccfg := nsq.NewConfig()

	base := n.cfg.ConsumerConfig
	if base == nil {
		return ccfg
	}
	if base.MaxAttempts > 0 {
		ccfg.MaxAttempts = base.MaxAttempts
	}
	if base.LookupdPollInterval > 0 {
		ccfg.LookupdPollInterval = base.LookupdPollInterval
	}
	if base.DefaultRequeueDelay > 0 {
		ccfg.DefaultRequeueDelay = base.DefaultRequeueDelay
	}
	if base.MaxRequeueDelay > 0 {
		ccfg.MaxRequeueDelay = base.MaxRequeueDelay
	}
	return ccfg
}
