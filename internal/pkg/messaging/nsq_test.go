package messaging

import (
	"testing"
	"time"

	nsq "github.com/nsqio/go-nsq"
)

func TestNSQ_ConsumerConfig(t *testing.T) {
	// Arrange
	base := nsq.NewConfig()
	base.MaxAttempts = 7
	base.MaxRequeueDelay = 90 * time.Second

	n, err := NewNSQ(NSQConfig{
		ConsumerLookupdAddrs: []string{"127.0.0.1:4161"},
		ConsumerConfig:       base,
	})
	if err != nil {
		t.Fatalf("NewNSQ: %v", err)
	}
	t.Cleanup(func() { _ = n.Close() })

	// Act
	got := n.consumerConfig()
	other := n.consumerConfig()

	// Assert
	if got.MaxAttempts != 7 {
		t.Fatalf("MaxAttempts = %d, want 7", got.MaxAttempts)
	}
	if got.MaxRequeueDelay != 90*time.Second {
		t.Fatalf("MaxRequeueDelay = %v, want 90s", got.MaxRequeueDelay)
	}
	if got == base || got == other {
		t.Fatal("every consumer must get its own config")
	}
	if got.LookupdPollInterval != nsq.NewConfig().LookupdPollInterval {
		t.Fatalf("unset knobs must keep the nsq default, got %v", got.LookupdPollInterval)
	}
}

func TestNSQ_ConsumerConfigDefaults(t *testing.T) {
	// Arrange
	n, err := NewNSQ(NSQConfig{ConsumerNSQDAddrs: []string{"127.0.0.1:4150"}})
	if err != nil {
		t.Fatalf("NewNSQ: %v", err)
	}
	t.Cleanup(func() { _ = n.Close() })

	// Act
	got := n.consumerConfig()

	// Assert
	if got.MaxAttempts != nsq.NewConfig().MaxAttempts {
		t.Fatalf("MaxAttempts = %d, want nsq default", got.MaxAttempts)
	}
}
