package mail

import (
	"context"
	"errors"
	"testing"
)

func TestNewGomail_RequiresHost(t *testing.T) {
	if _, err := NewGomail(GomailConfig{Port: 25}); !errors.Is(err, ErrHostPortRequired) {
		t.Fatalf("expected ErrHostPortRequired, got %v", err)
	}
}

func TestGomail_SendValidation(t *testing.T) {
	g, err := NewGomail(GomailConfig{Host: "localhost", Port: 1025})
	if err != nil {
		t.Fatalf("NewGomail: %v", err)
	}

	tests := []struct {
		name string
		msg  Message
		want error
	}{
		{name: "NoRecipients", msg: Message{From: "a@b.c", Subject: "x"}, want: ErrNoRecipients},
		{name: "NoSender", msg: Message{To: []string{"a@b.c"}, Subject: "x"}, want: ErrNoSender},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.Send(context.Background(), tt.msg); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGomail_SendCanceled(t *testing.T) {
	g, _ := NewGomail(GomailConfig{Host: "localhost", Port: 1025, From: "noreply@otcgate.local"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := g.Send(ctx, Message{To: []string{"a@b.c"}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
