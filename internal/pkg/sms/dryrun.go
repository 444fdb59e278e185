package sms

import (
	"context"
	"log/slog"
	"strconv"

	"go.uber.org/atomic"
)

// DryRun logs messages instead of sending them. Sent counts the calls, which
// tests and local runs use to observe delivery.
type DryRun struct {
	sent atomic.Int64
}

func NewDryRun() *DryRun {
	return &DryRun{}
}

func (d *DryRun) Send(ctx context.Context, to, text string) (string, error) {
	if to == "" {
		return "", ErrNoRecipient
	}

	n := d.sent.Inc()
	slog.InfoContext(ctx, "sms: message not sent (dry-run)", "to", to, "text", text)

	return "dry-run-" + strconv.FormatInt(n, 10), nil
}

// Sent returns how many messages were accepted.
func (d *DryRun) Sent() int64 {
	return d.sent.Load()
}

func (d *DryRun) Close() error {
	return nil
}
