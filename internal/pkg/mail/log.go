package mail

import (
	"context"
	"log/slog"
)

// Log writes messages to the structured log instead of sending them. It is
// the local development driver.
type Log struct{}

func NewLog() *Log {
	return &Log{}
}

func (*Log) Send(ctx context.Context, msg Message) error {
	if msg.recipients() == 0 {
		return ErrNoRecipients
	}

	slog.InfoContext(ctx, "mail: message not sent (log driver)",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.TextBody,
	)
	return nil
}

func (*Log) Close() error {
	return nil
}
