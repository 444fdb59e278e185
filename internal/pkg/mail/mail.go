package mail

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNoRecipients = errors.New("mail: no recipients provided")
	ErrNoSender     = errors.New("mail: no sender provided")
)

// Message is a provider-agnostic email.
type Message struct {
	From     string
	To       []string
	Cc       []string
	Bcc      []string
	Subject  string
	TextBody string
	HTMLBody string
}

func (m Message) recipients() int {
	return len(m.To) + len(m.Cc) + len(m.Bcc)
}

// Mail abstracts an email provider.
type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}
