package sms

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrRejected means the gateway answered but refused the message. Retrying
	// the same request will not help.
	ErrRejected = errors.New("sms: message rejected by gateway")

	ErrNoRecipient = errors.New("sms: recipient is required")
)

// SMS sends short text messages and returns the provider message ID.
type SMS interface {
	io.Closer
	Send(ctx context.Context, to, text string) (string, error)
}
