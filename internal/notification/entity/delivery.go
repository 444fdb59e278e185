package entity

import "time"

// CodeDelivery is one code to hand to a provider. The code is plaintext and
// is never stored.
type CodeDelivery struct {
	Purpose   Purpose
	Channel   Channel
	Address   string
	Code      string
	ExpiresAt time.Time
}

// Rendered is the provider-ready text of a code message. Subject and HTML
// are empty for SMS.
type Rendered struct {
	Subject string
	Text    string
	HTML    string
}
