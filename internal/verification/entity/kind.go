package entity

import "strings"

// Kind names a verification flow. Every kind has its own slot namespace.
type Kind int16

const (
	KindUnknown Kind = 0

	// KindPhoneSignup confirms the phone of a pending signup attempt.
	KindPhoneSignup Kind = 1

	// KindPhoneUpdate confirms a new phone number for an existing account.
	KindPhoneUpdate Kind = 2

	// KindEmailVerify confirms the email already stored on an account.
	KindEmailVerify Kind = 3

	// KindEmailUpdate confirms a new email address for an existing account.
	KindEmailUpdate Kind = 4
)

func (k Kind) String() string {
	switch k {
	case KindPhoneSignup:
		return "phone-signup"
	case KindPhoneUpdate:
		return "phone-update"
	case KindEmailVerify:
		return "email-verify"
	case KindEmailUpdate:
		return "email-update"
	default:
		return "unknown"
	}
}

func KindFromString(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "phone-signup":
		return KindPhoneSignup
	case "phone-update":
		return KindPhoneUpdate
	case "email-verify":
		return KindEmailVerify
	case "email-update":
		return KindEmailUpdate
	default:
		return KindUnknown
	}
}

func (k Kind) IsUnknown() bool {
	return k < KindPhoneSignup || k > KindEmailUpdate
}

// IsAccountScoped reports whether the subject key of this kind is an account id.
func (k Kind) IsAccountScoped() bool {
	return k == KindPhoneUpdate || k == KindEmailVerify || k == KindEmailUpdate
}

// NeedsTarget reports whether the caller supplies the delivery address.
func (k Kind) NeedsTarget() bool {
	return k == KindPhoneUpdate || k == KindEmailUpdate
}

func (k Kind) Channel() Channel {
	switch k {
	case KindPhoneSignup, KindPhoneUpdate:
		return ChannelSMS
	case KindEmailVerify, KindEmailUpdate:
		return ChannelEmail
	default:
		return ""
	}
}

// Channel is the transport a code is delivered over.
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)
