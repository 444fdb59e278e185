package entity

import "strings"

type Channel int16

const (
	ChannelUnknown Channel = 0
	ChannelEmail   Channel = 1
	ChannelSMS     Channel = 2
)

func ChannelFromString(raw string) Channel {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "email":
		return ChannelEmail
	case "sms":
		return ChannelSMS
	default:
		return ChannelUnknown
	}
}

func (c Channel) String() string {
	switch c {
	case ChannelEmail:
		return "email"
	case ChannelSMS:
		return "sms"
	default:
		return "unknown"
	}
}

// Purpose selects the wording of a code message.
type Purpose string

const (
	PurposeSignup       Purpose = "phone-signup"
	PurposePhoneUpdate  Purpose = "phone-update"
	PurposeEmailVerify  Purpose = "email-verify"
	PurposeEmailUpdate  Purpose = "email-update"
	PurposeUnrecognized Purpose = ""
)

func PurposeFromString(raw string) Purpose {
	switch p := Purpose(strings.TrimSpace(raw)); p {
	case PurposeSignup, PurposePhoneUpdate, PurposeEmailVerify, PurposeEmailUpdate:
		return p
	default:
		return PurposeUnrecognized
	}
}

func (p Purpose) String() string {
	return string(p)
}
