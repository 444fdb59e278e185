package entity

import (
	"crypto/subtle"
	"time"
)

// Slot is the single active code record for a (kind, subject key) pair.
// CodeHash is a keyed digest; the plain code is never stored.
type Slot struct {
	Kind           Kind
	SubjectKey     int64
	CodeHash       string
	Target         string
	ValidUntil     time.Time
	Verified       bool
	CodesSentCount int32
	LastCodeSent   *time.Time
}

// Confirmable reports whether codeHash may consume the slot at now. Validity
// is strict: a code is dead at exactly ValidUntil.
func (s Slot) Confirmable(codeHash string, now time.Time) bool {
	if s.Verified || !now.Before(s.ValidUntil) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.CodeHash), []byte(codeHash)) == 1
}

// UpsertSlot overwrites the code of a slot, creating it when absent.
type UpsertSlot struct {
	Kind       Kind
	SubjectKey int64
	CodeHash   string
	Target     string
	ValidUntil time.Time
	SentAt     time.Time
}

// SendStats summarizes the sends of one subject inside a window.
type SendStats struct {
	Count  int
	Oldest time.Time
	Latest time.Time
}
