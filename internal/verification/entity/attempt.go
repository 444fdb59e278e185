package entity

import "time"

// Attempt is a signup waiting for phone confirmation. The row outlives its
// promotion as an audit record.
type Attempt struct {
	ID           int64
	SourceIP     string
	PhoneNumber  string
	PasswordHash string
	CreatedAt    time.Time
	PromotedAt   *time.Time
}

func (a Attempt) IsPromoted() bool {
	return a.PromotedAt != nil
}
