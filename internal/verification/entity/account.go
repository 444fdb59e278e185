package entity

import "time"

const RoleUser = "user"

type Account struct {
	ID              int64
	PhoneNumber     string
	PasswordHash    string
	Name            string
	Email           string
	EmailVerifiedAt *time.Time
	Role            string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (a Account) IsEmailVerified() bool {
	return a.EmailVerifiedAt != nil
}

// AccountProfile is the editable part of an account.
type AccountProfile struct {
	AccountID int64
	Name      string
	Email     string
	UpdatedAt time.Time
}
