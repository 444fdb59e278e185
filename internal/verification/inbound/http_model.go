package inbound

import (
	"net/http"
	"time"
)

type CreateAttemptRequest struct {
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

type CreateAttemptResponse struct {
	AttemptID int64 `json:"attempt_id,string"`
}

func (CreateAttemptResponse) StatusCode() int { return http.StatusCreated }

func (CreateAttemptResponse) Message() string {
	return "Signup started. Request a code to verify your phone number."
}

type RequestCodeRequest struct {
	Target string `json:"target"`
}

type RequestCodeResponse struct {
	ExpiresAt  time.Time `json:"expires_at"`
	SendsToday int       `json:"sends_today"`
}

func (RequestCodeResponse) Message() string {
	return "Verification code sent."
}

type ConfirmCodeRequest struct {
	Code string `json:"code"`
}

type ConfirmCodeResponse struct {
	Verified  bool  `json:"verified"`
	AccountID int64 `json:"account_id,string,omitempty"`
}

type PromoteResponse struct {
	AccountID int64 `json:"account_id,string"`
}

func (PromoteResponse) StatusCode() int { return http.StatusCreated }

type CompleteProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CompleteProfileResponse struct {
	EmailVerified bool       `json:"email_verified"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	SendsToday    int        `json:"sends_today,omitempty"`
}
