package validator

import (
	"errors"
	"testing"
)

type confirmInput struct {
	AttemptID int64  `validate:"required,gt=0"`
	Code      string `validate:"required,otc"`
}

type signupInput struct {
	Phone    string `validate:"required,e164"`
	Password string `validate:"required,password"`
	FullName string `validate:"omitempty,alphaspace"`
}

func TestV10Validator_Validate(t *testing.T) {
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator: %v", err)
	}

	tests := []struct {
		name       string
		input      any
		wantFields []string
	}{
		{name: "ValidCode", input: confirmInput{AttemptID: 1, Code: "012345"}},
		{name: "ShortCode", input: confirmInput{AttemptID: 1, Code: "12345"}, wantFields: []string{"code"}},
		{name: "LetterCode", input: confirmInput{AttemptID: 1, Code: "12a456"}, wantFields: []string{"code"}},
		{name: "MissingAttempt", input: confirmInput{Code: "123456"}, wantFields: []string{"attempt_id"}},
		{name: "ValidSignup", input: signupInput{Phone: "+14155550100", Password: "Secret123!", FullName: "Jane Doe"}},
		{
			name:       "BadSignup",
			input:      signupInput{Phone: "0812", Password: "short", FullName: "J4ne"},
			wantFields: []string{"phone", "password", "full_name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			err := v.Validate(tt.input)

			// Assert
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verr V10ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected V10ValidationError, got %T (%v)", err, err)
			}
			for _, f := range tt.wantFields {
				if verr[f] == "" {
					t.Fatalf("missing message for %q in %v", f, verr)
				}
			}
		})
	}
}

func TestNewV10Validator(t *testing.T) {
	// Act
	v, err := NewV10Validator()

	// Assert
	if err != nil {
		t.Fatalf("NewV10Validator: %v", err)
	}
	if v == nil {
		t.Fatal("expected validator instance")
	}

	verr, ok := v.Validate(signupInput{Phone: "+14155550100", Password: "Secret123!", FullName: "J4ne"}).(V10ValidationError)
	if !ok || verr["full_name"] == "" {
		t.Fatalf("expected translated alphaspace message, got %v", verr)
	}
}
