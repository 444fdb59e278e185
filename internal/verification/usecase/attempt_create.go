package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/otcgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otcgate/internal/verification/entity"
)

type CreateAttemptInput struct {
	SourceIP    string `validate:"max=64"`
	PhoneNumber string `validate:"required,e164"`
	Password    string `validate:"required,password"`
}

type CreateAttemptOutput struct {
	AttemptID int64
}

// CreateAttempt starts a signup for a phone number. A phone holds at most one
// pending attempt; abandoned ones are removed by the sweeper.
func (s *Usecase) CreateAttempt(ctx context.Context, in CreateAttemptInput) (*CreateAttemptOutput, error) {
	ctx, span := s.startSpan(ctx, "CreateAttempt")
	defer span.End()

	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.SourceIP = strings.TrimSpace(in.SourceIP)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	exists, err := s.repoAccount.AccountPhoneExists(ctx, in.PhoneNumber, 0)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo check account phone", "error", err)
		return nil, goerror.NewServer(err)
	}
	if exists {
		return nil, errAccountExists()
	}

	passwordHash, err := s.password.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err)
	}

	attempt := entity.Attempt{
		ID:           s.uid.Generate(),
		SourceIP:     in.SourceIP,
		PhoneNumber:  in.PhoneNumber,
		PasswordHash: string(passwordHash),
		CreatedAt:    s.clock.Now(),
	}

	err = s.repoAttempt.CreateAttempt(ctx, attempt)
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "signup attempt already pending for phone")
		return nil, goerror.NewBusiness("signup attempt already exists", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create attempt", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &CreateAttemptOutput{AttemptID: attempt.ID}, nil
}
