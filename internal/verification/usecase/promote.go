package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/otcgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otcgate/internal/verification/entity"
)

type PromoteInput struct {
	AttemptID int64 `validate:"required,gt=0"`
}

type PromoteOutput struct {
	AccountID int64
}

// Promote turns an attempt with a verified phone into an account.
func (s *Usecase) Promote(ctx context.Context, in PromoteInput) (*PromoteOutput, error) {
	ctx, span := s.startSpan(ctx, "Promote")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	accountID, err := s.promote(ctx, in.AttemptID, s.clock.Now())
	if err != nil {
		return nil, err
	}

	return &PromoteOutput{AccountID: accountID}, nil
}

func (s *Usecase) promote(ctx context.Context, attemptID int64, now time.Time) (int64, error) {
	attempt, err := s.repoAttempt.GetAttempt(ctx, attemptID)
	if errors.Is(err, goerror.ErrNotFound) {
		return 0, errAttemptNotFound()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get attempt", "attempt_id", attemptID, "error", err)
		return 0, goerror.NewServer(err)
	}

	slot, err := s.repoSlot.GetSlot(ctx, entity.KindPhoneSignup, attemptID)
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get slot", "attempt_id", attemptID, "error", err)
		return 0, goerror.NewServer(err)
	}
	if slot == nil || !slot.Verified {
		slog.WarnContext(ctx, "promotion of unverified attempt", "attempt_id", attemptID)
		return 0, goerror.NewBusiness("phone number is not verified", goerror.CodeForbidden)
	}

	exists, err := s.repoAccount.AccountPhoneExists(ctx, attempt.PhoneNumber, 0)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo check account phone", "attempt_id", attemptID, "error", err)
		return 0, goerror.NewServer(err)
	}
	if exists || attempt.IsPromoted() {
		return 0, errAccountExists()
	}

	account := entity.Account{
		ID:           s.uid.Generate(),
		PhoneNumber:  attempt.PhoneNumber,
		PasswordHash: attempt.PasswordHash,
		Role:         entity.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.repoAccount.PromoteAttempt(ctx, attempt.ID, account)
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "attempt promoted concurrently", "attempt_id", attemptID)
		return 0, errAccountExists()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo promote attempt", "attempt_id", attemptID, "error", err)
		return 0, goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "attempt promoted", "attempt_id", attemptID, "account_id", account.ID)

	return account.ID, nil
}
