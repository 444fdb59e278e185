package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/otcgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otcgate/internal/verification/entity"
)

type ConfirmCodeInput struct {
	SubjectKey int64 `validate:"required,gt=0"`
	Kind       entity.Kind
	Code       string
}

type ConfirmCodeOutput struct {
	Verified  bool
	AccountID int64
}

// ConfirmCode consumes the subject's code. Wrong, expired and already used
// codes all fail the same way.
func (s *Usecase) ConfirmCode(ctx context.Context, in ConfirmCodeInput) (*ConfirmCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "ConfirmCode")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}
	if in.Kind.IsUnknown() {
		return nil, goerror.NewInvalidInput(nil, "kind", "kind is unknown")
	}
	if !isCodeFormat(in.Code) {
		return nil, goerror.NewInvalidFormat("code must be exactly 6 digits")
	}

	_, err := s.repoSlot.GetSlot(ctx, in.Kind, in.SubjectKey)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("verification code not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get slot", "kind", in.Kind.String(), "subject_key", in.SubjectKey, "error", err)
		return nil, goerror.NewServer(err)
	}

	codeHash, err := s.codeHash.Hash(in.Code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash code", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()

	// The consumed row drives completion; a code reissued after the lookup
	// above may carry a different target.
	consumed, err := s.repoSlot.MarkSlotVerified(ctx, in.Kind, in.SubjectKey, string(codeHash), now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo mark slot verified", "kind", in.Kind.String(), "subject_key", in.SubjectKey, "error", err)
		return nil, goerror.NewServer(err)
	}
	if consumed == nil {
		slog.WarnContext(ctx, "code rejected", "kind", in.Kind.String(), "subject_key", in.SubjectKey)
		s.rejected.Add(ctx, 1, kindAttr(in.Kind))
		return nil, errInvalidOrExpired()
	}

	s.confirmed.Add(ctx, 1, kindAttr(in.Kind))

	accountID, err := s.complete(ctx, *consumed, now)
	if err != nil {
		return nil, err
	}

	return &ConfirmCodeOutput{Verified: true, AccountID: accountID}, nil
}

// complete applies what a confirmed slot stands for and returns the account
// it concerns.
func (s *Usecase) complete(ctx context.Context, slot entity.Slot, now time.Time) (int64, error) {
	var err error

	switch slot.Kind {
	case entity.KindPhoneSignup:
		return s.promote(ctx, slot.SubjectKey, now)

	case entity.KindEmailVerify:
		err = s.repoAccount.MarkAccountEmailVerified(ctx, slot.SubjectKey, slot.Target, now)
		if errors.Is(err, goerror.ErrNotFound) {
			return 0, goerror.NewBusiness("email address changed, request a new code", goerror.CodeConflict)
		}

	case entity.KindPhoneUpdate:
		err = s.repoAccount.UpdateAccountPhone(ctx, slot.SubjectKey, slot.Target, now)

	case entity.KindEmailUpdate:
		err = s.repoAccount.UpdateAccountEmail(ctx, slot.SubjectKey, slot.Target, now)
	}

	switch {
	case err == nil:
		return slot.SubjectKey, nil
	case errors.Is(err, goerror.ErrConflict):
		return 0, errAccountExists()
	case errors.Is(err, goerror.ErrNotFound):
		return 0, errAccountNotFound()
	default:
		slog.ErrorContext(ctx, "failed to repo apply verification", "kind", slot.Kind.String(), "account_id", slot.SubjectKey, "error", err)
		return 0, goerror.NewServer(err)
	}
}
