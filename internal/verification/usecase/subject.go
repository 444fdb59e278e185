package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/otcgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otcgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otcgate/internal/verification/entity"
)

type phoneTarget struct {
	Target string `validate:"required,e164"`
}

type emailTarget struct {
	Target string `validate:"required,email,max=255"`
}

func errAccountExists() error {
	return goerror.NewBusiness("account already exists", goerror.CodeConflict)
}

func errAccountNotFound() error {
	return goerror.NewBusiness("account not found", goerror.CodeNotFound)
}

func errAttemptNotFound() error {
	return goerror.NewBusiness("signup attempt not found", goerror.CodeNotFound)
}

func errInvalidOrExpired() error {
	return goerror.NewBusiness("invalid or expired code", goerror.CodeUnauthorized)
}

// resolveAddress maps a subject to the address its code is delivered to.
func (s *Usecase) resolveAddress(ctx context.Context, kind entity.Kind, subjectKey int64, target string) (string, error) {
	if kind == entity.KindPhoneSignup {
		attempt, err := s.repoAttempt.GetAttempt(ctx, subjectKey)
		if errors.Is(err, goerror.ErrNotFound) {
			return "", errAttemptNotFound()
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo get attempt", "attempt_id", subjectKey, "error", err)
			return "", goerror.NewServer(err)
		}
		if attempt.IsPromoted() {
			return "", errAccountExists()
		}
		return attempt.PhoneNumber, nil
	}

	account, err := s.repoAccount.GetAccount(ctx, subjectKey)
	if errors.Is(err, goerror.ErrNotFound) {
		return "", errAccountNotFound()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account", "account_id", subjectKey, "error", err)
		return "", goerror.NewServer(err)
	}

	switch kind {
	case entity.KindEmailVerify:
		if account.Email == "" {
			return "", goerror.NewBusiness("account has no email address", goerror.CodeInvalidInput)
		}
		return account.Email, nil

	case entity.KindPhoneUpdate:
		if err := s.validator.Validate(phoneTarget{Target: target}); err != nil {
			return "", goerror.NewInvalidInput(err)
		}

		exists, err := s.repoAccount.AccountPhoneExists(ctx, target, account.ID)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo check account phone", "account_id", account.ID, "error", err)
			return "", goerror.NewServer(err)
		}
		if exists {
			return "", errAccountExists()
		}
		return target, nil

	case entity.KindEmailUpdate:
		if err := s.validator.Validate(emailTarget{Target: target}); err != nil {
			return "", goerror.NewInvalidInput(err)
		}

		exists, err := s.repoAccount.AccountEmailExists(ctx, target, account.ID)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo check account email", "account_id", account.ID, "error", err)
			return "", goerror.NewServer(err)
		}
		if exists {
			return "", errAccountExists()
		}
		return target, nil

	default:
		return "", goerror.NewInvalidInput(nil, "kind", "kind is unknown")
	}
}

func (s *Usecase) authenticated(ctx context.Context) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil || clm.AccountID <= 0 {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}
	return clm, nil
}
