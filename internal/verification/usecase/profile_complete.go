package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/otcgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otcgate/internal/verification/entity"
)

type CompleteProfileInput struct {
	Name  string `validate:"required,min=2,max=100,alphaspace"`
	Email string `validate:"required,email,max=255"`
}

type CompleteProfileOutput struct {
	EmailVerified bool
	ExpiresAt     *time.Time
	SendsToday    int
}

// CompleteProfile stores the name and email of the authenticated account and
// sends an email-verify code unless the email is already verified.
func (s *Usecase) CompleteProfile(ctx context.Context, in CompleteProfileInput) (*CompleteProfileOutput, error) {
	ctx, span := s.startSpan(ctx, "CompleteProfile")
	defer span.End()

	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	in.Name = strings.Join(strings.Fields(in.Name), " ")
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	account, err := s.repoAccount.GetAccount(ctx, clm.AccountID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, errAccountNotFound()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account", "account_id", clm.AccountID, "error", err)
		return nil, goerror.NewServer(err)
	}

	emailChanged := account.Email != in.Email
	if emailChanged {
		exists, err := s.repoAccount.AccountEmailExists(ctx, in.Email, account.ID)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo check account email", "account_id", account.ID, "error", err)
			return nil, goerror.NewServer(err)
		}
		if exists {
			return nil, errAccountExists()
		}
	}

	needsCode := emailChanged || !account.IsEmailVerified()
	now := s.clock.Now()

	if needsCode {
		dec, err := s.limiter.Check(ctx, entity.KindEmailVerify, account.ID, now)
		if err != nil {
			slog.ErrorContext(ctx, "failed to check send limit", "account_id", account.ID, "error", err)
			return nil, goerror.NewServer(err)
		}
		if !dec.Allowed {
			s.rateLimited.Add(ctx, 1, kindAttr(entity.KindEmailVerify))
			return nil, goerror.NewRateLimited("too many code requests", dec.Reason, dec.RetryAfter)
		}
	}

	err = s.repoAccount.UpdateAccountProfile(ctx, entity.AccountProfile{
		AccountID: account.ID,
		Name:      in.Name,
		Email:     in.Email,
		UpdatedAt: now,
	})
	if errors.Is(err, goerror.ErrConflict) {
		return nil, errAccountExists()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update account profile", "account_id", account.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !needsCode {
		return &CompleteProfileOutput{EmailVerified: true}, nil
	}

	out, err := s.RequestCode(ctx, RequestCodeInput{SubjectKey: account.ID, Kind: entity.KindEmailVerify})
	if err != nil {
		return nil, err
	}

	return &CompleteProfileOutput{ExpiresAt: &out.ExpiresAt, SendsToday: out.SendsToday}, nil
}
