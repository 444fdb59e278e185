package usecase

import (
	"context"

	"github.com/shandysiswandi/otcgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otcgate/internal/verification/entity"
)

type AccountCodeInput struct {
	Kind   entity.Kind
	Target string
}

type AccountConfirmInput struct {
	Kind entity.Kind
	Code string
}

// RequestAccountCode issues a code for the authenticated account.
func (s *Usecase) RequestAccountCode(ctx context.Context, in AccountCodeInput) (*RequestCodeOutput, error) {
	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}
	if !in.Kind.IsAccountScoped() {
		return nil, goerror.NewInvalidInput(nil, "kind", "kind is not available for accounts")
	}

	return s.RequestCode(ctx, RequestCodeInput{
		SubjectKey: clm.AccountID,
		Kind:       in.Kind,
		Target:     in.Target,
	})
}

// ConfirmAccountCode confirms a code issued to the authenticated account.
func (s *Usecase) ConfirmAccountCode(ctx context.Context, in AccountConfirmInput) (*ConfirmCodeOutput, error) {
	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}
	if !in.Kind.IsAccountScoped() {
		return nil, goerror.NewInvalidInput(nil, "kind", "kind is not available for accounts")
	}

	return s.ConfirmCode(ctx, ConfirmCodeInput{
		SubjectKey: clm.AccountID,
		Kind:       in.Kind,
		Code:       in.Code,
	})
}
