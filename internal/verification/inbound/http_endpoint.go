package inbound

import (
	"github.com/shandysiswandi/otcgate/internal/pkg/router"
	"github.com/shandysiswandi/otcgate/internal/verification/entity"
	"github.com/shandysiswandi/otcgate/internal/verification/usecase"
)

// HTTPEndpoint exposes the verification flows over HTTP.
type HTTPEndpoint struct {
	uc uc
}

// CreateAttempt starts a phone signup.
func (h *HTTPEndpoint) CreateAttempt(r *router.Request) (any, error) {
	var req CreateAttemptRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.CreateAttempt(r.Context(), usecase.CreateAttemptInput{
		SourceIP:    r.RemoteAddr,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		return nil, err
	}

	return CreateAttemptResponse{AttemptID: resp.AttemptID}, nil
}

func (h *HTTPEndpoint) RequestSignupCode(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.RequestCode(r.Context(), usecase.RequestCodeInput{
		SubjectKey: id,
		Kind:       entity.KindPhoneSignup,
	})
	if err != nil {
		return nil, err
	}

	return RequestCodeResponse{ExpiresAt: resp.ExpiresAt, SendsToday: resp.SendsToday}, nil
}

// ConfirmSignupCode confirms the phone and, on success, promotes the attempt.
func (h *HTTPEndpoint) ConfirmSignupCode(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req ConfirmCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.ConfirmCode(r.Context(), usecase.ConfirmCodeInput{
		SubjectKey: id,
		Kind:       entity.KindPhoneSignup,
		Code:       req.Code,
	})
	if err != nil {
		return nil, err
	}

	return ConfirmCodeResponse{Verified: resp.Verified, AccountID: resp.AccountID}, nil
}

func (h *HTTPEndpoint) Promote(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.Promote(r.Context(), usecase.PromoteInput{AttemptID: id})
	if err != nil {
		return nil, err
	}

	return PromoteResponse{AccountID: resp.AccountID}, nil
}

func (h *HTTPEndpoint) RequestAccountCode(r *router.Request) (any, error) {
	var req RequestCodeRequest
	if err := r.DecodeBody(&req, true); err != nil {
		return nil, err
	}

	resp, err := h.uc.RequestAccountCode(r.Context(), usecase.AccountCodeInput{
		Kind:   entity.KindFromString(r.GetParam("kind")),
		Target: req.Target,
	})
	if err != nil {
		return nil, err
	}

	return RequestCodeResponse{ExpiresAt: resp.ExpiresAt, SendsToday: resp.SendsToday}, nil
}

func (h *HTTPEndpoint) ConfirmAccountCode(r *router.Request) (any, error) {
	var req ConfirmCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.ConfirmAccountCode(r.Context(), usecase.AccountConfirmInput{
		Kind: entity.KindFromString(r.GetParam("kind")),
		Code: req.Code,
	})
	if err != nil {
		return nil, err
	}

	return ConfirmCodeResponse{Verified: resp.Verified, AccountID: resp.AccountID}, nil
}

// CompleteProfile stores name and email and sends an email-verify code.
func (h *HTTPEndpoint) CompleteProfile(r *router.Request) (any, error) {
	var req CompleteProfileRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.CompleteProfile(r.Context(), usecase.CompleteProfileInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return nil, err
	}

	return CompleteProfileResponse{
		EmailVerified: resp.EmailVerified,
		ExpiresAt:     resp.ExpiresAt,
		SendsToday:    resp.SendsToday,
	}, nil
}
