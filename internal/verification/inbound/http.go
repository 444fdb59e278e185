package inbound

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/otcgate/internal/pkg/router"
	"github.com/shandysiswandi/otcgate/internal/verification/usecase"
)

type uc interface {
	CreateAttempt(ctx context.Context, in usecase.CreateAttemptInput) (*usecase.CreateAttemptOutput, error)
	RequestCode(ctx context.Context, in usecase.RequestCodeInput) (*usecase.RequestCodeOutput, error)
	ConfirmCode(ctx context.Context, in usecase.ConfirmCodeInput) (*usecase.ConfirmCodeOutput, error)
	Promote(ctx context.Context, in usecase.PromoteInput) (*usecase.PromoteOutput, error)

	RequestAccountCode(ctx context.Context, in usecase.AccountCodeInput) (*usecase.RequestCodeOutput, error)
	ConfirmAccountCode(ctx context.Context, in usecase.AccountConfirmInput) (*usecase.ConfirmCodeOutput, error)
	CompleteProfile(ctx context.Context, in usecase.CompleteProfileInput) (*usecase.CompleteProfileOutput, error)
}

// HTTPConfig tunes the per-IP throttle in front of the confirm routes.
type HTTPConfig struct {
	ConfirmPerMinute int
	ConfirmBurst     int
}

func RegisterHTTPEndpoint(r *router.Router, uc uc, cfg HTTPConfig) {
	end := &HTTPEndpoint{uc: uc}
	confirmGuard := router.RateLimitPerIP(cfg.ConfirmPerMinute, cfg.ConfirmBurst)

	// Signup (public)
	public := []struct {
		method, path string
	}{
		{http.MethodPost, "/api/v1/verification/signup/attempts"},
		{http.MethodPost, "/api/v1/verification/signup/attempts/:id/code"},
		{http.MethodPost, "/api/v1/verification/signup/attempts/:id/code/confirm"},
		{http.MethodPost, "/api/v1/verification/signup/attempts/:id/promote"},
	}
	for _, p := range public {
		r.Public(p.method, p.path)
	}

	r.POST("/api/v1/verification/signup/attempts", end.CreateAttempt)
	r.POST("/api/v1/verification/signup/attempts/:id/code", end.RequestSignupCode)
	r.POST("/api/v1/verification/signup/attempts/:id/code/confirm", end.ConfirmSignupCode, confirmGuard)
	r.POST("/api/v1/verification/signup/attempts/:id/promote", end.Promote)

	// Account (need authenticated)
	r.POST("/api/v1/verification/account/codes/:kind", end.RequestAccountCode)
	r.POST("/api/v1/verification/account/codes/:kind/confirm", end.ConfirmAccountCode, confirmGuard)
	r.PUT("/api/v1/verification/account/profile", end.CompleteProfile)
}
