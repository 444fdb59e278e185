package inbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/otcgate/internal/pkg/clock"
	"github.com/shandysiswandi/otcgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otcgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otcgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otcgate/internal/pkg/router"
	"github.com/shandysiswandi/otcgate/internal/pkg/uid"
	"github.com/shandysiswandi/otcgate/internal/verification/entity"
	"github.com/shandysiswandi/otcgate/internal/verification/usecase"
)

var expires = time.Date(2026, 5, 4, 9, 35, 0, 0, time.UTC)

type fakeUC struct {
	createIn  usecase.CreateAttemptInput
	requestIn usecase.RequestCodeInput
	confirmIn usecase.ConfirmCodeInput
	accountIn usecase.AccountCodeInput
	profileIn usecase.CompleteProfileInput
	err       error
}

func (f *fakeUC) CreateAttempt(_ context.Context, in usecase.CreateAttemptInput) (*usecase.CreateAttemptOutput, error) {
	f.createIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.CreateAttemptOutput{AttemptID: 77}, nil
}

func (f *fakeUC) RequestCode(_ context.Context, in usecase.RequestCodeInput) (*usecase.RequestCodeOutput, error) {
	f.requestIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.RequestCodeOutput{ExpiresAt: expires, SendsToday: 1}, nil
}

func (f *fakeUC) ConfirmCode(_ context.Context, in usecase.ConfirmCodeInput) (*usecase.ConfirmCodeOutput, error) {
	f.confirmIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.ConfirmCodeOutput{Verified: true, AccountID: 5001}, nil
}

func (f *fakeUC) Promote(_ context.Context, in usecase.PromoteInput) (*usecase.PromoteOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.PromoteOutput{AccountID: in.AttemptID + 1}, nil
}

func (f *fakeUC) RequestAccountCode(_ context.Context, in usecase.AccountCodeInput) (*usecase.RequestCodeOutput, error) {
	f.accountIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.RequestCodeOutput{ExpiresAt: expires, SendsToday: 2}, nil
}

func (f *fakeUC) ConfirmAccountCode(_ context.Context, _ usecase.AccountConfirmInput) (*usecase.ConfirmCodeOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.ConfirmCodeOutput{Verified: true}, nil
}

func (f *fakeUC) CompleteProfile(_ context.Context, in usecase.CompleteProfileInput) (*usecase.CompleteProfileOutput, error) {
	f.profileIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.CompleteProfileOutput{ExpiresAt: &expires, SendsToday: 1}, nil
}

type envelope struct {
	Message string            `json:"message"`
	Data    map[string]any    `json:"data"`
	Error   map[string]string `json:"error"`
}

func setup(t *testing.T, cfg HTTPConfig) (*router.Router, *fakeUC, string) {
	t.Helper()

	signer, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(strings.Repeat("k", 64)),
		Issuer:    "otcgate",
		Audiences: []string{"otcgate-api"},
		TTL:       time.Hour,
		Clock:     clock.New(),
		UUID:      uid.NewUUID(),
	})
	if err != nil {
		t.Fatalf("NewHS512: %v", err)
	}
	token, err := signer.Generate(5001, "+15550001111")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	r := router.NewRouter(router.Config{UUID: uid.NewUUID(), JWT: signer, Instrument: instrument.NewNoop()})
	uc := &fakeUC{}
	RegisterHTTPEndpoint(r, uc, cfg)

	return r, uc, token
}

func doJSON(t *testing.T, h http.Handler, method, path, body, token string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Real-IP", "198.51.100.4")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s %s: %v (%s)", method, path, err, rec.Body.String())
		}
	}
	return rec.Code, env
}

func TestHTTP_SignupRoutesArePublic(t *testing.T) {
	// Arrange
	r, uc, _ := setup(t, HTTPConfig{})

	// Act
	createStatus, created := doJSON(t, r, http.MethodPost, "/api/v1/verification/signup/attempts",
		`{"phone_number":"+15550001111","password":"correct-horse"}`, "")
	codeStatus, code := doJSON(t, r, http.MethodPost, "/api/v1/verification/signup/attempts/77/code", "", "")
	confirmStatus, confirmed := doJSON(t, r, http.MethodPost, "/api/v1/verification/signup/attempts/77/code/confirm",
		`{"code":"123456"}`, "")
	promoteStatus, promoted := doJSON(t, r, http.MethodPost, "/api/v1/verification/signup/attempts/77/promote", "", "")

	// Assert
	if createStatus != http.StatusCreated || created.Data["attempt_id"] != "77" {
		t.Fatalf("create: %d %+v", createStatus, created)
	}
	if uc.createIn.SourceIP != "198.51.100.4" || uc.createIn.PhoneNumber != "+15550001111" {
		t.Fatalf("create input: %+v", uc.createIn)
	}
	if codeStatus != http.StatusOK || code.Data["sends_today"] != float64(1) {
		t.Fatalf("code: %d %+v", codeStatus, code)
	}
	if uc.requestIn.SubjectKey != 77 || uc.requestIn.Kind != entity.KindPhoneSignup {
		t.Fatalf("request input: %+v", uc.requestIn)
	}
	if confirmStatus != http.StatusOK || confirmed.Data["verified"] != true || confirmed.Data["account_id"] != "5001" {
		t.Fatalf("confirm: %d %+v", confirmStatus, confirmed)
	}
	if uc.confirmIn.Code != "123456" {
		t.Fatalf("confirm input: %+v", uc.confirmIn)
	}
	if promoteStatus != http.StatusCreated || promoted.Data["account_id"] != "78" {
		t.Fatalf("promote: %d %+v", promoteStatus, promoted)
	}
}

func TestHTTP_AccountRoutesNeedToken(t *testing.T) {
	// Arrange
	r, uc, token := setup(t, HTTPConfig{})

	// Act
	anonStatus, _ := doJSON(t, r, http.MethodPost, "/api/v1/verification/account/codes/email-update",
		`{"target":"a@example.com"}`, "")
	status, resp := doJSON(t, r, http.MethodPost, "/api/v1/verification/account/codes/email-update",
		`{"target":"a@example.com"}`, token)
	profileStatus, profile := doJSON(t, r, http.MethodPut, "/api/v1/verification/account/profile",
		`{"name":"Ada Lovelace","email":"ada@example.com"}`, token)

	// Assert
	if anonStatus != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d", anonStatus)
	}
	if status != http.StatusOK || resp.Data["sends_today"] != float64(2) {
		t.Fatalf("account code: %d %+v", status, resp)
	}
	if uc.accountIn.Kind != entity.KindEmailUpdate || uc.accountIn.Target != "a@example.com" {
		t.Fatalf("account input: %+v", uc.accountIn)
	}
	if profileStatus != http.StatusOK || profile.Data["email_verified"] != false {
		t.Fatalf("profile: %d %+v", profileStatus, profile)
	}
	if uc.profileIn.Email != "ada@example.com" {
		t.Fatalf("profile input: %+v", uc.profileIn)
	}
}

func TestHTTP_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{
			name:       "bad attempt id",
			method:     http.MethodPost,
			path:       "/api/v1/verification/signup/attempts/abc/code",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown body field",
			method:     http.MethodPost,
			path:       "/api/v1/verification/signup/attempts/1/code/confirm",
			body:       `{"otp":"123456"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "rate limited",
			err:        goerror.NewRateLimited("too many codes requested", "cooldown", 30*time.Second),
			method:     http.MethodPost,
			path:       "/api/v1/verification/signup/attempts/1/code",
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "invalid code",
			err:        goerror.NewBusiness("invalid or expired code", goerror.CodeUnauthorized),
			method:     http.MethodPost,
			path:       "/api/v1/verification/signup/attempts/1/code/confirm",
			body:       `{"code":"123456"}`,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			r, uc, _ := setup(t, HTTPConfig{})
			uc.err = tt.err

			// Act
			status, _ := doJSON(t, r, tt.method, tt.path, tt.body, "")

			// Assert
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d", status, tt.wantStatus)
			}
		})
	}
}

func TestHTTP_ConfirmThrottlePerIP(t *testing.T) {
	// Arrange
	r, _, _ := setup(t, HTTPConfig{ConfirmPerMinute: 1, ConfirmBurst: 2})
	path := "/api/v1/verification/signup/attempts/1/code/confirm"

	// Act
	first, _ := doJSON(t, r, http.MethodPost, path, `{"code":"123456"}`, "")
	second, _ := doJSON(t, r, http.MethodPost, path, `{"code":"123456"}`, "")
	third, _ := doJSON(t, r, http.MethodPost, path, `{"code":"123456"}`, "")

	// Assert
	if first != http.StatusOK || second != http.StatusOK {
		t.Fatalf("burst should pass: %d %d", first, second)
	}
	if third != http.StatusTooManyRequests {
		t.Fatalf("third status = %d", third)
	}
}
