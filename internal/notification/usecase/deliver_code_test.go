package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/otcgate/internal/pkg/clock"
	"github.com/shandysiswandi/otcgate/internal/pkg/config"
	"github.com/shandysiswandi/otcgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otcgate/internal/pkg/sms"
	"github.com/shandysiswandi/otcgate/internal/pkg/validator"
)

var now = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

var errGatewayDown = errors.New("gateway: connection refused")

type fakeProviders struct {
	mu       sync.Mutex
	smsErrs  []error
	mailErrs []error
	smsSent  []string
	mailSent []string
	subjects []string
	htmls    []string
	calls    int
}

func (f *fakeProviders) next(errs *[]error) error {
	f.calls++
	if len(*errs) == 0 {
		return nil
	}
	err := (*errs)[0]
	if len(*errs) > 1 {
		*errs = (*errs)[1:]
	}
	return err
}

func (f *fakeProviders) SendSMS(_ context.Context, to, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.next(&f.smsErrs); err != nil {
		return "", err
	}
	f.smsSent = append(f.smsSent, to+"|"+text)
	return "msg-1", nil
}

func (f *fakeProviders) SendMail(_ context.Context, to, subject, text, html string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.next(&f.mailErrs); err != nil {
		return err
	}
	f.mailSent = append(f.mailSent, to+"|"+text)
	f.subjects = append(f.subjects, subject)
	f.htmls = append(f.htmls, html)
	return nil
}

func newUsecase(t *testing.T) (*Usecase, *fakeProviders) {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
app:
  name: Otcgate
  support_email: help@example.com
modules:
  notification:
    retry:
      max_retries: 2
      base_delay_ms: 1
      max_delay_seconds: 1
`))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	p := &fakeProviders{}
	uc := New(Dependency{
		RepoSMS:    p,
		RepoMail:   p,
		Validator:  v,
		Clock:      clock.NewFrozen(now),
		Config:     cfg,
		Instrument: instrument.NewNoop(),
	})

	return uc, p
}

func smsInput() DeliverCodeInput {
	return DeliverCodeInput{
		Purpose:   "phone-signup",
		Channel:   "sms",
		Address:   "+15550001111",
		Code:      "042917",
		ExpiresAt: now.Add(5 * time.Minute),
	}
}

func TestDeliverCode_SMS(t *testing.T) {
	// Arrange
	uc, p := newUsecase(t)

	// Act
	err := uc.DeliverCode(context.Background(), smsInput())

	// Assert
	if err != nil {
		t.Fatalf("DeliverCode: %v", err)
	}
	if len(p.smsSent) != 1 {
		t.Fatalf("sms sent = %d", len(p.smsSent))
	}
	got := p.smsSent[0]
	for _, want := range []string{"+15550001111|", "Otcgate", "042917", "5 min"} {
		if !strings.Contains(got, want) {
			t.Fatalf("sms %q does not contain %q", got, want)
		}
	}
}

func TestDeliverCode_Email(t *testing.T) {
	// Arrange
	uc, p := newUsecase(t)
	in := smsInput()
	in.Purpose = "email-verify"
	in.Channel = "email"
	in.Address = "ada@example.com"

	// Act
	err := uc.DeliverCode(context.Background(), in)

	// Assert
	if err != nil {
		t.Fatalf("DeliverCode: %v", err)
	}
	if len(p.mailSent) != 1 || !strings.HasPrefix(p.mailSent[0], "ada@example.com|") {
		t.Fatalf("mail sent = %v", p.mailSent)
	}
	if p.subjects[0] != "Verify your email address" {
		t.Fatalf("subject = %q", p.subjects[0])
	}
	if !strings.Contains(p.htmls[0], "<strong>042917</strong>") || !strings.Contains(p.htmls[0], "help@example.com") {
		t.Fatalf("html = %q", p.htmls[0])
	}
}

func TestDeliverCode_Retry(t *testing.T) {
	tests := []struct {
		name      string
		errs      []error
		wantErr   bool
		wantCalls int
		wantSent  int
	}{
		{
			name:      "transient then success",
			errs:      []error{errGatewayDown, errGatewayDown, nil},
			wantCalls: 3,
			wantSent:  1,
		},
		{
			name:      "rejected is not retried",
			errs:      []error{sms.ErrRejected},
			wantCalls: 1,
		},
		{
			name:      "transient exhausts retries",
			errs:      []error{errGatewayDown},
			wantErr:   true,
			wantCalls: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			uc, p := newUsecase(t)
			p.smsErrs = tt.errs

			// Act
			err := uc.DeliverCode(context.Background(), smsInput())

			// Assert
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if p.calls != tt.wantCalls {
				t.Fatalf("calls = %d, want %d", p.calls, tt.wantCalls)
			}
			if len(p.smsSent) != tt.wantSent {
				t.Fatalf("sent = %d, want %d", len(p.smsSent), tt.wantSent)
			}
		})
	}
}

func TestDeliverCode_Dropped(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*DeliverCodeInput)
	}{
		{name: "expired", mutate: func(in *DeliverCodeInput) { in.ExpiresAt = now }},
		{name: "bad code", mutate: func(in *DeliverCodeInput) { in.Code = "12ab56" }},
		{name: "unknown channel", mutate: func(in *DeliverCodeInput) { in.Channel = "push" }},
		{name: "unknown purpose", mutate: func(in *DeliverCodeInput) { in.Purpose = "password-reset" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			uc, p := newUsecase(t)
			in := smsInput()
			tt.mutate(&in)

			// Act
			err := uc.DeliverCode(context.Background(), in)

			// Assert
			if err != nil {
				t.Fatalf("dropped deliveries must not be redelivered, got %v", err)
			}
			if p.calls != 0 {
				t.Fatalf("provider called %d times", p.calls)
			}
		})
	}
}

func TestMaskAddress(t *testing.T) {
	in := smsInput()
	if got := maskAddress(deliveryOf(in)); got != "***1111" {
		t.Fatalf("phone mask = %q", got)
	}

	in.Channel = "email"
	in.Address = "ada@example.com"
	if got := maskAddress(deliveryOf(in)); got != "a***@example.com" {
		t.Fatalf("email mask = %q", got)
	}
}
