package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/otcgate/internal/pkg/clock"
	"github.com/shandysiswandi/otcgate/internal/pkg/config"
	"github.com/shandysiswandi/otcgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otcgate/internal/pkg/validator"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultMaxRetries uint64 = 3
	DefaultBaseDelay         = 200 * time.Millisecond
	DefaultMaxDelay          = 5 * time.Second
)

type repoSMS interface {
	SendSMS(ctx context.Context, to, text string) (string, error)
}

type repoMail interface {
	SendMail(ctx context.Context, to, subject, text, html string) error
}

// RetryPolicy bounds the exponential backoff around provider calls.
type RetryPolicy struct {
	MaxRetries uint64
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

type Usecase struct {
	repoSMS   repoSMS
	repoMail  repoMail
	validator validator.Validator
	clock     clock.Clocker
	ins       instrument.Instrumentation
	retry     RetryPolicy
	templates *templates
	brand     brand

	delivered metric.Int64Counter
	failed    metric.Int64Counter
}

type Dependency struct {
	RepoSMS    repoSMS
	RepoMail   repoMail
	Validator  validator.Validator
	Clock      clock.Clocker
	Config     config.Config
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	meter := dep.Instrument.Meter("notification.usecase")

	return &Usecase{
		repoSMS:   dep.RepoSMS,
		repoMail:  dep.RepoMail,
		validator: dep.Validator,
		clock:     dep.Clock,
		ins:       dep.Instrument,
		retry:     retryFromConfig(dep.Config),
		templates: mustTemplates(),
		brand: brand{
			AppName:      dep.Config.GetString("app.name"),
			SupportEmail: dep.Config.GetString("app.support_email"),
		},

		delivered: newCounter(meter, "notification.codes.delivered", "Number of codes handed to a provider"),
		failed:    newCounter(meter, "notification.codes.failed", "Number of codes that could not be delivered"),
	}
}

func retryFromConfig(cfg config.Config) RetryPolicy {
	p := RetryPolicy{
		MaxRetries: cfg.GetUint64("modules.notification.retry.max_retries"),
		BaseDelay:  time.Duration(cfg.GetInt64("modules.notification.retry.base_delay_ms")) * time.Millisecond,
		MaxDelay:   cfg.GetSecond("modules.notification.retry.max_delay_seconds"),
	}
	if p.MaxRetries == 0 {
		p.MaxRetries = DefaultMaxRetries
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultBaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = DefaultMaxDelay
	}
	return p
}

func newCounter(meter metric.Meter, name, desc string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		slog.Error("failed to create counter", "name", name, "error", err)
		c, _ = noop.Meter{}.Int64Counter(name)
	}
	return c
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}
