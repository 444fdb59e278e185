package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/otcgate/internal/pkg/clock"
	"github.com/shandysiswandi/otcgate/internal/pkg/config"
	"github.com/shandysiswandi/otcgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/otcgate/internal/pkg/hash"
	"github.com/shandysiswandi/otcgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otcgate/internal/pkg/locker"
	"github.com/shandysiswandi/otcgate/internal/pkg/uid"
	"github.com/shandysiswandi/otcgate/internal/pkg/validator"
	"github.com/shandysiswandi/otcgate/internal/verification/entity"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

// CodeIssuedEvent is handed to the notifier after a code is committed.
type CodeIssuedEvent struct {
	Kind       entity.Kind
	SubjectKey int64
	Channel    entity.Channel
	Address    string
	Code       string
	ExpiresAt  time.Time
}

type repoSlot interface {
	GetSlot(ctx context.Context, kind entity.Kind, subjectKey int64) (*entity.Slot, error)
	UpsertSlot(ctx context.Context, in entity.UpsertSlot) (*entity.Slot, error)
	MarkSlotVerified(ctx context.Context, kind entity.Kind, subjectKey int64, codeHash string, now time.Time) (*entity.Slot, error)
}

type repoAttempt interface {
	GetAttempt(ctx context.Context, id int64) (*entity.Attempt, error)
	CreateAttempt(ctx context.Context, in entity.Attempt) error
	DeleteStaleAttempts(ctx context.Context, before time.Time) (int64, error)
}

type repoAccount interface {
	GetAccount(ctx context.Context, id int64) (*entity.Account, error)
	AccountPhoneExists(ctx context.Context, phone string, exceptID int64) (bool, error)
	AccountEmailExists(ctx context.Context, email string, exceptID int64) (bool, error)
	PromoteAttempt(ctx context.Context, attemptID int64, acc entity.Account) error
	UpdateAccountProfile(ctx context.Context, in entity.AccountProfile) error
	MarkAccountEmailVerified(ctx context.Context, id int64, email string, now time.Time) error
	UpdateAccountPhone(ctx context.Context, id int64, phone string, now time.Time) error
	UpdateAccountEmail(ctx context.Context, id int64, email string, now time.Time) error
}

// SendLog records issued codes per (kind, subject) for the rate limiter.
type SendLog interface {
	Stats(ctx context.Context, kind entity.Kind, subjectKey int64, since time.Time) (entity.SendStats, error)
	Record(ctx context.Context, kind entity.Kind, subjectKey int64, at time.Time) error
	Prune(ctx context.Context, before time.Time) (int64, error)
}

type notifier interface {
	PublishCodeIssued(ctx context.Context, ev CodeIssuedEvent) error
}

type Usecase struct {
	repoSlot    repoSlot
	repoAttempt repoAttempt
	repoAccount repoAccount
	limiter     *Limiter
	notifier    notifier
	locker      locker.Locker
	validator   validator.Validator
	policy      Policy
	codeHash    hash.Hash
	password    hash.Hash
	uid         uid.NumberID
	clock       clock.Clocker
	ins         instrument.Instrumentation
	goroutine   *goroutine.Manager

	issued      metric.Int64Counter
	confirmed   metric.Int64Counter
	rejected    metric.Int64Counter
	rateLimited metric.Int64Counter
}

type Dependency struct {
	RepoSlot    repoSlot
	RepoAttempt repoAttempt
	RepoAccount repoAccount
	SendLog     SendLog
	Notifier    notifier
	Locker      locker.Locker
	Validator   validator.Validator
	Policy      Policy
	CodeHash    hash.Hash
	Password    hash.Hash
	UID         uid.NumberID
	Clock       clock.Clocker
	Instrument  instrument.Instrumentation
	Goroutine   *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	policy := dep.Policy.withDefaults()
	meter := dep.Instrument.Meter("verification.usecase")

	return &Usecase{
		repoSlot:    dep.RepoSlot,
		repoAttempt: dep.RepoAttempt,
		repoAccount: dep.RepoAccount,
		limiter:     NewLimiter(dep.SendLog, policy),
		notifier:    dep.Notifier,
		locker:      dep.Locker,
		validator:   dep.Validator,
		policy:      policy,
		codeHash:    dep.CodeHash,
		password:    dep.Password,
		uid:         dep.UID,
		clock:       dep.Clock,
		ins:         dep.Instrument,
		goroutine:   dep.Goroutine,

		issued:      newCounter(meter, "otc.codes.issued", "Number of one-time codes issued"),
		confirmed:   newCounter(meter, "otc.codes.confirmed", "Number of one-time codes confirmed"),
		rejected:    newCounter(meter, "otc.codes.rejected", "Number of one-time code confirmations rejected"),
		rateLimited: newCounter(meter, "otc.requests.rate_limited", "Number of code requests denied by the limiter"),
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("verification.usecase").Start(ctx, name)
}

func newCounter(meter metric.Meter, name, desc string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		slog.Error("failed to create counter", "name", name, "error", err)
		c, _ = noop.Meter{}.Int64Counter(name)
	}
	return c
}

// Policy holds the timing windows and caps of the engine.
type Policy struct {
	CodeTTL     time.Duration
	Cooldown    time.Duration
	DailyWindow time.Duration
	DailyCap    int
	LockTTL     time.Duration
	AttemptTTL  time.Duration
}

const (
	DefaultCodeTTL     = 5 * time.Minute
	DefaultCooldown    = 60 * time.Second
	DefaultDailyWindow = 24 * time.Hour
	DefaultDailyCap    = 10
	DefaultLockTTL     = 10 * time.Second
	DefaultAttemptTTL  = 72 * time.Hour
)

// PolicyFromConfig reads modules.verification.*; unset keys keep the defaults.
func PolicyFromConfig(cfg config.Config) Policy {
	return Policy{
		CodeTTL:     cfg.GetSecond("modules.verification.code_ttl_seconds"),
		Cooldown:    cfg.GetSecond("modules.verification.cooldown_seconds"),
		DailyWindow: cfg.GetHour("modules.verification.daily_window_hours"),
		DailyCap:    cfg.GetInt("modules.verification.daily_cap"),
		LockTTL:     cfg.GetSecond("modules.verification.lock_ttl_seconds"),
		AttemptTTL:  cfg.GetHour("modules.verification.attempt_ttl_hours"),
	}.withDefaults()
}

func (p Policy) withDefaults() Policy {
	if p.CodeTTL <= 0 {
		p.CodeTTL = DefaultCodeTTL
	}
	if p.Cooldown <= 0 {
		p.Cooldown = DefaultCooldown
	}
	if p.DailyWindow <= 0 {
		p.DailyWindow = DefaultDailyWindow
	}
	if p.DailyCap <= 0 {
		p.DailyCap = DefaultDailyCap
	}
	if p.LockTTL <= 0 {
		p.LockTTL = DefaultLockTTL
	}
	if p.AttemptTTL <= 0 {
		p.AttemptTTL = DefaultAttemptTTL
	}
	return p
}
