package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/otcgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otcgate/internal/pkg/locker"
	"github.com/shandysiswandi/otcgate/internal/verification/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type RequestCodeInput struct {
	SubjectKey int64 `validate:"required,gt=0"`
	Kind       entity.Kind
	Target     string
}

type RequestCodeOutput struct {
	ExpiresAt  time.Time
	SendsToday int
}

// RequestCode issues a fresh code for the subject, replacing any code it had.
func (s *Usecase) RequestCode(ctx context.Context, in RequestCodeInput) (*RequestCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "RequestCode")
	defer span.End()

	in.Target = strings.TrimSpace(in.Target)
	if in.Kind == entity.KindEmailUpdate {
		in.Target = strings.ToLower(in.Target)
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}
	if in.Kind.IsUnknown() {
		return nil, goerror.NewInvalidInput(nil, "kind", "kind is unknown")
	}

	address, err := s.resolveAddress(ctx, in.Kind, in.SubjectKey, in.Target)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, lockKey(in.Kind, in.SubjectKey), s.policy.LockTTL)
	if errors.Is(err, locker.ErrLocked) {
		slog.WarnContext(ctx, "code request already in flight", "kind", in.Kind.String(), "subject_key", in.SubjectKey)
		s.rateLimited.Add(ctx, 1, kindAttr(in.Kind, attribute.String("reason", ReasonCooldown)))
		return nil, goerror.NewRateLimited("too many code requests", ReasonCooldown, s.policy.Cooldown)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to acquire subject lock", "kind", in.Kind.String(), "subject_key", in.SubjectKey, "error", err)
		return nil, goerror.NewServer(err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			slog.WarnContext(ctx, "failed to release subject lock", "kind", in.Kind.String(), "subject_key", in.SubjectKey, "error", err)
		}
	}()

	now := s.clock.Now()

	dec, err := s.limiter.Check(ctx, in.Kind, in.SubjectKey, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check send limit", "kind", in.Kind.String(), "subject_key", in.SubjectKey, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !dec.Allowed {
		s.rateLimited.Add(ctx, 1, kindAttr(in.Kind, attribute.String("reason", dec.Reason)))
		return nil, goerror.NewRateLimited("too many code requests", dec.Reason, dec.RetryAfter)
	}

	code, err := GenerateCode()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate code", "error", err)
		return nil, goerror.NewServer(err)
	}

	codeHash, err := s.codeHash.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash code", "error", err)
		return nil, goerror.NewServer(err)
	}

	slot, err := s.repoSlot.UpsertSlot(ctx, entity.UpsertSlot{
		Kind:       in.Kind,
		SubjectKey: in.SubjectKey,
		CodeHash:   string(codeHash),
		Target:     address,
		ValidUntil: now.Add(s.policy.CodeTTL),
		SentAt:     now,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo upsert slot", "kind", in.Kind.String(), "subject_key", in.SubjectKey, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.limiter.Record(ctx, in.Kind, in.SubjectKey, now); err != nil {
		slog.ErrorContext(ctx, "failed to record code send", "kind", in.Kind.String(), "subject_key", in.SubjectKey, "error", err)
	}

	s.issued.Add(ctx, 1, kindAttr(in.Kind))

	s.notify(ctx, CodeIssuedEvent{
		Kind:       in.Kind,
		SubjectKey: in.SubjectKey,
		Channel:    in.Kind.Channel(),
		Address:    address,
		Code:       code,
		ExpiresAt:  slot.ValidUntil,
	})

	return &RequestCodeOutput{
		ExpiresAt:  slot.ValidUntil,
		SendsToday: dec.SentToday + 1,
	}, nil
}

// notify hands the code to the notifier without waiting. The request context
// may end before delivery starts, so the task runs detached from it.
func (s *Usecase) notify(ctx context.Context, ev CodeIssuedEvent) {
	started := s.goroutine.Go(context.WithoutCancel(ctx), "verification.notify", func(ctx context.Context) error {
		if err := s.notifier.PublishCodeIssued(ctx, ev); err != nil {
			slog.ErrorContext(ctx, "failed to publish code issued", "kind", ev.Kind.String(), "subject_key", ev.SubjectKey, "error", err)
		}
		return nil
	})
	if !started {
		slog.WarnContext(ctx, "code notification was not scheduled", "kind", ev.Kind.String(), "subject_key", ev.SubjectKey)
	}
}

func lockKey(kind entity.Kind, subjectKey int64) string {
	return fmt.Sprintf("verification:%s:%d", kind, subjectKey)
}

func kindAttr(kind entity.Kind, extra ...attribute.KeyValue) metric.AddOption {
	return metric.WithAttributes(append([]attribute.KeyValue{attribute.String("kind", kind.String())}, extra...)...)
}
