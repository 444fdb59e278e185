package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/otcgate/internal/notification/entity"
	"github.com/shandysiswandi/otcgate/internal/pkg/mail"
	"github.com/shandysiswandi/otcgate/internal/pkg/sms"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// permanentErrors stop the backoff immediately; the provider already said no.
var permanentErrors = []error{sms.ErrRejected, sms.ErrNoRecipient, mail.ErrNoRecipients, mail.ErrNoSender}

type DeliverCodeInput struct {
	Purpose   string    `validate:"required,oneof=phone-signup phone-update email-verify email-update"`
	Channel   string    `validate:"required,oneof=sms email"`
	Address   string    `validate:"required,max=255"`
	Code      string    `validate:"required,numeric,len=6"`
	ExpiresAt time.Time `validate:"required"`
}

// DeliverCode renders and sends one code. Invalid, expired or permanently
// rejected deliveries are logged and dropped (nil error) so the broker does
// not redeliver them; transient failures that outlive the backoff are
// returned.
func (s *Usecase) DeliverCode(ctx context.Context, in DeliverCodeInput) error {
	ctx, span := s.startSpan(ctx, "DeliverCode")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	d := deliveryOf(in)
	attrs := metric.WithAttributes(
		attribute.String("channel", d.Channel.String()),
		attribute.String("purpose", d.Purpose.String()),
	)

	now := s.clock.Now()
	if !now.Before(d.ExpiresAt) {
		slog.WarnContext(ctx, "code expired before delivery, dropped", "purpose", d.Purpose.String(), "to", maskAddress(d))
		s.failed.Add(ctx, 1, attrs)
		return nil
	}

	msg, err := s.templates.render(d, s.brand, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render code message", "purpose", d.Purpose.String(), "error", err)
		s.failed.Add(ctx, 1, attrs)
		return nil
	}

	err = retry.Do(ctx, s.backoff(d.ExpiresAt.Sub(now)), func(ctx context.Context) error {
		sendErr := s.send(ctx, d, msg)
		if sendErr == nil || isPermanent(sendErr) {
			return sendErr
		}
		slog.WarnContext(ctx, "code delivery attempt failed", "channel", d.Channel.String(), "to", maskAddress(d), "error", sendErr)
		return retry.RetryableError(sendErr)
	})
	if err != nil {
		s.failed.Add(ctx, 1, attrs)
		slog.ErrorContext(ctx, "failed to deliver code", "channel", d.Channel.String(), "to", maskAddress(d), "error", err)
		if isPermanent(err) {
			return nil
		}
		return err
	}

	s.delivered.Add(ctx, 1, attrs)
	slog.InfoContext(ctx, "code delivered", "channel", d.Channel.String(), "purpose", d.Purpose.String(), "to", maskAddress(d))

	return nil
}

func deliveryOf(in DeliverCodeInput) entity.CodeDelivery {
	return entity.CodeDelivery{
		Purpose:   entity.PurposeFromString(in.Purpose),
		Channel:   entity.ChannelFromString(in.Channel),
		Address:   strings.TrimSpace(in.Address),
		Code:      in.Code,
		ExpiresAt: in.ExpiresAt,
	}
}

func (s *Usecase) send(ctx context.Context, d entity.CodeDelivery, msg entity.Rendered) error {
	switch d.Channel {
	case entity.ChannelSMS:
		_, err := s.repoSMS.SendSMS(ctx, d.Address, msg.Text)
		return err
	case entity.ChannelEmail:
		return s.repoMail.SendMail(ctx, d.Address, msg.Subject, msg.Text, msg.HTML)
	default:
		return errors.New("notification: unsupported channel " + d.Channel.String())
	}
}

// backoff is exponential, capped per step, bounded in attempts and never
// retries past the code's own lifetime.
func (s *Usecase) backoff(remaining time.Duration) retry.Backoff {
	b := retry.NewExponential(s.retry.BaseDelay)
	b = retry.WithCappedDuration(s.retry.MaxDelay, b)
	b = retry.WithMaxRetries(s.retry.MaxRetries, b)
	return retry.WithMaxDuration(remaining, b)
}

func isPermanent(err error) bool {
	return lo.ContainsBy(permanentErrors, func(target error) bool {
		return errors.Is(err, target)
	})
}

// maskAddress keeps enough of the address to correlate logs.
func maskAddress(d entity.CodeDelivery) string {
	if d.Channel == entity.ChannelEmail {
		local, domain, ok := strings.Cut(d.Address, "@")
		if !ok || local == "" {
			return "***"
		}
		return local[:1] + "***@" + domain
	}

	if len(d.Address) <= 4 {
		return "***"
	}
	return "***" + d.Address[len(d.Address)-4:]
}
