package sms

import (
	"context"

	"github.com/shandysiswandi/otcgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otcgate/internal/pkg/sms"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type SMS struct {
	client sms.SMS
	ins    instrument.Instrumentation
}

func New(client sms.SMS, ins instrument.Instrumentation) *SMS {
	return &SMS{client: client, ins: ins}
}

// SendSMS returns the provider message ID.
func (s *SMS) SendSMS(ctx context.Context, to, text string) (string, error) {
	ctx, span := s.ins.Tracer("notification.outbound.sms").Start(ctx, "SendSMS")
	defer span.End()

	id, err := s.client.Send(ctx, to, text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	span.SetAttributes(attribute.String("sms.message_id", id))
	return id, nil
}
