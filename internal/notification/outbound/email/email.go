package email

import (
	"context"

	"github.com/shandysiswandi/otcgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otcgate/internal/pkg/mail"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Mail struct {
	client mail.Mail
	ins    instrument.Instrumentation
}

func New(client mail.Mail, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, ins: ins}
}

func (m *Mail) SendMail(ctx context.Context, to, subject, text, html string) error {
	ctx, span := m.ins.Tracer("notification.outbound.email").Start(ctx, "SendMail")
	defer span.End()

	if err := m.client.Send(ctx, mail.Message{
		To:       []string{to},
		Subject:  subject,
		TextBody: text,
		HTMLBody: html,
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.Int("mail.recipients", 1))
	return nil
}
