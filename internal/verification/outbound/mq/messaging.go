package mq

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/shandysiswandi/otcgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otcgate/internal/pkg/messaging"
	"github.com/shandysiswandi/otcgate/internal/shared/event"
	"github.com/shandysiswandi/otcgate/internal/verification/usecase"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishCodeIssued(ctx context.Context, ev usecase.CodeIssuedEvent) error {
	ctx, span := m.ins.Tracer("verification.outbound.mq").Start(ctx, "PublishCodeIssued")
	defer span.End()

	body, err := json.Marshal(event.CodeIssuedMessage{
		Kind:       ev.Kind.String(),
		SubjectKey: ev.SubjectKey,
		Channel:    string(ev.Channel),
		Address:    ev.Address,
		Code:       ev.Code,
		ExpiresAt:  ev.ExpiresAt.Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if _, err := m.client.Publish(ctx, event.CodeIssuedDestination, messaging.OutgoingMessage{
		Body:        body,
		Key:         []byte(strconv.FormatInt(ev.SubjectKey, 10)),
		Headers:     map[string]string{keyOfCorrelationID: instrument.GetCorrelationID(ctx)},
		OrderingKey: ev.Kind.String() + ":" + strconv.FormatInt(ev.SubjectKey, 10),
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
