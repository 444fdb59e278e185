package inbound

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/shandysiswandi/otcgate/internal/notification/usecase"
	"github.com/shandysiswandi/otcgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otcgate/internal/pkg/messaging"
	"github.com/shandysiswandi/otcgate/internal/pkg/uid"
	"github.com/shandysiswandi/otcgate/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, msg messaging.Message) context.Context {
	if cID := msg.Header(keyOfCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

// CodeIssuedNotification delivers a freshly issued code. The body carries
// the plaintext code, so it is never logged.
func (h *MQHandler) CodeIssuedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "CodeIssuedNotification")
	defer span.End()

	slog.InfoContext(ctx, "consume: code issued notification", "msg_id", msg.ID())

	var payload event.CodeIssuedMessage
	if err := json.Unmarshal(msg.Body(), &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of code issued notification", "msg_id", msg.ID(), "error", err)
		return nil
	}

	if err := h.uc.DeliverCode(ctx, usecase.DeliverCodeInput{
		Purpose:   payload.Kind,
		Channel:   payload.Channel,
		Address:   payload.Address,
		Code:      payload.Code,
		ExpiresAt: time.Unix(payload.ExpiresAt, 0).UTC(),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume code issued", "msg_id", msg.ID(), "kind", payload.Kind, "error", err)
		return err
	}

	return nil
}
