package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shandysiswandi/otcgate/internal/pkg/config"
	"github.com/shandysiswandi/otcgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/otcgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otcgate/internal/pkg/messaging"
	"github.com/shandysiswandi/otcgate/internal/pkg/uid"
	"github.com/shandysiswandi/otcgate/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Consumer,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.notification.consumer_names")
	concurrency := max(cfg.GetInt("modules.notification.concurrency"), 1)

	var consumers = []struct {
		name               string
		topic              string // destination where publisher sent message
		nsqConsumerName    string // for nsq
		natsConsumerName   string // for nats
		kafkaConsumerName  string // for kafka
		pubsubConsumerName string // for google pubsub
		handler            messaging.Handler
	}{
		{
			name:               event.CodeIssuedConsumerNotification,
			topic:              event.CodeIssuedDestination,
			nsqConsumerName:    "notification",
			natsConsumerName:   event.CodeIssuedConsumerNotification,
			kafkaConsumerName:  event.CodeIssuedConsumerNotification,
			pubsubConsumerName: event.CodeIssuedConsumerNotification,
			handler:            mqHandler.CodeIssuedNotification,
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && !slices.Contains(enableConsumerNames, consumer.name) {
			slog.InfoContext(ctx, "consumer disabled by config", "consumer", consumer.name)
			continue
		}

		routine.Go(ctx, "notification.consumer."+consumer.name, func(pCtx context.Context) error {
			slog.InfoContext(pCtx, "Running job for handling consumer", "consumer", consumer.name)
			return messenger.Consume(pCtx,
				consumer.topic,
				consumer.handler,
				messaging.WithChannel(consumer.nsqConsumerName),
				messaging.WithQueueGroup(consumer.natsConsumerName),
				messaging.WithGroup(consumer.kafkaConsumerName),
				messaging.WithSubscription(consumer.pubsubConsumerName),
				messaging.WithAutoAck(true),
				messaging.WithConcurrency(concurrency),
				messaging.WithMaxInFlight(concurrency),
			)
		})
	}
}
