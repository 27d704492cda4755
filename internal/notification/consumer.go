package notification

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/MutabPato/alx-travel-app-0x01/internal/domain"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/applog"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/kafka"
)

const consumerGroupID = "travelapp-notification-group"

type Consumer struct {
	service *Service
	logger  *zap.Logger
}

func NewConsumer(service *Service, logger *zap.Logger) *Consumer {
	return &Consumer{
		service: service,
		logger:  logger,
	}
}

func (c *Consumer) Start(ctx context.Context, brokers []string, topic string) error {
	consumerGroup := kafka.NewConsumerGroup(
		brokers,
		consumerGroupID,
		[]string{topic},
		c.processMessage,
		c.logger,
	)

	return consumerGroup.Run(ctx)
}

func (c *Consumer) processMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	applog.Info(
		ctx,
		c.logger,
		"Processing message",
		zap.String("topic", msg.Topic),
	)

	// The outbox worker flattens event type and id into the payload.
	var envelope struct {
		Event   string `json:"event"`
		EventID int64  `json:"event_id"`
	}

	if err := json.Unmarshal(msg.Value, &envelope); err != nil {
		applog.Error(ctx, c.logger, "Error unmarshalling envelope", zap.Error(err))
		return nil
	}

	switch envelope.Event {
	case domain.EventPaymentCompleted:
		var event domain.PaymentCompletedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			applog.Error(ctx, c.logger, "Error parsing payment completed event", zap.Error(err))
			return nil
		}

		return c.service.HandlePaymentCompleted(ctx, envelope.EventID, event)
	case domain.EventPaymentCancelled:
		var event domain.PaymentCancelledEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			applog.Error(ctx, c.logger, "Error parsing payment cancelled event", zap.Error(err))
			return nil
		}

		return c.service.HandlePaymentCancelled(ctx, envelope.EventID, event)
	default:
		applog.Warn(ctx, c.logger, "Ignored event type", zap.String("event", envelope.Event))
	}

	return nil
}
