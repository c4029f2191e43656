package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aarynsmith/exercisetracker/internal/infrastructure/contracts"
	"github.com/aarynsmith/exercisetracker/internal/infrastructure/logging"
	"github.com/aarynsmith/exercisetracker/internal/infrastructure/messaging"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ActivityConsumer drains the activity queue into the service log, giving an
// audit trail of registrations and logged exercises.
type ActivityConsumer struct {
	rabbitmq *messaging.RabbitMQ
	logger   logging.Logger
}

func NewActivityConsumer(rabbitmq *messaging.RabbitMQ, logger logging.Logger) *ActivityConsumer {
	return &ActivityConsumer{
		rabbitmq: rabbitmq,
		logger:   logger,
	}
}

func (c *ActivityConsumer) Listen(ctx context.Context) error {
	return c.rabbitmq.ConsumeMessages(ctx, messaging.ActivityQueue, c.handle)
}

func (c *ActivityConsumer) handle(_ context.Context, msg amqp.Delivery) error {
	extra, err := decodeActivity(msg.RoutingKey, msg.Body)
	if err != nil {
		c.logger.Error(logging.RabbitMQ, logging.Publish, "failed to decode activity event", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
		return err
	}

	c.logger.Info(logging.RabbitMQ, logging.Publish, "activity event received", extra)
	return nil
}

func decodeActivity(routingKey string, body []byte) (map[logging.ExtraKey]any, error) {
	var message contracts.AmqpMessage
	if err := json.Unmarshal(body, &message); err != nil {
		return nil, err
	}

	extra := map[logging.ExtraKey]any{
		"event":  routingKey,
		"userId": message.OwnerID,
	}

	switch routingKey {
	case contracts.EventUserCreated:
		var payload messaging.UserCreatedData
		if err := json.Unmarshal(message.Data, &payload); err != nil {
			return nil, err
		}
		extra["username"] = payload.User.Username
	case contracts.EventExerciseLogged:
		var payload messaging.ExerciseLoggedData
		if err := json.Unmarshal(message.Data, &payload); err != nil {
			return nil, err
		}
		extra["description"] = payload.Exercise.Description
		extra["duration"] = payload.Exercise.Duration
		extra["date"] = payload.Exercise.Date
	default:
		return nil, fmt.Errorf("unknown routing key %q", routingKey)
	}

	return extra, nil
}
