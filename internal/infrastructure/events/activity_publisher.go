package events

import (
	"context"
	"encoding/json"

	"github.com/aarynsmith/exercisetracker/internal/domain"
	"github.com/aarynsmith/exercisetracker/internal/infrastructure/contracts"
	"github.com/aarynsmith/exercisetracker/internal/infrastructure/messaging"
)

type messagePublisher interface {
	PublishMessage(ctx context.Context, routingKey string, message contracts.AmqpMessage) error
}

// ActivityPublisher announces tracker writes on the activity exchange.
type ActivityPublisher struct {
	rabbitmq messagePublisher
}

func NewActivityPublisher(rabbitmq messagePublisher) *ActivityPublisher {
	return &ActivityPublisher{
		rabbitmq: rabbitmq,
	}
}

var _ domain.ActivityPublisher = (*ActivityPublisher)(nil)

func (p *ActivityPublisher) PublishUserCreated(ctx context.Context, user domain.UserIdentity) error {
	data, err := json.Marshal(messaging.UserCreatedData{User: user})
	if err != nil {
		return err
	}

	return p.rabbitmq.PublishMessage(ctx, contracts.EventUserCreated, contracts.AmqpMessage{
		OwnerID: user.ID,
		Data:    data,
	})
}

func (p *ActivityPublisher) PublishExerciseLogged(ctx context.Context, exercise domain.LoggedExercise) error {
	data, err := json.Marshal(messaging.ExerciseLoggedData{Exercise: exercise})
	if err != nil {
		return err
	}

	return p.rabbitmq.PublishMessage(ctx, contracts.EventExerciseLogged, contracts.AmqpMessage{
		OwnerID: exercise.ID,
		Data:    data,
	})
}
