package domain

import "context"

// ActivityPublisher announces completed writes to interested consumers.
// Publishing is best effort: a failure never undoes the write.
type ActivityPublisher interface {
	PublishUserCreated(ctx context.Context, user UserIdentity) error
	PublishExerciseLogged(ctx context.Context, exercise LoggedExercise) error
}

type nopPublisher struct{}

// NopPublisher discards every event.
func NopPublisher() ActivityPublisher {
	return nopPublisher{}
}

func (nopPublisher) PublishUserCreated(context.Context, UserIdentity) error { return nil }

func (nopPublisher) PublishExerciseLogged(context.Context, LoggedExercise) error { return nil }
