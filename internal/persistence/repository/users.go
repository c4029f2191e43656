package repository

import (
	"context"
	"errors"
	"time"

	"github.com/aarynsmith/exercisetracker/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/aarynsmith/exercisetracker/internal/persistence/repository"

// UserRepository implements the user and exercise-log operations on top of
// a UserStore. Every error it returns is a *domain.Error.
type UserRepository struct {
	store     domain.UserStore
	publisher domain.ActivityPublisher
	tracer    trace.Tracer
	now       func() time.Time
}

type Option func(*UserRepository)

func WithPublisher(p domain.ActivityPublisher) Option {
	return func(r *UserRepository) {
		if p != nil {
			r.publisher = p
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(r *UserRepository) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithClock sets the source of "today" for entries submitted without a date.
func WithClock(now func() time.Time) Option {
	return func(r *UserRepository) {
		if now != nil {
			r.now = now
		}
	}
}

func NewUserRepository(store domain.UserStore, opts ...Option) *UserRepository {
	r := &UserRepository{
		store:     store,
		publisher: domain.NopPublisher(),
		tracer:    otel.Tracer(tracerName),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *UserRepository) ListUsers(ctx context.Context) ([]domain.UserIdentity, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.ListUsers")
	defer span.End()

	users, err := r.store.ListIdentities(ctx)
	if err != nil {
		return nil, fail(span, domain.NewStoreError("error getting user list", err))
	}

	span.SetAttributes(attribute.Int("users.count", len(users)))
	span.SetStatus(codes.Ok, "")
	return users, nil
}

// CreateUser registers username. The uniqueness check and the insert are
// separate store calls, so two concurrent registrations of the same name
// can both succeed.
func (r *UserRepository) CreateUser(ctx context.Context, username string) (domain.UserIdentity, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.CreateUser")
	defer span.End()

	span.SetAttributes(attribute.String("user.username", username))

	user, err := domain.NewUser(username)
	if err != nil {
		return domain.UserIdentity{}, fail(span, err)
	}

	_, err = r.store.FindOneByUsername(ctx, username)
	switch {
	case err == nil:
		return domain.UserIdentity{}, fail(span, domain.NewValidationError(domain.ErrUsernameTaken))
	case !errors.Is(err, domain.ErrUserNotFound):
		return domain.UserIdentity{}, fail(span, domain.NewStoreError("error checking username", err))
	}

	created, err := r.store.Insert(ctx, user)
	if err != nil {
		return domain.UserIdentity{}, fail(span, domain.NewStoreError("error saving user", err))
	}

	identity := created.Identity()
	span.SetAttributes(attribute.String("user.id", identity.ID))

	if err := r.publisher.PublishUserCreated(ctx, identity); err != nil {
		span.RecordError(err)
	}

	span.SetStatus(codes.Ok, "user created")
	return identity, nil
}

// AppendLogEntry normalizes in and appends it to the user's log, bumping
// count in the same store operation.
func (r *UserRepository) AppendLogEntry(ctx context.Context, userID string, in domain.LogEntryInput) (domain.LoggedExercise, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.AppendLogEntry")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", userID))

	if err := domain.RequireUserID(userID); err != nil {
		return domain.LoggedExercise{}, fail(span, err)
	}

	entry, err := domain.NormalizeEntry(in, r.now())
	if err != nil {
		return domain.LoggedExercise{}, fail(span, err)
	}

	updated, err := r.store.FindOneAndPushLog(ctx, userID, entry)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.LoggedExercise{}, fail(span, domain.NewNotFoundError(domain.ErrUserNotFound))
		}
		return domain.LoggedExercise{}, fail(span, domain.NewStoreError("error saving exercise", err))
	}

	logged := domain.LoggedExercise{
		ID:          updated.ID,
		Username:    updated.Username,
		Date:        entry.Date,
		Duration:    entry.Duration,
		Description: entry.Description,
	}

	if err := r.publisher.PublishExerciseLogged(ctx, logged); err != nil {
		span.RecordError(err)
	}

	span.SetAttributes(attribute.Int("user.count", updated.Count))
	span.SetStatus(codes.Ok, "exercise logged")
	return logged, nil
}

// GetUserWithLog returns the user with filter applied to its log. Count is
// the stored total, not the filtered length.
func (r *UserRepository) GetUserWithLog(ctx context.Context, userID string, filter domain.LogFilter) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.GetUserWithLog")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", userID))

	if err := domain.RequireUserID(userID); err != nil {
		return nil, fail(span, err)
	}

	user, err := r.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fail(span, domain.NewNotFoundError(domain.ErrUserNotFound))
		}
		return nil, fail(span, domain.NewStoreError("error getting user log", err))
	}

	user.Log = domain.ApplyFilters(user.Log, filter)

	span.SetAttributes(
		attribute.Int("user.count", user.Count),
		attribute.Int("log.returned", len(user.Log)),
	)
	span.SetStatus(codes.Ok, "")
	return user, nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
