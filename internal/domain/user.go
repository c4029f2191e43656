package domain

import (
	"context"

	"github.com/aarynsmith/exercisetracker/internal/infrastructure/validate"
)

type User struct {
	ID       string     `json:"id"`
	Username string     `json:"username"`
	Count    int        `json:"count"`
	Log      []LogEntry `json:"log"`
}

// UserIdentity is the {id, username} projection used by listings and
// registration responses.
type UserIdentity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// UserStore is the document store adapter. Implementations return
// ErrUserNotFound when no document matches.
type UserStore interface {
	ListIdentities(ctx context.Context) ([]UserIdentity, error)
	FindOneByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Insert(ctx context.Context, user *User) (*User, error)
	// FindOneAndPushLog appends entry to the user's log and increments count
	// in a single atomic operation, returning the updated document.
	FindOneAndPushLog(ctx context.Context, id string, entry LogEntry) (*User, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

var validateUsername = validate.Field("username", validate.Required())

// NewUser builds an unsaved user. The name is kept exactly as given since
// uniqueness is a case-sensitive exact match.
func NewUser(rawName string) (*User, error) {
	if err := validateUsername(rawName); err != nil {
		return nil, NewValidationError(err)
	}

	return &User{
		Username: rawName,
		Count:    0,
		Log:      []LogEntry{},
	}, nil
}

// RequireUserID rejects an absent user id before any store access.
func RequireUserID(id string) error {
	if id == "" {
		return NewValidationError(ErrNoUserID)
	}
	return nil
}

func (u *User) Identity() UserIdentity {
	return UserIdentity{ID: u.ID, Username: u.Username}
}
