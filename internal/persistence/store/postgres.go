package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aarynsmith/exercisetracker/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	createUsersTable = `CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	username   TEXT NOT NULL,
	count      INTEGER NOT NULL DEFAULT 0,
	log        JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
)`
	createUsernameIndex = `CREATE INDEX IF NOT EXISTS users_username_idx ON users (username)`

	selectUser = `SELECT id, username, count, log FROM users`
)

// PostgresUserStore keeps each user as a row with the log in a JSONB
// array, so an append is a single UPDATE.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{
		pool: pool,
	}
}

func (s *PostgresUserStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range []string{createUsersTable, createUsernameIndex} {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresUserStore) ListIdentities(ctx context.Context) ([]domain.UserIdentity, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, username FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	identities := make([]domain.UserIdentity, 0)
	for rows.Next() {
		var identity domain.UserIdentity
		if err := rows.Scan(&identity.ID, &identity.Username); err != nil {
			return nil, err
		}
		identities = append(identities, identity)
	}

	return identities, rows.Err()
}

func (s *PostgresUserStore) FindOneByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx, selectUser+` WHERE username = $1 LIMIT 1`, username))
}

func (s *PostgresUserStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx, selectUser+` WHERE id = $1`, id))
}

func (s *PostgresUserStore) Insert(ctx context.Context, user *domain.User) (*domain.User, error) {
	log := user.Log
	if log == nil {
		log = []domain.LogEntry{}
	}
	raw, err := json.Marshal(log)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO users (id, username, count, log) VALUES ($1, $2, $3, $4)`,
		id, user.Username, user.Count, raw,
	)
	if err != nil {
		return nil, err
	}

	return &domain.User{
		ID:       id,
		Username: user.Username,
		Count:    user.Count,
		Log:      append([]domain.LogEntry{}, log...),
	}, nil
}

func (s *PostgresUserStore) FindOneAndPushLog(ctx context.Context, id string, entry domain.LogEntry) (*domain.User, error) {
	raw, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}

	row := s.pool.QueryRow(ctx,
		`UPDATE users
		SET log = log || jsonb_build_array($2::jsonb), count = count + 1
		WHERE id = $1
		RETURNING id, username, count, log`,
		id, raw,
	)

	return s.scanUser(row)
}

func (s *PostgresUserStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresUserStore) Close(ctx context.Context) error {
	s.pool.Close()
	return nil
}

func (s *PostgresUserStore) scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u   domain.User
		raw []byte
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Count, &raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	u.Log = []domain.LogEntry{}
	if err := json.Unmarshal(raw, &u.Log); err != nil {
		return nil, fmt.Errorf("decode log for user %s: %w", u.ID, err)
	}

	return &u, nil
}
