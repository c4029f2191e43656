package store

import (
	"context"
	"sync"

	"github.com/aarynsmith/exercisetracker/internal/domain"
	"github.com/google/uuid"
)

// MemoryUserStore keeps users in process memory. Each method is atomic on
// its own; like the other drivers it does not serialize a lookup with a
// later insert.
type MemoryUserStore struct {
	users map[string]*domain.User
	order []string
	mu    *sync.RWMutex
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users: make(map[string]*domain.User),
		mu:    &sync.RWMutex{},
	}
}

func (s *MemoryUserStore) ListIdentities(ctx context.Context) ([]domain.UserIdentity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	identities := make([]domain.UserIdentity, 0, len(s.order))
	for _, id := range s.order {
		identities = append(identities, s.users[id].Identity())
	}

	return identities, nil
}

func (s *MemoryUserStore) FindOneByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		if u := s.users[id]; u.Username == username {
			return cloneUser(u), nil
		}
	}

	return nil, domain.ErrUserNotFound
}

func (s *MemoryUserStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	return cloneUser(u), nil
}

func (s *MemoryUserStore) Insert(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stored := cloneUser(user)
	stored.ID = uuid.NewString()

	s.mu.Lock()
	s.users[stored.ID] = stored
	s.order = append(s.order, stored.ID)
	s.mu.Unlock()

	return cloneUser(stored), nil
}

func (s *MemoryUserStore) FindOneAndPushLog(ctx context.Context, id string, entry domain.LogEntry) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	u.Log = append(u.Log, entry)
	u.Count++

	return cloneUser(u), nil
}

func (s *MemoryUserStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryUserStore) Close(ctx context.Context) error {
	return nil
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.Log = make([]domain.LogEntry, len(u.Log))
	copy(c.Log, u.Log)
	return &c
}
