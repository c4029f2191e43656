package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aarynsmith/exercisetracker/internal/domain"
	"github.com/aarynsmith/exercisetracker/internal/persistence/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore counts calls and can fail on demand. Unset errors delegate to
// an in-memory store.
type fakeStore struct {
	*store.MemoryUserStore

	mu        sync.Mutex
	calls     int
	listErr   error
	findErr   error
	insertErr error
	pushErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{MemoryUserStore: store.NewMemoryUserStore()}
}

func (f *fakeStore) record() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeStore) ListIdentities(ctx context.Context) ([]domain.UserIdentity, error) {
	f.record()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.MemoryUserStore.ListIdentities(ctx)
}

func (f *fakeStore) FindOneByUsername(ctx context.Context, username string) (*domain.User, error) {
	f.record()
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.MemoryUserStore.FindOneByUsername(ctx, username)
}

func (f *fakeStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	f.record()
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.MemoryUserStore.FindByID(ctx, id)
}

func (f *fakeStore) Insert(ctx context.Context, user *domain.User) (*domain.User, error) {
	f.record()
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	return f.MemoryUserStore.Insert(ctx, user)
}

func (f *fakeStore) FindOneAndPushLog(ctx context.Context, id string, entry domain.LogEntry) (*domain.User, error) {
	f.record()
	if f.pushErr != nil {
		return nil, f.pushErr
	}
	return f.MemoryUserStore.FindOneAndPushLog(ctx, id, entry)
}

type recordingPublisher struct {
	users     []domain.UserIdentity
	exercises []domain.LoggedExercise
	err       error
}

func (p *recordingPublisher) PublishUserCreated(_ context.Context, u domain.UserIdentity) error {
	p.users = append(p.users, u)
	return p.err
}

func (p *recordingPublisher) PublishExerciseLogged(_ context.Context, e domain.LoggedExercise) error {
	p.exercises = append(p.exercises, e)
	return p.err
}

func fixedClock() time.Time {
	return time.Date(2024, time.February, 29, 8, 0, 0, 0, time.UTC)
}

func requireKind(t *testing.T, err error, kind domain.ErrorKind, message string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, domain.KindOf(err))
	assert.Equal(t, message, err.Error())
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newFakeStore())

	first, err := repo.CreateUser(ctx, "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "alice", first.Username)

	_, err = repo.CreateUser(ctx, "alice")
	requireKind(t, err, domain.KindValidation, "username already taken")
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	other, err := repo.CreateUser(ctx, "Alice")
	require.NoError(t, err, "uniqueness is case sensitive")
	assert.NotEqual(t, first.ID, other.ID)

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.UserIdentity{first, other}, users)
}

func TestCreateUser_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("empty username", func(t *testing.T) {
		fs := newFakeStore()
		_, err := NewUserRepository(fs).CreateUser(ctx, "")
		requireKind(t, err, domain.KindValidation, "username is required")
		assert.Zero(t, fs.calls)
	})

	t.Run("lookup failure", func(t *testing.T) {
		fs := newFakeStore()
		fs.findErr = errors.New("connection reset")
		_, err := NewUserRepository(fs).CreateUser(ctx, "bob")
		requireKind(t, err, domain.KindStore, "error checking username")
	})

	t.Run("insert failure", func(t *testing.T) {
		fs := newFakeStore()
		fs.insertErr = errors.New("disk full")
		_, err := NewUserRepository(fs).CreateUser(ctx, "bob")
		requireKind(t, err, domain.KindStore, "error saving user")
		assert.EqualError(t, errors.Unwrap(err), "disk full")
	})
}

func TestListUsers_StoreFailure(t *testing.T) {
	fs := newFakeStore()
	fs.listErr = errors.New("timeout")

	_, err := NewUserRepository(fs).ListUsers(context.Background())

	requireKind(t, err, domain.KindStore, "error getting user list")
}

func TestAppendLogEntry(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	repo := NewUserRepository(newFakeStore(), WithClock(fixedClock), WithPublisher(pub))

	user, err := repo.CreateUser(ctx, "alice")
	require.NoError(t, err)

	for i, duration := range []string{"30", "12.5", "45"} {
		got, err := repo.AppendLogEntry(ctx, user.ID, domain.LogEntryInput{Description: "run", Duration: duration})
		require.NoError(t, err)

		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, "alice", got.Username)
		assert.Equal(t, "Thu Feb 29 2024", got.Date)
		assert.Equal(t, "run", got.Description)

		stored, err := repo.GetUserWithLog(ctx, user.ID, domain.LogFilter{})
		require.NoError(t, err)
		assert.Equal(t, i+1, stored.Count)
		assert.Len(t, stored.Log, i+1)
		assert.Equal(t, got.Duration, stored.Log[i].Duration)
	}

	assert.Len(t, pub.users, 1)
	assert.Len(t, pub.exercises, 3)
}

func TestAppendLogEntry_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("missing user id never touches the store", func(t *testing.T) {
		fs := newFakeStore()
		_, err := NewUserRepository(fs).AppendLogEntry(ctx, "", domain.LogEntryInput{Description: "run", Duration: "5"})
		requireKind(t, err, domain.KindValidation, "no user id specified")
		assert.Zero(t, fs.calls)
	})

	t.Run("user id reported before entry errors", func(t *testing.T) {
		fs := newFakeStore()
		_, err := NewUserRepository(fs).AppendLogEntry(ctx, "", domain.LogEntryInput{})
		requireKind(t, err, domain.KindValidation, "no user id specified")
	})

	t.Run("invalid entry never touches the store", func(t *testing.T) {
		fs := newFakeStore()
		_, err := NewUserRepository(fs).AppendLogEntry(ctx, "abc", domain.LogEntryInput{Description: "run", Duration: "lots"})
		requireKind(t, err, domain.KindValidation, "duration must be a number")
		assert.Zero(t, fs.calls)
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		_, err := NewUserRepository(newFakeStore()).AppendLogEntry(ctx, "missing", domain.LogEntryInput{Description: "run", Duration: "5"})
		requireKind(t, err, domain.KindNotFound, "user not found")
	})

	t.Run("store failure", func(t *testing.T) {
		fs := newFakeStore()
		fs.pushErr = errors.New("write conflict")
		_, err := NewUserRepository(fs).AppendLogEntry(ctx, "abc", domain.LogEntryInput{Description: "run", Duration: "5"})
		requireKind(t, err, domain.KindStore, "error saving exercise")
	})

	t.Run("publisher failure does not fail the append", func(t *testing.T) {
		pub := &recordingPublisher{err: errors.New("broker down")}
		repo := NewUserRepository(newFakeStore(), WithPublisher(pub))
		u, err := repo.CreateUser(ctx, "erin")
		require.NoError(t, err)
		_, err = repo.AppendLogEntry(ctx, u.ID, domain.LogEntryInput{Description: "run", Duration: "5"})
		require.NoError(t, err)
	})
}

func TestGetUserWithLog_FiltersViewOnly(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newFakeStore())

	user, err := repo.CreateUser(ctx, "alice")
	require.NoError(t, err)

	for _, date := range []string{"2024-01-01", "2024-01-10", "2024-01-20"} {
		_, err := repo.AppendLogEntry(ctx, user.ID, domain.LogEntryInput{Description: date, Duration: "10", Date: date})
		require.NoError(t, err)
	}

	ranged, err := domain.ParseLogFilter("2024-01-05", "2024-01-15", "")
	require.NoError(t, err)
	got, err := repo.GetUserWithLog(ctx, user.ID, ranged)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Count)
	require.Len(t, got.Log, 1)
	assert.Equal(t, "Wed Jan 10 2024", got.Log[0].Date)

	limited, err := domain.ParseLogFilter("", "", "1")
	require.NoError(t, err)
	got, err = repo.GetUserWithLog(ctx, user.ID, limited)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Count)
	require.Len(t, got.Log, 1)
	assert.Equal(t, "Mon Jan 01 2024", got.Log[0].Date)

	full, err := repo.GetUserWithLog(ctx, user.ID, domain.LogFilter{})
	require.NoError(t, err)
	assert.Len(t, full.Log, 3, "filtering must not change the stored log")
}

func TestGetUserWithLog_Failures(t *testing.T) {
	ctx := context.Background()

	_, err := NewUserRepository(newFakeStore()).GetUserWithLog(ctx, "", domain.LogFilter{})
	requireKind(t, err, domain.KindValidation, "no user id specified")

	_, err = NewUserRepository(newFakeStore()).GetUserWithLog(ctx, "nobody", domain.LogFilter{})
	requireKind(t, err, domain.KindNotFound, "user not found")

	fs := newFakeStore()
	fs.findErr = errors.New("boom")
	_, err = NewUserRepository(fs).GetUserWithLog(ctx, "someone", domain.LogFilter{})
	requireKind(t, err, domain.KindStore, "error getting user log")
}

// gatedStore holds every username lookup until `parties` lookups are in
// flight, forcing concurrent registrations to interleave.
type gatedStore struct {
	*store.MemoryUserStore
	arrived sync.WaitGroup
}

func (g *gatedStore) FindOneByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := g.MemoryUserStore.FindOneByUsername(ctx, username)
	g.arrived.Done()
	g.arrived.Wait()
	return u, err
}

func TestCreateUser_ConcurrentRegistrationRaceIsTolerated(t *testing.T) {
	const parties = 2

	gs := &gatedStore{MemoryUserStore: store.NewMemoryUserStore()}
	gs.arrived.Add(parties)
	repo := NewUserRepository(gs)

	var wg sync.WaitGroup
	results := make([]domain.UserIdentity, parties)
	errs := make([]error, parties)
	for i := 0; i < parties; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = repo.CreateUser(context.Background(), "dup")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.NotEqual(t, results[0].ID, results[1].ID)

	users, err := repo.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
