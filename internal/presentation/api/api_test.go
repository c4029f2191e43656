package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aarynsmith/exercisetracker/internal/domain"
	"github.com/aarynsmith/exercisetracker/internal/infrastructure/configs"
	"github.com/aarynsmith/exercisetracker/internal/infrastructure/logging"
	"github.com/aarynsmith/exercisetracker/internal/infrastructure/metrics"
	"github.com/aarynsmith/exercisetracker/internal/infrastructure/ratelimiter"
	"github.com/aarynsmith/exercisetracker/internal/persistence/repository"
	"github.com/aarynsmith/exercisetracker/internal/persistence/store"
	"github.com/aarynsmith/exercisetracker/internal/presentation/handler/exercise"
	"github.com/aarynsmith/exercisetracker/internal/presentation/handler/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)

func testConfig() configs.Config {
	return configs.Config{
		HTTP: configs.HTTPConfig{
			AllowedOrigins: []string{"*"},
			AllowedHeaders: []string{"Content-Type"},
			RequestTimeout: 5 * time.Second,
		},
	}
}

func newTestServer(t *testing.T, s domain.UserStore, limiter ratelimiter.Limiter) http.Handler {
	t.Helper()

	logger := logging.NewNopLogger()
	m := metrics.New(prometheus.NewRegistry())
	repo := repository.NewUserRepository(s,
		repository.WithClock(func() time.Time { return today }),
		repository.WithPublisher(m.CountingPublisher(nil)),
	)

	app := NewApplication(
		testConfig(),
		exercise.NewHandler(repo, logger),
		health.NewHandler(s, configs.StoreMemory),
		logger,
		limiter,
		m,
	)

	return app.Mount()
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func requirePlainError(t *testing.T, rec *httptest.ResponseRecorder, status int, body string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	assert.Equal(t, body, rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
}

type identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type logged struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	Date        string  `json:"date"`
	Duration    float64 `json:"duration"`
	Description string  `json:"description"`
}

type userLog struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Count    int    `json:"count"`
	Log      []struct {
		Description string  `json:"description"`
		Duration    float64 `json:"duration"`
		Date        string  `json:"date"`
	} `json:"log"`
}

func register(t *testing.T, h http.Handler, name string) identity {
	t.Helper()
	rec := postForm(t, h, "/api/exercise/new-user", url.Values{"username": {name}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[identity](t, rec)
}

func TestRegistration(t *testing.T) {
	h := newTestServer(t, store.NewMemoryUserStore(), nil)

	alice := register(t, h, "alice")
	assert.NotEmpty(t, alice.ID)
	assert.Equal(t, "alice", alice.Username)

	rec := postForm(t, h, "/api/exercise/new-user", url.Values{"username": {"alice"}})
	requirePlainError(t, rec, http.StatusBadRequest, "username already taken")

	rec = postJSON(t, h, "/api/exercise/new-user", `{"username":"bob"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	bob := decode[identity](t, rec)

	rec = postForm(t, h, "/api/exercise/new-user", url.Values{})
	requirePlainError(t, rec, http.StatusBadRequest, "username is required")

	rec = postJSON(t, h, "/api/exercise/new-user", `{"username":`)
	requirePlainError(t, rec, http.StatusBadRequest, "invalid request body")

	users := decode[[]identity](t, get(t, h, "/api/exercise/users"))
	assert.Equal(t, []identity{alice, bob}, users)
}

func TestListUsers_EmptyIsArray(t *testing.T) {
	h := newTestServer(t, store.NewMemoryUserStore(), nil)

	rec := get(t, h, "/api/exercise/users")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestAddExercise(t *testing.T) {
	h := newTestServer(t, store.NewMemoryUserStore(), nil)
	alice := register(t, h, "alice")

	t.Run("form with date", func(t *testing.T) {
		rec := postForm(t, h, "/api/exercise/add", url.Values{
			"userId":      {alice.ID},
			"description": {"run"},
			"duration":    {"30"},
			"date":        {"2024-01-10"},
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, logged{ID: alice.ID, Username: "alice", Date: "Wed Jan 10 2024", Duration: 30, Description: "run"}, decode[logged](t, rec))
	})

	t.Run("json numeric duration defaults to today", func(t *testing.T) {
		rec := postJSON(t, h, "/api/exercise/add", `{"userId":"`+alice.ID+`","description":"swim","duration":12.5}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		got := decode[logged](t, rec)
		assert.Equal(t, 12.5, got.Duration)
		assert.Equal(t, "Tue Mar 05 2024", got.Date)
	})

	t.Run("unparsable date is stored as invalid", func(t *testing.T) {
		rec := postForm(t, h, "/api/exercise/add", url.Values{
			"userId": {alice.ID}, "description": {"yoga"}, "duration": {"5"}, "date": {"someday"},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Invalid Date", decode[logged](t, rec).Date)
	})

	got := decode[userLog](t, get(t, h, "/api/exercise/log?userId="+alice.ID))
	assert.Equal(t, 3, got.Count)
	assert.Len(t, got.Log, 3)
}

func TestAddExercise_Errors(t *testing.T) {
	h := newTestServer(t, store.NewMemoryUserStore(), nil)
	alice := register(t, h, "alice")

	tests := []struct {
		name   string
		form   url.Values
		status int
		body   string
	}{
		{"missing user id reported first", url.Values{}, http.StatusBadRequest, "no user id specified"},
		{"missing description", url.Values{"userId": {alice.ID}, "duration": {"5"}}, http.StatusBadRequest, "description is required"},
		{"missing duration", url.Values{"userId": {alice.ID}, "description": {"run"}}, http.StatusBadRequest, "duration is required"},
		{"non numeric duration", url.Values{"userId": {alice.ID}, "description": {"run"}, "duration": {"long"}}, http.StatusBadRequest, "duration must be a number"},
		{"unknown user", url.Values{"userId": {"nobody"}, "description": {"run"}, "duration": {"5"}}, http.StatusNotFound, "user not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requirePlainError(t, postForm(t, h, "/api/exercise/add", tt.form), tt.status, tt.body)
		})
	}

	got := decode[userLog](t, get(t, h, "/api/exercise/log?userId="+alice.ID))
	assert.Equal(t, 0, got.Count, "failed adds leave the log untouched")
}

func TestGetLog_Filters(t *testing.T) {
	h := newTestServer(t, store.NewMemoryUserStore(), nil)
	alice := register(t, h, "alice")

	for _, date := range []string{"2024-01-01", "2024-01-10", "2024-01-20"} {
		rec := postForm(t, h, "/api/exercise/add", url.Values{
			"userId": {alice.ID}, "description": {date}, "duration": {"10"}, "date": {date},
		})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	dates := func(l userLog) []string {
		out := make([]string, 0, len(l.Log))
		for _, e := range l.Log {
			out = append(out, e.Date)
		}
		return out
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"no filters", "", []string{"Mon Jan 01 2024", "Wed Jan 10 2024", "Sat Jan 20 2024"}},
		{"from", "&from=2024-01-05", []string{"Wed Jan 10 2024", "Sat Jan 20 2024"}},
		{"to inclusive", "&to=2024-01-10", []string{"Mon Jan 01 2024", "Wed Jan 10 2024"}},
		{"range", "&from=2024-01-05&to=2024-01-15", []string{"Wed Jan 10 2024"}},
		{"limit after range", "&from=2024-01-05&limit=1", []string{"Wed Jan 10 2024"}},
		{"limit zero", "&limit=0", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, "/api/exercise/log?userId="+alice.ID+tt.query)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			got := decode[userLog](t, rec)
			assert.Equal(t, alice.ID, got.ID)
			assert.Equal(t, 3, got.Count, "count ignores filters")
			assert.Equal(t, tt.want, dates(got))
		})
	}
}

func TestGetLog_Errors(t *testing.T) {
	h := newTestServer(t, store.NewMemoryUserStore(), nil)
	alice := register(t, h, "alice")

	tests := []struct {
		name   string
		query  string
		status int
		body   string
	}{
		{"missing user id", "", http.StatusBadRequest, "no user id specified"},
		{"missing user id beats bad filters", "?from=garbage", http.StatusBadRequest, "no user id specified"},
		{"unknown user", "?userId=nobody", http.StatusNotFound, "user not found"},
		{"bad from", "?userId=" + alice.ID + "&from=garbage", http.StatusBadRequest, "invalid from date"},
		{"bad to", "?userId=" + alice.ID + "&to=garbage", http.StatusBadRequest, "invalid to date"},
		{"negative limit", "?userId=" + alice.ID + "&limit=-1", http.StatusBadRequest, "limit must be a non-negative integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requirePlainError(t, get(t, h, "/api/exercise/log"+tt.query), tt.status, tt.body)
		})
	}
}

func TestUnmatchedRoutesAreNotFound(t *testing.T) {
	h := newTestServer(t, store.NewMemoryUserStore(), nil)

	requirePlainError(t, get(t, h, "/api/exercise/nope"), http.StatusNotFound, "not found")
	requirePlainError(t, get(t, h, "/api/exercise/add"), http.StatusNotFound, "not found")
	requirePlainError(t, postForm(t, h, "/api/exercise/users", url.Values{}), http.StatusNotFound, "not found")
}

func TestCORSAllowsAnyOrigin(t *testing.T) {
	h := newTestServer(t, store.NewMemoryUserStore(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/exercise/users", nil)
	req.Header.Set("Origin", "https://example.org")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

type failingStore struct {
	*store.MemoryUserStore
}

func (failingStore) ListIdentities(context.Context) ([]domain.UserIdentity, error) {
	return nil, errors.New("server selection timeout")
}

func TestStoreFailureIsInternalError(t *testing.T) {
	h := newTestServer(t, failingStore{store.NewMemoryUserStore()}, nil)

	requirePlainError(t, get(t, h, "/api/exercise/users"), http.StatusInternalServerError, "error getting user list")
}

func TestRateLimiting(t *testing.T) {
	limiter := ratelimiter.New(ratelimiter.Options{MaxRatePerSecond: 1, MaxBurst: 1, CacheTTL: time.Minute})
	t.Cleanup(limiter.Close)
	h := newTestServer(t, store.NewMemoryUserStore(), limiter)

	first := get(t, h, "/api/exercise/users")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	preflight := httptest.NewRequest(http.MethodOptions, "/api/exercise/users", nil)
	preflight.Header.Set("Origin", "https://example.org")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, preflight)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodGet, "/api/exercise/users", nil)
	req.Header.Set("Origin", "https://example.org")
	second := httptest.NewRecorder()
	h.ServeHTTP(second, req)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
	assert.Equal(t, "*", second.Header().Get("Access-Control-Allow-Origin"))
}

func TestOperationalEndpoints(t *testing.T) {
	h := newTestServer(t, store.NewMemoryUserStore(), nil)
	register(t, h, "alice")

	for _, path := range []string{"/api/health", "/api/healthz", "/api/ready", "/api/live"} {
		assert.Equal(t, http.StatusOK, get(t, h, path).Code, path)
	}

	rec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "exercisetracker_tracker_users_created_total 1")
	assert.Contains(t, rec.Body.String(), `route="/api/exercise/new-user"`)

	rec = get(t, h, "/swagger/doc.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/exercise/log")
}
