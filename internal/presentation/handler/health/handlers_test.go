package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestGetHealth(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantBody   string
		wantStore  string
	}{
		{"store reachable", nil, http.StatusOK, "ok", "ok"},
		{"store down", errors.New("connection refused"), http.StatusServiceUnavailable, "unhealthy", "unreachable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(pingerFunc(func(context.Context) error { return tt.pingErr }), "memory")
			rec := httptest.NewRecorder()

			h.GetHealth(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			require.Equal(t, tt.wantStatus, rec.Code)
			var resp healthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantBody, resp.Status)
			assert.Equal(t, tt.wantStore, resp.Store.Status)
			assert.Equal(t, "memory", resp.Store.Driver)
		})
	}
}
