package health

import (
	"context"
	"net/http"
	"time"

	"github.com/aarynsmith/exercisetracker/internal/infrastructure/json"
)

const pingTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	store     Pinger
	driver    string
	startTime time.Time
}

func NewHandler(store Pinger, driver string) *Handler {
	return &Handler{
		store:     store,
		driver:    driver,
		startTime: time.Now(),
	}
}

// GetHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API, including uptime, current timestamp and store reachability
// @Tags         health
// @Produce      json
// @Success      200 {object} healthResponse "Service is healthy"
// @Failure      503 {object} healthResponse "Store is unreachable"
// @Router       /health [get]
// @Router       /healthz [get]
// @Router       /ready [get]
// @Router       /live [get]
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	resp := healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Store:     storeStatus{Driver: h.driver, Status: "ok"},
	}

	if err := h.store.Ping(ctx); err != nil {
		resp.Status = "unhealthy"
		resp.Store.Status = "unreachable"
		json.Write(w, http.StatusServiceUnavailable, resp)
		return
	}

	json.Write(w, http.StatusOK, resp)
}
