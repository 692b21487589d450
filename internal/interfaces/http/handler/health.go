package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moodtrack/backend/internal/infrastructure/persistence"
)

// StorePinger is the store as seen by the health check
type StorePinger interface {
	Mode() persistence.Mode
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness and the store mode
type HealthHandler struct {
	store   StorePinger
	timeout time.Duration
	now     func() time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(store StorePinger) *HealthHandler {
	return &HealthHandler{store: store, timeout: 2 * time.Second, now: time.Now}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string `json:"status"`
	StoreMode string `json:"store_mode"`
	Time      string `json:"time"`
	Error     string `json:"error,omitempty"`
}

// Health answers 200 while the store responds. The status is "degraded"
// when serving from the in-memory fallback.
//
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	mode := h.store.Mode()
	resp := HealthResponse{
		Status:    "ok",
		StoreMode: mode.String(),
		Time:      h.now().UTC().Format(time.RFC3339),
	}
	if mode.Degraded() {
		resp.Status = "degraded"
	}
	if err := h.store.Ping(ctx); err != nil {
		resp.Status = "unavailable"
		resp.Error = err.Error()
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
