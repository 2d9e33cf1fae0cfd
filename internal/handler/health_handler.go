package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/campushq/school-api/pkg/response"
)

// HealthHandler reports process and dependency health.
type HealthHandler struct {
	db      *sqlx.DB
	cache   *redis.Client
	started time.Time
	version string
}

// NewHealthHandler creates a new handler.
func NewHealthHandler(db *sqlx.DB, cache *redis.Client, version string) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, started: time.Now(), version: version}
}

type dependencyStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Check godoc
// @Summary Health check
// @Description Reports uptime and dependency connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	healthy := true
	deps := map[string]dependencyStatus{}

	start := time.Now()
	if err := h.db.PingContext(ctx); err != nil {
		deps["database"] = dependencyStatus{Status: "disconnected"}
		healthy = false
	} else {
		deps["database"] = dependencyStatus{Status: "connected", Latency: time.Since(start).String()}
	}

	if h.cache != nil {
		start = time.Now()
		if err := h.cache.Ping(ctx).Err(); err != nil {
			deps["cache"] = dependencyStatus{Status: "disconnected"}
		} else {
			deps["cache"] = dependencyStatus{Status: "connected", Latency: time.Since(start).String()}
		}
	}

	status := http.StatusOK
	overall := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	response.JSON(c, status, gin.H{
		"status":       overall,
		"version":      h.version,
		"uptime":       time.Since(h.started).String(),
		"dependencies": deps,
	}, nil)
}
