package handler

import (
	"context"
	"net/http"
	"time"

	"etudia/logger"
	"etudia/utils"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthStatus struct {
	Status    string             `json:"status"`
	Database  string             `json:"database"`
	Cache     string             `json:"cache,omitempty"`
	Pool      utils.MongoMetrics `json:"pool"`
	CPUUsage  float64            `json:"cpu_usage"`
	CheckedAt time.Time          `json:"checked_at"`
}

type HealthHandler struct {
	database Pinger
	cache    Pinger
	cpu      func(ctx context.Context) (float64, error)
}

// NewHealthHandler checks database and, when non-nil, the answer cache.
func NewHealthHandler(database Pinger, cache Pinger) *HealthHandler {
	return &HealthHandler{
		database: database,
		cache:    cache,
		cpu: func(ctx context.Context) (float64, error) {
			return utils.GetCPUUsage(ctx, 200*time.Millisecond)
		},
	}
}

func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := HealthStatus{
		Status:    "ok",
		Database:  "up",
		Pool:      utils.GetMongoMetrics(),
		CheckedAt: time.Now().UTC(),
	}
	healthy := true

	if err := h.database.Ping(ctx); err != nil {
		logger.Warn().Err(err).Msg("database health check failed")
		status.Database = "down"
		healthy = false
	}

	// A down cache degrades answers but does not make the service unhealthy.
	if h.cache != nil {
		status.Cache = "up"
		if err := h.cache.Ping(ctx); err != nil {
			logger.Warn().Err(err).Msg("cache health check failed")
			status.Cache = "down"
		}
	}

	if usage, err := h.cpu(ctx); err == nil {
		status.CPUUsage = usage
	}

	if !healthy {
		status.Status = "unavailable"
		utils.ServiceUnavailable(c, status)
		return
	}
	c.JSON(http.StatusOK, status)
}
