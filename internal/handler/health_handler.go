package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type HealthHandler struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

type HealthResponse struct {
	Status    string           `json:"status"`
	Checks    map[string]Check `json:"checks"`
	Timestamp string           `json:"timestamp"`
}

type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func NewHealthHandler(db *pgxpool.Pool, redis *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Readyz checks both backends. Postgres down means the core cannot answer
// correctly; Redis down only costs performance but still fails readiness
// so the orchestrator can route around a degraded instance.
func (h *HealthHandler) Readyz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]Check{
		"database": h.checkDatabase(ctx),
		"redis":    h.checkRedis(ctx),
	}

	status := "up"
	code := http.StatusOK
	for _, check := range checks {
		if check.Status != "up" {
			status = "down"
			code = http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(code, HealthResponse{
		Status:    status,
		Checks:    checks,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	if err := h.db.Ping(ctx); err != nil {
		return Check{Status: "down", Message: err.Error()}
	}
	return Check{Status: "up", Message: "connected"}
}

func (h *HealthHandler) checkRedis(ctx context.Context) Check {
	if err := h.redis.Ping(ctx).Err(); err != nil {
		return Check{Status: "down", Message: err.Error()}
	}
	return Check{Status: "up", Message: "connected"}
}
