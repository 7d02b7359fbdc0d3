package api

import (
	"context"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"stockwatch/internal/adapters/redis"
)

// HealthHandler provides liveness and readiness endpoints
type HealthHandler struct {
	db          *sqlx.DB
	redis       *redis.Client // nil when the snapshot cache is in-process
	startTime   time.Time
	serviceName string
	version     string
}

// NewHealthHandler creates a health handler
func NewHealthHandler(db *sqlx.DB, redisClient *redis.Client, serviceName, version string) *HealthHandler {
	return &HealthHandler{
		db:          db,
		redis:       redisClient,
		startTime:   time.Now(),
		serviceName: serviceName,
		version:     version,
	}
}

type componentHealth struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time,omitempty"`
	Error        string `json:"error,omitempty"`
}

type healthStatus struct {
	Status    string                     `json:"status"`
	Service   string                     `json:"service"`
	Version   string                     `json:"version"`
	Uptime    string                     `json:"uptime"`
	Timestamp string                     `json:"timestamp"`
	Checks    map[string]componentHealth `json:"checks"`
}

// HandleLiveness returns 200 while the process is running
func (h *HealthHandler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HandleReadiness verifies the store (and Redis when configured) is
// reachable
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := h.runChecks(ctx)
	for _, check := range checks {
		if check.Status != "healthy" {
			writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status": "not_ready",
				"checks": checks,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ready",
		"checks": checks,
	})
}

// HandleHealth returns the full health report
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := h.runChecks(ctx)

	status := "healthy"
	httpStatus := http.StatusOK
	for _, check := range checks {
		if check.Status != "healthy" {
			status = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
			break
		}
	}

	writeJSON(w, httpStatus, healthStatus{
		Status:    status,
		Service:   h.serviceName,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

func (h *HealthHandler) runChecks(ctx context.Context) map[string]componentHealth {
	checks := make(map[string]componentHealth)

	start := time.Now()
	if err := h.db.PingContext(ctx); err != nil {
		checks["sqlite"] = componentHealth{Status: "unhealthy", Error: err.Error()}
	} else {
		checks["sqlite"] = componentHealth{Status: "healthy", ResponseTime: time.Since(start).String()}
	}

	if h.redis != nil {
		start = time.Now()
		if err := h.redis.Health(ctx); err != nil {
			checks["redis"] = componentHealth{Status: "unhealthy", Error: err.Error()}
		} else {
			checks["redis"] = componentHealth{Status: "healthy", ResponseTime: time.Since(start).String()}
		}
	}

	return checks
}
