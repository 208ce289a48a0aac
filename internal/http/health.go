package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status   string            `json:"status"`
	Time     string            `json:"time"`
	Version  string            `json:"version,omitempty"`
	Sessions int               `json:"sessions"`
	Checks   map[string]string `json:"checks"`
}

type HealthController struct {
	db       Pinger
	sessions SessionCounter
	queue    QueueMonitor
	version  string
}

// NewHealthController builds the health endpoint. A nil queue means favourite
// history is written inline and is reported as such.
func NewHealthController(db Pinger, sessions SessionCounter, queue QueueMonitor, version string) *HealthController {
	return &HealthController{
		db:       db,
		sessions: sessions,
		queue:    queue,
		version:  version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	// Check database connectivity
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	// Queued history is not written while workers are stopped.
	switch {
	case h.queue == nil:
		checks["history_queue"] = "inline"
	case h.queue.Running():
		checks["history_queue"] = "running"
	default:
		checks["history_queue"] = "stopped"
		status = "unhealthy"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}
	if h.sessions != nil {
		health.Sessions = h.sessions.Len()
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
