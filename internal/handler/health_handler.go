package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/creator_match_api/internal/utils"
)

var startTime = time.Now()

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// HealthHandler provides health endpoint.
type HealthHandler struct {
	dataSource    string
	llmConfigured bool
	checks        map[string]HealthCheck
}

// NewHealthHandler creates a new HealthHandler. checks may be empty.
func NewHealthHandler(dataSource string, llmConfigured bool, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{dataSource: dataSource, llmConfigured: llmConfigured, checks: checks}
}

// GetHealth responds with service and dependency status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := "healthy"
	code := http.StatusOK
	deps := make(gin.H, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			deps[name] = "disconnected"
			status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "connected"
	}

	llmStatus := "fallback-only"
	if h.llmConfigured {
		llmStatus = "configured"
	}

	utils.Success(c, code, gin.H{
		"status":       status,
		"version":      "1.0.0",
		"uptime":       int(time.Since(startTime).Seconds()),
		"dataSource":   h.dataSource,
		"llm":          llmStatus,
		"dependencies": deps,
	})
}
