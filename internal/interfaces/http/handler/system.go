package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves health probes
type SystemHandler struct {
	BaseHandler
	version string
	db      Pinger
}

// NewSystemHandler creates a new SystemHandler. db may be nil, in which
// case the probe only reports process liveness.
func NewSystemHandler(version string, db Pinger) *SystemHandler {
	return &SystemHandler{version: version, db: db}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

// Health reports service health and database reachability
func (h *SystemHandler) Health(c *gin.Context) {
	status := gin.H{
		"status":  "ok",
		"version": h.version,
		"time":    time.Now().UTC(),
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
		} else {
			status["database"] = "ok"
		}
	}

	h.Success(c, status)
}
