package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ajharbinger/seo-lead-qualifier/internal/monitor"
)

// HealthHandler reports service liveness and audit provider health
type HealthHandler struct {
	audits  *monitor.AuditMonitor
	started time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(audits *monitor.AuditMonitor) *HealthHandler {
	return &HealthHandler{audits: audits, started: time.Now()}
}

// Health reports that the service is up
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"healthy":   true,
		"uptime":    time.Since(h.started).Round(time.Second).String(),
		"timestamp": time.Now().UTC(),
	})
}

// AuditHealth reports how the website audit provider has behaved across scored leads.
// Responds 503 when the provider looks unhealthy.
func (h *HealthHandler) AuditHealth(c *gin.Context) {
	if h.audits == nil {
		c.JSON(http.StatusOK, gin.H{"is_healthy": true, "total_audits": 0})
		return
	}

	status := h.audits.GetHealthStatus()
	code := http.StatusOK
	if !status.IsHealthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}

// ResetAuditHealth clears the audit statistics
func (h *HealthHandler) ResetAuditHealth(c *gin.Context) {
	if h.audits != nil {
		h.audits.Reset()
	}
	c.JSON(http.StatusOK, gin.H{"message": "Audit health statistics reset"})
}
