package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ajharbinger/seo-lead-qualifier/internal/logger"
	"github.com/ajharbinger/seo-lead-qualifier/internal/services"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, svcs *services.Services, log logger.Logger) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	leadsHandler := NewLeadsHandler(svcs, log)
	uploadHandler := NewUploadHandler(svcs, log)
	healthHandler := NewHealthHandler(svcs.Audits)

	r.GET("/health", healthHandler.Health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/scoring/config", leadsHandler.GetScoringConfig)

		// Lead endpoints
		v1.POST("/leads/score", leadsHandler.ScoreLead)
		v1.POST("/leads/rank", leadsHandler.RankLeads)
		v1.POST("/leads/export", leadsHandler.ExportLeads)
		v1.POST("/leads/stats", leadsHandler.GetLeadStats)
		v1.POST("/leads/upload", uploadHandler.UploadCSV)

		// Audit provider health
		v1.GET("/audits/health", healthHandler.AuditHealth)
		v1.POST("/audits/health/reset", healthHandler.ResetAuditHealth)
	}
}
