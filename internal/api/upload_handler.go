package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ajharbinger/seo-lead-qualifier/internal/errors"
	"github.com/ajharbinger/seo-lead-qualifier/internal/logger"
	"github.com/ajharbinger/seo-lead-qualifier/internal/services"
)

// UploadHandler handles CSV lead imports
type UploadHandler struct {
	leadExportService *services.LeadExportService
	logger            logger.Logger
	now               func() time.Time
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(svcs *services.Services, log logger.Logger) *UploadHandler {
	return &UploadHandler{
		leadExportService: svcs.Export,
		logger:            log,
		now:               time.Now,
	}
}

// UploadCSV imports leads from a text/csv body, scores them and returns the
// qualified leads ranked. Filters are taken from the query string.
func (h *UploadHandler) UploadCSV(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), exportTimeout)
	defer cancel()

	if c.ContentType() != "text/csv" {
		respondError(c, errors.InvalidInput("Upload must be sent as text/csv", nil))
		return
	}

	var filter services.LeadFilter
	if err := parseFilterFromQuery(c, &filter); err != nil {
		respondError(c, err)
		return
	}

	leads, err := services.ParseLeadsCSV(c.Request.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	if len(leads) == 0 {
		respondError(c, errors.InvalidInput("CSV file contains no leads", nil))
		return
	}

	qualified, err := h.leadExportService.QualifiedLeads(ctx, leads, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.Info("CSV leads imported",
		"imported", len(leads),
		"qualified", len(qualified),
		"filter", filter.String())

	c.JSON(http.StatusOK, gin.H{
		"leads":     qualified,
		"count":     len(qualified),
		"imported":  len(leads),
		"timestamp": h.now().UTC(),
	})
}
