package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dealercrm/backend/internal/application/report"
	"github.com/dealercrm/backend/internal/interfaces/http/dto"
)

// ReportHandler handles reporting HTTP requests
type ReportHandler struct {
	BaseHandler
	service *report.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(service *report.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// LeadFunnel handles GET /reports/funnel
func (h *ReportHandler) LeadFunnel(c *gin.Context) {
	dealershipID, err := getDealershipID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req dto.DateRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid date range")
		return
	}
	from, to := req.Window(time.Now())

	result, err := h.service.LeadFunnel(c.Request.Context(), dealershipID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// IngestionBySource handles GET /reports/sources
func (h *ReportHandler) IngestionBySource(c *gin.Context) {
	dealershipID, err := getDealershipID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req dto.DateRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid date range")
		return
	}
	from, to := req.Window(time.Now())

	result, err := h.service.IngestionBySource(c.Request.Context(), dealershipID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
