package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcrm "github.com/dealercrm/backend/internal/application/crm"
	"github.com/dealercrm/backend/internal/application/scoring"
	"github.com/dealercrm/backend/internal/domain/crm"
)

// LeadHandler handles lead pipeline HTTP requests
type LeadHandler struct {
	BaseHandler
	leadService  *appcrm.LeadService
	scoreService *scoring.ScoreService
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(leadService *appcrm.LeadService, scoreService *scoring.ScoreService) *LeadHandler {
	return &LeadHandler{
		leadService:  leadService,
		scoreService: scoreService,
	}
}

// CreateLead handles POST /leads
func (h *LeadHandler) CreateLead(c *gin.Context) {
	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	dealershipID, err := getDealershipID(c)
	if err != nil {
		h.InternalError(c, "Dealership context missing")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	lead, err := h.leadService.CreateLead(c.Request.Context(), appcrm.CreateLeadInput{
		DealershipID:    dealershipID,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		Source:          crm.LeadSource(req.Source),
		SourceDetail:    req.SourceDetail,
		Type:            crm.LeadType(req.LeadType),
		VehicleInterest: req.VehicleInterest,
		TradeIn:         req.TradeIn,
		Notes:           req.Notes,
		CreatedBy:       userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, leadResponse(lead))
}

// GetLead handles GET /leads/:id
func (h *LeadHandler) GetLead(c *gin.Context) {
	dealershipID, leadID, ok := h.leadScope(c)
	if !ok {
		return
	}

	lead, err := h.leadService.GetLead(c.Request.Context(), dealershipID, leadID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, leadResponse(lead))
}

// ListLeads handles GET /leads
func (h *LeadHandler) ListLeads(c *gin.Context) {
	var req ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	dealershipID, err := getDealershipID(c)
	if err != nil {
		h.InternalError(c, "Dealership context missing")
		return
	}

	filter := crm.NewLeadFilter()
	filter.Keyword = req.Search
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.Status != "" {
		status := crm.LeadStatus(req.Status)
		filter.Status = &status
	}
	if req.Source != "" {
		source := crm.LeadSource(req.Source)
		filter.Source = &source
	}
	if req.Assignee != "" {
		assignee, err := uuid.Parse(req.Assignee)
		if err != nil {
			h.BadRequest(c, "Invalid assignee ID")
			return
		}
		filter.AssignedTo = &assignee
	}

	result, err := h.leadService.ListLeads(c.Request.Context(), dealershipID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, leadResponses(result.Leads), result.Total, result.Page, result.PageSize)
}

// UpdateLead handles PUT /leads/:id
func (h *LeadHandler) UpdateLead(c *gin.Context) {
	dealershipID, leadID, ok := h.leadScope(c)
	if !ok {
		return
	}

	var req UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	lead, err := h.leadService.UpdateLead(c.Request.Context(), appcrm.UpdateLeadInput{
		DealershipID:    dealershipID,
		LeadID:          leadID,
		Email:           req.Email,
		Phone:           req.Phone,
		VehicleInterest: req.VehicleInterest,
		TradeIn:         req.TradeIn,
		Notes:           req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, leadResponse(lead))
}

// TransitionLead handles POST /leads/:id/transition
func (h *LeadHandler) TransitionLead(c *gin.Context) {
	dealershipID, leadID, ok := h.leadScope(c)
	if !ok {
		return
	}

	var req TransitionLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	target, err := crm.ParseLeadStatus(req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	lead, err := h.leadService.TransitionLead(c.Request.Context(), appcrm.TransitionLeadInput{
		DealershipID: dealershipID,
		LeadID:       leadID,
		Target:       target,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, leadResponse(lead))
}

// MarkLost handles POST /leads/:id/lose
func (h *LeadHandler) MarkLost(c *gin.Context) {
	dealershipID, leadID, ok := h.leadScope(c)
	if !ok {
		return
	}

	var req MarkLostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	lead, err := h.leadService.MarkLeadLost(c.Request.Context(), appcrm.MarkLostInput{
		DealershipID: dealershipID,
		LeadID:       leadID,
		Reason:       req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, leadResponse(lead))
}

// AssignLead handles POST /leads/:id/assign
func (h *LeadHandler) AssignLead(c *gin.Context) {
	dealershipID, leadID, ok := h.leadScope(c)
	if !ok {
		return
	}

	var req AssignLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	assigneeID, err := uuid.Parse(req.UserID)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	lead, err := h.leadService.AssignLead(c.Request.Context(), appcrm.AssignLeadInput{
		DealershipID: dealershipID,
		LeadID:       leadID,
		AssigneeID:   assigneeID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, leadResponse(lead))
}

// UnassignLead handles DELETE /leads/:id/assign
func (h *LeadHandler) UnassignLead(c *gin.Context) {
	dealershipID, leadID, ok := h.leadScope(c)
	if !ok {
		return
	}

	lead, err := h.leadService.UnassignLead(c.Request.Context(), dealershipID, leadID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, leadResponse(lead))
}

// OverrideScore handles PUT /leads/:id/score-override
func (h *LeadHandler) OverrideScore(c *gin.Context) {
	dealershipID, leadID, ok := h.leadScope(c)
	if !ok {
		return
	}

	var req OverrideScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	lead, err := h.leadService.OverrideLeadScore(c.Request.Context(), dealershipID, leadID, req.Score)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, leadResponse(lead))
}

// ClearScoreOverride handles DELETE /leads/:id/score-override
func (h *LeadHandler) ClearScoreOverride(c *gin.Context) {
	dealershipID, leadID, ok := h.leadScope(c)
	if !ok {
		return
	}

	lead, err := h.leadService.ClearLeadScoreOverride(c.Request.Context(), dealershipID, leadID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, leadResponse(lead))
}

// RecomputeScore handles POST /leads/:id/score/recompute
func (h *LeadHandler) RecomputeScore(c *gin.Context) {
	dealershipID, leadID, ok := h.leadScope(c)
	if !ok {
		return
	}

	breakdown, err := h.scoreService.Recompute(c.Request.Context(), dealershipID, leadID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, breakdown)
}

// ExplainScore handles GET /leads/:id/score
func (h *LeadHandler) ExplainScore(c *gin.Context) {
	dealershipID, leadID, ok := h.leadScope(c)
	if !ok {
		return
	}

	breakdown, err := h.scoreService.Explain(c.Request.Context(), dealershipID, leadID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, breakdown)
}

// leadScope resolves the dealership context and the :id path parameter
func (h *LeadHandler) leadScope(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	dealershipID, err := getDealershipID(c)
	if err != nil {
		h.InternalError(c, "Dealership context missing")
		return uuid.Nil, uuid.Nil, false
	}

	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid lead ID")
		return uuid.Nil, uuid.Nil, false
	}

	return dealershipID, leadID, true
}
