package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dealercrm/backend/internal/application/advisor"
)

// AdvisorHandler handles next-action advice HTTP requests
type AdvisorHandler struct {
	BaseHandler
	service *advisor.AdvisorService
}

// NewAdvisorHandler creates a new advisor handler
func NewAdvisorHandler(service *advisor.AdvisorService) *AdvisorHandler {
	return &AdvisorHandler{service: service}
}

// Suggest handles GET /leads/:id/advice
func (h *AdvisorHandler) Suggest(c *gin.Context) {
	dealershipID, err := getDealershipID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid lead ID")
		return
	}

	suggestions, err := h.service.Suggest(c.Request.Context(), dealershipID, leadID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"suggestions": suggestions})
}
