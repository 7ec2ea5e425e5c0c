package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appidentity "github.com/dealercrm/backend/internal/application/identity"
	"github.com/dealercrm/backend/internal/interfaces/http/middleware"
)

// CreateDealershipRequest is a new dealership body
type CreateDealershipRequest struct {
	Name     string `json:"name" binding:"required,max=200"`
	Code     string `json:"code" binding:"required,max=50"`
	Timezone string `json:"timezone" binding:"omitempty,max=64"`
	Address  string `json:"address" binding:"omitempty,max=500"`
	Phone    string `json:"phone" binding:"omitempty,max=30"`
}

// DealershipHandler handles platform-level dealership HTTP requests
type DealershipHandler struct {
	BaseHandler
	service *appidentity.DealershipService
}

// NewDealershipHandler creates a new dealership handler
func NewDealershipHandler(service *appidentity.DealershipService) *DealershipHandler {
	return &DealershipHandler{service: service}
}

// Create handles POST /dealerships
func (h *DealershipHandler) Create(c *gin.Context) {
	var req CreateDealershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	dealership, err := h.service.CreateDealership(c.Request.Context(), appidentity.CreateDealershipInput{
		Name:     req.Name,
		Code:     req.Code,
		Timezone: req.Timezone,
		Address:  req.Address,
		Phone:    req.Phone,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dealership)
}

// Get handles GET /dealerships/:id
func (h *DealershipHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid dealership ID")
		return
	}

	dealership, err := h.service.GetDealership(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dealership)
}

// List handles GET /dealerships
func (h *DealershipHandler) List(c *gin.Context) {
	dealerships, err := h.service.ListDealerships(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dealerships)
}

// Deactivate handles DELETE /dealerships/:id
func (h *DealershipHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid dealership ID")
		return
	}

	if err := h.service.DeactivateDealership(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
