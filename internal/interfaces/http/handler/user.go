package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appidentity "github.com/dealercrm/backend/internal/application/identity"
	"github.com/dealercrm/backend/internal/domain/identity"
	"github.com/dealercrm/backend/internal/interfaces/http/middleware"
)

// RegisterUserRequest is a new user registration body
type RegisterUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
}

// GrantMembershipRequest grants a user a role in the current dealership
type GrantMembershipRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	Role   string    `json:"role" binding:"required,oneof=ADMIN MANAGER SALES BDC"`
}

// ChangeRoleRequest changes a member's role
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=ADMIN MANAGER SALES BDC"`
}

// UserHandler handles user and membership HTTP requests
type UserHandler struct {
	BaseHandler
	service *appidentity.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(service *appidentity.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Register handles POST /users
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	user, err := h.service.RegisterUser(c.Request.Context(), appidentity.RegisterUserInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

// GrantMembership handles POST /users/memberships
func (h *UserHandler) GrantMembership(c *gin.Context) {
	dealershipID, err := getDealershipID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req GrantMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	role, err := identity.ParseRole(req.Role)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	membership, err := h.service.GrantMembership(c.Request.Context(), appidentity.GrantMembershipInput{
		UserID:       req.UserID,
		DealershipID: dealershipID,
		Role:         role,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, membership)
}

// ChangeRole handles PUT /users/:id/role
func (h *UserHandler) ChangeRole(c *gin.Context) {
	dealershipID, userID, ok := h.memberScope(c)
	if !ok {
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	role, err := identity.ParseRole(req.Role)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.service.ChangeRole(c.Request.Context(), userID, dealershipID, role); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Role updated"})
}

// RevokeMembership handles DELETE /users/:id/membership
func (h *UserHandler) RevokeMembership(c *gin.Context) {
	dealershipID, userID, ok := h.memberScope(c)
	if !ok {
		return
	}

	if err := h.service.RevokeMembership(c.Request.Context(), userID, dealershipID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListDealershipUsers handles GET /users
func (h *UserHandler) ListDealershipUsers(c *gin.Context) {
	dealershipID, err := getDealershipID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	users, err := h.service.ListDealershipUsers(c.Request.Context(), dealershipID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, users)
}

func (h *UserHandler) memberScope(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	dealershipID, err := getDealershipID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return uuid.Nil, uuid.Nil, false
	}
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return uuid.Nil, uuid.Nil, false
	}
	return dealershipID, userID, true
}
