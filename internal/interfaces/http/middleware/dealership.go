package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dealercrm/backend/internal/domain/identity"
	"github.com/dealercrm/backend/internal/domain/shared"
	"github.com/dealercrm/backend/internal/infrastructure/logger"
	"github.com/dealercrm/backend/internal/interfaces/http/dto"
)

// Dealership context keys
const (
	DealershipIDKey     = "dealership_id"
	DealershipRoleKey   = "dealership_role"
	DealershipHeaderKey = "X-Dealership-ID"
)

// TenantContext is the resolved dealership scope of one request
type TenantContext struct {
	DealershipID uuid.UUID
	Role         identity.Role
}

// DealershipGuard resolves the X-Dealership-ID header into a TenantContext.
// The request must already be authenticated. A missing or malformed header is
// a 400; an authenticated user without an active membership in the dealership
// is a 403. Platform admins and operators pass without a membership and act
// with the synthetic role ADMIN.
func DealershipGuard(membershipRepo identity.MembershipRepository, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(DealershipHeaderKey)
		if header == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.ErrCodeValidationRequired,
				"Header "+DealershipHeaderKey+" is required"))
			return
		}

		dealershipID, err := uuid.Parse(header)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.ErrCodeValidationFormat,
				"Header "+DealershipHeaderKey+" must be a UUID"))
			return
		}

		role, ok := resolveRole(c, membershipRepo, dealershipID, log)
		if !ok {
			return
		}

		c.Set(DealershipIDKey, dealershipID)
		c.Set(DealershipRoleKey, role)

		// Enrich the request context so service-layer logs carry the tenant
		ctx := c.Request.Context()
		ctxLog := logger.FromContext(ctx)
		ctx, _ = logger.WithDealershipID(ctx, ctxLog, dealershipID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// resolveRole determines the caller's role in the dealership, aborting the
// request when there is none
func resolveRole(c *gin.Context, membershipRepo identity.MembershipRepository, dealershipID uuid.UUID, log *zap.Logger) (identity.Role, bool) {
	if IsPlatformAdmin(c) || IsPlatformOperator(c) {
		return identity.RoleAdmin, true
	}

	userID, err := uuid.Parse(GetJWTUserID(c))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.ErrCodeUnauthorized, "Authentication required"))
		return "", false
	}

	membership, err := membershipRepo.FindByUserAndDealership(c.Request.Context(), userID, dealershipID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
				dto.ErrCodeForbidden, "No access to this dealership"))
			return "", false
		}
		if log != nil {
			log.Error("Failed to resolve dealership membership",
				zap.String("user_id", userID.String()),
				zap.String("dealership_id", dealershipID.String()),
				zap.Error(err))
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.ErrCodeInternal, "Failed to resolve dealership access"))
		return "", false
	}

	if !membership.Active {
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
			dto.ErrCodeForbidden, "No access to this dealership"))
		return "", false
	}

	return membership.Role, true
}

// GetDealershipID retrieves the resolved dealership ID from gin.Context
func GetDealershipID(c *gin.Context) (uuid.UUID, bool) {
	if v, exists := c.Get(DealershipIDKey); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id, true
		}
	}
	return uuid.Nil, false
}

// GetDealershipRole retrieves the caller's role in the resolved dealership
func GetDealershipRole(c *gin.Context) (identity.Role, bool) {
	if v, exists := c.Get(DealershipRoleKey); exists {
		if role, ok := v.(identity.Role); ok {
			return role, true
		}
	}
	return "", false
}
