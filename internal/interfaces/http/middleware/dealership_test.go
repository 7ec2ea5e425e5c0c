package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dealercrm/backend/internal/domain/identity"
	"github.com/dealercrm/backend/internal/domain/shared"
)

// MockMembershipRepository is a mock implementation of identity.MembershipRepository
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) Create(ctx context.Context, membership *identity.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockMembershipRepository) Update(ctx context.Context, membership *identity.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockMembershipRepository) FindByUserAndDealership(ctx context.Context, userID, dealershipID uuid.UUID) (*identity.Membership, error) {
	args := m.Called(ctx, userID, dealershipID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Membership), args.Error(1)
}

func (m *MockMembershipRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*identity.Membership, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.Membership), args.Error(1)
}

func (m *MockMembershipRepository) FindByDealership(ctx context.Context, dealershipID uuid.UUID) ([]*identity.Membership, error) {
	args := m.Called(ctx, dealershipID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.Membership), args.Error(1)
}

// guardRig sets up a gin engine with an authenticated user, the guard and a
// recording handler that records the resolved context.
type guardRig struct {
	engine       *gin.Engine
	resolvedID   uuid.UUID
	resolvedRole identity.Role
	reached      bool
}

func newGuardRig(t *testing.T, userID uuid.UUID, platformAdmin, platformOperator bool, repo identity.MembershipRepository) *guardRig {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rig := &guardRig{engine: gin.New()}

	// Stand-in for JWT auth: seeds the claims-derived context keys
	rig.engine.Use(func(c *gin.Context) {
		c.Set(JWTUserIDKey, userID.String())
		c.Set(JWTPlatformAdminKey, platformAdmin)
		c.Set(JWTPlatformOperatorKey, platformOperator)
	})
	rig.engine.Use(DealershipGuard(repo, zap.NewNop()))
	rig.engine.GET("/guarded", func(c *gin.Context) {
		rig.reached = true
		rig.resolvedID, _ = GetDealershipID(c)
		rig.resolvedRole, _ = GetDealershipRole(c)
		c.Status(http.StatusOK)
	})

	return rig
}

func (r *guardRig) request(t *testing.T, dealershipHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if dealershipHeader != "" {
		req.Header.Set(DealershipHeaderKey, dealershipHeader)
	}
	w := httptest.NewRecorder()
	r.engine.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Error.Code
}

func TestDealershipGuard_MissingHeader(t *testing.T) {
	repo := new(MockMembershipRepository)
	rig := newGuardRig(t, uuid.New(), false, false, repo)

	w := rig.request(t, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ERR_VALIDATION_REQUIRED", errorCode(t, w.Body.Bytes()))
	assert.False(t, rig.reached)
	repo.AssertNotCalled(t, "FindByUserAndDealership", mock.Anything, mock.Anything, mock.Anything)
}

func TestDealershipGuard_MalformedHeader(t *testing.T) {
	repo := new(MockMembershipRepository)
	rig := newGuardRig(t, uuid.New(), false, false, repo)

	w := rig.request(t, "not-a-uuid")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ERR_VALIDATION_FORMAT", errorCode(t, w.Body.Bytes()))
	assert.False(t, rig.reached)
}

func TestDealershipGuard_NoMembership(t *testing.T) {
	userID := uuid.New()
	dealershipID := uuid.New()
	repo := new(MockMembershipRepository)
	repo.On("FindByUserAndDealership", mock.Anything, userID, dealershipID).Return(nil, shared.ErrNotFound)

	rig := newGuardRig(t, userID, false, false, repo)
	w := rig.request(t, dealershipID.String())

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "ERR_FORBIDDEN", errorCode(t, w.Body.Bytes()))
	assert.False(t, rig.reached)
}

func TestDealershipGuard_RevokedMembership(t *testing.T) {
	userID := uuid.New()
	dealershipID := uuid.New()

	membership, err := identity.NewMembership(userID, dealershipID, identity.RoleSales)
	require.NoError(t, err)
	require.NoError(t, membership.Revoke())

	repo := new(MockMembershipRepository)
	repo.On("FindByUserAndDealership", mock.Anything, userID, dealershipID).Return(membership, nil)

	rig := newGuardRig(t, userID, false, false, repo)
	w := rig.request(t, dealershipID.String())

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, rig.reached)
}

func TestDealershipGuard_ActiveMembership(t *testing.T) {
	userID := uuid.New()
	dealershipID := uuid.New()

	membership, err := identity.NewMembership(userID, dealershipID, identity.RoleManager)
	require.NoError(t, err)

	repo := new(MockMembershipRepository)
	repo.On("FindByUserAndDealership", mock.Anything, userID, dealershipID).Return(membership, nil)

	rig := newGuardRig(t, userID, false, false, repo)
	w := rig.request(t, dealershipID.String())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, rig.reached)
	assert.Equal(t, dealershipID, rig.resolvedID)
	assert.Equal(t, identity.RoleManager, rig.resolvedRole)
}

func TestDealershipGuard_PlatformAdminBypass(t *testing.T) {
	repo := new(MockMembershipRepository)
	dealershipID := uuid.New()

	rig := newGuardRig(t, uuid.New(), true, false, repo)
	w := rig.request(t, dealershipID.String())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, identity.RoleAdmin, rig.resolvedRole)
	repo.AssertNotCalled(t, "FindByUserAndDealership", mock.Anything, mock.Anything, mock.Anything)
}

func TestDealershipGuard_PlatformOperatorBypass(t *testing.T) {
	repo := new(MockMembershipRepository)
	dealershipID := uuid.New()

	rig := newGuardRig(t, uuid.New(), false, true, repo)
	w := rig.request(t, dealershipID.String())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, identity.RoleAdmin, rig.resolvedRole)
	repo.AssertNotCalled(t, "FindByUserAndDealership", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	run := func(role identity.Role, allowed ...identity.Role) int {
		engine := gin.New()
		engine.Use(func(c *gin.Context) {
			c.Set(DealershipRoleKey, role)
		})
		engine.GET("/guarded", RequireRole(allowed...), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))
		return w.Code
	}

	assert.Equal(t, http.StatusOK, run(identity.RoleManager, identity.RoleAdmin, identity.RoleManager))
	assert.Equal(t, http.StatusForbidden, run(identity.RoleSales, identity.RoleAdmin, identity.RoleManager))
	assert.Equal(t, http.StatusOK, run(identity.RoleBDC, identity.RoleBDC))
}

func TestRequirePlatformOrDealershipAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	run := func(platformAdmin, platformOperator bool, role identity.Role) int {
		engine := gin.New()
		engine.Use(func(c *gin.Context) {
			c.Set(JWTPlatformAdminKey, platformAdmin)
			c.Set(JWTPlatformOperatorKey, platformOperator)
			if role != "" {
				c.Set(DealershipRoleKey, role)
			}
		})
		engine.GET("/guarded", RequirePlatformOrDealershipAdmin(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))
		return w.Code
	}

	assert.Equal(t, http.StatusOK, run(true, false, ""))
	assert.Equal(t, http.StatusOK, run(false, true, ""))
	assert.Equal(t, http.StatusOK, run(false, false, identity.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, run(false, false, identity.RoleSales))
	assert.Equal(t, http.StatusForbidden, run(false, false, ""))
}
