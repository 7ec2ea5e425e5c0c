package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"ADMIN", "MANAGER", "SALES", "BDC"} {
		role, err := ParseRole(valid)
		require.NoError(t, err)
		assert.Equal(t, Role(valid), role)
	}

	_, err := ParseRole("admin")
	assert.Error(t, err)
	_, err = ParseRole("OWNER")
	assert.Error(t, err)
}

func TestNewMembership(t *testing.T) {
	userID := uuid.New()
	dealershipID := uuid.New()

	t.Run("creates active membership", func(t *testing.T) {
		m, err := NewMembership(userID, dealershipID, RoleSales)

		require.NoError(t, err)
		assert.Equal(t, userID, m.UserID)
		assert.Equal(t, dealershipID, m.DealershipID)
		assert.Equal(t, RoleSales, m.Role)
		assert.True(t, m.Active)
		assert.Len(t, m.GetDomainEvents(), 1)
	})

	t.Run("fails with nil user", func(t *testing.T) {
		m, err := NewMembership(uuid.Nil, dealershipID, RoleSales)
		assert.Error(t, err)
		assert.Nil(t, m)
	})

	t.Run("fails with unknown role", func(t *testing.T) {
		m, err := NewMembership(userID, dealershipID, Role("OWNER"))
		assert.Error(t, err)
		assert.Nil(t, m)
	})
}

func TestMembershipLifecycle(t *testing.T) {
	m, err := NewMembership(uuid.New(), uuid.New(), RoleBDC)
	require.NoError(t, err)

	t.Run("change role", func(t *testing.T) {
		require.NoError(t, m.ChangeRole(RoleManager))
		assert.Equal(t, RoleManager, m.Role)

		// no-op change does not error
		require.NoError(t, m.ChangeRole(RoleManager))

		assert.Error(t, m.ChangeRole(Role("OWNER")))
	})

	t.Run("revoke and restore", func(t *testing.T) {
		require.NoError(t, m.Revoke())
		assert.False(t, m.Active)
		assert.Error(t, m.Revoke())

		require.NoError(t, m.Restore())
		assert.True(t, m.Active)
		assert.Error(t, m.Restore())
	})
}

func TestDealership(t *testing.T) {
	t.Run("creates dealership with normalized code", func(t *testing.T) {
		d, err := NewDealership("Summit Auto Group", "summit")
		require.NoError(t, err)
		assert.Equal(t, "SUMMIT", d.Code)
		assert.True(t, d.Active)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		d, err := NewDealership("  ", "SUMMIT")
		assert.Error(t, err)
		assert.Nil(t, d)
	})

	t.Run("rejects unknown timezone", func(t *testing.T) {
		d, err := NewDealership("Summit Auto Group", "SUMMIT")
		require.NoError(t, err)

		assert.Error(t, d.SetTimezone("Mars/Olympus"))
		assert.NoError(t, d.SetTimezone("America/Chicago"))
		assert.Equal(t, "America/Chicago", d.Timezone)
	})

	t.Run("deactivate and reactivate", func(t *testing.T) {
		d, err := NewDealership("Summit Auto Group", "SUMMIT")
		require.NoError(t, err)

		require.NoError(t, d.Deactivate())
		assert.False(t, d.Active)
		assert.Error(t, d.Deactivate())

		require.NoError(t, d.Reactivate())
		assert.True(t, d.Active)
	})
}
