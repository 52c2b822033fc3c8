package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleTecnico, CanCreateReports))
	assert.False(t, HasPermission(RoleTecnico, CanViewAllReports))
	assert.False(t, HasPermission(RoleTecnico, CanDeleteReports))
	assert.True(t, HasPermission(RoleSupervisor, CanApproveReports))
	assert.False(t, HasPermission(RoleSupervisor, CanDeleteUsers))
	assert.True(t, HasPermission(RoleAdmin, CanManageRegions))
	assert.False(t, HasPermission(Role("visitante"), CanCreateReports))
}

func TestCanPerformAction(t *testing.T) {
	assert.True(t, CanPerformAction(RoleTecnico, CanEditReports, ActionContext{IsOwnReport: true}))
	assert.False(t, CanPerformAction(RoleTecnico, CanEditReports, ActionContext{IsOwnReport: false}))
	assert.True(t, CanPerformAction(RoleSupervisor, CanEditReports, ActionContext{}))

	assert.True(t, CanPerformAction(RoleSupervisor, CanCreateUsers, ActionContext{TargetRole: RoleTecnico}))
	assert.False(t, CanPerformAction(RoleSupervisor, CanCreateUsers, ActionContext{TargetRole: RoleAdmin}))
	assert.True(t, CanPerformAction(RoleAdmin, CanCreateUsers, ActionContext{TargetRole: RoleAdmin}))
	assert.False(t, CanPerformAction(RoleTecnico, CanCreateUsers, ActionContext{TargetRole: RoleTecnico}))
}

func TestRoleLimits(t *testing.T) {
	assert.Equal(t, 20, RoleConfigs[RoleTecnico].Limits.MaxReportsPerDay)
	assert.Equal(t, 50, RoleConfigs[RoleSupervisor].Limits.MaxReportsPerDay)
	assert.Equal(t, Unlimited, RoleConfigs[RoleAdmin].Limits.MaxReportsPerDay)
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("root").Valid())
}

func TestFormatReportNumber(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "DCR-2024-000042", FormatReportNumber("intervencion_42", now))
	assert.Equal(t, "DCR-2024-000123", FormatReportNumber("intervencion_1718000000123", now))

	n := FormatReportNumber("borrador", now)
	require.Len(t, n, len("DCR-2024-")+6)
	assert.Equal(t, "DCR-2024-", n[:9])
}

func TestPasswordHashing(t *testing.T) {
	u := &User{}
	require.Error(t, u.SetPassword("123"))
	require.NoError(t, u.SetPassword("secreto1"))
	assert.NotEqual(t, "secreto1", u.HashedPassword)
	assert.NoError(t, u.VerifyPassword("secreto1"))
	assert.Error(t, u.VerifyPassword("otra"))
}
