package models

// Role is a user role. Roles are fixed; their permissions live in RoleConfigs.
type Role string

const (
	RoleTecnico    Role = "tecnico"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

// Unlimited marks a limit that does not apply.
const Unlimited = -1

// Permission names one capability of a role.
type Permission string

const (
	CanCreateReports  Permission = "canCreateReports"
	CanEditReports    Permission = "canEditReports"
	CanDeleteReports  Permission = "canDeleteReports"
	CanViewAllReports Permission = "canViewAllReports"
	CanApproveReports Permission = "canApproveReports"
	CanCreateUsers    Permission = "canCreateUsers"
	CanEditUsers      Permission = "canEditUsers"
	CanDeleteUsers    Permission = "canDeleteUsers"
	CanViewAllUsers   Permission = "canViewAllUsers"
	CanAccessSettings Permission = "canAccessSettings"
	CanExportData     Permission = "canExportData"
	CanViewAnalytics  Permission = "canViewAnalytics"
	CanManageRegions  Permission = "canManageRegions"
)

type RoleLimits struct {
	MaxReportsPerDay          int  `json:"maxReportsPerDay"`
	MaxInterventionsPerReport int  `json:"maxInterventionsPerReport"`
	RequiresApproval          bool `json:"requiresApproval"`
}

type RoleConfig struct {
	Role        Role                `json:"role"`
	DisplayName string              `json:"displayName"`
	Description string              `json:"description"`
	Permissions map[Permission]bool `json:"permissions"`
	Limits      RoleLimits          `json:"limits"`
}

var RoleConfigs = map[Role]RoleConfig{
	RoleTecnico: {
		Role:        RoleTecnico,
		DisplayName: "Técnico",
		Description: "Usuario de campo responsable de crear y registrar intervenciones",
		Permissions: map[Permission]bool{
			CanCreateReports: true,
			CanEditReports:   true, // own reports only
			CanViewAnalytics: true,
		},
		Limits: RoleLimits{MaxReportsPerDay: 20, MaxInterventionsPerReport: 50, RequiresApproval: true},
	},
	RoleSupervisor: {
		Role:        RoleSupervisor,
		DisplayName: "Supervisor",
		Description: "Supervisor de proyectos con capacidad de aprobar y gestionar reportes",
		Permissions: map[Permission]bool{
			CanCreateReports:  true,
			CanEditReports:    true,
			CanDeleteReports:  true,
			CanViewAllReports: true,
			CanApproveReports: true,
			CanCreateUsers:    true, // technicians only
			CanEditUsers:      true,
			CanViewAllUsers:   true,
			CanAccessSettings: true,
			CanExportData:     true,
			CanViewAnalytics:  true,
		},
		Limits: RoleLimits{MaxReportsPerDay: 50, MaxInterventionsPerReport: 100},
	},
	RoleAdmin: {
		Role:        RoleAdmin,
		DisplayName: "Administrador",
		Description: "Administrador del sistema con acceso completo a todas las funcionalidades",
		Permissions: map[Permission]bool{
			CanCreateReports:  true,
			CanEditReports:    true,
			CanDeleteReports:  true,
			CanViewAllReports: true,
			CanApproveReports: true,
			CanCreateUsers:    true,
			CanEditUsers:      true,
			CanDeleteUsers:    true,
			CanViewAllUsers:   true,
			CanAccessSettings: true,
			CanExportData:     true,
			CanViewAnalytics:  true,
			CanManageRegions:  true,
		},
		Limits: RoleLimits{MaxReportsPerDay: Unlimited, MaxInterventionsPerReport: Unlimited},
	},
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := RoleConfigs[r]
	return ok
}

func HasPermission(role Role, p Permission) bool {
	return RoleConfigs[role].Permissions[p]
}

// ActionContext narrows a permission check to a concrete target.
type ActionContext struct {
	IsOwnReport bool
	TargetRole  Role
}

// CanPerformAction applies the role table plus the contextual rules:
// technicians only edit their own reports and supervisors only create
// technicians.
func CanPerformAction(role Role, p Permission, ctx ActionContext) bool {
	if !HasPermission(role, p) {
		return false
	}
	if role == RoleTecnico && p == CanEditReports {
		return ctx.IsOwnReport
	}
	if role == RoleSupervisor && p == CanCreateUsers {
		return ctx.TargetRole == RoleTecnico
	}
	return true
}

// Badge is the short label shown next to a user name.
func (r Role) Badge() string {
	return RoleConfigs[r].DisplayName
}
