package enums

import "fmt"

// Permission gates access to a feature area of the backoffice.
type Permission string

const (
	PermissionManageInventory  Permission = "manage_inventory"
	PermissionViewDashboard    Permission = "view_dashboard"
	PermissionManageTeam       Permission = "manage_team"
	PermissionAccessCalculator Permission = "access_calculator"
	PermissionManageSuppliers  Permission = "manage_suppliers"
)

var validPermissions = []Permission{
	PermissionManageInventory,
	PermissionViewDashboard,
	PermissionManageTeam,
	PermissionAccessCalculator,
	PermissionManageSuppliers,
}

// String implements fmt.Stringer.
func (p Permission) String() string {
	return string(p)
}

// IsValid reports whether the value is a known Permission.
func (p Permission) IsValid() bool {
	for _, candidate := range validPermissions {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePermission converts raw input into a Permission.
func ParsePermission(value string) (Permission, error) {
	for _, candidate := range validPermissions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid permission %q", value)
}

// DefaultPermissions returns the permission set granted to a role before
// any per-user overrides.
func DefaultPermissions(role UserRole) []Permission {
	switch role {
	case UserRoleAdmin:
		return []Permission{
			PermissionManageInventory,
			PermissionViewDashboard,
			PermissionManageTeam,
			PermissionAccessCalculator,
			PermissionManageSuppliers,
		}
	case UserRoleManager:
		return []Permission{
			PermissionManageInventory,
			PermissionViewDashboard,
			PermissionAccessCalculator,
			PermissionManageSuppliers,
		}
	case UserRoleSeller:
		// Sellers quote and sell; stock intake stays with managers.
		return []Permission{
			PermissionAccessCalculator,
		}
	default:
		return nil
	}
}
