package enums

import "fmt"

// StaffRole groups staff accounts for capability checks. Superusers are
// flagged separately on the user row and are not a role.
type StaffRole string

const (
	StaffRoleManager  StaffRole = "Manager"
	StaffRoleSalesman StaffRole = "Salesman"
)

var validStaffRoles = []StaffRole{
	StaffRoleManager,
	StaffRoleSalesman,
}

// String implements fmt.Stringer.
func (r StaffRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known StaffRole.
func (r StaffRole) IsValid() bool {
	for _, candidate := range validStaffRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseStaffRole converts raw input into a StaffRole.
func ParseStaffRole(value string) (StaffRole, error) {
	for _, candidate := range validStaffRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid staff role %q", value)
}
