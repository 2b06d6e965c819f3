package enums

import "fmt"

// StaffRole is the permission level of a store staff account.
type StaffRole string

const (
	StaffRoleMama      StaffRole = "mama"
	StaffRoleBartender StaffRole = "bartender"
)

var validStaffRoles = []StaffRole{
	StaffRoleMama,
	StaffRoleBartender,
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

// IsMama reports whether the role carries administrative privileges.
func (r StaffRole) IsMama() bool {
	return r == StaffRoleMama
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
