package enums

import "fmt"

// PersonRole identifies which party a person acts for. It never changes for a person.
type PersonRole string

const (
	PersonRoleShop                 PersonRole = "shop"
	PersonRoleDealership           PersonRole = "dealership"
	PersonRoleCsr                  PersonRole = "csr"
	PersonRoleFieldStaff           PersonRole = "field_staff"
	PersonRoleProgramAdministrator PersonRole = "program_administrator"
)

var validPersonRoles = []PersonRole{
	PersonRoleShop,
	PersonRoleDealership,
	PersonRoleCsr,
	PersonRoleFieldStaff,
	PersonRoleProgramAdministrator,
}

// String implements fmt.Stringer.
func (r PersonRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known PersonRole.
func (r PersonRole) IsValid() bool {
	for _, candidate := range validPersonRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsReadOnly reports whether the role can never trigger workflow actions.
func (r PersonRole) IsReadOnly() bool {
	return r == PersonRoleFieldStaff || r == PersonRoleProgramAdministrator
}

// PersonRoles returns every known role in display order.
func PersonRoles() []PersonRole {
	out := make([]PersonRole, len(validPersonRoles))
	copy(out, validPersonRoles)
	return out
}

// ParsePersonRole converts raw input into a PersonRole.
func ParsePersonRole(value string) (PersonRole, error) {
	for _, candidate := range validPersonRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid person role %q", value)
}
