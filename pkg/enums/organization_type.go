package enums

import "fmt"

// OrganizationType classifies an organization.
type OrganizationType string

const (
	OrganizationTypeShop       OrganizationType = "shop"
	OrganizationTypeDealership OrganizationType = "dealership"
	OrganizationTypeProgram    OrganizationType = "program"
)

var validOrganizationTypes = []OrganizationType{
	OrganizationTypeShop,
	OrganizationTypeDealership,
	OrganizationTypeProgram,
}

// String implements fmt.Stringer.
func (t OrganizationType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known OrganizationType.
func (t OrganizationType) IsValid() bool {
	for _, candidate := range validOrganizationTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseOrganizationType converts raw input into an OrganizationType.
func ParseOrganizationType(value string) (OrganizationType, error) {
	for _, candidate := range validOrganizationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid organization type %q", value)
}
