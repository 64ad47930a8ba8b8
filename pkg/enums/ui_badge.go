package enums

import "fmt"

// UIBadge is the color variant of a timeline badge.
type UIBadge string

const (
	UIBadgeNeutral UIBadge = "neutral"
	UIBadgeInfo    UIBadge = "info"
	UIBadgeWarning UIBadge = "warning"
	UIBadgeSuccess UIBadge = "success"
	UIBadgeDanger  UIBadge = "danger"
)

var validUIBadges = []UIBadge{
	UIBadgeNeutral,
	UIBadgeInfo,
	UIBadgeWarning,
	UIBadgeSuccess,
	UIBadgeDanger,
}

// String implements fmt.Stringer.
func (u UIBadge) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UIBadge.
func (u UIBadge) IsValid() bool {
	for _, candidate := range validUIBadges {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUIBadge converts raw input into a UIBadge.
func ParseUIBadge(value string) (UIBadge, error) {
	for _, candidate := range validUIBadges {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ui badge %q", value)
}
