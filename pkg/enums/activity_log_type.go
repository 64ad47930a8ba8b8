package enums

import "fmt"

// ActivityLogType names the workflow event recorded by an activity log item.
type ActivityLogType string

const (
	ActivityLogTypeSubmitted   ActivityLogType = "submitted"
	ActivityLogTypeApproved    ActivityLogType = "approved"
	ActivityLogTypeRejected    ActivityLogType = "rejected"
	ActivityLogTypeResubmitted ActivityLogType = "resubmitted"
	ActivityLogTypeShipped     ActivityLogType = "shipped"
	ActivityLogTypeUnshipped   ActivityLogType = "unshipped"
	ActivityLogTypeReceived    ActivityLogType = "received"
	ActivityLogTypeUnreceived  ActivityLogType = "unreceived"
)

var validActivityLogTypes = []ActivityLogType{
	ActivityLogTypeSubmitted,
	ActivityLogTypeApproved,
	ActivityLogTypeRejected,
	ActivityLogTypeResubmitted,
	ActivityLogTypeShipped,
	ActivityLogTypeUnshipped,
	ActivityLogTypeReceived,
	ActivityLogTypeUnreceived,
}

// String implements fmt.Stringer.
func (t ActivityLogType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known ActivityLogType.
func (t ActivityLogType) IsValid() bool {
	for _, candidate := range validActivityLogTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseActivityLogType converts raw input into an ActivityLogType.
func ParseActivityLogType(value string) (ActivityLogType, error) {
	for _, candidate := range validActivityLogTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid activity log type %q", value)
}
