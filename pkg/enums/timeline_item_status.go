package enums

import "fmt"

// TimelineItemStatus classifies one stage row of a parts order timeline.
type TimelineItemStatus string

const (
	TimelineItemStatusPending   TimelineItemStatus = "pending"
	TimelineItemStatusWaiting   TimelineItemStatus = "waiting"
	TimelineItemStatusApproved  TimelineItemStatus = "approved"
	TimelineItemStatusRejected  TimelineItemStatus = "rejected"
	TimelineItemStatusCompleted TimelineItemStatus = "completed"
)

var validTimelineItemStatuses = []TimelineItemStatus{
	TimelineItemStatusPending,
	TimelineItemStatusWaiting,
	TimelineItemStatusApproved,
	TimelineItemStatusRejected,
	TimelineItemStatusCompleted,
}

// String implements fmt.Stringer.
func (s TimelineItemStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known TimelineItemStatus.
func (s TimelineItemStatus) IsValid() bool {
	for _, candidate := range validTimelineItemStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// TimelineItemStatuses returns every known item status.
func TimelineItemStatuses() []TimelineItemStatus {
	out := make([]TimelineItemStatus, len(validTimelineItemStatuses))
	copy(out, validTimelineItemStatuses)
	return out
}

// ParseTimelineItemStatus converts raw input into a TimelineItemStatus.
func ParseTimelineItemStatus(value string) (TimelineItemStatus, error) {
	for _, candidate := range validTimelineItemStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid timeline item status %q", value)
}
