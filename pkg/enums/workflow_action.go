package enums

import "fmt"

// WorkflowAction is an action a person can request against a parts order.
type WorkflowAction string

const (
	WorkflowActionApproved    WorkflowAction = "approved"
	WorkflowActionRejected    WorkflowAction = "rejected"
	WorkflowActionResubmitted WorkflowAction = "resubmitted"
	WorkflowActionShipped     WorkflowAction = "shipped"
	WorkflowActionUnshipped   WorkflowAction = "unshipped"
	WorkflowActionReceived    WorkflowAction = "received"
	WorkflowActionUnreceived  WorkflowAction = "unreceived"
)

var validWorkflowActions = []WorkflowAction{
	WorkflowActionApproved,
	WorkflowActionRejected,
	WorkflowActionResubmitted,
	WorkflowActionShipped,
	WorkflowActionUnshipped,
	WorkflowActionReceived,
	WorkflowActionUnreceived,
}

// String implements fmt.Stringer.
func (a WorkflowAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known WorkflowAction.
func (a WorkflowAction) IsValid() bool {
	for _, candidate := range validWorkflowActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// LogType returns the activity log type recorded when the action is applied.
func (a WorkflowAction) LogType() ActivityLogType {
	return ActivityLogType(a)
}

// WorkflowActions returns every known action.
func WorkflowActions() []WorkflowAction {
	out := make([]WorkflowAction, len(validWorkflowActions))
	copy(out, validWorkflowActions)
	return out
}

// ParseWorkflowAction converts raw input into a WorkflowAction.
func ParseWorkflowAction(value string) (WorkflowAction, error) {
	for _, candidate := range validWorkflowActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid workflow action %q", value)
}
