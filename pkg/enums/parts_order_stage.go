package enums

import "fmt"

// PartsOrderStage is the coarse workflow phase of a parts order.
type PartsOrderStage string

const (
	PartsOrderStageOrderReview      PartsOrderStage = "order_review"
	PartsOrderStageOrderFulfillment PartsOrderStage = "order_fulfillment"
	PartsOrderStageOrderReceived    PartsOrderStage = "order_received"
	PartsOrderStageRepairCompleted  PartsOrderStage = "repair_completed"
)

// stages are listed in workflow order; Index relies on it.
var validPartsOrderStages = []PartsOrderStage{
	PartsOrderStageOrderReview,
	PartsOrderStageOrderFulfillment,
	PartsOrderStageOrderReceived,
	PartsOrderStageRepairCompleted,
}

// String implements fmt.Stringer.
func (s PartsOrderStage) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PartsOrderStage.
func (s PartsOrderStage) IsValid() bool {
	return s.Index() >= 0
}

// Index returns the position of the stage in the workflow, or -1 when unknown.
func (s PartsOrderStage) Index() int {
	for i, candidate := range validPartsOrderStages {
		if candidate == s {
			return i
		}
	}
	return -1
}

// PartsOrderStages returns every stage in workflow order.
func PartsOrderStages() []PartsOrderStage {
	out := make([]PartsOrderStage, len(validPartsOrderStages))
	copy(out, validPartsOrderStages)
	return out
}

// ParsePartsOrderStage converts raw input into a PartsOrderStage.
func ParsePartsOrderStage(value string) (PartsOrderStage, error) {
	for _, candidate := range validPartsOrderStages {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid parts order stage %q", value)
}
