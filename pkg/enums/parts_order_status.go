package enums

import "fmt"

// PartsOrderStatus is the fine-grained workflow state of a parts order.
type PartsOrderStatus string

const (
	PartsOrderStatusCsrReview            PartsOrderStatus = "csr_review"
	PartsOrderStatusCsrRejected          PartsOrderStatus = "csr_rejected"
	PartsOrderStatusDealershipProcessing PartsOrderStatus = "dealership_processing"
	PartsOrderStatusDealershipShipped    PartsOrderStatus = "dealership_shipped"
	PartsOrderStatusShopReceived         PartsOrderStatus = "shop_received"
	PartsOrderStatusRepairCompleted      PartsOrderStatus = "repair_completed"
)

var validPartsOrderStatuses = []PartsOrderStatus{
	PartsOrderStatusCsrReview,
	PartsOrderStatusCsrRejected,
	PartsOrderStatusDealershipProcessing,
	PartsOrderStatusDealershipShipped,
	PartsOrderStatusShopReceived,
	PartsOrderStatusRepairCompleted,
}

// String implements fmt.Stringer.
func (s PartsOrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PartsOrderStatus.
func (s PartsOrderStatus) IsValid() bool {
	for _, candidate := range validPartsOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsSettledForRepair reports whether the status no longer blocks repair completion.
func (s PartsOrderStatus) IsSettledForRepair() bool {
	return s == PartsOrderStatusShopReceived || s == PartsOrderStatusCsrRejected
}

// PartsOrderStatuses returns every known status.
func PartsOrderStatuses() []PartsOrderStatus {
	out := make([]PartsOrderStatus, len(validPartsOrderStatuses))
	copy(out, validPartsOrderStatuses)
	return out
}

// ParsePartsOrderStatus converts raw input into a PartsOrderStatus.
func ParsePartsOrderStatus(value string) (PartsOrderStatus, error) {
	for _, candidate := range validPartsOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid parts order status %q", value)
}
