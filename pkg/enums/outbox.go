package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type column of outbox_events.
type OutboxAggregateType string

const (
	AggregatePartsOrder  OutboxAggregateType = "parts_order"
	AggregateRepairOrder OutboxAggregateType = "repair_order"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregatePartsOrder,
	AggregateRepairOrder,
}

// IsValid reports whether the value matches a known aggregate type.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type column of outbox_events.
type OutboxEventType string

const (
	EventPartsOrderSubmitted     OutboxEventType = "parts_order_submitted"
	EventPartsOrderTransitioned  OutboxEventType = "parts_order_transitioned"
	EventRepairOrderCreated      OutboxEventType = "repair_order_created"
	EventRepairOrderCompleted    OutboxEventType = "repair_order_completed"
	EventRepairOrderSupplemented OutboxEventType = "repair_order_supplemented"
)

var validOutboxEventTypes = []OutboxEventType{
	EventPartsOrderSubmitted,
	EventPartsOrderTransitioned,
	EventRepairOrderCreated,
	EventRepairOrderCompleted,
	EventRepairOrderSupplemented,
}

// IsValid reports whether the value matches a known event type.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
