package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
)

// PartsOrderSubmittedEvent signals that a new original or supplement parts order entered CSR review.
type PartsOrderSubmittedEvent struct {
	PartsOrderID     uuid.UUID              `json:"parts_order_id"`
	RepairOrderID    uuid.UUID              `json:"repair_order_id"`
	PartsOrderNumber int                    `json:"parts_order_number"`
	ShopID           uuid.UUID              `json:"shop_id"`
	DealershipID     uuid.UUID              `json:"dealership_id"`
	Stage            enums.PartsOrderStage  `json:"stage"`
	Status           enums.PartsOrderStatus `json:"status"`
	SubmittedAt      time.Time              `json:"submitted_at"`
}

// PartsOrderTransitionedEvent is emitted for every applied workflow action.
type PartsOrderTransitionedEvent struct {
	PartsOrderID     uuid.UUID              `json:"parts_order_id"`
	RepairOrderID    uuid.UUID              `json:"repair_order_id"`
	PartsOrderNumber int                    `json:"parts_order_number"`
	Action           enums.WorkflowAction   `json:"action"`
	FromStage        enums.PartsOrderStage  `json:"from_stage"`
	FromStatus       enums.PartsOrderStatus `json:"from_status"`
	ToStage          enums.PartsOrderStage  `json:"to_stage"`
	ToStatus         enums.PartsOrderStatus `json:"to_status"`
	Comment          string                 `json:"comment,omitempty"`
	SalesOrderNumber *string                `json:"sales_order_number,omitempty"`
	Version          int                    `json:"version"`
}

// RepairOrderCreatedEvent signals a new repair order with its original parts order.
type RepairOrderCreatedEvent struct {
	RepairOrderID        uuid.UUID `json:"repair_order_id"`
	ShopID               uuid.UUID `json:"shop_id"`
	DealershipID         uuid.UUID `json:"dealership_id"`
	RoNumber             string    `json:"ro_number"`
	OriginalPartsOrderID uuid.UUID `json:"original_parts_order_id"`
}

// RepairOrderSupplementedEvent signals that a supplement parts order was added.
type RepairOrderSupplementedEvent struct {
	RepairOrderID    uuid.UUID `json:"repair_order_id"`
	PartsOrderID     uuid.UUID `json:"parts_order_id"`
	PartsOrderNumber int       `json:"parts_order_number"`
}

// RepairOrderCompletedEvent is emitted when the shop marks the repair complete.
type RepairOrderCompletedEvent struct {
	RepairOrderID           uuid.UUID   `json:"repair_order_id"`
	ShopID                  uuid.UUID   `json:"shop_id"`
	DealershipID            uuid.UUID   `json:"dealership_id"`
	PartsOrderIDs           []uuid.UUID `json:"parts_order_ids"`
	PostRepairPhotoAssetIDs []uuid.UUID `json:"post_repair_photo_asset_ids"`
	ClosedAt                time.Time   `json:"closed_at"`
}
