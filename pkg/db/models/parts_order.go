package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/types"
)

// PartsOrder is one parts request under a repair order. Number 0 is the
// original order; supplements are numbered 1, 2, 3...
type PartsOrder struct {
	ID                  uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	RepairOrderID       uuid.UUID              `gorm:"column:repair_order_id;type:uuid;not null;uniqueIndex:ux_parts_orders_number"`
	PartsOrderNumber    int                    `gorm:"column:parts_order_number;not null;uniqueIndex:ux_parts_orders_number"`
	Stage               enums.PartsOrderStage  `gorm:"column:stage;type:parts_order_stage_enum;not null"`
	Status              enums.PartsOrderStatus `gorm:"column:status;type:parts_order_status_enum;not null"`
	Parts               types.PartNumbers      `gorm:"column:parts;type:jsonb;not null"`
	ApprovalFlag        *bool                  `gorm:"column:approval_flag"`
	SalesOrderNumber    *string                `gorm:"column:sales_order_number"`
	DateSubmitted       *time.Time             `gorm:"column:date_submitted"`
	DateReviewed        *time.Time             `gorm:"column:date_reviewed"`
	DateShipped         *time.Time             `gorm:"column:date_shipped"`
	DateReceived        *time.Time             `gorm:"column:date_received"`
	SubmittedByPersonID *uuid.UUID             `gorm:"column:submitted_by_person_id;type:uuid"`
	SubmittedByPerson   *Person                `gorm:"foreignKey:SubmittedByPersonID"`
	ReviewedByPersonID  *uuid.UUID             `gorm:"column:reviewed_by_person_id;type:uuid"`
	ReviewedByPerson    *Person                `gorm:"foreignKey:ReviewedByPersonID"`
	ShippedByPersonID   *uuid.UUID             `gorm:"column:shipped_by_person_id;type:uuid"`
	ShippedByPerson     *Person                `gorm:"foreignKey:ShippedByPersonID"`
	ReceivedByPersonID  *uuid.UUID             `gorm:"column:received_by_person_id;type:uuid"`
	ReceivedByPerson    *Person                `gorm:"foreignKey:ReceivedByPersonID"`
	Version             int                    `gorm:"column:version;not null;default:1"`
	ActivityLog         []ActivityLogItem      `gorm:"foreignKey:PartsOrderID"`
	Estimates           []FileAsset            `gorm:"foreignKey:PartsOrderID"`
	CreatedAt           time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *PartsOrder) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IsSupplement reports whether this is a supplement rather than the original order.
func (p PartsOrder) IsSupplement() bool {
	return p.PartsOrderNumber > 0
}
