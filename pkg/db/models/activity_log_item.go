package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
)

// ActivityLogItem is an immutable audit entry written once per workflow transition.
type ActivityLogItem struct {
	ID           uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	PartsOrderID uuid.UUID             `gorm:"column:parts_order_id;type:uuid;not null;index"`
	Stage        enums.PartsOrderStage `gorm:"column:stage;type:parts_order_stage_enum;not null"`
	Type         enums.ActivityLogType `gorm:"column:type;type:activity_log_type_enum;not null"`
	Comment      *string               `gorm:"column:comment"`
	PersonID     *uuid.UUID            `gorm:"column:person_id;type:uuid"`
	Person       *Person               `gorm:"foreignKey:PersonID"`
	CreatedAt    time.Time             `gorm:"column:created_at;not null"`
}

func (a *ActivityLogItem) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
