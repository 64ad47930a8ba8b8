package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
)

// Organization is a shop, a dealership or the program office.
type Organization struct {
	ID                  uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	Name                string                 `gorm:"column:name;not null"`
	Type                enums.OrganizationType `gorm:"column:type;type:organization_type_enum;not null"`
	SponsorDealershipID *uuid.UUID             `gorm:"column:sponsor_dealership_id;type:uuid"`
	CreatedAt           time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Organization) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
