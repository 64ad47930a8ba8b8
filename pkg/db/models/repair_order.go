package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RepairOrder is one vehicle repair job owned by a shop.
type RepairOrder struct {
	ID                uuid.UUID     `gorm:"column:id;type:uuid;primaryKey"`
	ShopID            uuid.UUID     `gorm:"column:shop_id;type:uuid;not null"`
	Shop              *Organization `gorm:"foreignKey:ShopID"`
	DealershipID      uuid.UUID     `gorm:"column:dealership_id;type:uuid;not null"`
	Dealership        *Organization `gorm:"foreignKey:DealershipID"`
	RoNumber          string        `gorm:"column:ro_number;not null"`
	Vin               string        `gorm:"column:vin;not null"`
	Make              string        `gorm:"column:make;not null"`
	Year              int           `gorm:"column:year;not null"`
	Model             string        `gorm:"column:model;not null"`
	Customer          string        `gorm:"column:customer;not null"`
	DateLastSubmitted *time.Time    `gorm:"column:date_last_submitted"`
	DateClosed        *time.Time    `gorm:"column:date_closed"`
	ClosedByPersonID  *uuid.UUID    `gorm:"column:closed_by_person_id;type:uuid"`
	CreatedByPersonID uuid.UUID     `gorm:"column:created_by_person_id;type:uuid;not null"`
	PartsOrders       []PartsOrder  `gorm:"foreignKey:RepairOrderID"`
	FileAssets        []FileAsset   `gorm:"foreignKey:RepairOrderID"`
	CreatedAt         time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}

func (r *RepairOrder) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// IsAlternateDealer reports whether parts are fulfilled by a dealership other
// than the shop's sponsor. Requires Shop to be loaded.
func (r RepairOrder) IsAlternateDealer() bool {
	if r.Shop == nil || r.Shop.SponsorDealershipID == nil {
		return false
	}
	return *r.Shop.SponsorDealershipID != r.DealershipID
}

// IsClosed reports whether the repair has been marked complete.
func (r RepairOrder) IsClosed() bool {
	return r.DateClosed != nil
}
