package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
)

// FileAsset references an uploaded object in the storage bucket.
type FileAsset struct {
	ID                 uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	RepairOrderID      uuid.UUID           `gorm:"column:repair_order_id;type:uuid;not null;index"`
	PartsOrderID       *uuid.UUID          `gorm:"column:parts_order_id;type:uuid"`
	Kind               enums.FileAssetKind `gorm:"column:kind;type:file_asset_kind_enum;not null"`
	ObjectName         string              `gorm:"column:object_name;not null"`
	FileName           string              `gorm:"column:file_name;not null"`
	ContentType        string              `gorm:"column:content_type;not null"`
	SizeBytes          int64               `gorm:"column:size_bytes;not null;default:0"`
	UploadedByPersonID uuid.UUID           `gorm:"column:uploaded_by_person_id;type:uuid;not null"`
	CreatedAt          time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (f *FileAsset) BeforeCreate(*gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
