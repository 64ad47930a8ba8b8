package activitylog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pyy-alt/ppg-admin-sub000/pkg/db/models"
)

// Repository persists activity log items. It only appends.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Append(ctx context.Context, item *models.ActivityLogItem) error
	ListByPartsOrder(ctx context.Context, partsOrderID uuid.UUID) ([]models.ActivityLogItem, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an activity log repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Append(ctx context.Context, item *models.ActivityLogItem) error {
	if item == nil {
		return fmt.Errorf("activity log item required")
	}
	if item.PartsOrderID == uuid.Nil {
		return fmt.Errorf("activity log item requires a parts order")
	}
	return r.db.WithContext(ctx).Omit("Person").Create(item).Error
}

func (r *repository) ListByPartsOrder(ctx context.Context, partsOrderID uuid.UUID) ([]models.ActivityLogItem, error) {
	var items []models.ActivityLogItem
	err := r.db.WithContext(ctx).
		Preload("Person").
		Where("parts_order_id = ?", partsOrderID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
