package repairorders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pyy-alt/ppg-admin-sub000/pkg/db/models"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/pagination"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/visibility"
)

// Repository defines persistence operations for repair orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, ro *models.RepairOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.RepairOrder, error)
	FindDetail(ctx context.Context, id uuid.UUID) (*models.RepairOrder, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Close(ctx context.Context, id uuid.UUID, closedBy uuid.UUID, at time.Time) (bool, error)
	List(ctx context.Context, viewer visibility.Viewer, params pagination.Params, filters ListFilters) ([]models.RepairOrder, string, error)
	FindOrganization(ctx context.Context, id uuid.UUID) (*models.Organization, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a repair order repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, ro *models.RepairOrder) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(ro).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.RepairOrder, error) {
	var ro models.RepairOrder
	if err := r.db.WithContext(ctx).Preload("Shop").First(&ro, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ro, nil
}

// FindDetail loads a repair order with both organizations and every file asset.
func (r *repository) FindDetail(ctx context.Context, id uuid.UUID) (*models.RepairOrder, error) {
	var ro models.RepairOrder
	err := r.db.WithContext(ctx).
		Preload("Shop").
		Preload("Dealership").
		Preload("FileAssets", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC").Order("id ASC")
		}).
		First(&ro, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &ro, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.RepairOrder{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Close stamps the repair order closed. It reports false when it was already closed.
func (r *repository) Close(ctx context.Context, id uuid.UUID, closedBy uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.RepairOrder{}).
		Where("id = ? AND date_closed IS NULL", id).
		Updates(map[string]any{
			"date_closed":         at.UTC(),
			"closed_by_person_id": closedBy,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) List(ctx context.Context, viewer visibility.Viewer, params pagination.Params, filters ListFilters) ([]models.RepairOrder, string, error) {
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(params.Cursor))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	query := r.db.WithContext(ctx).
		Model(&models.RepairOrder{}).
		Scopes(visibility.ScopeRepairOrders(viewer)).
		Preload("Shop")

	if filters.Closed != nil {
		if *filters.Closed {
			query = query.Where("repair_orders.date_closed IS NOT NULL")
		} else {
			query = query.Where("repair_orders.date_closed IS NULL")
		}
	}
	if decodedCursor != nil {
		query = query.Where(
			"(repair_orders.created_at < ?) OR (repair_orders.created_at = ? AND repair_orders.id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID,
		)
	}

	var records []models.RepairOrder
	err = query.
		Order("repair_orders.created_at DESC").
		Order("repair_orders.id DESC").
		Limit(limitWithBuffer).
		Find(&records).Error
	if err != nil {
		return nil, "", err
	}

	records, nextCursor := pagination.TrimPage(records, params.Limit, func(ro models.RepairOrder) pagination.Cursor {
		return pagination.Cursor{CreatedAt: ro.CreatedAt, ID: ro.ID}
	})
	return records, nextCursor, nil
}

func (r *repository) FindOrganization(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).First(&org, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}
