package partsorders

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pyy-alt/ppg-admin-sub000/internal/workflow"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/db/models"
)

// NumberConstraint is the unique index on (repair_order_id, parts_order_number).
const NumberConstraint = "ux_parts_orders_number"

// Repository defines persistence operations for parts orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.PartsOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.PartsOrder, error)
	ListByRepairOrder(ctx context.Context, repairOrderID uuid.UUID) ([]models.PartsOrder, error)
	ListByRepairOrders(ctx context.Context, repairOrderIDs []uuid.UUID) ([]models.PartsOrder, error)
	NextNumber(ctx context.Context, repairOrderID uuid.UUID) (int, error)
	UpdateState(ctx context.Context, order models.PartsOrder, expected workflow.State, expectedVersion int) (bool, error)
	FindRepairOrder(ctx context.Context, id uuid.UUID) (*models.RepairOrder, error)
	TouchRepairOrderSubmitted(ctx context.Context, repairOrderID uuid.UUID, at time.Time) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a parts order repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.PartsOrder) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PartsOrder, error) {
	var order models.PartsOrder
	if err := withDetails(r.db.WithContext(ctx)).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListByRepairOrder(ctx context.Context, repairOrderID uuid.UUID) ([]models.PartsOrder, error) {
	var orders []models.PartsOrder
	err := withDetails(r.db.WithContext(ctx)).
		Where("repair_order_id = ?", repairOrderID).
		Order("parts_order_number ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListByRepairOrders loads bare parts orders for several repair orders, used
// by list views that only need states.
func (r *repository) ListByRepairOrders(ctx context.Context, repairOrderIDs []uuid.UUID) ([]models.PartsOrder, error) {
	if len(repairOrderIDs) == 0 {
		return nil, nil
	}
	var orders []models.PartsOrder
	err := r.db.WithContext(ctx).
		Where("repair_order_id IN ?", repairOrderIDs).
		Order("repair_order_id ASC").
		Order("parts_order_number ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) NextNumber(ctx context.Context, repairOrderID uuid.UUID) (int, error) {
	var max sql.NullInt64
	err := r.db.WithContext(ctx).
		Model(&models.PartsOrder{}).
		Select("MAX(parts_order_number)").
		Where("repair_order_id = ?", repairOrderID).
		Row().
		Scan(&max)
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}

// UpdateState writes the transitioned order only if it still holds the state
// and version that were read. It reports false when another writer won.
func (r *repository) UpdateState(ctx context.Context, order models.PartsOrder, expected workflow.State, expectedVersion int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.PartsOrder{}).
		Where("id = ? AND stage = ? AND status = ? AND version = ?", order.ID, expected.Stage, expected.Status, expectedVersion).
		Updates(map[string]any{
			"stage":                  order.Stage,
			"status":                 order.Status,
			"approval_flag":          order.ApprovalFlag,
			"sales_order_number":     order.SalesOrderNumber,
			"date_submitted":         order.DateSubmitted,
			"date_reviewed":          order.DateReviewed,
			"date_shipped":           order.DateShipped,
			"date_received":          order.DateReceived,
			"submitted_by_person_id": order.SubmittedByPersonID,
			"reviewed_by_person_id":  order.ReviewedByPersonID,
			"shipped_by_person_id":   order.ShippedByPersonID,
			"received_by_person_id":  order.ReceivedByPersonID,
			"version":                expectedVersion + 1,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) FindRepairOrder(ctx context.Context, id uuid.UUID) (*models.RepairOrder, error) {
	var ro models.RepairOrder
	if err := r.db.WithContext(ctx).Preload("Shop").First(&ro, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ro, nil
}

func (r *repository) TouchRepairOrderSubmitted(ctx context.Context, repairOrderID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.RepairOrder{}).
		Where("id = ?", repairOrderID).
		Update("date_last_submitted", at.UTC()).Error
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("SubmittedByPerson").
		Preload("ReviewedByPerson").
		Preload("ShippedByPerson").
		Preload("ReceivedByPerson").
		Preload("ActivityLog", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC")
		}).
		Preload("ActivityLog.Person").
		Preload("Estimates")
}
