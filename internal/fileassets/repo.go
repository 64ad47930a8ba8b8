package fileassets

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pyy-alt/ppg-admin-sub000/pkg/db/models"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
)

// Repository persists file asset references.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateMany(ctx context.Context, assets []models.FileAsset) error
	ListByRepairOrder(ctx context.Context, repairOrderID uuid.UUID, kinds ...enums.FileAssetKind) ([]models.FileAsset, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository constructs a file asset repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateMany(ctx context.Context, assets []models.FileAsset) error {
	if len(assets) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&assets).Error
}

func (r *repository) ListByRepairOrder(ctx context.Context, repairOrderID uuid.UUID, kinds ...enums.FileAssetKind) ([]models.FileAsset, error) {
	query := r.db.WithContext(ctx).Where("repair_order_id = ?", repairOrderID)
	if len(kinds) > 0 {
		query = query.Where("kind IN ?", kinds)
	}
	var assets []models.FileAsset
	if err := query.Order("created_at ASC").Order("id ASC").Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}
