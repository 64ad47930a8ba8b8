package fileassets

import (
	"time"

	"github.com/google/uuid"

	"github.com/pyy-alt/ppg-admin-sub000/pkg/db/models"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
)

// View is the public shape of a file asset.
type View struct {
	ID           uuid.UUID           `json:"id"`
	PartsOrderID *uuid.UUID          `json:"parts_order_id,omitempty"`
	Kind         enums.FileAssetKind `json:"kind"`
	ObjectName   string              `json:"object_name"`
	FileName     string              `json:"file_name"`
	ContentType  string              `json:"content_type"`
	SizeBytes    int64               `json:"size_bytes"`
	CreatedAt    time.Time           `json:"created_at"`
}

// NewViews converts assets, keeping order.
func NewViews(assets []models.FileAsset) []View {
	out := make([]View, 0, len(assets))
	for _, asset := range assets {
		out = append(out, View{
			ID:           asset.ID,
			PartsOrderID: asset.PartsOrderID,
			Kind:         asset.Kind,
			ObjectName:   asset.ObjectName,
			FileName:     asset.FileName,
			ContentType:  asset.ContentType,
			SizeBytes:    asset.SizeBytes,
			CreatedAt:    asset.CreatedAt,
		})
	}
	return out
}
