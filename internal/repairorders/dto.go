package repairorders

import (
	"time"

	"github.com/google/uuid"

	"github.com/pyy-alt/ppg-admin-sub000/internal/fileassets"
	"github.com/pyy-alt/ppg-admin-sub000/internal/partsorders"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/db/models"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/visibility"
)

// CreateInput opens a repair order together with its original parts order.
// ID may be chosen by the client so uploads can be placed under the repair
// order's object prefix before it exists.
type CreateInput struct {
	ID                     uuid.UUID
	Viewer                 visibility.Viewer
	DealershipID           *uuid.UUID
	RoNumber               string
	Vin                    string
	Make                   string
	Year                   int
	Model                  string
	Customer               string
	Parts                  []string
	Estimates              []fileassets.Upload
	StructuralMeasurements []fileassets.Upload
	PreRepairPhotos        []fileassets.Upload
}

// UpdateInput edits repair order descriptors. Nil fields are left unchanged.
type UpdateInput struct {
	Viewer        visibility.Viewer
	RepairOrderID uuid.UUID
	RoNumber      *string
	Vin           *string
	Make          *string
	Year          *int
	Model         *string
	Customer      *string
}

// SupplementInput adds a supplement parts order to a repair order.
type SupplementInput struct {
	Viewer        visibility.Viewer
	RepairOrderID uuid.UUID
	Parts         []string
	Estimates     []fileassets.Upload
}

// CompleteInput marks the repair complete and attaches post-repair photos.
type CompleteInput struct {
	Viewer           visibility.Viewer
	RepairOrderID    uuid.UUID
	PostRepairPhotos []fileassets.Upload
}

// ListFilters narrows repair order lists.
type ListFilters struct {
	Closed *bool
}

// OrganizationRef is the public shape of an organization.
type OrganizationRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Summary is one row of a repair order list.
type Summary struct {
	ID                uuid.UUID  `json:"id"`
	ShopID            uuid.UUID  `json:"shop_id"`
	DealershipID      uuid.UUID  `json:"dealership_id"`
	RoNumber          string     `json:"ro_number"`
	Vin               string     `json:"vin"`
	Make              string     `json:"make"`
	Year              int        `json:"year"`
	Model             string     `json:"model"`
	Customer          string     `json:"customer"`
	DateLastSubmitted *time.Time `json:"date_last_submitted,omitempty"`
	DateClosed        *time.Time `json:"date_closed,omitempty"`
	PartsOrderCount   int        `json:"parts_order_count"`
	HasAlert          bool       `json:"has_alert"`
	CreatedAt         time.Time  `json:"created_at"`
}

// List is a page of repair orders.
type List struct {
	Items      []Summary `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// Detail is a repair order with its parts orders, timelines and aggregation.
type Detail struct {
	ID                uuid.UUID          `json:"id"`
	Shop              *OrganizationRef   `json:"shop,omitempty"`
	Dealership        *OrganizationRef   `json:"dealership,omitempty"`
	RoNumber          string             `json:"ro_number"`
	Vin               string             `json:"vin"`
	Make              string             `json:"make"`
	Year              int                `json:"year"`
	Model             string             `json:"model"`
	Customer          string             `json:"customer"`
	DateLastSubmitted *time.Time         `json:"date_last_submitted,omitempty"`
	DateClosed        *time.Time         `json:"date_closed,omitempty"`
	ClosedByPersonID  *uuid.UUID         `json:"closed_by_person_id,omitempty"`
	FileAssets        []fileassets.View  `json:"file_assets"`
	PartsOrders       []partsorders.View `json:"parts_orders"`
	Aggregation       Aggregation        `json:"aggregation"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

func newSummary(ro models.RepairOrder, count int, hasAlert bool) Summary {
	return Summary{
		ID:                ro.ID,
		ShopID:            ro.ShopID,
		DealershipID:      ro.DealershipID,
		RoNumber:          ro.RoNumber,
		Vin:               ro.Vin,
		Make:              ro.Make,
		Year:              ro.Year,
		Model:             ro.Model,
		Customer:          ro.Customer,
		DateLastSubmitted: ro.DateLastSubmitted,
		DateClosed:        ro.DateClosed,
		PartsOrderCount:   count,
		HasAlert:          hasAlert,
		CreatedAt:         ro.CreatedAt,
	}
}

func newDetail(ro models.RepairOrder, orders []partsorders.View, agg Aggregation) Detail {
	return Detail{
		ID:                ro.ID,
		Shop:              orgRef(ro.Shop),
		Dealership:        orgRef(ro.Dealership),
		RoNumber:          ro.RoNumber,
		Vin:               ro.Vin,
		Make:              ro.Make,
		Year:              ro.Year,
		Model:             ro.Model,
		Customer:          ro.Customer,
		DateLastSubmitted: ro.DateLastSubmitted,
		DateClosed:        ro.DateClosed,
		ClosedByPersonID:  ro.ClosedByPersonID,
		FileAssets:        fileassets.NewViews(ro.FileAssets),
		PartsOrders:       orders,
		Aggregation:       agg,
		CreatedAt:         ro.CreatedAt,
		UpdatedAt:         ro.UpdatedAt,
	}
}

func orgRef(org *models.Organization) *OrganizationRef {
	if org == nil {
		return nil
	}
	return &OrganizationRef{ID: org.ID, Name: org.Name}
}
