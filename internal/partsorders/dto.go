package partsorders

import (
	"time"

	"github.com/google/uuid"

	"github.com/pyy-alt/ppg-admin-sub000/internal/fileassets"
	"github.com/pyy-alt/ppg-admin-sub000/internal/timeline"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/db/models"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/visibility"
)

// SubmitActionInput is a workflow action requested by a viewer.
type SubmitActionInput struct {
	Viewer           visibility.Viewer
	PartsOrderID     uuid.UUID
	Action           enums.WorkflowAction
	Comment          *string
	SalesOrderNumber *string
}

// PersonRef is the public shape of an attributed person.
type PersonRef struct {
	ID   uuid.UUID        `json:"id"`
	Name string           `json:"name"`
	Role enums.PersonRole `json:"role"`
}

// ActivityLogItemView is one audit entry.
type ActivityLogItemView struct {
	ID        uuid.UUID             `json:"id"`
	Stage     enums.PartsOrderStage `json:"stage"`
	Type      enums.ActivityLogType `json:"type"`
	Comment   *string               `json:"comment,omitempty"`
	Person    *PersonRef            `json:"person,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}

// View is a parts order as returned to a viewer, with its timeline.
type View struct {
	ID               uuid.UUID              `json:"id"`
	RepairOrderID    uuid.UUID              `json:"repair_order_id"`
	PartsOrderNumber int                    `json:"parts_order_number"`
	IsSupplement     bool                   `json:"is_supplement"`
	Stage            enums.PartsOrderStage  `json:"stage"`
	Status           enums.PartsOrderStatus `json:"status"`
	Parts            []string               `json:"parts"`
	ApprovalFlag     *bool                  `json:"approval_flag"`
	SalesOrderNumber *string                `json:"sales_order_number,omitempty"`
	DateSubmitted    *time.Time             `json:"date_submitted,omitempty"`
	DateReviewed     *time.Time             `json:"date_reviewed,omitempty"`
	DateShipped      *time.Time             `json:"date_shipped,omitempty"`
	DateReceived     *time.Time             `json:"date_received,omitempty"`
	SubmittedBy      *PersonRef             `json:"submitted_by,omitempty"`
	ReviewedBy       *PersonRef             `json:"reviewed_by,omitempty"`
	ShippedBy        *PersonRef             `json:"shipped_by,omitempty"`
	ReceivedBy       *PersonRef             `json:"received_by,omitempty"`
	Version          int                    `json:"version"`
	HasAlert         bool                   `json:"has_alert"`
	ActivityLog      []ActivityLogItemView  `json:"activity_log"`
	Estimates        []fileassets.View      `json:"estimates"`
	Timeline         timeline.Timeline      `json:"timeline"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// NewView projects order for viewer.
func NewView(order models.PartsOrder, viewer visibility.Viewer) View {
	parts := []string(order.Parts.Normalize())
	if parts == nil {
		parts = []string{}
	}
	logItems := make([]ActivityLogItemView, 0, len(order.ActivityLog))
	for _, item := range order.ActivityLog {
		logItems = append(logItems, ActivityLogItemView{
			ID:        item.ID,
			Stage:     item.Stage,
			Type:      item.Type,
			Comment:   item.Comment,
			Person:    personRef(item.Person),
			CreatedAt: item.CreatedAt,
		})
	}
	return View{
		ID:               order.ID,
		RepairOrderID:    order.RepairOrderID,
		PartsOrderNumber: order.PartsOrderNumber,
		IsSupplement:     order.IsSupplement(),
		Stage:            order.Stage,
		Status:           order.Status,
		Parts:            parts,
		ApprovalFlag:     order.ApprovalFlag,
		SalesOrderNumber: order.SalesOrderNumber,
		DateSubmitted:    order.DateSubmitted,
		DateReviewed:     order.DateReviewed,
		DateShipped:      order.DateShipped,
		DateReceived:     order.DateReceived,
		SubmittedBy:      personRef(order.SubmittedByPerson),
		ReviewedBy:       personRef(order.ReviewedByPerson),
		ShippedBy:        personRef(order.ShippedByPerson),
		ReceivedBy:       personRef(order.ReceivedByPerson),
		Version:          order.Version,
		HasAlert:         timeline.HasAlert(viewer.Role, order.Status),
		ActivityLog:      logItems,
		Estimates:        fileassets.NewViews(order.Estimates),
		Timeline:         timeline.Project(order, timeline.Viewer{PersonID: viewer.PersonID, Role: viewer.Role}),
		UpdatedAt:        order.UpdatedAt,
	}
}

// NewViews projects every order for viewer, keeping order.
func NewViews(orders []models.PartsOrder, viewer visibility.Viewer) []View {
	out := make([]View, 0, len(orders))
	for _, order := range orders {
		out = append(out, NewView(order, viewer))
	}
	return out
}

func personRef(p *models.Person) *PersonRef {
	if p == nil {
		return nil
	}
	return &PersonRef{ID: p.ID, Name: p.DisplayName(), Role: p.Role}
}
