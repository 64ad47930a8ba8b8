// Package timeline derives the per-viewer progress view of a parts order.
// Projection is a pure read over the order and its activity log; it keeps no
// state between calls and is safe for concurrent use.
package timeline

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pyy-alt/ppg-admin-sub000/internal/activitylog"
	"github.com/pyy-alt/ppg-admin-sub000/internal/permissions"
	"github.com/pyy-alt/ppg-admin-sub000/internal/workflow"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/db/models"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
)

// Viewer is the person the timeline is projected for.
type Viewer struct {
	PersonID uuid.UUID
	Role     enums.PersonRole
}

// Line is one narrative entry under a stage row.
type Line struct {
	Type       enums.ActivityLogType `json:"type"`
	Label      string                `json:"label"`
	At         *time.Time            `json:"at,omitempty"`
	PersonID   *uuid.UUID            `json:"person_id,omitempty"`
	PersonName string                `json:"person_name,omitempty"`
	Comment    *string               `json:"comment,omitempty"`
}

// Item is one stage row of the timeline.
type Item struct {
	Stage           enums.PartsOrderStage    `json:"stage"`
	Status          enums.TimelineItemStatus `json:"status"`
	Badge           Badge                    `json:"badge"`
	WaitingOn       *enums.PersonRole        `json:"waiting_on,omitempty"`
	WaitingOnViewer bool                     `json:"waiting_on_viewer"`
	Date            *time.Time               `json:"date,omitempty"`
	PersonName      string                   `json:"person_name,omitempty"`
	Actions         []enums.WorkflowAction   `json:"actions"`
	Lines           []Line                   `json:"lines"`
}

// Timeline is the projected view. Items always holds exactly three rows;
// repair completion is reported as a terminal marker.
type Timeline struct {
	PartsOrderID    uuid.UUID             `json:"parts_order_id"`
	EffectiveStage  enums.PartsOrderStage `json:"effective_stage"`
	Items           []Item                `json:"items"`
	RepairCompleted bool                  `json:"repair_completed"`
}

// EffectiveStage normalizes the stored stage, which can lag one step behind
// the status. A stage is treated as passed once its milestone date is set.
// The stage part is workflow.CurrentState, shared with action gating.
func EffectiveStage(order models.PartsOrder) enums.PartsOrderStage {
	state := workflow.CurrentState(order)
	if state.Stage == enums.PartsOrderStageOrderReceived &&
		(state.Status == enums.PartsOrderStatusShopReceived || state.Status == enums.PartsOrderStatusRepairCompleted) &&
		order.DateReceived != nil {
		return enums.PartsOrderStageRepairCompleted
	}
	return state.Stage
}

// Project builds the timeline of order for viewer.
func Project(order models.PartsOrder, viewer Viewer) Timeline {
	effective := EffectiveStage(order)
	log := activitylog.FromItems(order.ActivityLog)
	state := workflow.CurrentState(order)
	allowed := permissions.AllowedActions(viewer.Role, state.Stage, state.Status)

	items := make([]Item, 0, len(activitylog.TimelineStages))
	for _, stage := range activitylog.TimelineStages {
		status := itemStatus(order, stage, effective)
		item := Item{
			Stage:   stage,
			Status:  status,
			Actions: affordances(stage, status, allowed),
			Lines:   narrate(order, log, stage),
		}
		if badge, ok := BadgeFor(viewer.Role, stage, status); ok {
			item.Badge = badge
		}
		if status == enums.TimelineItemStatusWaiting {
			party := waitingOn[stage]
			item.WaitingOn = &party
			item.WaitingOnViewer = party == viewer.Role
		}
		item.Date, item.PersonName = milestone(order, stage, status)
		items = append(items, item)
	}

	return Timeline{
		PartsOrderID:    order.ID,
		EffectiveStage:  effective,
		Items:           items,
		RepairCompleted: effective == enums.PartsOrderStageRepairCompleted,
	}
}

func itemStatus(order models.PartsOrder, stage, effective enums.PartsOrderStage) enums.TimelineItemStatus {
	switch {
	case stage.Index() < effective.Index():
		return enums.TimelineItemStatusCompleted
	case stage.Index() > effective.Index():
		return enums.TimelineItemStatusPending
	}

	switch stage {
	case enums.PartsOrderStageOrderReview:
		if order.ApprovalFlag != nil {
			if *order.ApprovalFlag {
				return enums.TimelineItemStatusApproved
			}
			return enums.TimelineItemStatusRejected
		}
		if order.Status == enums.PartsOrderStatusCsrRejected {
			return enums.TimelineItemStatusRejected
		}
		return enums.TimelineItemStatusWaiting
	case enums.PartsOrderStageOrderFulfillment:
		if order.Status == enums.PartsOrderStatusDealershipShipped {
			return enums.TimelineItemStatusCompleted
		}
		return enums.TimelineItemStatusWaiting
	case enums.PartsOrderStageOrderReceived:
		if order.Status == enums.PartsOrderStatusShopReceived || order.Status == enums.PartsOrderStatusRepairCompleted {
			return enums.TimelineItemStatusCompleted
		}
		return enums.TimelineItemStatusWaiting
	}
	return enums.TimelineItemStatusPending
}

type affordanceKey struct {
	stage  enums.PartsOrderStage
	status enums.TimelineItemStatus
}

// candidates lists what a row in a given status can offer before permissions apply.
var candidates = map[affordanceKey][]enums.WorkflowAction{
	{review, enums.TimelineItemStatusWaiting}:        {enums.WorkflowActionApproved, enums.WorkflowActionRejected},
	{review, enums.TimelineItemStatusRejected}:       {enums.WorkflowActionResubmitted},
	{fulfillment, enums.TimelineItemStatusWaiting}:   {enums.WorkflowActionShipped},
	{fulfillment, enums.TimelineItemStatusCompleted}: {enums.WorkflowActionUnshipped},
	{received, enums.TimelineItemStatusWaiting}:      {enums.WorkflowActionReceived},
	{received, enums.TimelineItemStatusCompleted}:    {enums.WorkflowActionUnreceived},
}

func affordances(stage enums.PartsOrderStage, status enums.TimelineItemStatus, allowed permissions.ActionSet) []enums.WorkflowAction {
	out := []enums.WorkflowAction{}
	for _, action := range candidates[affordanceKey{stage, status}] {
		if allowed.Has(action) {
			out = append(out, action)
		}
	}
	return out
}

var lineLabels = map[enums.ActivityLogType]string{
	enums.ActivityLogTypeSubmitted:   "Submitted",
	enums.ActivityLogTypeApproved:    "Approved",
	enums.ActivityLogTypeRejected:    "Rejected",
	enums.ActivityLogTypeResubmitted: "Resubmitted",
	enums.ActivityLogTypeShipped:     "Shipped",
	enums.ActivityLogTypeUnshipped:   "Unshipped",
	enums.ActivityLogTypeReceived:    "Received",
	enums.ActivityLogTypeUnreceived:  "Unreceived",
}

func narrate(order models.PartsOrder, log activitylog.Log, stage enums.PartsOrderStage) []Line {
	lines := []Line{}
	if !log.IsEmpty() {
		for _, t := range activitylog.TypesFor(stage) {
			if item := log.LatestOfType(stage, t); item != nil {
				lines = append(lines, lineFromItem(*item))
			}
		}
	}
	if stage == enums.PartsOrderStageOrderReview && !hasSubmission(lines) {
		lines = append(lines, submittedLine(order))
	}
	if log.IsEmpty() {
		lines = append(lines, rawLines(order, stage)...)
	}

	sort.SliceStable(lines, func(i, j int) bool {
		switch {
		case lines[i].At == nil:
			return lines[j].At != nil
		case lines[j].At == nil:
			return false
		default:
			return lines[i].At.Before(*lines[j].At)
		}
	})
	return lines
}

func hasSubmission(lines []Line) bool {
	for _, line := range lines {
		if line.Type == enums.ActivityLogTypeSubmitted || line.Type == enums.ActivityLogTypeResubmitted {
			return true
		}
	}
	return false
}

func lineFromItem(item models.ActivityLogItem) Line {
	at := item.CreatedAt
	line := Line{
		Type:     item.Type,
		Label:    lineLabels[item.Type],
		At:       &at,
		PersonID: item.PersonID,
		Comment:  item.Comment,
	}
	if item.Person != nil {
		line.PersonName = item.Person.DisplayName()
	}
	return line
}

// submittedLine falls back to the raw submission fields, or to a bare
// "Submitted" entry when the order never recorded a submission date.
func submittedLine(order models.PartsOrder) Line {
	line := Line{Type: enums.ActivityLogTypeSubmitted, Label: lineLabels[enums.ActivityLogTypeSubmitted]}
	if order.DateSubmitted == nil {
		return line
	}
	line.At = order.DateSubmitted
	line.PersonID = order.SubmittedByPersonID
	line.PersonName = personName(order.SubmittedByPerson)
	return line
}

// rawLines rebuilds milestone lines for orders that carry no activity log.
func rawLines(order models.PartsOrder, stage enums.PartsOrderStage) []Line {
	var lines []Line
	switch stage {
	case enums.PartsOrderStageOrderReview:
		if order.ApprovalFlag != nil && order.DateReviewed != nil {
			t := enums.ActivityLogTypeRejected
			if *order.ApprovalFlag {
				t = enums.ActivityLogTypeApproved
			}
			lines = append(lines, rawLine(t, order.DateReviewed, order.ReviewedByPersonID, order.ReviewedByPerson))
		}
	case enums.PartsOrderStageOrderFulfillment:
		if order.DateShipped != nil {
			lines = append(lines, rawLine(enums.ActivityLogTypeShipped, order.DateShipped, order.ShippedByPersonID, order.ShippedByPerson))
		}
	case enums.PartsOrderStageOrderReceived:
		if order.DateReceived != nil {
			lines = append(lines, rawLine(enums.ActivityLogTypeReceived, order.DateReceived, order.ReceivedByPersonID, order.ReceivedByPerson))
		}
	}
	return lines
}

func rawLine(t enums.ActivityLogType, at *time.Time, personID *uuid.UUID, person *models.Person) Line {
	return Line{
		Type:       t,
		Label:      lineLabels[t],
		At:         at,
		PersonID:   personID,
		PersonName: personName(person),
	}
}

func milestone(order models.PartsOrder, stage enums.PartsOrderStage, status enums.TimelineItemStatus) (*time.Time, string) {
	switch stage {
	case enums.PartsOrderStageOrderReview:
		if order.DateReviewed != nil && status != enums.TimelineItemStatusWaiting {
			return order.DateReviewed, personName(order.ReviewedByPerson)
		}
		return order.DateSubmitted, personName(order.SubmittedByPerson)
	case enums.PartsOrderStageOrderFulfillment:
		if status == enums.TimelineItemStatusCompleted {
			return order.DateShipped, personName(order.ShippedByPerson)
		}
	case enums.PartsOrderStageOrderReceived:
		if status == enums.TimelineItemStatusCompleted {
			return order.DateReceived, personName(order.ReceivedByPerson)
		}
	}
	return nil, ""
}

func personName(p *models.Person) string {
	if p == nil {
		return ""
	}
	return p.DisplayName()
}
