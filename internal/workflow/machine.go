package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pyy-alt/ppg-admin-sub000/internal/activitylog"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/db/models"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
	pkgerrors "github.com/pyy-alt/ppg-admin-sub000/pkg/errors"
)

// Request is an action requested against a parts order.
type Request struct {
	Action           enums.WorkflowAction
	Comment          *string
	SalesOrderNumber *string
}

// Result is the outcome of a successful transition.
type Result struct {
	From    State
	To      State
	Order   models.PartsOrder
	LogItem models.ActivityLogItem
}

// Validate checks that the fields an action requires are present.
func (r Request) Validate() error {
	if !r.Action.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown workflow action %q", r.Action))
	}
	switch r.Action {
	case enums.WorkflowActionApproved:
		if blank(r.SalesOrderNumber) {
			return pkgerrors.New(pkgerrors.CodeValidation, "a sales order number is required to approve").
				WithDetails(map[string]any{"field": "sales_order_number"})
		}
	case enums.WorkflowActionRejected:
		if blank(r.Comment) {
			return pkgerrors.New(pkgerrors.CodeValidation, "a comment is required to reject").
				WithDetails(map[string]any{"field": "comment"})
		}
	}
	return nil
}

// StoredState returns the (stage, status) pair exactly as persisted. It is
// the expectation for conditional updates.
func StoredState(order models.PartsOrder) State {
	return State{Stage: order.Stage, Status: order.Status}
}

// CurrentState returns the normalized state of the order. A stored stage can
// lag one step behind its status; once the milestone date for that status is
// set, the stage the status belongs to is used instead.
func CurrentState(order models.PartsOrder) State {
	state := StoredState(order)
	if state.Stage != enums.PartsOrderStageOrderFulfillment {
		return state
	}
	switch {
	case state.Status == enums.PartsOrderStatusDealershipShipped && order.DateShipped != nil,
		state.Status == enums.PartsOrderStatusShopReceived && order.DateReceived != nil:
		state.Stage = enums.PartsOrderStageOrderReceived
	}
	return state
}

// Apply validates req against the order's current state and returns the
// updated order plus the log item to append. The input order is not modified.
// Roles are not checked here; callers consult the permission matrix first.
func Apply(order models.PartsOrder, req Request, actorID uuid.UUID, now time.Time) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	from := CurrentState(order)
	to, ok := Target(from, req.Action)
	if !ok {
		return nil, InvalidTransition(from, req.Action)
	}

	at := now.UTC()
	actor := actorID
	next := order
	next.Stage = to.Stage
	next.Status = to.Status
	next.ActivityLog = nil

	switch req.Action {
	case enums.WorkflowActionApproved:
		next.ApprovalFlag = boolPtr(true)
		next.DateReviewed = &at
		next.ReviewedByPersonID = &actor
		next.ReviewedByPerson = nil
		next.SalesOrderNumber = trimmed(req.SalesOrderNumber)
	case enums.WorkflowActionRejected:
		next.ApprovalFlag = boolPtr(false)
		next.DateReviewed = &at
		next.ReviewedByPersonID = &actor
		next.ReviewedByPerson = nil
	case enums.WorkflowActionResubmitted:
		next.ApprovalFlag = nil
		next.DateSubmitted = &at
		next.SubmittedByPersonID = &actor
		next.SubmittedByPerson = nil
		if !blank(req.SalesOrderNumber) {
			next.SalesOrderNumber = trimmed(req.SalesOrderNumber)
		}
	case enums.WorkflowActionShipped:
		next.DateShipped = &at
		next.ShippedByPersonID = &actor
		next.ShippedByPerson = nil
	case enums.WorkflowActionUnshipped:
		next.DateShipped = nil
		next.ShippedByPersonID = nil
		next.ShippedByPerson = nil
	case enums.WorkflowActionReceived:
		next.DateReceived = &at
		next.ReceivedByPersonID = &actor
		next.ReceivedByPerson = nil
	case enums.WorkflowActionUnreceived:
		next.DateReceived = nil
		next.ReceivedByPersonID = nil
		next.ReceivedByPerson = nil
	}

	logType := req.Action.LogType()
	logStage, _ := activitylog.StageFor(logType)
	item := activitylog.NewItem(order.ID, logStage, logType, req.Comment, &actor, at)

	return &Result{
		From:    from,
		To:      to,
		Order:   next,
		LogItem: item,
	}, nil
}

// InvalidTransition builds the error returned when action does not match the
// current state. Callers recover by re-reading the order.
func InvalidTransition(from State, action enums.WorkflowAction) error {
	return pkgerrors.New(
		pkgerrors.CodeInvalidTransition,
		fmt.Sprintf("cannot apply %s while the parts order is %s; refresh and try again", action, describe(from)),
	).WithDetails(map[string]any{
		"stage":  from.Stage,
		"status": from.Status,
		"action": action,
	})
}

func describe(s State) string {
	return strings.ReplaceAll(string(s.Status), "_", " ")
}

func blank(value *string) bool {
	return value == nil || strings.TrimSpace(*value) == ""
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	out := strings.TrimSpace(*value)
	return &out
}

func boolPtr(v bool) *bool {
	return &v
}
