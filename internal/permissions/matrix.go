// Package permissions maps a viewer role and a parts order state to the
// workflow actions that viewer may take. Everything here is a pure function.
package permissions

import (
	"fmt"
	"strings"

	"github.com/pyy-alt/ppg-admin-sub000/internal/workflow"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/db/models"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
	pkgerrors "github.com/pyy-alt/ppg-admin-sub000/pkg/errors"
)

type grant struct {
	role   enums.PersonRole
	state  workflow.State
	action enums.WorkflowAction
}

var grants = []grant{
	{enums.PersonRoleCsr, workflow.StateCsrReview, enums.WorkflowActionApproved},
	{enums.PersonRoleCsr, workflow.StateCsrReview, enums.WorkflowActionRejected},
	{enums.PersonRoleShop, workflow.StateCsrRejected, enums.WorkflowActionResubmitted},
	{enums.PersonRoleDealership, workflow.StateDealershipProcessing, enums.WorkflowActionShipped},
	{enums.PersonRoleDealership, workflow.StateDealershipShipped, enums.WorkflowActionUnshipped},
	{enums.PersonRoleShop, workflow.StateDealershipShipped, enums.WorkflowActionReceived},
	{enums.PersonRoleShop, workflow.StateShopReceived, enums.WorkflowActionUnreceived},
}

// ActionSet is an unordered set of workflow actions.
type ActionSet map[enums.WorkflowAction]struct{}

// Has reports whether the set contains action.
func (s ActionSet) Has(action enums.WorkflowAction) bool {
	_, ok := s[action]
	return ok
}

// List returns the actions in canonical order.
func (s ActionSet) List() []enums.WorkflowAction {
	out := make([]enums.WorkflowAction, 0, len(s))
	for _, action := range enums.WorkflowActions() {
		if s.Has(action) {
			out = append(out, action)
		}
	}
	return out
}

// AllowedActions returns the actions role may request at (stage, status).
// Read-only roles always get an empty set.
func AllowedActions(role enums.PersonRole, stage enums.PartsOrderStage, status enums.PartsOrderStatus) ActionSet {
	out := ActionSet{}
	if role.IsReadOnly() {
		return out
	}
	state := workflow.State{Stage: stage, Status: status}
	for _, g := range grants {
		if g.role == role && g.state == state && workflow.IsValid(state, g.action) {
			out[g.action] = struct{}{}
		}
	}
	return out
}

// Can reports whether role may request action on order right now.
func Can(role enums.PersonRole, order models.PartsOrder, action enums.WorkflowAction) bool {
	state := workflow.CurrentState(order)
	return AllowedActions(role, state.Stage, state.Status).Has(action)
}

// Grants reports whether role may request action in some state.
func Grants(role enums.PersonRole, action enums.WorkflowAction) bool {
	if role.IsReadOnly() {
		return false
	}
	for _, g := range grants {
		if g.role == role && g.action == action {
			return true
		}
	}
	return false
}

// Check returns nil when role may request action on order now. A role that
// holds the grant in another state gets InvalidTransition, since refetching
// the order resolves it; any other role gets Forbidden.
func Check(role enums.PersonRole, order models.PartsOrder, action enums.WorkflowAction) error {
	if Can(role, order, action) {
		return nil
	}
	if Grants(role, action) {
		return workflow.InvalidTransition(workflow.CurrentState(order), action)
	}
	return pkgerrors.New(
		pkgerrors.CodeForbidden,
		fmt.Sprintf("%s users can not mark parts orders %s", label(string(role)), label(string(action))),
	).WithDetails(map[string]any{"role": role, "action": action})
}

func label(value string) string {
	return strings.ReplaceAll(value, "_", " ")
}

// CanCompleteRepair reports whether role may mark the repair order complete
// given all of its parts orders. Only shops may, and only once every parts
// order has been received or rejected.
func CanCompleteRepair(role enums.PersonRole, siblings []models.PartsOrder) bool {
	if role != enums.PersonRoleShop || len(siblings) == 0 {
		return false
	}
	return AllSettledForRepair(siblings)
}

// AllSettledForRepair reports whether every parts order is received or rejected.
func AllSettledForRepair(siblings []models.PartsOrder) bool {
	if len(siblings) == 0 {
		return false
	}
	for _, po := range siblings {
		if !po.Status.IsSettledForRepair() {
			return false
		}
	}
	return true
}

// CanCreateSupplement reports whether role may add a supplement parts order.
// Only shops may, and at least one existing order must still be open.
func CanCreateSupplement(role enums.PersonRole, siblings []models.PartsOrder) bool {
	if role != enums.PersonRoleShop || len(siblings) == 0 {
		return false
	}
	for _, po := range siblings {
		if po.Status != enums.PartsOrderStatusRepairCompleted {
			return true
		}
	}
	return false
}
