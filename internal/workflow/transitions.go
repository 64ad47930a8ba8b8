package workflow

import "github.com/pyy-alt/ppg-admin-sub000/pkg/enums"

// State is the (stage, status) pair a parts order is in.
type State struct {
	Stage  enums.PartsOrderStage  `json:"stage"`
	Status enums.PartsOrderStatus `json:"status"`
}

func (s State) String() string {
	return string(s.Stage) + "/" + string(s.Status)
}

var (
	StateCsrReview            = State{Stage: enums.PartsOrderStageOrderReview, Status: enums.PartsOrderStatusCsrReview}
	StateCsrRejected          = State{Stage: enums.PartsOrderStageOrderReview, Status: enums.PartsOrderStatusCsrRejected}
	StateDealershipProcessing = State{Stage: enums.PartsOrderStageOrderFulfillment, Status: enums.PartsOrderStatusDealershipProcessing}
	StateDealershipShipped    = State{Stage: enums.PartsOrderStageOrderReceived, Status: enums.PartsOrderStatusDealershipShipped}
	StateShopReceived         = State{Stage: enums.PartsOrderStageOrderReceived, Status: enums.PartsOrderStatusShopReceived}
)

// InitialState is where every newly submitted parts order starts.
var InitialState = StateCsrReview

type transition struct {
	from   State
	action enums.WorkflowAction
	to     State
}

// transitions is the complete set of legal moves. Anything else is rejected.
var transitions = []transition{
	{from: StateCsrReview, action: enums.WorkflowActionApproved, to: StateDealershipProcessing},
	{from: StateCsrReview, action: enums.WorkflowActionRejected, to: StateCsrRejected},
	{from: StateCsrRejected, action: enums.WorkflowActionResubmitted, to: StateCsrReview},
	{from: StateDealershipProcessing, action: enums.WorkflowActionShipped, to: StateDealershipShipped},
	{from: StateDealershipShipped, action: enums.WorkflowActionUnshipped, to: StateDealershipProcessing},
	{from: StateDealershipShipped, action: enums.WorkflowActionReceived, to: StateShopReceived},
	{from: StateShopReceived, action: enums.WorkflowActionUnreceived, to: StateDealershipShipped},
}

// Target returns the state reached by applying action from the given state.
func Target(from State, action enums.WorkflowAction) (State, bool) {
	for _, t := range transitions {
		if t.from == from && t.action == action {
			return t.to, true
		}
	}
	return State{}, false
}

// ValidActions lists the actions the transition table accepts from a state.
func ValidActions(from State) []enums.WorkflowAction {
	var out []enums.WorkflowAction
	for _, t := range transitions {
		if t.from == from {
			out = append(out, t.action)
		}
	}
	return out
}

// IsValid reports whether action is legal from the given state.
func IsValid(from State, action enums.WorkflowAction) bool {
	_, ok := Target(from, action)
	return ok
}
