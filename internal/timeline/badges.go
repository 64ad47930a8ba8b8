package timeline

import "github.com/pyy-alt/ppg-admin-sub000/pkg/enums"

// Badge is the label and color shown on a timeline row.
type Badge struct {
	Label   string        `json:"label"`
	Variant enums.UIBadge `json:"variant"`
}

const (
	labelWaitingOnYou      = "Waiting on you"
	labelPendingCsr        = "Pending CSR"
	labelPendingDealership = "Pending Dealership"
	labelPendingShop       = "Pending Shop"
	labelNotStarted        = "Not started"
	labelApproved          = "Approved"
	labelRejected          = "Rejected"
	labelActionRequired    = "Action required"
	labelShipped           = "Shipped"
	labelReceived          = "Received"
)

// anyRole marks a badge row that applies to every role without its own row.
const anyRole enums.PersonRole = ""

type badgeKey struct {
	role   enums.PersonRole
	stage  enums.PartsOrderStage
	status enums.TimelineItemStatus
}

var (
	review      = enums.PartsOrderStageOrderReview
	fulfillment = enums.PartsOrderStageOrderFulfillment
	received    = enums.PartsOrderStageOrderReceived
)

// badgeTable is the only place badge copy is defined.
var badgeTable = map[badgeKey]Badge{
	{anyRole, review, enums.TimelineItemStatusPending}:               {labelNotStarted, enums.UIBadgeNeutral},
	{anyRole, review, enums.TimelineItemStatusWaiting}:               {labelPendingCsr, enums.UIBadgeInfo},
	{enums.PersonRoleCsr, review, enums.TimelineItemStatusWaiting}:   {labelWaitingOnYou, enums.UIBadgeWarning},
	{anyRole, review, enums.TimelineItemStatusApproved}:              {labelApproved, enums.UIBadgeSuccess},
	{anyRole, review, enums.TimelineItemStatusCompleted}:             {labelApproved, enums.UIBadgeSuccess},
	{anyRole, review, enums.TimelineItemStatusRejected}:              {labelRejected, enums.UIBadgeDanger},
	{enums.PersonRoleShop, review, enums.TimelineItemStatusRejected}: {labelActionRequired, enums.UIBadgeDanger},

	{anyRole, fulfillment, enums.TimelineItemStatusPending}:                    {labelNotStarted, enums.UIBadgeNeutral},
	{anyRole, fulfillment, enums.TimelineItemStatusWaiting}:                    {labelPendingDealership, enums.UIBadgeInfo},
	{enums.PersonRoleDealership, fulfillment, enums.TimelineItemStatusWaiting}: {labelWaitingOnYou, enums.UIBadgeWarning},
	{anyRole, fulfillment, enums.TimelineItemStatusCompleted}:                  {labelShipped, enums.UIBadgeSuccess},

	{anyRole, received, enums.TimelineItemStatusPending}:              {labelNotStarted, enums.UIBadgeNeutral},
	{anyRole, received, enums.TimelineItemStatusWaiting}:              {labelPendingShop, enums.UIBadgeInfo},
	{enums.PersonRoleShop, received, enums.TimelineItemStatusWaiting}: {labelWaitingOnYou, enums.UIBadgeWarning},
	{anyRole, received, enums.TimelineItemStatusCompleted}:            {labelReceived, enums.UIBadgeSuccess},
}

// BadgeFor looks up the badge for a role viewing a stage row in the given status.
func BadgeFor(role enums.PersonRole, stage enums.PartsOrderStage, status enums.TimelineItemStatus) (Badge, bool) {
	if badge, ok := badgeTable[badgeKey{role, stage, status}]; ok {
		return badge, true
	}
	badge, ok := badgeTable[badgeKey{anyRole, stage, status}]
	return badge, ok
}

// waitingOn names the party a stage waits on while it is the active stage.
var waitingOn = map[enums.PartsOrderStage]enums.PersonRole{
	review:      enums.PersonRoleCsr,
	fulfillment: enums.PersonRoleDealership,
	received:    enums.PersonRoleShop,
}
