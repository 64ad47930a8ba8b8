package timeline

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyy-alt/ppg-admin-sub000/internal/activitylog"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/db/models"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
)

var (
	base    = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	shopper = &models.Person{ID: uuid.New(), FirstName: "Sam", LastName: "Shop", Role: enums.PersonRoleShop}
	dealer  = &models.Person{ID: uuid.New(), FirstName: "Dee", LastName: "Dealer", Role: enums.PersonRoleDealership}
	csr     = &models.Person{ID: uuid.New(), FirstName: "Cas", LastName: "Rep", Role: enums.PersonRoleCsr}
)

func at(h int) *time.Time {
	t := base.Add(time.Duration(h) * time.Hour)
	return &t
}

func viewer(role enums.PersonRole) Viewer {
	return Viewer{PersonID: uuid.New(), Role: role}
}

func logItem(order *models.PartsOrder, t enums.ActivityLogType, h int, person *models.Person) {
	stage, _ := activitylog.StageFor(t)
	item := activitylog.NewItem(order.ID, stage, t, nil, &person.ID, *at(h))
	item.Person = person
	order.ActivityLog = append(order.ActivityLog, item)
}

func inReview() models.PartsOrder {
	order := models.PartsOrder{
		ID:                  uuid.New(),
		Stage:               enums.PartsOrderStageOrderReview,
		Status:              enums.PartsOrderStatusCsrReview,
		DateSubmitted:       at(0),
		SubmittedByPersonID: &shopper.ID,
		SubmittedByPerson:   shopper,
	}
	logItem(&order, enums.ActivityLogTypeSubmitted, 0, shopper)
	return order
}

func TestWaitingReviewByViewer(t *testing.T) {
	order := inReview()

	asCsr := Project(order, viewer(enums.PersonRoleCsr))
	require.Len(t, asCsr.Items, 3)
	reviewItem := asCsr.Items[0]
	assert.Equal(t, enums.PartsOrderStageOrderReview, reviewItem.Stage)
	assert.Equal(t, enums.TimelineItemStatusWaiting, reviewItem.Status)
	assert.Equal(t, "Waiting on you", reviewItem.Badge.Label)
	assert.Equal(t, []enums.WorkflowAction{enums.WorkflowActionApproved, enums.WorkflowActionRejected}, reviewItem.Actions)
	assert.True(t, reviewItem.WaitingOnViewer)

	asShop := Project(order, viewer(enums.PersonRoleShop))
	reviewItem = asShop.Items[0]
	assert.Equal(t, enums.TimelineItemStatusWaiting, reviewItem.Status)
	assert.Equal(t, "Pending CSR", reviewItem.Badge.Label)
	assert.Empty(t, reviewItem.Actions)
	assert.False(t, reviewItem.WaitingOnViewer)
	require.NotNil(t, reviewItem.WaitingOn)
	assert.Equal(t, enums.PersonRoleCsr, *reviewItem.WaitingOn)

	assert.Equal(t, enums.TimelineItemStatusPending, asShop.Items[1].Status)
	assert.Equal(t, enums.TimelineItemStatusPending, asShop.Items[2].Status)
}

func TestShippedWithLaggingStageLooksAhead(t *testing.T) {
	order := inReview()
	order.Stage = enums.PartsOrderStageOrderFulfillment
	order.Status = enums.PartsOrderStatusDealershipShipped
	order.ApprovalFlag = boolPtr(true)
	order.DateReviewed = at(1)
	order.ReviewedByPerson = csr
	order.DateShipped = at(2)
	order.ShippedByPerson = dealer

	assert.Equal(t, enums.PartsOrderStageOrderReceived, EffectiveStage(order))

	tl := Project(order, viewer(enums.PersonRoleShop))
	assert.Equal(t, enums.PartsOrderStageOrderReceived, tl.EffectiveStage)
	assert.Equal(t, enums.TimelineItemStatusCompleted, tl.Items[0].Status)
	assert.Equal(t, enums.TimelineItemStatusCompleted, tl.Items[1].Status)
	assert.Equal(t, "Shipped", tl.Items[1].Badge.Label)
	assert.Equal(t, "Dee Dealer", tl.Items[1].PersonName)
	assert.Equal(t, enums.TimelineItemStatusWaiting, tl.Items[2].Status)
	assert.Equal(t, "Waiting on you", tl.Items[2].Badge.Label)
	assert.Equal(t, []enums.WorkflowAction{enums.WorkflowActionReceived}, tl.Items[2].Actions)
	assert.False(t, tl.RepairCompleted)

	asDealer := Project(order, viewer(enums.PersonRoleDealership))
	assert.Equal(t, []enums.WorkflowAction{enums.WorkflowActionUnshipped}, asDealer.Items[1].Actions)
}

func TestShippedOrderActionsPerRole(t *testing.T) {
	order := inReview()
	order.Stage = enums.PartsOrderStageOrderReceived
	order.Status = enums.PartsOrderStatusDealershipShipped
	order.ApprovalFlag = boolPtr(true)
	order.DateShipped = at(2)

	asShop := Project(order, viewer(enums.PersonRoleShop))
	assert.Empty(t, asShop.Items[1].Actions)
	assert.Equal(t, []enums.WorkflowAction{enums.WorkflowActionReceived}, asShop.Items[2].Actions)

	asDealer := Project(order, viewer(enums.PersonRoleDealership))
	assert.Equal(t, []enums.WorkflowAction{enums.WorkflowActionUnshipped}, asDealer.Items[1].Actions)
	assert.Empty(t, asDealer.Items[2].Actions)
	assert.Equal(t, "Pending Shop", asDealer.Items[2].Badge.Label)
}

func TestRejectedReviewByViewer(t *testing.T) {
	order := inReview()
	order.Status = enums.PartsOrderStatusCsrRejected
	order.ApprovalFlag = boolPtr(false)
	order.DateReviewed = at(1)
	order.ReviewedByPerson = csr
	logItem(&order, enums.ActivityLogTypeRejected, 1, csr)

	asShop := Project(order, viewer(enums.PersonRoleShop))
	assert.Equal(t, enums.TimelineItemStatusRejected, asShop.Items[0].Status)
	assert.Equal(t, "Action required", asShop.Items[0].Badge.Label)
	assert.Equal(t, []enums.WorkflowAction{enums.WorkflowActionResubmitted}, asShop.Items[0].Actions)
	assert.Equal(t, "Cas Rep", asShop.Items[0].PersonName)

	asCsr := Project(order, viewer(enums.PersonRoleCsr))
	assert.Equal(t, "Rejected", asCsr.Items[0].Badge.Label)
	assert.Empty(t, asCsr.Items[0].Actions)
}

func TestReceivedOrderReachesTerminalMarker(t *testing.T) {
	order := inReview()
	order.Stage = enums.PartsOrderStageOrderReceived
	order.Status = enums.PartsOrderStatusShopReceived
	order.ApprovalFlag = boolPtr(true)
	order.DateShipped = at(2)
	order.DateReceived = at(3)
	order.ReceivedByPerson = shopper

	tl := Project(order, viewer(enums.PersonRoleShop))
	assert.Equal(t, enums.PartsOrderStageRepairCompleted, tl.EffectiveStage)
	assert.True(t, tl.RepairCompleted)
	for _, item := range tl.Items {
		assert.Equal(t, enums.TimelineItemStatusCompleted, item.Status, item.Stage)
	}
	assert.Equal(t, []enums.WorkflowAction{enums.WorkflowActionUnreceived}, tl.Items[2].Actions)
	assert.Equal(t, "Received", tl.Items[2].Badge.Label)
}

func TestEffectiveStage(t *testing.T) {
	cases := []struct {
		name  string
		order models.PartsOrder
		want  enums.PartsOrderStage
	}{
		{"review", models.PartsOrder{Stage: enums.PartsOrderStageOrderReview, Status: enums.PartsOrderStatusCsrReview}, enums.PartsOrderStageOrderReview},
		{"shipped without date", models.PartsOrder{Stage: enums.PartsOrderStageOrderFulfillment, Status: enums.PartsOrderStatusDealershipShipped}, enums.PartsOrderStageOrderFulfillment},
		{"shipped with date", models.PartsOrder{Stage: enums.PartsOrderStageOrderFulfillment, Status: enums.PartsOrderStatusDealershipShipped, DateShipped: at(1)}, enums.PartsOrderStageOrderReceived},
		{"received without date", models.PartsOrder{Stage: enums.PartsOrderStageOrderReceived, Status: enums.PartsOrderStatusShopReceived}, enums.PartsOrderStageOrderReceived},
		{"received with date", models.PartsOrder{Stage: enums.PartsOrderStageOrderReceived, Status: enums.PartsOrderStatusShopReceived, DateReceived: at(1)}, enums.PartsOrderStageRepairCompleted},
		{"repair completed status", models.PartsOrder{Stage: enums.PartsOrderStageOrderReceived, Status: enums.PartsOrderStatusRepairCompleted, DateReceived: at(1)}, enums.PartsOrderStageRepairCompleted},
		{"repair completed stage", models.PartsOrder{Stage: enums.PartsOrderStageRepairCompleted, Status: enums.PartsOrderStatusRepairCompleted}, enums.PartsOrderStageRepairCompleted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EffectiveStage(tc.order))
		})
	}
}

func TestMissingSubmissionDateFallsBackToGenericLine(t *testing.T) {
	order := models.PartsOrder{
		ID:     uuid.New(),
		Stage:  enums.PartsOrderStageOrderReview,
		Status: enums.PartsOrderStatusCsrReview,
	}

	tl := Project(order, viewer(enums.PersonRoleCsr))
	require.Len(t, tl.Items[0].Lines, 1)
	line := tl.Items[0].Lines[0]
	assert.Equal(t, enums.ActivityLogTypeSubmitted, line.Type)
	assert.Nil(t, line.At)
	assert.Nil(t, line.PersonID)
	assert.Empty(t, line.PersonName)
}

func TestOrdersWithoutLogUseRawFields(t *testing.T) {
	order := models.PartsOrder{
		ID:                 uuid.New(),
		Stage:              enums.PartsOrderStageOrderReceived,
		Status:             enums.PartsOrderStatusDealershipShipped,
		ApprovalFlag:       boolPtr(true),
		DateSubmitted:      at(0),
		SubmittedByPerson:  shopper,
		DateReviewed:       at(1),
		ReviewedByPersonID: &csr.ID,
		ReviewedByPerson:   csr,
		DateShipped:        at(2),
		ShippedByPersonID:  &dealer.ID,
		ShippedByPerson:    dealer,
	}

	tl := Project(order, viewer(enums.PersonRoleFieldStaff))
	reviewLines := tl.Items[0].Lines
	require.Len(t, reviewLines, 2)
	assert.Equal(t, enums.ActivityLogTypeSubmitted, reviewLines[0].Type)
	assert.Equal(t, "Sam Shop", reviewLines[0].PersonName)
	assert.Equal(t, enums.ActivityLogTypeApproved, reviewLines[1].Type)
	assert.Equal(t, "Cas Rep", reviewLines[1].PersonName)

	require.Len(t, tl.Items[1].Lines, 1)
	assert.Equal(t, enums.ActivityLogTypeShipped, tl.Items[1].Lines[0].Type)
	assert.Empty(t, tl.Items[2].Lines)
	for _, item := range tl.Items {
		assert.Empty(t, item.Actions)
	}
}

func TestLinesUseLatestItemOfEachType(t *testing.T) {
	order := inReview()
	order.Stage = enums.PartsOrderStageOrderReceived
	order.Status = enums.PartsOrderStatusDealershipShipped
	order.ApprovalFlag = boolPtr(true)
	order.DateShipped = at(5)
	logItem(&order, enums.ActivityLogTypeApproved, 1, csr)
	logItem(&order, enums.ActivityLogTypeShipped, 2, dealer)
	logItem(&order, enums.ActivityLogTypeUnshipped, 3, dealer)
	logItem(&order, enums.ActivityLogTypeShipped, 5, dealer)

	tl := Project(order, viewer(enums.PersonRoleDealership))
	lines := tl.Items[1].Lines
	require.Len(t, lines, 2)
	assert.Equal(t, enums.ActivityLogTypeUnshipped, lines[0].Type)
	assert.Equal(t, enums.ActivityLogTypeShipped, lines[1].Type)
	assert.Equal(t, *at(5), *lines[1].At)

	reviewLines := tl.Items[0].Lines
	require.Len(t, reviewLines, 2)
	assert.Equal(t, enums.ActivityLogTypeSubmitted, reviewLines[0].Type)
	assert.Equal(t, enums.ActivityLogTypeApproved, reviewLines[1].Type)
}

func TestProjectionCoversEveryStateAndRole(t *testing.T) {
	for _, role := range enums.PersonRoles() {
		for _, stage := range enums.PartsOrderStages() {
			for _, status := range enums.PartsOrderStatuses() {
				for _, withDates := range []bool{false, true} {
					order := models.PartsOrder{ID: uuid.New(), Stage: stage, Status: status}
					if withDates {
						order.DateShipped = at(1)
						order.DateReceived = at(2)
					}
					tl := Project(order, viewer(role))
					require.Len(t, tl.Items, 3)
					for _, item := range tl.Items {
						assert.NotEmpty(t, item.Badge.Label, "%s %s/%s row %s (%s)", role, stage, status, item.Stage, item.Status)
						assert.NotNil(t, item.Actions)
						if role.IsReadOnly() {
							assert.Empty(t, item.Actions)
						}
					}
				}
			}
		}
	}
}

func TestBadgeLookupFallsBackToSharedRow(t *testing.T) {
	badge, ok := BadgeFor(enums.PersonRoleProgramAdministrator, enums.PartsOrderStageOrderFulfillment, enums.TimelineItemStatusWaiting)
	require.True(t, ok)
	assert.Equal(t, Badge{Label: "Pending Dealership", Variant: enums.UIBadgeInfo}, badge)

	_, ok = BadgeFor(enums.PersonRoleShop, enums.PartsOrderStageOrderFulfillment, enums.TimelineItemStatusRejected)
	assert.False(t, ok)
}

func boolPtr(v bool) *bool { return &v }
