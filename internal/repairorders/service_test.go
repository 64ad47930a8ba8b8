package repairorders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pyy-alt/ppg-admin-sub000/internal/activitylog"
	"github.com/pyy-alt/ppg-admin-sub000/internal/fileassets"
	"github.com/pyy-alt/ppg-admin-sub000/internal/partsorders"
	dbpkg "github.com/pyy-alt/ppg-admin-sub000/pkg/db"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/db/dbtest"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/db/models"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
	pkgerrors "github.com/pyy-alt/ppg-admin-sub000/pkg/errors"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/metrics"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/outbox"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/pagination"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/visibility"
)

type stubCompletions struct {
	results []string
}

func (s *stubCompletions) ObserveCompletion(result string) {
	s.results = append(s.results, result)
}

type fixture struct {
	conn        *gorm.DB
	svc         Service
	completions *stubCompletions
	dealer      models.Organization
	altDealer   models.Organization
	shop        models.Organization
	otherShop   models.Organization
	shopUser    models.Person
	otherUser   models.Person
	dealerUser  models.Person
	csr         models.Person
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := dbtest.Open(t)
	f := &fixture{conn: conn, completions: &stubCompletions{}}
	f.dealer = dbtest.CreateOrganization(t, conn, enums.OrganizationTypeDealership, nil)
	f.altDealer = dbtest.CreateOrganization(t, conn, enums.OrganizationTypeDealership, nil)
	f.shop = dbtest.CreateOrganization(t, conn, enums.OrganizationTypeShop, &f.dealer.ID)
	f.otherShop = dbtest.CreateOrganization(t, conn, enums.OrganizationTypeShop, nil)
	f.shopUser = dbtest.CreatePerson(t, conn, &f.shop.ID, enums.PersonRoleShop)
	f.otherUser = dbtest.CreatePerson(t, conn, &f.otherShop.ID, enums.PersonRoleShop)
	f.dealerUser = dbtest.CreatePerson(t, conn, &f.dealer.ID, enums.PersonRoleDealership)
	f.csr = dbtest.CreatePerson(t, conn, nil, enums.PersonRoleCsr)

	files, err := fileassets.NewService(fileassets.NewRepository(conn), nil, false)
	require.NoError(t, err)
	svc, err := NewService(ServiceParams{
		Repo:        NewRepository(conn),
		PartsOrders: partsorders.NewRepository(conn),
		Logs:        activitylog.NewRepository(conn),
		Files:       files,
		Tx:          dbpkg.Wrap(conn),
		Outbox:      outbox.NewService(outbox.NewRepository(conn), nil),
		Metrics:     f.completions,
	})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func viewerFor(p models.Person) visibility.Viewer {
	v := visibility.Viewer{PersonID: p.ID, Role: p.Role}
	if p.OrganizationID != nil {
		v.OrganizationID = *p.OrganizationID
	}
	return v
}

func createInput(f *fixture) CreateInput {
	id := uuid.New()
	prefix := fileassets.ObjectPrefix(id)
	return CreateInput{
		ID:       id,
		Viewer:   viewerFor(f.shopUser),
		RoNumber: " RO-1001 ",
		Vin:      "1hgcm82633a004352",
		Make:     "Honda",
		Year:     2022,
		Model:    "Civic",
		Customer: "Casey Lee",
		Parts:    []string{"04711-TBA-A00", " "},
		Estimates: []fileassets.Upload{
			{ObjectName: prefix + "estimate.pdf", ContentType: "application/pdf", SizeBytes: 2048},
		},
		PreRepairPhotos: []fileassets.Upload{
			{ObjectName: prefix + "front.jpg", FileName: "front.jpg", ContentType: "image/jpeg", SizeBytes: 4096},
		},
	}
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	var typed *pkgerrors.Error
	require.True(t, errors.As(err, &typed), "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code(), typed.Message())
}

func (f *fixture) countEvents(t *testing.T, eventType enums.OutboxEventType) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.conn.Table("outbox_events").Where("event_type = ?", eventType).Count(&count).Error)
	return count
}

func (f *fixture) setStatus(t *testing.T, partsOrderID uuid.UUID, stage enums.PartsOrderStage, status enums.PartsOrderStatus) {
	t.Helper()
	require.NoError(t, f.conn.Model(&models.PartsOrder{}).
		Where("id = ?", partsOrderID).
		Updates(map[string]any{"stage": stage, "status": status}).Error)
}

func TestCreateOpensOriginalPartsOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	input := createInput(f)

	detail, err := f.svc.Create(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, input.ID, detail.ID)
	assert.Equal(t, "RO-1001", detail.RoNumber)
	assert.Equal(t, "1HGCM82633A004352", detail.Vin)
	require.NotNil(t, detail.Dealership)
	assert.Equal(t, f.dealer.ID, detail.Dealership.ID)
	assert.NotNil(t, detail.DateLastSubmitted)
	assert.Nil(t, detail.DateClosed)
	assert.False(t, detail.Aggregation.IsAlternateDealer)
	assert.True(t, detail.Aggregation.IsEditable)
	assert.True(t, detail.Aggregation.CanCreateSupplement)
	assert.False(t, detail.Aggregation.CanCompleteRepair)

	require.Len(t, detail.PartsOrders, 1)
	original := detail.PartsOrders[0]
	assert.Equal(t, 0, original.PartsOrderNumber)
	assert.False(t, original.IsSupplement)
	assert.Equal(t, enums.PartsOrderStageOrderReview, original.Stage)
	assert.Equal(t, enums.PartsOrderStatusCsrReview, original.Status)
	assert.Equal(t, []string{"04711-TBA-A00"}, []string(original.Parts))
	require.NotNil(t, original.SubmittedBy)
	assert.Equal(t, f.shopUser.ID, original.SubmittedBy.ID)
	require.Len(t, original.ActivityLog, 1)
	assert.Equal(t, enums.ActivityLogTypeSubmitted, original.ActivityLog[0].Type)

	require.Len(t, detail.FileAssets, 2)
	kinds := map[enums.FileAssetKind]fileassets.View{}
	for _, asset := range detail.FileAssets {
		kinds[asset.Kind] = asset
	}
	require.NotNil(t, kinds[enums.FileAssetKindEstimate].PartsOrderID)
	assert.Equal(t, original.ID, *kinds[enums.FileAssetKindEstimate].PartsOrderID)
	assert.Nil(t, kinds[enums.FileAssetKindPreRepairPhoto].PartsOrderID)
	assert.Equal(t, "estimate.pdf", kinds[enums.FileAssetKindEstimate].FileName)

	assert.EqualValues(t, 1, f.countEvents(t, enums.EventRepairOrderCreated))
	assert.EqualValues(t, 1, f.countEvents(t, enums.EventPartsOrderSubmitted))
}

func TestCreateRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("non shop role", func(t *testing.T) {
		input := createInput(f)
		input.Viewer = viewerFor(f.csr)
		_, err := f.svc.Create(ctx, input)
		requireCode(t, err, pkgerrors.CodeForbidden)
	})
	t.Run("missing fields", func(t *testing.T) {
		input := createInput(f)
		input.Make = " "
		input.Customer = ""
		_, err := f.svc.Create(ctx, input)
		requireCode(t, err, pkgerrors.CodeValidation)
		assert.Equal(t, map[string]any{"fields": []string{"customer", "make"}}, pkgerrors.As(err).Details())
	})
	t.Run("short vin", func(t *testing.T) {
		input := createInput(f)
		input.Vin = "ABC"
		_, err := f.svc.Create(ctx, input)
		requireCode(t, err, pkgerrors.CodeValidation)
	})
	t.Run("nothing to order", func(t *testing.T) {
		input := createInput(f)
		input.Parts = nil
		input.Estimates = nil
		_, err := f.svc.Create(ctx, input)
		requireCode(t, err, pkgerrors.CodeValidation)
	})
	t.Run("dealership must be a dealership", func(t *testing.T) {
		input := createInput(f)
		input.DealershipID = &f.otherShop.ID
		_, err := f.svc.Create(ctx, input)
		requireCode(t, err, pkgerrors.CodeValidation)
	})
	t.Run("no sponsor and no dealership", func(t *testing.T) {
		input := createInput(f)
		input.Viewer = viewerFor(f.otherUser)
		_, err := f.svc.Create(ctx, input)
		requireCode(t, err, pkgerrors.CodeValidation)
	})
	t.Run("upload outside prefix rolls back", func(t *testing.T) {
		input := createInput(f)
		input.PreRepairPhotos[0].ObjectName = "repair-orders/" + uuid.NewString() + "/front.jpg"
		_, err := f.svc.Create(ctx, input)
		requireCode(t, err, pkgerrors.CodeValidation)

		var count int64
		require.NoError(t, f.conn.Model(&models.RepairOrder{}).Where("id = ?", input.ID).Count(&count).Error)
		assert.Zero(t, count)
	})

	assert.Zero(t, f.countEvents(t, enums.EventRepairOrderCreated))
}

func TestCreateWithAlternateDealer(t *testing.T) {
	f := newFixture(t)
	input := createInput(f)
	input.DealershipID = &f.altDealer.ID

	detail, err := f.svc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, f.altDealer.ID, detail.Dealership.ID)
	assert.True(t, detail.Aggregation.IsAlternateDealer)
}

func TestUpdateRespectsOwnershipAndEditability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	detail, err := f.svc.Create(ctx, createInput(f))
	require.NoError(t, err)

	customer := "  Robin Park "
	year := 2020
	updated, err := f.svc.Update(ctx, UpdateInput{
		Viewer:        viewerFor(f.shopUser),
		RepairOrderID: detail.ID,
		Customer:      &customer,
		Year:          &year,
	})
	require.NoError(t, err)
	assert.Equal(t, "Robin Park", updated.Customer)
	assert.Equal(t, 2020, updated.Year)
	assert.Equal(t, "Civic", updated.Model)

	_, err = f.svc.Update(ctx, UpdateInput{Viewer: viewerFor(f.otherUser), RepairOrderID: detail.ID, Customer: &customer})
	requireCode(t, err, pkgerrors.CodeForbidden)

	_, err = f.svc.Update(ctx, UpdateInput{Viewer: viewerFor(f.dealerUser), RepairOrderID: detail.ID, Customer: &customer})
	requireCode(t, err, pkgerrors.CodeForbidden)

	blank := ""
	_, err = f.svc.Update(ctx, UpdateInput{Viewer: viewerFor(f.shopUser), RepairOrderID: detail.ID, Vin: &blank})
	requireCode(t, err, pkgerrors.CodeValidation)

	f.setStatus(t, detail.PartsOrders[0].ID, enums.PartsOrderStageRepairCompleted, enums.PartsOrderStatusRepairCompleted)
	_, err = f.svc.Update(ctx, UpdateInput{Viewer: viewerFor(f.shopUser), RepairOrderID: detail.ID, Customer: &customer})
	requireCode(t, err, pkgerrors.CodeForbidden)
}

func TestGetAppliesVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	detail, err := f.svc.Create(ctx, createInput(f))
	require.NoError(t, err)

	asDealer, err := f.svc.Get(ctx, viewerFor(f.dealerUser), detail.ID)
	require.NoError(t, err)
	assert.False(t, asDealer.Aggregation.CanCreateSupplement)
	assert.False(t, asDealer.Aggregation.HasAlert)

	asCsr, err := f.svc.Get(ctx, viewerFor(f.csr), detail.ID)
	require.NoError(t, err)
	assert.True(t, asCsr.Aggregation.HasAlert)
	assert.True(t, asCsr.Aggregation.Alerts[detail.PartsOrders[0].ID])

	_, err = f.svc.Get(ctx, viewerFor(f.otherUser), detail.ID)
	requireCode(t, err, pkgerrors.CodeForbidden)

	_, err = f.svc.Get(ctx, viewerFor(f.csr), uuid.New())
	requireCode(t, err, pkgerrors.CodeNotFound)

	_, err = f.svc.Get(ctx, visibility.Viewer{Role: enums.PersonRoleCsr}, detail.ID)
	requireCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestListScopesAndPaginates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ids := make([]uuid.UUID, 0, 3)
	for i := 0; i < 3; i++ {
		ro := dbtest.CreateRepairOrder(t, f.conn, f.shop.ID, f.dealer.ID, f.shopUser.ID)
		require.NoError(t, f.conn.Model(&models.RepairOrder{}).Where("id = ?", ro.ID).
			Update("created_at", base.Add(time.Duration(i)*time.Hour)).Error)
		dbtest.CreatePartsOrder(t, f.conn, ro.ID, 0, enums.PartsOrderStageOrderFulfillment, enums.PartsOrderStatusDealershipShipped)
		ids = append(ids, ro.ID)
	}
	foreign := dbtest.CreateRepairOrder(t, f.conn, f.otherShop.ID, f.altDealer.ID, f.otherUser.ID)

	first, err := f.svc.List(ctx, viewerFor(f.shopUser), pagination.Params{Limit: 2}, ListFilters{})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	assert.Equal(t, ids[2], first.Items[0].ID)
	assert.Equal(t, ids[1], first.Items[1].ID)
	assert.True(t, first.Items[0].HasAlert)
	assert.Equal(t, 1, first.Items[0].PartsOrderCount)
	require.NotEmpty(t, first.NextCursor)

	second, err := f.svc.List(ctx, viewerFor(f.shopUser), pagination.Params{Limit: 2, Cursor: first.NextCursor}, ListFilters{})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, ids[0], second.Items[0].ID)
	assert.Empty(t, second.NextCursor)

	asDealer, err := f.svc.List(ctx, viewerFor(f.dealerUser), pagination.Params{}, ListFilters{})
	require.NoError(t, err)
	assert.Len(t, asDealer.Items, 3)
	assert.False(t, asDealer.Items[0].HasAlert)

	asCsr, err := f.svc.List(ctx, viewerFor(f.csr), pagination.Params{}, ListFilters{})
	require.NoError(t, err)
	assert.Len(t, asCsr.Items, 4)

	closed := true
	onlyClosed, err := f.svc.List(ctx, viewerFor(f.csr), pagination.Params{}, ListFilters{Closed: &closed})
	require.NoError(t, err)
	assert.Empty(t, onlyClosed.Items)
	_ = foreign

	_, err = f.svc.List(ctx, viewerFor(f.csr), pagination.Params{Cursor: "not-a-cursor"}, ListFilters{})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateSupplement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	detail, err := f.svc.Create(ctx, createInput(f))
	require.NoError(t, err)

	prefix := fileassets.ObjectPrefix(detail.ID)
	supplement, err := f.svc.CreateSupplement(ctx, SupplementInput{
		Viewer:        viewerFor(f.shopUser),
		RepairOrderID: detail.ID,
		Parts:         []string{"71101-TBA-A00"},
		Estimates:     []fileassets.Upload{{ObjectName: prefix + "supplement-1.pdf", ContentType: "application/pdf", SizeBytes: 100}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, supplement.PartsOrderNumber)
	assert.True(t, supplement.IsSupplement)
	assert.Equal(t, enums.PartsOrderStatusCsrReview, supplement.Status)
	require.Len(t, supplement.Estimates, 1)

	second, err := f.svc.CreateSupplement(ctx, SupplementInput{
		Viewer:        viewerFor(f.shopUser),
		RepairOrderID: detail.ID,
		Parts:         []string{"71102-TBA-A00"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, second.PartsOrderNumber)

	assert.EqualValues(t, 2, f.countEvents(t, enums.EventRepairOrderSupplemented))
	assert.EqualValues(t, 3, f.countEvents(t, enums.EventPartsOrderSubmitted))

	_, err = f.svc.CreateSupplement(ctx, SupplementInput{Viewer: viewerFor(f.csr), RepairOrderID: detail.ID, Parts: []string{"X"}})
	requireCode(t, err, pkgerrors.CodeForbidden)

	_, err = f.svc.CreateSupplement(ctx, SupplementInput{Viewer: viewerFor(f.shopUser), RepairOrderID: detail.ID})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateSupplementRejectedOnceEveryOrderIsRepairCompleted(t *testing.T) {
	f := newFixture(t)
	ro := dbtest.CreateRepairOrder(t, f.conn, f.shop.ID, f.dealer.ID, f.shopUser.ID)
	dbtest.CreatePartsOrder(t, f.conn, ro.ID, 0, enums.PartsOrderStageRepairCompleted, enums.PartsOrderStatusRepairCompleted)

	_, err := f.svc.CreateSupplement(context.Background(), SupplementInput{
		Viewer:        viewerFor(f.shopUser),
		RepairOrderID: ro.ID,
		Parts:         []string{"71101-TBA-A00"},
	})
	requireCode(t, err, pkgerrors.CodeForbidden)
}

func TestCompleteRepair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ro := dbtest.CreateRepairOrder(t, f.conn, f.shop.ID, f.dealer.ID, f.shopUser.ID)
	received := dbtest.CreatePartsOrder(t, f.conn, ro.ID, 0, enums.PartsOrderStageOrderReceived, enums.PartsOrderStatusShopReceived)
	pending := dbtest.CreatePartsOrder(t, f.conn, ro.ID, 1, enums.PartsOrderStageOrderFulfillment, enums.PartsOrderStatusDealershipShipped)

	photos := []fileassets.Upload{{ObjectName: fileassets.ObjectPrefix(ro.ID) + "after.png", ContentType: "image/png", SizeBytes: 512}}

	_, err := f.svc.Complete(ctx, CompleteInput{Viewer: viewerFor(f.shopUser), RepairOrderID: ro.ID, PostRepairPhotos: photos})
	requireCode(t, err, pkgerrors.CodeForbidden)

	f.setStatus(t, pending.ID, enums.PartsOrderStageOrderReview, enums.PartsOrderStatusCsrRejected)

	_, err = f.svc.Complete(ctx, CompleteInput{Viewer: viewerFor(f.dealerUser), RepairOrderID: ro.ID})
	requireCode(t, err, pkgerrors.CodeForbidden)

	detail, err := f.svc.Complete(ctx, CompleteInput{Viewer: viewerFor(f.shopUser), RepairOrderID: ro.ID, PostRepairPhotos: photos})
	require.NoError(t, err)
	require.NotNil(t, detail.DateClosed)
	require.NotNil(t, detail.ClosedByPersonID)
	assert.Equal(t, f.shopUser.ID, *detail.ClosedByPersonID)
	require.Len(t, detail.FileAssets, 1)
	assert.Equal(t, enums.FileAssetKindPostRepairPhoto, detail.FileAssets[0].Kind)
	assert.False(t, detail.Aggregation.CanCompleteRepair)
	assert.False(t, detail.Aggregation.CanCreateSupplement)
	assert.False(t, detail.Aggregation.IsEditable)

	statuses := map[uuid.UUID]enums.PartsOrderStatus{}
	for _, po := range detail.PartsOrders {
		statuses[po.ID] = po.Status
	}
	assert.Equal(t, enums.PartsOrderStatusShopReceived, statuses[received.ID])
	assert.Equal(t, enums.PartsOrderStatusCsrRejected, statuses[pending.ID])
	assert.EqualValues(t, 1, f.countEvents(t, enums.EventRepairOrderCompleted))

	_, err = f.svc.Complete(ctx, CompleteInput{Viewer: viewerFor(f.shopUser), RepairOrderID: ro.ID})
	requireCode(t, err, pkgerrors.CodeInvalidTransition)

	_, err = f.svc.CreateSupplement(ctx, SupplementInput{Viewer: viewerFor(f.shopUser), RepairOrderID: ro.ID, Parts: []string{"X"}})
	requireCode(t, err, pkgerrors.CodeForbidden)

	assert.Equal(t, []string{
		metrics.ResultForbidden,
		metrics.ResultForbidden,
		metrics.ResultApplied,
		metrics.ResultInvalidTransition,
	}, f.completions.results)
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
}
