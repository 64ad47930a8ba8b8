package repairorders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pyy-alt/ppg-admin-sub000/internal/activitylog"
	"github.com/pyy-alt/ppg-admin-sub000/internal/fileassets"
	"github.com/pyy-alt/ppg-admin-sub000/internal/partsorders"
	"github.com/pyy-alt/ppg-admin-sub000/internal/permissions"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/db"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/db/models"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
	pkgerrors "github.com/pyy-alt/ppg-admin-sub000/pkg/errors"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/logger"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/metrics"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/outbox"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/outbox/payloads"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/pagination"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/types"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/visibility"
)

// ErrInvalidCursor is returned by List when the cursor can not be decoded.
var ErrInvalidCursor = errors.New("invalid cursor")

const (
	minVehicleYear = 1900
	vinLength      = 17
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type completionRecorder interface {
	ObserveCompletion(result string)
}

// Service exposes repair order reads, edits, supplements and completion.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*Detail, error)
	Update(ctx context.Context, input UpdateInput) (*Detail, error)
	Get(ctx context.Context, viewer visibility.Viewer, repairOrderID uuid.UUID) (*Detail, error)
	List(ctx context.Context, viewer visibility.Viewer, params pagination.Params, filters ListFilters) (*List, error)
	CreateSupplement(ctx context.Context, input SupplementInput) (*partsorders.View, error)
	Complete(ctx context.Context, input CompleteInput) (*Detail, error)
}

// ServiceParams groups the collaborators of the repair order service.
type ServiceParams struct {
	Repo        Repository
	PartsOrders partsorders.Repository
	Logs        activitylog.Repository
	Files       fileassets.Service
	Tx          txRunner
	Outbox      outboxPublisher
	Metrics     completionRecorder
	Logger      *logger.Logger
}

type service struct {
	repo    Repository
	orders  partsorders.Repository
	logs    activitylog.Repository
	files   fileassets.Service
	tx      txRunner
	outbox  outboxPublisher
	metrics completionRecorder
	logg    *logger.Logger
	now     func() time.Time
}

// NewService builds the repair order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("repair orders repository required")
	}
	if params.PartsOrders == nil {
		return nil, fmt.Errorf("parts orders repository required")
	}
	if params.Logs == nil {
		return nil, fmt.Errorf("activity log repository required")
	}
	if params.Files == nil {
		return nil, fmt.Errorf("file asset service required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	recorder := params.Metrics
	if recorder == nil {
		recorder = (*metrics.WorkflowMetrics)(nil)
	}
	return &service{
		repo:    params.Repo,
		orders:  params.PartsOrders,
		logs:    params.Logs,
		files:   params.Files,
		tx:      params.Tx,
		outbox:  params.Outbox,
		metrics: recorder,
		logg:    params.Logger,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

type vehicle struct {
	roNumber string
	vin      string
	make     string
	year     int
	model    string
	customer string
}

func (v vehicle) validate(now time.Time) error {
	missing := make([]string, 0)
	for field, value := range map[string]string{
		"ro_number": v.roNumber,
		"vin":       v.vin,
		"make":      v.make,
		"model":     v.model,
		"customer":  v.customer,
	} {
		if value == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return pkgerrors.New(pkgerrors.CodeValidation, "required fields missing").
			WithDetails(map[string]any{"fields": missing})
	}
	if len(v.vin) != vinLength {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("vin must be %d characters", vinLength)).
			WithDetails(map[string]any{"field": "vin"})
	}
	if v.year < minVehicleYear || v.year > now.Year()+1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "vehicle year out of range").
			WithDetails(map[string]any{"field": "year"})
	}
	return nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Detail, error) {
	viewer := input.Viewer
	if err := viewer.Validate(); err != nil {
		return nil, err
	}
	if viewer.Role != enums.PersonRoleShop {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only shop users can create repair orders")
	}

	now := s.now()
	v := vehicle{
		roNumber: strings.TrimSpace(input.RoNumber),
		vin:      strings.ToUpper(strings.TrimSpace(input.Vin)),
		make:     strings.TrimSpace(input.Make),
		year:     input.Year,
		model:    strings.TrimSpace(input.Model),
		customer: strings.TrimSpace(input.Customer),
	}
	if err := v.validate(now); err != nil {
		return nil, err
	}
	parts := types.PartNumbers(input.Parts).Normalize()
	if len(parts) == 0 && len(input.Estimates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a parts order needs part numbers or an estimate")
	}

	shop, err := s.repo.FindOrganization(ctx, viewer.OrganizationID)
	if err != nil {
		return nil, notFound(err, "shop not found")
	}
	dealershipID, err := s.resolveDealership(ctx, shop, input.DealershipID)
	if err != nil {
		return nil, err
	}

	roID := uuid.New()
	if input.ID != uuid.Nil {
		roID = input.ID
	}
	ro := models.RepairOrder{
		ID:                roID,
		ShopID:            shop.ID,
		DealershipID:      dealershipID,
		RoNumber:          v.roNumber,
		Vin:               v.vin,
		Make:              v.make,
		Year:              v.year,
		Model:             v.model,
		Customer:          v.customer,
		DateLastSubmitted: &now,
		CreatedByPersonID: viewer.PersonID,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, &ro); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "repair order already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create repair order")
		}
		order, err := s.submitPartsOrder(ctx, tx, ro, 0, parts, viewer, now)
		if err != nil {
			return err
		}

		attachments := []fileassets.AttachInput{
			{Kind: enums.FileAssetKindEstimate, PartsOrderID: &order.ID, Uploads: input.Estimates},
			{Kind: enums.FileAssetKindStructuralMeasurement, Uploads: input.StructuralMeasurements},
			{Kind: enums.FileAssetKindPreRepairPhoto, Uploads: input.PreRepairPhotos},
		}
		for _, attach := range attachments {
			attach.RepairOrderID = ro.ID
			attach.UploadedBy = viewer.PersonID
			if _, err := s.files.Attach(ctx, tx, attach); err != nil {
				return err
			}
		}

		created := outbox.DomainEvent{
			EventType:     enums.EventRepairOrderCreated,
			AggregateType: enums.AggregateRepairOrder,
			AggregateID:   ro.ID,
			Actor:         actorRef(viewer),
			OccurredAt:    now,
			Data: payloads.RepairOrderCreatedEvent{
				RepairOrderID:        ro.ID,
				ShopID:               ro.ShopID,
				DealershipID:         ro.DealershipID,
				RoNumber:             ro.RoNumber,
				OriginalPartsOrderID: order.ID,
			},
		}
		if err := s.outbox.Emit(ctx, tx, created); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit repair order event")
		}
		return s.emitSubmitted(ctx, tx, ro, *order, viewer)
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"repair_order_id": ro.ID.String(),
			"shop_id":         ro.ShopID.String(),
			"dealership_id":   ro.DealershipID.String(),
		})
		s.logg.Info(logCtx, "repair_order.created")
	}
	return s.Get(ctx, viewer, ro.ID)
}

// resolveDealership defaults to the shop's sponsor and requires the chosen
// organization to be a dealership.
func (s *service) resolveDealership(ctx context.Context, shop *models.Organization, requested *uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	switch {
	case requested != nil && *requested != uuid.Nil:
		id = *requested
	case shop.SponsorDealershipID != nil:
		id = *shop.SponsorDealershipID
	default:
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "dealership_id is required for shops without a sponsor dealership")
	}
	org, err := s.repo.FindOrganization(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "dealership not found").
				WithDetails(map[string]any{"field": "dealership_id"})
		}
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dealership")
	}
	if org.Type != enums.OrganizationTypeDealership {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "organization is not a dealership").
			WithDetails(map[string]any{"field": "dealership_id"})
	}
	return org.ID, nil
}

// submitPartsOrder creates a parts order awaiting CSR review together with its
// submitted log item.
func (s *service) submitPartsOrder(ctx context.Context, tx *gorm.DB, ro models.RepairOrder, number int, parts types.PartNumbers, viewer visibility.Viewer, now time.Time) (*models.PartsOrder, error) {
	submitter := viewer.PersonID
	order := models.PartsOrder{
		ID:                  uuid.New(),
		RepairOrderID:       ro.ID,
		PartsOrderNumber:    number,
		Stage:               enums.PartsOrderStageOrderReview,
		Status:              enums.PartsOrderStatusCsrReview,
		Parts:               parts,
		DateSubmitted:       &now,
		SubmittedByPersonID: &submitter,
		Version:             1,
	}
	if err := s.orders.WithTx(tx).Create(ctx, &order); err != nil {
		if db.IsUniqueViolation(err, partsorders.NumberConstraint) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "parts order number already taken; refresh and try again")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create parts order")
	}

	stage, _ := activitylog.StageFor(enums.ActivityLogTypeSubmitted)
	item := activitylog.NewItem(order.ID, stage, enums.ActivityLogTypeSubmitted, nil, &submitter, now)
	if err := s.logs.WithTx(tx).Append(ctx, &item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append activity log")
	}
	return &order, nil
}

func (s *service) emitSubmitted(ctx context.Context, tx *gorm.DB, ro models.RepairOrder, order models.PartsOrder, viewer visibility.Viewer) error {
	event := outbox.DomainEvent{
		EventType:     enums.EventPartsOrderSubmitted,
		AggregateType: enums.AggregatePartsOrder,
		AggregateID:   order.ID,
		Actor:         actorRef(viewer),
		OccurredAt:    *order.DateSubmitted,
		Data: payloads.PartsOrderSubmittedEvent{
			PartsOrderID:     order.ID,
			RepairOrderID:    ro.ID,
			PartsOrderNumber: order.PartsOrderNumber,
			ShopID:           ro.ShopID,
			DealershipID:     ro.DealershipID,
			Stage:            order.Stage,
			Status:           order.Status,
			SubmittedAt:      *order.DateSubmitted,
		},
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit parts order event")
	}
	return nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*Detail, error) {
	viewer := input.Viewer
	if err := viewer.Validate(); err != nil {
		return nil, err
	}
	if input.RepairOrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "repair order id required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ro, orders, err := s.loadVisible(ctx, repo, s.orders.WithTx(tx), viewer, input.RepairOrderID)
		if err != nil {
			return err
		}
		if viewer.Role != enums.PersonRoleShop {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only shop users can edit repair orders")
		}
		if !IsEditable(*ro, orders) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "repair order can no longer be edited")
		}

		v := vehicle{
			roNumber: pick(input.RoNumber, ro.RoNumber),
			vin:      strings.ToUpper(pick(input.Vin, ro.Vin)),
			make:     pick(input.Make, ro.Make),
			year:     ro.Year,
			model:    pick(input.Model, ro.Model),
			customer: pick(input.Customer, ro.Customer),
		}
		if input.Year != nil {
			v.year = *input.Year
		}
		if err := v.validate(s.now()); err != nil {
			return err
		}

		updates := map[string]any{}
		setIfChanged(updates, "ro_number", v.roNumber, ro.RoNumber)
		setIfChanged(updates, "vin", v.vin, ro.Vin)
		setIfChanged(updates, "make", v.make, ro.Make)
		setIfChanged(updates, "model", v.model, ro.Model)
		setIfChanged(updates, "customer", v.customer, ro.Customer)
		if v.year != ro.Year {
			updates["year"] = v.year
		}
		if len(updates) == 0 {
			return nil
		}
		if err := repo.Update(ctx, ro.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update repair order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, viewer, input.RepairOrderID)
}

func (s *service) Get(ctx context.Context, viewer visibility.Viewer, repairOrderID uuid.UUID) (*Detail, error) {
	if err := viewer.Validate(); err != nil {
		return nil, err
	}
	if repairOrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "repair order id required")
	}
	ro, err := s.repo.FindDetail(ctx, repairOrderID)
	if err != nil {
		return nil, notFound(err, "repair order not found")
	}
	if err := visibility.EnsureRepairOrderVisible(viewer, ro); err != nil {
		return nil, err
	}
	orders, err := s.orders.ListByRepairOrder(ctx, ro.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list parts orders")
	}
	detail := newDetail(*ro, partsorders.NewViews(orders, viewer), Aggregate(viewer.Role, *ro, orders))
	return &detail, nil
}

func (s *service) List(ctx context.Context, viewer visibility.Viewer, params pagination.Params, filters ListFilters) (*List, error) {
	if err := viewer.Validate(); err != nil {
		return nil, err
	}
	records, nextCursor, err := s.repo.List(ctx, viewer, params, filters)
	if err != nil {
		if errors.Is(err, ErrInvalidCursor) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list repair orders")
	}

	ids := make([]uuid.UUID, 0, len(records))
	for _, ro := range records {
		ids = append(ids, ro.ID)
	}
	orders, err := s.orders.ListByRepairOrders(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list parts orders")
	}
	byRepairOrder := make(map[uuid.UUID][]models.PartsOrder, len(records))
	for _, po := range orders {
		byRepairOrder[po.RepairOrderID] = append(byRepairOrder[po.RepairOrderID], po)
	}

	items := make([]Summary, 0, len(records))
	for _, ro := range records {
		siblings := byRepairOrder[ro.ID]
		agg := Aggregate(viewer.Role, ro, siblings)
		items = append(items, newSummary(ro, len(siblings), agg.HasAlert))
	}
	return &List{Items: items, NextCursor: nextCursor}, nil
}

func (s *service) CreateSupplement(ctx context.Context, input SupplementInput) (*partsorders.View, error) {
	viewer := input.Viewer
	if err := viewer.Validate(); err != nil {
		return nil, err
	}
	if input.RepairOrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "repair order id required")
	}
	parts := types.PartNumbers(input.Parts).Normalize()
	if len(parts) == 0 && len(input.Estimates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a parts order needs part numbers or an estimate")
	}

	var created *models.PartsOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orders := s.orders.WithTx(tx)
		ro, siblings, err := s.loadVisible(ctx, s.repo.WithTx(tx), orders, viewer, input.RepairOrderID)
		if err != nil {
			return err
		}
		if viewer.Role != enums.PersonRoleShop {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only shop users can add supplements")
		}
		if ro.IsClosed() || !permissions.CanCreateSupplement(viewer.Role, siblings) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "repair order no longer accepts supplements")
		}

		number, err := orders.NextNumber(ctx, ro.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "next parts order number")
		}
		now := s.now()
		order, err := s.submitPartsOrder(ctx, tx, *ro, number, parts, viewer, now)
		if err != nil {
			return err
		}
		if _, err := s.files.Attach(ctx, tx, fileassets.AttachInput{
			RepairOrderID: ro.ID,
			PartsOrderID:  &order.ID,
			Kind:          enums.FileAssetKindEstimate,
			Uploads:       input.Estimates,
			UploadedBy:    viewer.PersonID,
		}); err != nil {
			return err
		}
		if err := orders.TouchRepairOrderSubmitted(ctx, ro.ID, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update repair order submission date")
		}

		supplemented := outbox.DomainEvent{
			EventType:     enums.EventRepairOrderSupplemented,
			AggregateType: enums.AggregateRepairOrder,
			AggregateID:   ro.ID,
			Actor:         actorRef(viewer),
			OccurredAt:    now,
			Data: payloads.RepairOrderSupplementedEvent{
				RepairOrderID:    ro.ID,
				PartsOrderID:     order.ID,
				PartsOrderNumber: order.PartsOrderNumber,
			},
		}
		if err := s.outbox.Emit(ctx, tx, supplemented); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit repair order event")
		}
		if err := s.emitSubmitted(ctx, tx, *ro, *order, viewer); err != nil {
			return err
		}

		created, err = orders.FindByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload parts order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithPartsOrder(ctx, created.ID.String(), created.RepairOrderID.String())
		logCtx = s.logg.WithField(logCtx, "parts_order_number", created.PartsOrderNumber)
		s.logg.Info(logCtx, "repair_order.supplemented")
	}
	view := partsorders.NewView(*created, viewer)
	return &view, nil
}

func (s *service) Complete(ctx context.Context, input CompleteInput) (*Detail, error) {
	detail, err := s.complete(ctx, input)
	s.metrics.ObserveCompletion(resultLabel(err))
	if err != nil && s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"repair_order_id": input.RepairOrderID.String(),
			"role":            input.Viewer.Role,
			"result":          resultLabel(err),
		})
		s.logg.Warn(logCtx, "repair_order.completion_rejected")
	}
	return detail, err
}

func (s *service) complete(ctx context.Context, input CompleteInput) (*Detail, error) {
	viewer := input.Viewer
	if err := viewer.Validate(); err != nil {
		return nil, err
	}
	if input.RepairOrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "repair order id required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ro, orders, err := s.loadVisible(ctx, repo, s.orders.WithTx(tx), viewer, input.RepairOrderID)
		if err != nil {
			return err
		}
		if viewer.Role != enums.PersonRoleShop {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only shop users can complete repairs")
		}
		if ro.IsClosed() {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition, "repair order is already complete; refresh and try again")
		}
		if !CanCompleteRepair(viewer.Role, *ro, orders) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "every parts order must be received or rejected before the repair is complete").
				WithDetails(map[string]any{"pending": pendingOrders(orders)})
		}

		now := s.now()
		closed, err := repo.Close(ctx, ro.ID, viewer.PersonID, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close repair order")
		}
		if !closed {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition, "repair order is already complete; refresh and try again")
		}

		assets, err := s.files.Attach(ctx, tx, fileassets.AttachInput{
			RepairOrderID: ro.ID,
			Kind:          enums.FileAssetKindPostRepairPhoto,
			Uploads:       input.PostRepairPhotos,
			UploadedBy:    viewer.PersonID,
		})
		if err != nil {
			return err
		}

		orderIDs := make([]uuid.UUID, 0, len(orders))
		for _, po := range orders {
			orderIDs = append(orderIDs, po.ID)
		}
		assetIDs := make([]uuid.UUID, 0, len(assets))
		for _, asset := range assets {
			assetIDs = append(assetIDs, asset.ID)
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventRepairOrderCompleted,
			AggregateType: enums.AggregateRepairOrder,
			AggregateID:   ro.ID,
			Actor:         actorRef(viewer),
			OccurredAt:    now,
			Data: payloads.RepairOrderCompletedEvent{
				RepairOrderID:           ro.ID,
				ShopID:                  ro.ShopID,
				DealershipID:            ro.DealershipID,
				PartsOrderIDs:           orderIDs,
				PostRepairPhotoAssetIDs: assetIDs,
				ClosedAt:                now,
			},
		}
		if err := s.outbox.EmitIfNotExists(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit repair order event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "repair_order_id", input.RepairOrderID.String()), "repair_order.completed")
	}
	return s.Get(ctx, viewer, input.RepairOrderID)
}

func (s *service) loadVisible(ctx context.Context, repo Repository, orders partsorders.Repository, viewer visibility.Viewer, repairOrderID uuid.UUID) (*models.RepairOrder, []models.PartsOrder, error) {
	ro, err := repo.FindByID(ctx, repairOrderID)
	if err != nil {
		return nil, nil, notFound(err, "repair order not found")
	}
	if err := visibility.EnsureRepairOrderVisible(viewer, ro); err != nil {
		return nil, nil, err
	}
	siblings, err := orders.ListByRepairOrders(ctx, []uuid.UUID{ro.ID})
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list parts orders")
	}
	return ro, siblings, nil
}

func pendingOrders(orders []models.PartsOrder) []int {
	out := make([]int, 0)
	for _, po := range orders {
		if !po.Status.IsSettledForRepair() {
			out = append(out, po.PartsOrderNumber)
		}
	}
	return out
}

func pick(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return strings.TrimSpace(*value)
}

func setIfChanged(updates map[string]any, column, next, current string) {
	if next != current {
		updates[column] = next
	}
}

func notFound(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}

func resultLabel(err error) string {
	if err == nil {
		return metrics.ResultApplied
	}
	switch pkgerrors.As(err).Code() {
	case pkgerrors.CodeForbidden, pkgerrors.CodeUnauthorized:
		return metrics.ResultForbidden
	case pkgerrors.CodeInvalidTransition:
		return metrics.ResultInvalidTransition
	case pkgerrors.CodeValidation:
		return metrics.ResultValidationFailed
	case pkgerrors.CodeNotFound:
		return metrics.ResultNotFound
	default:
		return metrics.ResultError
	}
}

func actorRef(viewer visibility.Viewer) *outbox.ActorRef {
	ref := &outbox.ActorRef{PersonID: viewer.PersonID, Role: string(viewer.Role)}
	if viewer.OrganizationID != uuid.Nil {
		org := viewer.OrganizationID
		ref.OrganizationID = &org
	}
	return ref
}
