package partsorders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pyy-alt/ppg-admin-sub000/internal/activitylog"
	"github.com/pyy-alt/ppg-admin-sub000/internal/permissions"
	"github.com/pyy-alt/ppg-admin-sub000/internal/workflow"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/db/models"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
	pkgerrors "github.com/pyy-alt/ppg-admin-sub000/pkg/errors"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/logger"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/metrics"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/outbox"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/outbox/payloads"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/visibility"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type transitionRecorder interface {
	ObserveTransition(action, result string)
}

// Service exposes parts order reads and workflow actions.
type Service interface {
	SubmitAction(ctx context.Context, input SubmitActionInput) (*View, error)
	Get(ctx context.Context, viewer visibility.Viewer, partsOrderID uuid.UUID) (*View, error)
	ListByRepairOrder(ctx context.Context, viewer visibility.Viewer, repairOrderID uuid.UUID) ([]View, error)
}

type service struct {
	repo    Repository
	logs    activitylog.Repository
	tx      txRunner
	outbox  outboxPublisher
	metrics transitionRecorder
	logg    *logger.Logger
	now     func() time.Time
}

// NewService builds the parts order service with the required dependencies.
func NewService(repo Repository, logs activitylog.Repository, tx txRunner, outbox outboxPublisher, recorder transitionRecorder, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("parts orders repository required")
	}
	if logs == nil {
		return nil, fmt.Errorf("activity log repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if recorder == nil {
		recorder = (*metrics.WorkflowMetrics)(nil)
	}
	return &service{
		repo:    repo,
		logs:    logs,
		tx:      tx,
		outbox:  outbox,
		metrics: recorder,
		logg:    logg,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) SubmitAction(ctx context.Context, input SubmitActionInput) (*View, error) {
	view, err := s.submitAction(ctx, input)
	s.metrics.ObserveTransition(string(input.Action), resultLabel(err))
	if err != nil {
		s.logRejection(ctx, input, err)
	}
	return view, err
}

func (s *service) submitAction(ctx context.Context, input SubmitActionInput) (*View, error) {
	if err := input.Viewer.Validate(); err != nil {
		return nil, err
	}
	if input.PartsOrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "parts order id required")
	}
	if !input.Action.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown workflow action %q", input.Action))
	}
	// required fields are checked by workflow.Apply once permissions pass
	req := workflow.Request{
		Action:           input.Action,
		Comment:          input.Comment,
		SalesOrderNumber: input.SalesOrderNumber,
	}

	var (
		updated *models.PartsOrder
		result  *workflow.Result
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, ro, err := s.loadVisible(ctx, repo, input.Viewer, input.PartsOrderID)
		if err != nil {
			return err
		}
		if err := permissions.Check(input.Viewer.Role, *order, input.Action); err != nil {
			return err
		}

		result, err = workflow.Apply(*order, req, input.Viewer.PersonID, s.now())
		if err != nil {
			return err
		}

		ok, err := repo.UpdateState(ctx, result.Order, workflow.StoredState(*order), order.Version)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update parts order state")
		}
		if !ok {
			return workflow.InvalidTransition(result.From, input.Action)
		}
		if err := s.logs.WithTx(tx).Append(ctx, &result.LogItem); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append activity log")
		}
		if input.Action == enums.WorkflowActionResubmitted && result.Order.DateSubmitted != nil {
			if err := repo.TouchRepairOrderSubmitted(ctx, ro.ID, *result.Order.DateSubmitted); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update repair order submission date")
			}
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventPartsOrderTransitioned,
			AggregateType: enums.AggregatePartsOrder,
			AggregateID:   order.ID,
			Actor:         actorRef(input.Viewer),
			OccurredAt:    result.LogItem.CreatedAt,
			Data: payloads.PartsOrderTransitionedEvent{
				PartsOrderID:     order.ID,
				RepairOrderID:    ro.ID,
				PartsOrderNumber: order.PartsOrderNumber,
				Action:           input.Action,
				FromStage:        result.From.Stage,
				FromStatus:       result.From.Status,
				ToStage:          result.To.Stage,
				ToStatus:         result.To.Status,
				Comment:          commentValue(result.LogItem.Comment),
				SalesOrderNumber: result.Order.SalesOrderNumber,
				Version:          order.Version + 1,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit parts order event")
		}

		updated, err = repo.FindByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload parts order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithPartsOrder(ctx, updated.ID.String(), updated.RepairOrderID.String())
		logCtx = s.logg.WithFields(logCtx, map[string]any{
			"action":      input.Action,
			"from_status": result.From.Status,
			"to_status":   result.To.Status,
			"version":     updated.Version,
		})
		s.logg.Info(logCtx, "parts_order.transitioned")
	}

	view := NewView(*updated, input.Viewer)
	return &view, nil
}

func (s *service) Get(ctx context.Context, viewer visibility.Viewer, partsOrderID uuid.UUID) (*View, error) {
	if err := viewer.Validate(); err != nil {
		return nil, err
	}
	if partsOrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "parts order id required")
	}
	order, _, err := s.loadVisible(ctx, s.repo, viewer, partsOrderID)
	if err != nil {
		return nil, err
	}
	view := NewView(*order, viewer)
	return &view, nil
}

func (s *service) ListByRepairOrder(ctx context.Context, viewer visibility.Viewer, repairOrderID uuid.UUID) ([]View, error) {
	if err := viewer.Validate(); err != nil {
		return nil, err
	}
	if repairOrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "repair order id required")
	}
	ro, err := s.repo.FindRepairOrder(ctx, repairOrderID)
	if err != nil {
		return nil, notFound(err, "repair order not found")
	}
	if err := visibility.EnsureRepairOrderVisible(viewer, ro); err != nil {
		return nil, err
	}
	orders, err := s.repo.ListByRepairOrder(ctx, repairOrderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list parts orders")
	}
	return NewViews(orders, viewer), nil
}

func (s *service) loadVisible(ctx context.Context, repo Repository, viewer visibility.Viewer, partsOrderID uuid.UUID) (*models.PartsOrder, *models.RepairOrder, error) {
	order, err := repo.FindByID(ctx, partsOrderID)
	if err != nil {
		return nil, nil, notFound(err, "parts order not found")
	}
	ro, err := repo.FindRepairOrder(ctx, order.RepairOrderID)
	if err != nil {
		return nil, nil, notFound(err, "repair order not found")
	}
	if err := visibility.EnsureRepairOrderVisible(viewer, ro); err != nil {
		return nil, nil, err
	}
	return order, ro, nil
}

func (s *service) logRejection(ctx context.Context, input SubmitActionInput, err error) {
	if s.logg == nil {
		return
	}
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"parts_order_id": input.PartsOrderID.String(),
		"action":         input.Action,
		"role":           input.Viewer.Role,
		"result":         resultLabel(err),
	})
	s.logg.Warn(logCtx, "parts_order.transition_rejected")
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
	var typed *pkgerrors.Error
	if !errors.As(err, &typed) {
		return metrics.ResultError
	}
	switch typed.Code() {
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

func commentValue(comment *string) string {
	if comment == nil {
		return ""
	}
	return *comment
}
