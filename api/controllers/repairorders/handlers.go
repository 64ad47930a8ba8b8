package repairorders

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pyy-alt/ppg-admin-sub000/api/middleware"
	"github.com/pyy-alt/ppg-admin-sub000/api/responses"
	"github.com/pyy-alt/ppg-admin-sub000/api/validators"
	"github.com/pyy-alt/ppg-admin-sub000/internal/partsorders"
	internalrepairorders "github.com/pyy-alt/ppg-admin-sub000/internal/repairorders"
	pkgerrors "github.com/pyy-alt/ppg-admin-sub000/pkg/errors"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/logger"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/pagination"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/visibility"
)

// List returns a cursor page of repair orders visible to the viewer.
func List(svc internalrepairorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "repair orders service unavailable"))
			return
		}
		viewer, err := requireViewer(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		closed, err := validators.ParseQueryBool(r, "closed")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		list, err := svc.List(r.Context(), viewer, params, internalrepairorders.ListFilters{Closed: closed})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// Create opens a repair order with its original parts order.
func Create(svc internalrepairorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "repair orders service unavailable"))
			return
		}
		viewer, err := requireViewer(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Create(r.Context(), req.toInput(viewer))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, detail)
	}
}

// Detail returns the repair order with its parts orders, timelines and flags.
func Detail(svc internalrepairorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "repair orders service unavailable"))
			return
		}
		viewer, repairOrderID, err := viewerAndRepairOrder(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Get(r.Context(), viewer, repairOrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// Update edits repair order descriptors while the repair order is editable.
func Update(svc internalrepairorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "repair orders service unavailable"))
			return
		}
		viewer, repairOrderID, err := viewerAndRepairOrder(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Update(r.Context(), req.toInput(viewer, repairOrderID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// CreateSupplement adds the next numbered parts order to the repair order.
func CreateSupplement(svc internalrepairorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "repair orders service unavailable"))
			return
		}
		viewer, repairOrderID, err := viewerAndRepairOrder(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req supplementRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.CreateSupplement(r.Context(), internalrepairorders.SupplementInput{
			Viewer:        viewer,
			RepairOrderID: repairOrderID,
			Parts:         req.Parts,
			Estimates:     toUploads(req.Estimates),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// Complete marks the repair complete once every parts order has settled.
func Complete(svc internalrepairorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "repair orders service unavailable"))
			return
		}
		viewer, repairOrderID, err := viewerAndRepairOrder(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req completeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Complete(r.Context(), internalrepairorders.CompleteInput{
			Viewer:           viewer,
			RepairOrderID:    repairOrderID,
			PostRepairPhotos: toUploads(req.PostRepairPhotos),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// PartsOrders returns every parts order of the repair order with its timeline.
func PartsOrders(svc partsorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "parts orders service unavailable"))
			return
		}
		viewer, repairOrderID, err := viewerAndRepairOrder(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := svc.ListByRepairOrder(r.Context(), viewer, repairOrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

func requireViewer(r *http.Request) (visibility.Viewer, error) {
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		return visibility.Viewer{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing viewer context")
	}
	return viewer, nil
}

func viewerAndRepairOrder(r *http.Request) (visibility.Viewer, uuid.UUID, error) {
	viewer, err := requireViewer(r)
	if err != nil {
		return visibility.Viewer{}, uuid.Nil, err
	}
	raw := strings.TrimSpace(chi.URLParam(r, "repairOrderId"))
	if raw == "" {
		return visibility.Viewer{}, uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "repair order id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return visibility.Viewer{}, uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid repair order id")
	}
	return viewer, id, nil
}
