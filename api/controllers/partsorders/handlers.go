package partsorders

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pyy-alt/ppg-admin-sub000/api/middleware"
	"github.com/pyy-alt/ppg-admin-sub000/api/responses"
	"github.com/pyy-alt/ppg-admin-sub000/api/validators"
	internalpartsorders "github.com/pyy-alt/ppg-admin-sub000/internal/partsorders"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
	pkgerrors "github.com/pyy-alt/ppg-admin-sub000/pkg/errors"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/logger"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/visibility"
)

type actionRequest struct {
	Action           string  `json:"action" validate:"required,workflow_action"`
	Comment          *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
	SalesOrderNumber *string `json:"sales_order_number,omitempty" validate:"omitempty,max=64"`
}

// Detail returns one parts order and its timeline for the viewer.
func Detail(svc internalpartsorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "parts orders service unavailable"))
			return
		}
		viewer, partsOrderID, err := viewerAndPartsOrder(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Get(r.Context(), viewer, partsOrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// SubmitAction applies a workflow action and returns the updated parts order.
func SubmitAction(svc internalpartsorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "parts orders service unavailable"))
			return
		}
		viewer, partsOrderID, err := viewerAndPartsOrder(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req actionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.SubmitAction(r.Context(), internalpartsorders.SubmitActionInput{
			Viewer:           viewer,
			PartsOrderID:     partsOrderID,
			Action:           enums.WorkflowAction(strings.TrimSpace(req.Action)),
			Comment:          req.Comment,
			SalesOrderNumber: req.SalesOrderNumber,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func viewerAndPartsOrder(r *http.Request) (visibility.Viewer, uuid.UUID, error) {
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		return visibility.Viewer{}, uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing viewer context")
	}
	raw := strings.TrimSpace(chi.URLParam(r, "partsOrderId"))
	if raw == "" {
		return visibility.Viewer{}, uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "parts order id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return visibility.Viewer{}, uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid parts order id")
	}
	return viewer, id, nil
}
