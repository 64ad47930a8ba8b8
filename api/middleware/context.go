package middleware

import (
	"context"

	"github.com/pyy-alt/ppg-admin-sub000/pkg/visibility"
)

type contextKey string

const (
	ctxViewer   contextKey = "viewer"
	ctxAccessID contextKey = "access_id"
)

// ViewerFromContext returns the authenticated viewer seeded by Auth.
func ViewerFromContext(ctx context.Context) (visibility.Viewer, bool) {
	if ctx == nil {
		return visibility.Viewer{}, false
	}
	viewer, ok := ctx.Value(ctxViewer).(visibility.Viewer)
	return viewer, ok
}

// WithViewer injects the viewer into the context.
func WithViewer(ctx context.Context, viewer visibility.Viewer) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxViewer, viewer)
}

// PersonIDFromContext returns the viewer's person id as a string, or "".
func PersonIDFromContext(ctx context.Context) string {
	viewer, ok := ViewerFromContext(ctx)
	if !ok {
		return ""
	}
	return viewer.PersonID.String()
}

func accessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessID).(string); ok {
		return v
	}
	return ""
}
