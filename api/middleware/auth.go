package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pyy-alt/ppg-admin-sub000/api/responses"
	pkgAuth "github.com/pyy-alt/ppg-admin-sub000/pkg/auth"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/auth/session"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/config"
	pkgerrors "github.com/pyy-alt/ppg-admin-sub000/pkg/errors"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/logger"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/visibility"
)

// Auth validates a bearer token and seeds the request context with the viewer.
// A nil verifier skips the session presence check.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if verifier != nil {
				ok, err := verifier.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			viewer := viewerFromClaims(claims)
			if err := viewer.Validate(); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithViewer(r.Context(), viewer)
			ctx = context.WithValue(ctx, ctxAccessID, claims.ID)

			if logg != nil {
				ctx = logg.WithPersonID(ctx, viewer.PersonID.String())
				ctx = logg.WithActorRole(ctx, string(viewer.Role))
				if viewer.OrganizationID != uuid.Nil {
					ctx = logg.WithOrganizationID(ctx, viewer.OrganizationID.String())
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	token := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}

func viewerFromClaims(claims *pkgAuth.AccessTokenClaims) visibility.Viewer {
	viewer := visibility.Viewer{
		PersonID: claims.PersonID,
		Role:     claims.Role,
	}
	if claims.OrganizationID != nil {
		viewer.OrganizationID = *claims.OrganizationID
	}
	return viewer
}
