package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pyy-alt/ppg-admin-sub000/api/controllers"
	partsordercontrollers "github.com/pyy-alt/ppg-admin-sub000/api/controllers/partsorders"
	repairordercontrollers "github.com/pyy-alt/ppg-admin-sub000/api/controllers/repairorders"
	"github.com/pyy-alt/ppg-admin-sub000/api/middleware"
	"github.com/pyy-alt/ppg-admin-sub000/internal/partsorders"
	"github.com/pyy-alt/ppg-admin-sub000/internal/repairorders"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/auth/session"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/config"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/db"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/logger"
	pkgredis "github.com/pyy-alt/ppg-admin-sub000/pkg/redis"
)

// RedisStore is the Redis surface the API needs: idempotency records,
// write rate limiting and readiness pings.
type RedisStore interface {
	pkgredis.IdempotencyStore
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
	Ping(ctx context.Context) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisStore RedisStore,
	sessions session.AccessSessionChecker,
	repairOrderService repairorders.Service,
	partsOrderService partsorders.Service,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSAllowedOrigins),
	)

	readiness := map[string]controllers.Pinger{"db": dbP}
	if redisStore != nil {
		readiness["redis"] = redisStore
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	var verifier session.AccessSessionChecker
	if cfg.FeatureFlags.RequireSessionCheck {
		verifier = sessions
	}

	var idempotencyStore pkgredis.IdempotencyStore
	if cfg.FeatureFlags.EnforceIdempotency && redisStore != nil {
		idempotencyStore = redisStore
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, verifier, logg))
		if redisStore != nil {
			r.Use(middleware.WriteRateLimit(redisStore, cfg.RateLimit.WriteLimit, cfg.RateLimit.WriteWindow, logg))
		}
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/repair-orders", func(r chi.Router) {
			r.Get("/", repairordercontrollers.List(repairOrderService, logg))
			r.With(middleware.RequireRole(logg, enums.PersonRoleShop)).Post("/", repairordercontrollers.Create(repairOrderService, logg))

			r.Route("/{repairOrderId}", func(r chi.Router) {
				r.Get("/", repairordercontrollers.Detail(repairOrderService, logg))
				r.Patch("/", repairordercontrollers.Update(repairOrderService, logg))
				r.Post("/supplements", repairordercontrollers.CreateSupplement(repairOrderService, logg))
				r.Post("/complete", repairordercontrollers.Complete(repairOrderService, logg))
				r.Get("/parts-orders", repairordercontrollers.PartsOrders(partsOrderService, logg))
			})
		})

		r.Route("/parts-orders/{partsOrderId}", func(r chi.Router) {
			r.Get("/", partsordercontrollers.Detail(partsOrderService, logg))
			r.Post("/actions", partsordercontrollers.SubmitAction(partsOrderService, logg))
		})
	})

	return r
}
