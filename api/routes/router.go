package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/afigueroa/mailprov-backend/api/controllers"
	"github.com/afigueroa/mailprov-backend/api/middleware"
	"github.com/afigueroa/mailprov-backend/internal/analytics"
	"github.com/afigueroa/mailprov-backend/internal/audit"
	"github.com/afigueroa/mailprov-backend/internal/billing"
	"github.com/afigueroa/mailprov-backend/internal/delivery"
	"github.com/afigueroa/mailprov-backend/internal/orders"
	"github.com/afigueroa/mailprov-backend/internal/users"
	"github.com/afigueroa/mailprov-backend/pkg/auth/session"
	"github.com/afigueroa/mailprov-backend/pkg/config"
	"github.com/afigueroa/mailprov-backend/pkg/db"
	"github.com/afigueroa/mailprov-backend/pkg/logger"
	"github.com/afigueroa/mailprov-backend/pkg/metrics"
	pkgredis "github.com/afigueroa/mailprov-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           *db.Client
	Redis        *pkgredis.Client
	Sessions     session.Checker
	Registry     *prometheus.Registry
	HTTPMetrics  *metrics.HTTPMetrics
	Users        users.Service
	Orders       orders.Service
	Delivery     *delivery.Service
	Billing      *billing.Service
	Analytics    *analytics.Service
	Activity     *audit.Repository
	WebhookGuard *pkgredis.WebhookGuard
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, d.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, d.DB, d.Redis, logg))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(d.Registry))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Post("/validate", controllers.PublicValidateSignUp(logg))
		r.Post("/webhooks/polar", controllers.PolarWebhook(d.Billing, d.WebhookGuard, cfg.Polar, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))

		r.Group(func(r chi.Router) {
			r.Get("/orders/status", controllers.MyOrderStatus(d.Orders, logg))
			r.Get("/user/profile", controllers.Profile(d.Users, logg))
			r.Put("/user/profile", controllers.UpdateProfile(d.Users, logg))
			r.Get("/user/subscription", controllers.MySubscription(d.Billing, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))
			r.Use(middleware.Idempotency(d.Redis, pkgredis.IdempotencyKey, cfg.Delivery.IdempotencyTTL, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminListOrders(d.Orders, logg))
				r.Post("/", controllers.AdminCreateOrder(d.Orders, logg))
				r.Get("/{orderId}", controllers.AdminGetOrder(d.Orders, logg))
				r.Patch("/{orderId}", controllers.AdminUpdateOrder(d.Orders, logg))
				r.Delete("/{orderId}", controllers.AdminDeleteOrder(d.Orders, logg))
				r.Post("/{orderId}/claim", controllers.AdminClaimOrder(d.Orders, logg))
				r.Post("/{orderId}/deliver", controllers.AdminDeliverCredentials(d.Delivery, logg))
			})

			r.Get("/stats", controllers.AdminStats(d.Analytics, logg))
			r.Get("/analytics", controllers.AdminAnalytics(d.Analytics, logg))
			r.Get("/activity", controllers.AdminActivityLog(d.Activity, logg))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.AdminListUsers(d.Users, logg))
				r.With(middleware.RequireSuperAdmin(logg)).Patch("/{userId}", controllers.AdminUpdateUser(d.Users, logg))
			})
		})
	})

	return r
}
