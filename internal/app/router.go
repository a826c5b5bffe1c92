package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stockpilot/stockpilot/internal/auth"
	"github.com/stockpilot/stockpilot/internal/rbac"
	"github.com/stockpilot/stockpilot/internal/catalog"
	"github.com/stockpilot/stockpilot/internal/listing"
	"github.com/stockpilot/stockpilot/internal/orders"
	"github.com/stockpilot/stockpilot/internal/reports"
	"github.com/stockpilot/stockpilot/internal/shared"
	"github.com/stockpilot/stockpilot/internal/suppliers"
	"github.com/stockpilot/stockpilot/internal/users"
	"github.com/stockpilot/stockpilot/jobs"
)

const healthTimeout = 2 * time.Second

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	Tokens           *shared.TokenManager
	Pool             *pgxpool.Pool
	AuthHandler      *auth.Handler
	CatalogHandler   *catalog.Handler
	SuppliersHandler *suppliers.Handler
	OrdersHandler    *orders.Handler
	ReportsHandler   *reports.Handler
	UsersHandler     *users.Handler
	ListingHandler   *listing.Handler
	JobsHandler      *jobs.Handler
	Guard            rbac.Middleware
}

// NewRouter constructs the chi.Router with stockpilot defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
		Tokens: params.Tokens,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := `{"status":"ok"}`
		if params.Pool != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			defer cancel()
			if err := params.Pool.Ping(ctx); err != nil {
				params.Logger.Error("healthcheck db ping", slog.Any("error", err))
				status = http.StatusServiceUnavailable
				body = `{"status":"degraded"}`
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", params.AuthHandler.MountRoutes)
		api.Route("/inventory", params.CatalogHandler.MountRoutes)
		api.Route("/suppliers", params.SuppliersHandler.MountRoutes)
		api.Route("/orders", params.OrdersHandler.MountRoutes)
		api.Route("/order-detail", params.OrdersHandler.MountLineRoutes)
		api.Route("/reports", params.ReportsHandler.MountRoutes)
		api.Route("/users", params.UsersHandler.MountRoutes)
		api.Route("/views", params.ListingHandler.MountViewRoutes)
		api.Route("/cart", params.ListingHandler.MountCartRoutes)
		if params.JobsHandler != nil {
			api.Route("/jobs", func(r chi.Router) {
				r.Use(params.Guard.Require(rbac.CapUsersAdmin))
				params.JobsHandler.MountRoutes(r)
			})
		}
	})

	return r
}
