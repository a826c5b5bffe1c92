package reports

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/singleflight"

	"github.com/stockpilot/stockpilot/internal/platform/httpx"
	"github.com/stockpilot/stockpilot/internal/rbac"
)

var summaryGroup singleflight.Group

// Handler wires HTTP endpoints for reporting.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   rbac.Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers report routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.CapReportsRead))
		r.Get("/summary", h.summary)
		r.Get("/monthly-top-products", h.monthlyTopProducts)
	})
}

// Concurrent summary requests collapse into one computation.
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	result, err, _ := summaryFlight(r.Context(), func(ctx context.Context) (interface{}, error) {
		return h.service.Summary(ctx)
	})
	if err != nil {
		h.logger.Error("report summary", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) monthlyTopProducts(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year", 0)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	month, err := queryInt(r, "month", 0)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	limit, err := queryInt(r, "limit", DefaultTopLimit)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	products, err := h.service.MonthlyTopProducts(r.Context(), year, month, limit)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"products": products})
}

func summaryFlight(ctx context.Context, fn func(context.Context) (interface{}, error)) (interface{}, error, bool) {
	resultChan := summaryGroup.DoChan("summary", func() (interface{}, error) {
		return fn(ctx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err(), false
	case res := <-resultChan:
		return res.Val, res.Err, res.Shared
	}
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", httpx.ErrValidation, name)
	}
	return value, nil
}
