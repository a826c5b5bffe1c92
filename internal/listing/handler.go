package listing

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stockpilot/stockpilot/internal/catalog"
	"github.com/stockpilot/stockpilot/internal/orders"
	"github.com/stockpilot/stockpilot/internal/platform/httpx"
	"github.com/stockpilot/stockpilot/internal/rbac"
	"github.com/stockpilot/stockpilot/internal/shared"
)

// Handler serves the filtered product/order views and the reorder cart.
type Handler struct {
	logger    *slog.Logger
	store     *CartStore
	catalog   *catalog.Service
	orders    *orders.Service
	guard     rbac.Middleware
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, store *CartStore, catalogSvc *catalog.Service, orderSvc *orders.Service, guard rbac.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		store:     store,
		catalog:   catalogSvc,
		orders:    orderSvc,
		guard:     guard,
		validator: validator.New(),
	}
}

// MountViewRoutes registers the derived catalog and order views.
func (h *Handler) MountViewRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.CapCatalogRead))
		r.Get("/products", h.productView)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.CapOrdersRead))
		r.Get("/orders", h.orderView)
	})
}

// MountCartRoutes registers the reorder cart endpoints.
func (h *Handler) MountCartRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.CapOrdersWrite))
		r.Get("/", h.getCart)
		r.Post("/items", h.addItem)
		r.Put("/items/{id}", h.setQuantity)
		r.Delete("/items/{id}", h.removeItem)
		r.Delete("/", h.clearCart)
		r.Post("/submit", h.submit)
	})
}

func (h *Handler) productView(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		h.logger.Error("product view", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	q := r.URL.Query()
	filtered := FilterProducts(products, ProductFilter{
		Suppliers: q["supplier"],
		Statuses:  q["status"],
		Search:    q.Get("q"),
	})
	httpx.JSON(w, http.StatusOK, map[string]any{"products": filtered})
}

func (h *Handler) orderView(w http.ResponseWriter, r *http.Request) {
	list, err := h.orders.List(r.Context())
	if err != nil {
		h.logger.Error("order view", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	lines, err := h.orders.ListLineDetails(r.Context())
	if err != nil {
		h.logger.Error("order view lines", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	q := r.URL.Query()
	filter := OrderFilter{
		Delivery:   DeliveryAll,
		Names:      q["name"],
		SortBy:     OrderSortDate,
		Descending: q.Get("dir") == "desc",
	}
	switch q.Get("delivery") {
	case string(DeliveryDelivered):
		filter.Delivery = DeliveryDelivered
	case string(DeliveryPending):
		filter.Delivery = DeliveryPending
	}
	if q.Get("sort") == string(OrderSortTotal) {
		filter.SortBy = OrderSortTotal
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"orders": FilterOrders(list, lines, filter)})
}

// addItemRequest stages one product; quantity overrides the restock default.
type addItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity,omitempty" validate:"omitempty,gt=0"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.loadCart(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"cart": cart, "total": cart.Total()})
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: malformed body", httpx.ErrValidation))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return
	}
	product, err := h.catalog.Get(r.Context(), req.ProductID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	cart, err := h.loadCart(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	// First add wins; a repeated add leaves the staged line untouched.
	if cart.Add(product) {
		if req.Quantity > 0 {
			cart.SetQuantity(product.ID, req.Quantity)
		}
		if err := h.store.Save(r.Context(), shared.BearerToken(r), cart); err != nil {
			h.logger.Error("cart save", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"cart": cart, "total": cart.Total()})
}

func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req struct {
		Quantity int `json:"quantity" validate:"required,gt=0"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: malformed body", httpx.ErrValidation))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return
	}
	cart, err := h.loadCart(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if !cart.SetQuantity(id, req.Quantity) {
		httpx.RespondError(w, fmt.Errorf("%w: product not staged", httpx.ErrNotFound))
		return
	}
	if err := h.store.Save(r.Context(), shared.BearerToken(r), cart); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"cart": cart, "total": cart.Total()})
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	cart, err := h.loadCart(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if !cart.Remove(id) {
		httpx.RespondError(w, fmt.Errorf("%w: product not staged", httpx.ErrNotFound))
		return
	}
	if err := h.store.Save(r.Context(), shared.BearerToken(r), cart); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"cart": cart, "total": cart.Total()})
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(r.Context(), shared.BearerToken(r)); err != nil {
		h.logger.Error("cart clear", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// submit turns the staged cart into real purchase orders, one per
// supplier, then clears the cart.
func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	cart, err := h.loadCart(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if len(cart.Items) == 0 {
		httpx.RespondError(w, fmt.Errorf("%w: cart is empty", httpx.ErrValidation))
		return
	}

	created := make([]orders.Order, 0, 1)
	for _, req := range cartToOrders(cart) {
		order, err := h.orders.Create(r.Context(), req, principal.UserID)
		if err != nil {
			h.logger.Error("cart submit", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		created = append(created, order)
	}
	if err := h.store.Clear(r.Context(), shared.BearerToken(r)); err != nil {
		h.logger.Warn("cart clear after submit", slog.Any("error", err))
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"orders": created})
}

// cartToOrders groups staged lines by supplier, preserving stage order.
func cartToOrders(cart *Cart) []orders.CreateOrderRequest {
	index := make(map[int64]int)
	var reqs []orders.CreateOrderRequest
	for _, l := range cart.Items {
		i, ok := index[l.SupplierID]
		if !ok {
			i = len(reqs)
			index[l.SupplierID] = i
			reqs = append(reqs, orders.CreateOrderRequest{SupplierID: l.SupplierID})
		}
		reqs[i].Lines = append(reqs[i].Lines, orders.CreateOrderLineRequest{
			ProductID:  l.ProductID,
			SupplierID: l.SupplierID,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
		})
	}
	return reqs
}

func (h *Handler) loadCart(r *http.Request) (*Cart, error) {
	return h.store.Get(r.Context(), shared.BearerToken(r))
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id", httpx.ErrValidation)
	}
	return id, nil
}
