package listing

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/stockpilot/stockpilot/internal/catalog"
	"github.com/stockpilot/stockpilot/internal/platform/httpx"
	"github.com/stockpilot/stockpilot/internal/rbac"
	"github.com/stockpilot/stockpilot/internal/shared"
)

type memoryCatalogRepo struct {
	products map[int64]catalog.Product
}

func (r *memoryCatalogRepo) List(context.Context) ([]catalog.ProductWithRefs, error) {
	return nil, nil
}

func (r *memoryCatalogRepo) ListRestock(context.Context) ([]catalog.ProductWithRefs, error) {
	return nil, nil
}

func (r *memoryCatalogRepo) Get(_ context.Context, id int64) (catalog.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return catalog.Product{}, httpx.ErrNotFound
	}
	return p, nil
}

func (r *memoryCatalogRepo) Create(_ context.Context, p catalog.Product) (catalog.Product, error) {
	return p, nil
}

func (r *memoryCatalogRepo) Update(context.Context, int64, catalog.Product) error { return nil }

func (r *memoryCatalogRepo) Delete(context.Context, int64) error { return nil }

func newCartRouter(t *testing.T) chi.Router {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := &memoryCatalogRepo{products: map[int64]catalog.Product{
		1: {ID: 1, Name: "Apples", SupplierID: 7, Stock: 2, MinQuantity: 10, CasePrice: 12.5},
	}}
	handler := NewHandler(logger,
		NewCartStore(client, time.Hour),
		catalog.NewService(repo),
		nil,
		rbac.Middleware{Logger: logger})

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := shared.ContextWithPrincipal(req.Context(),
				&shared.Principal{UserID: 1, Username: "admin", Role: "admin"})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Route("/api/cart", handler.MountCartRoutes)
	return r
}

func postItem(t *testing.T, r chi.Router, body string) map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func cartQuantities(t *testing.T, resp map[string]any) []float64 {
	t.Helper()
	cart, ok := resp["cart"].(map[string]any)
	require.True(t, ok)
	items, ok := cart["items"].([]any)
	require.True(t, ok)
	out := make([]float64, len(items))
	for i, raw := range items {
		item, ok := raw.(map[string]any)
		require.True(t, ok)
		out[i] = item["quantity"].(float64)
	}
	return out
}

func TestAddItemQuantityOverride(t *testing.T) {
	r := newCartRouter(t)

	resp := postItem(t, r, `{"product_id":1,"quantity":3}`)
	require.Equal(t, []float64{3}, cartQuantities(t, resp))
}

func TestRepeatedAddKeepsStagedLine(t *testing.T) {
	r := newCartRouter(t)

	first := postItem(t, r, `{"product_id":1}`)
	require.Equal(t, []float64{8}, cartQuantities(t, first))

	// A second add for the same product is a no-op even when it
	// carries a quantity.
	second := postItem(t, r, `{"product_id":1,"quantity":99}`)
	require.Equal(t, []float64{8}, cartQuantities(t, second))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, []float64{8}, cartQuantities(t, resp))
}
