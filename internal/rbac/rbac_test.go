package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stockpilot/stockpilot/internal/shared"
)

func TestCan(t *testing.T) {
	require.True(t, Can(RoleAdmin, CapCatalogWrite))
	require.True(t, Can(RoleUser, CapCatalogRead))
	require.False(t, Can(RoleUser, CapCatalogWrite))
	require.False(t, Can(RoleUser, CapUsersAdmin))
	require.False(t, Can(Role("superuser"), CapCatalogRead))
}

func TestRequireGuards(t *testing.T) {
	var m Middleware
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	guard := m.Require(CapCatalogWrite)(next)

	// No principal at all.
	rec := httptest.NewRecorder()
	guard.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/inventory", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Regular user lacks the write capability.
	req := httptest.NewRequest(http.MethodPost, "/inventory", nil)
	req = req.WithContext(shared.ContextWithPrincipal(req.Context(), &shared.Principal{UserID: 7, Role: "user"}))
	rec = httptest.NewRecorder()
	guard.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Admin passes.
	req = httptest.NewRequest(http.MethodPost, "/inventory", nil)
	req = req.WithContext(shared.ContextWithPrincipal(req.Context(), &shared.Principal{UserID: 1, Role: "admin"}))
	rec = httptest.NewRecorder()
	guard.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}
