package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stockpilot/stockpilot/internal/platform/httpx"
	"github.com/stockpilot/stockpilot/internal/rbac"
	"github.com/stockpilot/stockpilot/internal/shared"
)

// Handler wires authentication HTTP endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	tokens    *shared.TokenManager
	guard     rbac.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, tokens *shared.TokenManager, guard rbac.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		tokens:    tokens,
		guard:     guard,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAuthenticated)
		r.Post("/logout", h.logout)
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: malformed body", httpx.ErrValidation))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return
	}
	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.logger.Error("register", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("user registered", slog.Int64("user_id", user.ID), slog.String("username", user.Username))
	// A fresh account is signed in right away.
	h.issueSession(w, r, user, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: malformed body", httpx.ErrValidation))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return
	}
	user, err := h.service.Authenticate(r.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			httpx.RespondError(w, fmt.Errorf("%w: invalid credentials", httpx.ErrUnauthorized))
			return
		}
		h.logger.Error("login", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.issueSession(w, r, *user, http.StatusOK)
}

// issueSession mints a bearer token for the user, records the session
// audit row and writes the token envelope.
func (h *Handler) issueSession(w http.ResponseWriter, r *http.Request, user User, status int) {
	token, err := h.tokens.Issue(r.Context(), shared.Principal{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	expiresAt := time.Now().UTC().Add(h.tokens.TTL())
	if err := h.service.RecordSession(r.Context(), sessionID(token), user.ID, expiresAt, r.RemoteAddr, r.UserAgent()); err != nil {
		h.logger.Warn("record session", slog.Any("error", err))
	}
	httpx.JSON(w, status, map[string]any{
		"token":      token,
		"expires_at": expiresAt,
		"user":       user,
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	token := shared.BearerToken(r)
	if err := h.tokens.Revoke(r.Context(), token); err != nil {
		h.logger.Error("revoke token", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.RemoveSession(r.Context(), sessionID(token)); err != nil {
		h.logger.Warn("remove session", slog.Any("error", err))
	}
	w.WriteHeader(http.StatusNoContent)
}

// sessionID derives the audit row key from a token without storing the
// token itself in postgres.
func sessionID(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
