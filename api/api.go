// Package api exposes the authentication and user-management HTTP
// surface. Handlers translate transport concerns to and from the auth
// core; every access decision is made by auth.AccessControl.
package api

import (
	"context"
	"errors"

	"auth-api/auth"
	"auth-api/httpx"
)

// UserStore is the persistence contract the handlers depend on. It is
// the auth.UserStore collaborator widened with the write operations the
// user-management routes need.
type UserStore interface {
	auth.UserStore
	FindBannedUserByEmail(ctx context.Context, email string) (auth.User, error)
	SaveUser(ctx context.Context, email, passwordHash string, roles []string) (auth.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	SoftDeleteUser(ctx context.Context, userID string) error
	RestoreUser(ctx context.Context, userID string) error
	HardDeleteUser(ctx context.Context, userID string) error
	UserProgression(ctx context.Context) ([]auth.UserProgression, error)
}

// Handler carries the wired services behind the HTTP surface.
type Handler struct {
	store  UserStore
	hasher auth.PasswordHasher
	tokens *auth.TokenService
	csrf   *auth.CSRFGenerator
	access *auth.AccessControl
}

// HandlerConfig wires the dependencies required for Handler.
type HandlerConfig struct {
	Store  UserStore
	Hasher auth.PasswordHasher
	Tokens *auth.TokenService
	CSRF   *auth.CSRFGenerator
}

var errHandlerConfig = errors.New("api: handler requires a store, hasher, token service, and csrf generator")

// NewHandler validates the configuration and builds the handler.
func NewHandler(cfg HandlerConfig) (*Handler, error) {
	if cfg.Store == nil || cfg.Hasher == nil || cfg.Tokens == nil || cfg.CSRF == nil {
		return nil, errHandlerConfig
	}
	access, err := auth.NewAccessControl(cfg.Store, cfg.Tokens)
	if err != nil {
		return nil, err
	}
	return &Handler{
		store:  cfg.Store,
		hasher: cfg.Hasher,
		tokens: cfg.Tokens,
		csrf:   cfg.CSRF,
		access: access,
	}, nil
}

// Routes registers the API under /api/v1. User-management routes are
// gated behind an admin role check on the session cookie; login,
// registration, logout, and the CSRF endpoint stay public.
func (h *Handler) Routes() (httpx.RouteRegistrar, error) {
	adminGuard, err := auth.NewMiddleware(h.access, []auth.Role{auth.RoleSuperAdmin, auth.RoleAdmin})
	if err != nil {
		return nil, err
	}
	adminOnly := httpx.AuthMiddleware(adminGuard)

	return func(a *httpx.App) {
		a.GET("/ping", h.ping)

		v1 := a.Group("/api/v1")
		v1.POST("/login", h.login)
		v1.GET("/logout", h.logout)
		v1.GET("/auth/check-token", h.checkToken)
		v1.GET("/auth/check-cookie", h.checkCookie)
		v1.GET("/auth/csrf-token", h.csrfToken)
		v1.POST("/user/new", h.saveUser)

		v1.GET("/user/find-one", h.findUser, adminOnly)
		v1.PATCH("/user/password/update", h.updatePassword, adminOnly)
		v1.DELETE("/user/ban", h.banUser, adminOnly)
		v1.PATCH("/user/unban", h.unbanUser, adminOnly)
		v1.DELETE("/user/delete", h.hardDeleteUser, adminOnly)
		v1.GET("/user/progression", h.userProgression, adminOnly)
	}, nil
}

// Message is the uniform JSON envelope for status responses.
type Message struct {
	Message string `json:"message"`
}
