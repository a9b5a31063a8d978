package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"clubsphere/internal/platform/middleware"
	"clubsphere/internal/transport/http/shared"
	"clubsphere/internal/user"
	dErrors "clubsphere/pkg/domain-errors"
)

type Service interface {
	Sync(ctx context.Context, u *user.User) error
	Get(ctx context.Context, email string) (*user.User, error)
	List(ctx context.Context) ([]user.User, error)
	SetRole(ctx context.Context, email, role string) error
	GetRole(ctx context.Context, email string) (string, error)
}

type Handler struct {
	logger    *slog.Logger
	users     Service
	validator middleware.TokenValidator
}

func New(users Service, validator middleware.TokenValidator, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, users: users, validator: validator}
}

func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.validator, h.logger))
		r.Post("/users", h.handleSync)
		r.Get("/users/{email}/role", h.handleGetRole)
		r.With(middleware.RequireRole(h.users, h.logger, user.RoleAdmin)).
			Get("/users", h.handleList)
		r.With(middleware.RequireRole(h.users, h.logger, user.RoleAdmin)).
			Put("/users/{email}/role", h.handleSetRole)
	})
}

// handleSync records the authenticated principal. The email always comes
// from the verified token, never the body.
func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		PhotoURL string `json:"photoURL"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidRequest, "invalid request body"))
		return
	}
	u := &user.User{
		Email:    middleware.GetEmail(r.Context()),
		Name:     body.Name,
		PhotoURL: body.PhotoURL,
	}
	if err := h.users.Sync(r.Context(), u); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "synced"})
}

func (h *Handler) handleGetRole(w http.ResponseWriter, r *http.Request) {
	role, err := h.users.GetRole(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"role": role})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if users == nil {
		users = []user.User{}
	}
	shared.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) handleSetRole(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidRequest, "invalid request body"))
		return
	}
	if err := h.users.SetRole(r.Context(), chi.URLParam(r, "email"), body.Role); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
