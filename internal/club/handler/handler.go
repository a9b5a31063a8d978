package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"clubsphere/internal/club"
	"clubsphere/internal/platform/middleware"
	"clubsphere/internal/transport/http/shared"
	dErrors "clubsphere/pkg/domain-errors"
)

// Service defines the club operations the handler needs.
type Service interface {
	List(ctx context.Context) ([]club.Club, error)
	Get(ctx context.Context, id string) (*club.Club, error)
	Create(ctx context.Context, c *club.Club) (string, error)
	Update(ctx context.Context, id string, upd club.Update) error
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	logger    *slog.Logger
	clubs     Service
	validator middleware.TokenValidator
	roles     middleware.RoleLookup
}

func New(clubs Service, validator middleware.TokenValidator, roles middleware.RoleLookup, logger *slog.Logger) *Handler {
	return &Handler{
		logger:    logger,
		clubs:     clubs,
		validator: validator,
		roles:     roles,
	}
}

// Register mounts the club routes. Reads are public; writes require a
// moderator or admin role, deletes an admin.
func (h *Handler) Register(r chi.Router) {
	r.Get("/clubs", h.handleList)
	r.Get("/clubs/{id}", h.handleGet)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.validator, h.logger))
		r.With(middleware.RequireRole(h.roles, h.logger, "admin", "moderator")).
			Post("/clubs", h.handleCreate)
		r.With(middleware.RequireRole(h.roles, h.logger, "admin", "moderator")).
			Put("/clubs/{id}", h.handleUpdate)
		r.With(middleware.RequireRole(h.roles, h.logger, "admin")).
			Delete("/clubs/{id}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	clubs, err := h.clubs.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list clubs failed",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		shared.WriteError(w, err)
		return
	}
	if clubs == nil {
		clubs = []club.Club{}
	}
	shared.WriteJSON(w, http.StatusOK, clubs)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.clubs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var c club.Club
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidRequest, "invalid request body"))
		return
	}
	id, err := h.clubs.Create(r.Context(), &c)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var upd club.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidRequest, "invalid request body"))
		return
	}
	if err := h.clubs.Update(r.Context(), chi.URLParam(r, "id"), upd); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.clubs.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
