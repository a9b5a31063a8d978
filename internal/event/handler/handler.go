package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"clubsphere/internal/event"
	"clubsphere/internal/platform/middleware"
	"clubsphere/internal/transport/http/shared"
	dErrors "clubsphere/pkg/domain-errors"
)

type Service interface {
	List(ctx context.Context) ([]event.Event, error)
	Get(ctx context.Context, id string) (*event.Event, error)
	Create(ctx context.Context, e *event.Event) (string, error)
	Update(ctx context.Context, id string, upd event.Update) error
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	logger    *slog.Logger
	events    Service
	validator middleware.TokenValidator
	roles     middleware.RoleLookup
}

func New(events Service, validator middleware.TokenValidator, roles middleware.RoleLookup, logger *slog.Logger) *Handler {
	return &Handler{
		logger:    logger,
		events:    events,
		validator: validator,
		roles:     roles,
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/events", h.handleList)
	r.Get("/events/{id}", h.handleGet)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.validator, h.logger))
		r.With(middleware.RequireRole(h.roles, h.logger, "admin", "moderator")).
			Post("/events", h.handleCreate)
		r.With(middleware.RequireRole(h.roles, h.logger, "admin", "moderator")).
			Put("/events/{id}", h.handleUpdate)
		r.With(middleware.RequireRole(h.roles, h.logger, "admin")).
			Delete("/events/{id}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list events failed",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		shared.WriteError(w, err)
		return
	}
	if events == nil {
		events = []event.Event{}
	}
	shared.WriteJSON(w, http.StatusOK, events)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	e, err := h.events.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var e event.Event
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidRequest, "invalid request body"))
		return
	}
	id, err := h.events.Create(r.Context(), &e)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var upd event.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidRequest, "invalid request body"))
		return
	}
	if err := h.events.Update(r.Context(), chi.URLParam(r, "id"), upd); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.events.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
