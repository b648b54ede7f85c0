// Package api implements the JSON HTTP surface.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/forkcast/forkcast/internal/auth"
	"github.com/forkcast/forkcast/internal/genai"
	"github.com/forkcast/forkcast/internal/logger"
	"github.com/forkcast/forkcast/internal/metrics"
	"github.com/forkcast/forkcast/internal/planner"
	"github.com/forkcast/forkcast/internal/store"
)

// Notifier pushes change signals to connected clients after mutations.
type Notifier interface {
	Notify(ctx context.Context, entity, action, userID string)
}

// AdminVerifier checks the maintenance-surface password.
type AdminVerifier interface {
	VerifyAdminPassword(password string) error
}

// Handler carries the dependencies shared by all endpoint handlers.
type Handler struct {
	log      *logger.Logger
	store    *store.Store
	planner  *planner.Service
	notifier Notifier
	admin    AdminVerifier
	validate *validator.Validate
}

func NewHandler(log *logger.Logger, st *store.Store, pl *planner.Service, notifier Notifier, admin AdminVerifier) *Handler {
	return &Handler{
		log:      log,
		store:    st,
		planner:  pl,
		notifier: notifier,
		admin:    admin,
		validate: validator.New(),
	}
}

func (h *Handler) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.respond(w, status, map[string]string{"error": msg})
}

// writeError maps domain errors onto the HTTP status taxonomy. notFoundMsg
// keeps the resource-specific wording of 404 responses.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	var verr *planner.ValidationError
	var gerr *genai.GenerationError

	switch {
	case errors.As(err, &verr):
		h.respondError(w, http.StatusBadRequest, verr.Msg)
	case errors.Is(err, store.ErrSlotRef):
		h.respondError(w, http.StatusBadRequest, store.ErrSlotRef.Error())
	case errors.Is(err, store.ErrNotFound):
		h.respondError(w, http.StatusNotFound, notFoundMsg)
	case errors.As(err, &gerr):
		h.log.Warn("generation failed", "kind", gerr.Kind, "error", gerr.Err,
			"request_id", metrics.RequestIDFromContext(r.Context()))
		if gerr.Kind == "recipe" {
			h.respondError(w, http.StatusBadGateway, "Failed to generate recipe. Please try again.")
		} else {
			h.respondError(w, http.StatusBadGateway, "Failed to generate grocery list. Please try again.")
		}
	default:
		h.log.Error("request failed", "error", err,
			"path", r.URL.Path, "request_id", metrics.RequestIDFromContext(r.Context()))
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decode parses and validates a JSON request body.
func (h *Handler) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &planner.ValidationError{Msg: "invalid JSON body"}
	}
	if err := h.validate.Struct(v); err != nil {
		return &planner.ValidationError{Msg: err.Error()}
	}
	return nil
}

// userID pulls the authenticated subject. The auth middleware guarantees it;
// a miss means the route was wired outside the guard.
func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return id, true
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid id")
		return uuid.UUID{}, false
	}
	return id, true
}

func (h *Handler) notify(ctx context.Context, entity, action, userID string) {
	if h.notifier != nil {
		h.notifier.Notify(ctx, entity, action, userID)
	}
}
