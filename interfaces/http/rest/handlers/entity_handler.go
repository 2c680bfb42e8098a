package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"lovelog-backend/domain"
	"lovelog-backend/infrastructure/persistence"
	"lovelog-backend/pkg/common"
	apperrors "lovelog-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBodyBytes = 10 << 20 // memories can carry data-URI photos

// EntityHandler serves the five CRUD operations for one entity kind. All
// kinds share the same handler; only validation differs, and that is
// dispatched by kind. The handler never knows which backend served it.
type EntityHandler struct {
	kind    domain.Kind
	gateway *persistence.Gateway
	logger  *zap.Logger
}

// NewEntityHandler creates a handler for the given kind.
func NewEntityHandler(kind domain.Kind, gateway *persistence.Gateway, logger *zap.Logger) *EntityHandler {
	return &EntityHandler{kind: kind, gateway: gateway, logger: logger}
}

// List handles GET /<kind>.
func (h *EntityHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.gateway.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list records", zap.String("collection", h.kind.String()), zap.Error(err))
		respondError(w, apperrors.NewDatabaseError("server error", err))
		return
	}
	if records == nil {
		records = []persistence.Record{}
	}
	common.RespondJSON(w, http.StatusOK, records)
}

// Create handles POST /<kind>. Validation happens before any storage
// attempt.
func (h *EntityHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, apperrors.NewValidationError("invalid request body"))
		return
	}

	if err := domain.ValidateCreate(h.kind, body); err != nil {
		respondError(w, apperrors.NewValidationError(err.Error()))
		return
	}

	var data persistence.Record
	if err := json.Unmarshal(body, &data); err != nil {
		respondError(w, apperrors.NewValidationError("invalid request body"))
		return
	}

	record, err := h.gateway.Create(r.Context(), data)
	if err != nil {
		h.logger.Error("Failed to create record", zap.String("collection", h.kind.String()), zap.Error(err))
		respondError(w, apperrors.NewDatabaseError("server error", err))
		return
	}
	common.RespondJSON(w, http.StatusCreated, record)
}

// Update handles PUT /<kind>/{id}.
func (h *EntityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var data persistence.Record
	if err := common.ParseJSONBody(w, r, &data, maxBodyBytes); err != nil {
		respondError(w, apperrors.NewValidationError("invalid request body"))
		return
	}

	record, err := h.gateway.Update(r.Context(), id, data)
	if errors.Is(err, persistence.ErrNotFound) {
		respondError(w, apperrors.NewNotFoundError(h.kind.Singular()))
		return
	}
	if err != nil {
		h.logger.Error("Failed to update record",
			zap.String("collection", h.kind.String()),
			zap.String("id", id),
			zap.Error(err),
		)
		respondError(w, apperrors.NewDatabaseError("server error", err))
		return
	}
	common.RespondJSON(w, http.StatusOK, record)
}

// Delete handles DELETE /<kind>/{id}.
func (h *EntityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.gateway.Delete(r.Context(), id)
	if errors.Is(err, persistence.ErrNotFound) {
		respondError(w, apperrors.NewNotFoundError(h.kind.Singular()))
		return
	}
	if err != nil {
		h.logger.Error("Failed to delete record",
			zap.String("collection", h.kind.String()),
			zap.String("id", id),
			zap.Error(err),
		)
		respondError(w, apperrors.NewDatabaseError("server error", err))
		return
	}
	common.RespondMessage(w, http.StatusOK, fmt.Sprintf("%s deleted", h.kind.Singular()))
}

// Clear handles DELETE /<kind>/clear. Clearing twice is fine; an empty
// collection clears to empty.
func (h *EntityHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.gateway.Clear(r.Context()); err != nil {
		h.logger.Error("Failed to clear collection", zap.String("collection", h.kind.String()), zap.Error(err))
		respondError(w, apperrors.NewDatabaseError("server error", err))
		return
	}
	common.RespondMessage(w, http.StatusOK, fmt.Sprintf("all %s cleared", h.kind.String()))
}
