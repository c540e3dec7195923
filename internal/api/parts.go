package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/servis/internal/model"
	"github.com/erazemk/servis/internal/store"
)

// PartsHandler handles the parts ledger endpoints.
type PartsHandler struct {
	DB *sql.DB
}

// List handles GET /api/parts.
func (h *PartsHandler) List(w http.ResponseWriter, r *http.Request) {
	parts, err := store.ListParts(r.Context(), h.DB)
	if err != nil {
		storeError(w, err, "failed to list parts")
		return
	}
	if parts == nil {
		parts = []model.Part{}
	}
	jsonResponse(w, http.StatusOK, parts)
}

// Create handles POST /api/parts. Values are stored as given.
func (h *PartsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.PartInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	part, err := store.CreatePart(r.Context(), h.DB, req)
	if err != nil {
		storeError(w, err, "failed to create part")
		return
	}

	slog.Info("part created", "id", part.ID, "part_number", part.PartNumber)
	jsonResponse(w, http.StatusCreated, part)
}

// Get handles GET /api/parts/{id}.
func (h *PartsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid part id")
		return
	}

	part, err := store.GetPart(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to get part")
		return
	}
	if part == nil {
		jsonError(w, http.StatusNotFound, "part not found")
		return
	}
	jsonResponse(w, http.StatusOK, part)
}

// Delete handles DELETE /api/parts/{id}. Deleting an unknown id succeeds.
func (h *PartsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid part id")
		return
	}

	if err := store.DeletePart(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "failed to delete part")
		return
	}

	slog.Info("part deleted", "id", id)
	jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}
