package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/athenareborn/pokemyheart-store/internal/repository"
	"github.com/athenareborn/pokemyheart-store/internal/service"
	"github.com/go-chi/chi/v5"
)

type InventoryHandler struct {
	service *service.InventoryService
	log     *slog.Logger
}

func NewInventoryHandler(service *service.InventoryService, log *slog.Logger) *InventoryHandler {
	return &InventoryHandler{service: service, log: log}
}

// ListStock handles GET /api/inventory
func (h *InventoryHandler) ListStock(w http.ResponseWriter, r *http.Request) {
	levels, err := h.service.ListStock(r.Context())
	if err != nil {
		h.log.Error("failed to list stock", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}
	WriteJSON(w, http.StatusOK, levels, h.log)
}

type setStockRequest struct {
	Available *int64 `json:"available"`
}

// SetStock handles PUT /api/admin/inventory/{bundleId}
func (h *InventoryHandler) SetStock(w http.ResponseWriter, r *http.Request) {
	bundleID := chi.URLParam(r, "bundleId")

	var req setStockRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Available == nil {
		WriteError(w, http.StatusBadRequest, "Body must be {\"available\": <integer>}", h.log)
		return
	}

	level, err := h.service.SetStock(r.Context(), bundleID, *req.Available)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStock):
			WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		case errors.Is(err, repository.ErrBundleNotFound):
			WriteError(w, http.StatusNotFound, "Bundle not found", h.log)
		default:
			h.log.Error("failed to set stock", "bundleId", bundleID, "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		}
		return
	}

	h.log.Info("stock updated", "bundleId", bundleID, "available", level.Available)
	WriteJSON(w, http.StatusOK, level, h.log)
}
