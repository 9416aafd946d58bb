package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/athenareborn/pokemyheart-store/internal/repository"
	"github.com/athenareborn/pokemyheart-store/internal/service"
	"github.com/go-chi/chi/v5"
)

// BundleHandler serves the public bundle catalog
type BundleHandler struct {
	service *service.BundleService
	logger  *slog.Logger
}

// NewBundleHandler creates a new bundle handler
func NewBundleHandler(service *service.BundleService, logger *slog.Logger) *BundleHandler {
	return &BundleHandler{
		service: service,
		logger:  logger,
	}
}

// ListBundles handles GET /api/bundles
func (h *BundleHandler) ListBundles(w http.ResponseWriter, r *http.Request) {
	bundles, err := h.service.ListBundles(r.Context())
	if err != nil {
		h.logger.Error("failed to list bundles", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, bundles, h.logger)
}

// GetBundle handles GET /api/bundles/{bundleId}
// - 200: bundle
// - 400: missing id
// - 404: bundle not found
func (h *BundleHandler) GetBundle(w http.ResponseWriter, r *http.Request) {
	bundleID := chi.URLParam(r, "bundleId")
	if bundleID == "" {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}

	bundle, err := h.service.GetBundle(r.Context(), bundleID)
	if err != nil {
		if errors.Is(err, repository.ErrBundleNotFound) {
			h.logger.Info("bundle not found", "bundleId", bundleID)
			WriteError(w, http.StatusNotFound, "Bundle not found", h.logger)
			return
		}

		h.logger.Error("failed to get bundle", "bundleId", bundleID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, bundle, h.logger)
}
