package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/athenareborn/pokemyheart-store/internal/discount"
	"github.com/athenareborn/pokemyheart-store/internal/models"
)

// discountValidator is the interface for discount validation
type discountValidator interface {
	Validate(ctx context.Context, code string) (*models.Discount, error)
	Create(ctx context.Context, d models.Discount) (*models.Discount, error)
	GetStats() map[string]interface{}
}

// DiscountHandler handles HTTP requests for discount codes
type DiscountHandler struct {
	validator discountValidator
	log       *slog.Logger
}

// NewDiscountHandler creates a new DiscountHandler
func NewDiscountHandler(validator discountValidator, log *slog.Logger) *DiscountHandler {
	return &DiscountHandler{
		validator: validator,
		log:       log,
	}
}

// ValidateDiscount handles POST /api/discounts/validate
func (h *DiscountHandler) ValidateDiscount(w http.ResponseWriter, r *http.Request) {
	var req models.ValidateDiscountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	d, err := h.validator.Validate(r.Context(), req.Code)
	if err != nil {
		switch {
		case errors.Is(err, discount.ErrMalformedCode):
			WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		case errors.Is(err, discount.ErrDiscountNotFound), errors.Is(err, discount.ErrDiscountUnavailable):
			WriteJSON(w, http.StatusNotFound, map[string]interface{}{
				"valid":   false,
				"code":    req.Code,
				"message": "Discount code not found or no longer valid",
			}, h.log)
		default:
			h.log.Error("failed to validate discount", "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		}
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"valid":      true,
		"code":       d.Code,
		"percentOff": d.PercentOff,
	}, h.log)
}

// CreateDiscount handles POST /api/admin/discounts
func (h *DiscountHandler) CreateDiscount(w http.ResponseWriter, r *http.Request) {
	var req models.Discount
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	d, err := h.validator.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, discount.ErrMalformedCode), errors.Is(err, discount.ErrInvalidPercent):
			WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		case errors.Is(err, discount.ErrDuplicateCode):
			WriteError(w, http.StatusConflict, err.Error(), h.log)
		default:
			h.log.Error("failed to create discount", "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		}
		return
	}

	h.log.Info("discount created", "code", d.Code, "percent_off", d.PercentOff)
	WriteJSON(w, http.StatusCreated, d, h.log)
}

// GetStats handles GET /api/admin/discounts/stats
func (h *DiscountHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.validator.GetStats(), h.log)
}
