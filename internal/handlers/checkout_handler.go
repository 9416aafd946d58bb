package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/athenareborn/pokemyheart-store/internal/checkout"
	"github.com/athenareborn/pokemyheart-store/internal/models"
	"github.com/athenareborn/pokemyheart-store/internal/payment"
)

type checkoutCreator interface {
	CreateCheckout(ctx context.Context, body []byte) (*models.CheckoutResult, error)
}

// CheckoutHandler handles POST /api/checkout
type CheckoutHandler struct {
	checkout checkoutCreator
	log      *slog.Logger
}

func NewCheckoutHandler(c checkoutCreator, log *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: c, log: log}
}

// CreateCheckout responds 200 {url, sessionId}, 400 for invalid carts and
// 500 for configuration or provider failures.
func (h *CheckoutHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, maxCheckoutBody)
	if err != nil {
		h.log.Warn("failed to read checkout body", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	result, err := h.checkout.CreateCheckout(r.Context(), body)
	if err != nil {
		var ve *checkout.ValidationError
		var pe *payment.ProviderError
		switch {
		case errors.As(err, &ve):
			h.log.Info("checkout rejected", "index", ve.Index, "reason", ve.Message)
			WriteError(w, http.StatusBadRequest, ve.Error(), h.log)
		case errors.Is(err, payment.ErrNotConfigured):
			h.log.Error("payment provider not configured")
			writeErrorDetails(w, http.StatusInternalServerError, "Failed to create checkout session", err.Error(), h.log)
		case errors.As(err, &pe):
			h.log.Error("payment provider rejected checkout", "status_code", pe.StatusCode, "error", pe.Message)
			writeErrorDetails(w, http.StatusInternalServerError, "Failed to create checkout session", err.Error(), h.log)
		default:
			h.log.Error("failed to create checkout session", "error", err)
			writeErrorDetails(w, http.StatusInternalServerError, "Failed to create checkout session", err.Error(), h.log)
		}
		return
	}

	WriteJSON(w, http.StatusOK, result, h.log)
	h.log.Info("checkout session created", "session_id", result.SessionID)
}
