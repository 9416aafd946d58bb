package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/athenareborn/pokemyheart-store/internal/models"
	"github.com/athenareborn/pokemyheart-store/internal/payment"
	"github.com/athenareborn/pokemyheart-store/internal/service"
	"github.com/stripe/stripe-go/v80"
)

type eventVerifier interface {
	Verify(payload []byte, signature string) (stripe.Event, error)
}

type orderRecorder interface {
	RecordCompletedCheckout(ctx context.Context, c *models.CompletedCheckout) (*models.Order, error)
}

// WebhookHandler receives Stripe events
type WebhookHandler struct {
	verifier eventVerifier
	orders   orderRecorder
	log      *slog.Logger
}

func NewWebhookHandler(verifier eventVerifier, orders orderRecorder, log *slog.Logger) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, orders: orders, log: log}
}

// HandleStripe handles POST /api/webhooks/stripe. Any non-2xx response makes
// Stripe redeliver, so only failures a retry could fix return 500.
func (h *WebhookHandler) HandleStripe(w http.ResponseWriter, r *http.Request) {
	payload, err := readBody(w, r, maxWebhookBody)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	event, err := h.verifier.Verify(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, payment.ErrNotConfigured) {
			h.log.Error("webhook secret not configured")
			WriteError(w, http.StatusInternalServerError, "Webhook not configured", h.log)
			return
		}
		h.log.Warn("rejected webhook", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid signature", h.log)
		return
	}

	completed, ok, err := payment.CompletedCheckoutFromEvent(event)
	if err != nil {
		h.log.Error("failed to decode webhook event", "event_id", event.ID, "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid event payload", h.log)
		return
	}
	if !ok {
		h.log.Debug("ignoring webhook event", "event_id", event.ID, "type", event.Type)
		WriteJSON(w, http.StatusOK, map[string]bool{"received": true}, h.log)
		return
	}

	order, err := h.orders.RecordCompletedCheckout(r.Context(), completed)
	switch {
	case err == nil:
		h.log.Info("order recorded", "order_id", order.ID, "session_id", completed.SessionID, "total", order.Total)
	case errors.Is(err, service.ErrDuplicateOrder):
		h.log.Info("duplicate checkout completion", "session_id", completed.SessionID)
	case errors.Is(err, service.ErrPaymentIncomplete):
		h.log.Info("checkout completed without payment", "session_id", completed.SessionID)
	case errors.Is(err, service.ErrInvalidMetadata):
		h.log.Error("checkout metadata unreadable", "session_id", completed.SessionID, "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid checkout metadata", h.log)
		return
	default:
		h.log.Error("failed to record order", "session_id", completed.SessionID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to record order", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"received": true}, h.log)
}
