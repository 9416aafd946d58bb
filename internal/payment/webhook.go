package payment

import (
	"encoding/json"
	"fmt"

	"github.com/athenareborn/pokemyheart-store/internal/models"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/webhook"
)

// WebhookVerifier authenticates Stripe webhook deliveries.
type WebhookVerifier struct {
	secret string
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: secret}
}

// Verify checks the Stripe-Signature header against the payload and decodes the event.
func (v *WebhookVerifier) Verify(payload []byte, signature string) (stripe.Event, error) {
	if v.secret == "" {
		return stripe.Event{}, ErrNotConfigured
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, v.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return stripe.Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return event, nil
}

// CompletedCheckoutFromEvent extracts a completed checkout from a
// checkout.session.completed event. ok is false for any other event type.
func CompletedCheckoutFromEvent(event stripe.Event) (checkout *models.CompletedCheckout, ok bool, err error) {
	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		return nil, false, nil
	}
	if event.Data == nil {
		return nil, true, fmt.Errorf("event %s has no data", event.ID)
	}

	var s stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
		return nil, true, fmt.Errorf("decode checkout session: %w", err)
	}

	checkout = &models.CompletedCheckout{
		SessionID: s.ID,
		Currency:  string(s.Currency),
		Subtotal:  s.AmountSubtotal,
		Total:     s.AmountTotal,
		Paid:      s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		Metadata:  s.Metadata,
	}
	if s.CustomerDetails != nil {
		checkout.Email = s.CustomerDetails.Email
		checkout.Name = s.CustomerDetails.Name
	}
	if s.ShippingCost != nil {
		checkout.ShippingCost = s.ShippingCost.AmountTotal
	}
	return checkout, true, nil
}
