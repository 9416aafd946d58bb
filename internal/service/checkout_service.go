package service

import (
	"context"
	"log/slog"

	"github.com/athenareborn/pokemyheart-store/internal/checkout"
	"github.com/athenareborn/pokemyheart-store/internal/models"
)

// SessionProvider creates hosted checkout sessions at the payment provider.
type SessionProvider interface {
	CreateSession(ctx context.Context, req models.SessionRequest) (*models.CheckoutResult, error)
}

// CheckoutService turns an untrusted cart body into a hosted checkout session.
type CheckoutService struct {
	validator *checkout.Validator
	rules     checkout.PricingRules
	builder   *checkout.SessionBuilder
	provider  SessionProvider
	log       *slog.Logger
}

func NewCheckoutService(validator *checkout.Validator, rules checkout.PricingRules, builder *checkout.SessionBuilder, provider SessionProvider, log *slog.Logger) *CheckoutService {
	return &CheckoutService{
		validator: validator,
		rules:     rules,
		builder:   builder,
		provider:  provider,
		log:       log,
	}
}

// CreateCheckout validates and prices the cart, then submits exactly one
// session to the provider. Validation failures return *checkout.ValidationError
// and never reach the provider.
func (s *CheckoutService) CreateCheckout(ctx context.Context, body []byte) (*models.CheckoutResult, error) {
	cart, err := s.validator.Validate(body)
	if err != nil {
		return nil, err
	}

	pricing := s.rules.Calculate(cart.Lines)
	req := s.builder.Build(cart, pricing)

	s.log.Debug("submitting checkout session",
		"lines", len(cart.Lines),
		"subtotal", pricing.Subtotal,
		"shipping_cost", pricing.ShippingCost,
		"total", pricing.Total,
	)

	return s.provider.CreateSession(ctx, req)
}
