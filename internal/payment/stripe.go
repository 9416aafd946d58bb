package payment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/athenareborn/pokemyheart-store/internal/models"
	"github.com/sony/gobreaker/v2"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
)

// sessionCreator is the subset of the Stripe checkout session client we use.
type sessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// StripeClient creates hosted checkout sessions. Calls are never retried;
// a circuit breaker fails fast while Stripe is erroring.
type StripeClient struct {
	sessions sessionCreator
	breaker  *gobreaker.CircuitBreaker[*stripe.CheckoutSession]
	timeout  time.Duration
	log      *slog.Logger
}

// NewStripeClient creates a client for the given secret key. An empty key
// yields a client whose every call fails with ErrNotConfigured.
func NewStripeClient(secretKey string, timeout time.Duration, log *slog.Logger) *StripeClient {
	var sessions sessionCreator
	if secretKey != "" {
		sessions = &session.Client{B: newStripeBackend("", log), Key: secretKey}
	}
	return newStripeClient(sessions, timeout, log)
}

// newStripeBackend builds an API backend with SDK retries disabled, so every
// attempt goes through the breaker. An empty url targets the live API.
func newStripeBackend(url string, log *slog.Logger) stripe.Backend {
	cfg := &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &slogLeveledLogger{log: log},
	}
	if url != "" {
		cfg.URL = stripe.String(url)
	}
	return stripe.GetBackendWithConfig(stripe.APIBackend, cfg)
}

func newStripeClient(sessions sessionCreator, timeout time.Duration, log *slog.Logger) *StripeClient {
	c := &StripeClient{
		sessions: sessions,
		timeout:  timeout,
		log:      log,
	}
	c.breaker = gobreaker.NewCircuitBreaker[*stripe.CheckoutSession](gobreaker.Settings{
		Name:        "stripe-checkout",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return !countsAsFailure(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return c
}

// CreateSession submits one checkout session to Stripe.
func (c *StripeClient) CreateSession(ctx context.Context, req models.SessionRequest) (*models.CheckoutResult, error) {
	if c.sessions == nil {
		return nil, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := toSessionParams(req)
	params.Context = ctx

	s, err := c.breaker.Execute(func() (*stripe.CheckoutSession, error) {
		return c.sessions.New(params)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrProviderUnavailable
		}
		return nil, newProviderError(err)
	}

	c.log.Debug("stripe session created", "session_id", s.ID, "line_items", len(req.LineItems))
	return &models.CheckoutResult{URL: s.URL, SessionID: s.ID}, nil
}

func toSessionParams(req models.SessionRequest) *stripe.CheckoutSessionParams {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: req.Metadata,
		},
	}

	if len(req.ShippingCountries) > 0 {
		params.ShippingAddressCollection = &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(req.ShippingCountries),
		}
	}

	for _, item := range req.LineItems {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name:        stripe.String(item.Name),
			Description: stripe.String(item.Description),
			Metadata:    item.Metadata,
		}
		if item.Image != "" {
			product.Images = stripe.StringSlice([]string{item.Image})
		}
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(req.Currency),
				UnitAmount:  stripe.Int64(item.UnitAmount),
				ProductData: product,
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	for _, opt := range req.ShippingOptions {
		params.ShippingOptions = append(params.ShippingOptions, &stripe.CheckoutSessionShippingOptionParams{
			ShippingRateData: &stripe.CheckoutSessionShippingOptionShippingRateDataParams{
				Type:        stripe.String("fixed_amount"),
				DisplayName: stripe.String(opt.DisplayName),
				FixedAmount: &stripe.CheckoutSessionShippingOptionShippingRateDataFixedAmountParams{
					Amount:   stripe.Int64(opt.Amount),
					Currency: stripe.String(req.Currency),
				},
				DeliveryEstimate: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateParams{
					Minimum: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMinimumParams{
						Unit:  stripe.String("business_day"),
						Value: stripe.Int64(opt.MinDays),
					},
					Maximum: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMaximumParams{
						Unit:  stripe.String("business_day"),
						Value: stripe.Int64(opt.MaxDays),
					},
				},
			},
		})
	}

	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	return params
}
