package payment

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/athenareborn/pokemyheart-store/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
)

type fakeSessions struct {
	calls   int
	params  *stripe.CheckoutSessionParams
	session *stripe.CheckoutSession
	err     error
}

func (f *fakeSessions) New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	f.calls++
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleRequest() models.SessionRequest {
	return models.SessionRequest{
		Currency: "usd",
		LineItems: []models.SessionLineItem{
			{
				Name: "Poke My Heart Card", Description: "Holographic valentine card",
				UnitAmount: 2395, Quantity: 2,
				Image:    "https://pokemyheart.com/images/charizard.png",
				Metadata: map[string]string{"bundle_id": "card-only", "design_id": "design-7"},
			},
			{Name: "Poke My Heart Card", Description: "Holographic valentine card", UnitAmount: 4995, Quantity: 1},
		},
		ShippingOptions: []models.ShippingOption{
			{DisplayName: "Standard Shipping", Amount: 495, MinDays: 5, MaxDays: 7},
			{DisplayName: "Express Shipping", Amount: 1295, MinDays: 1, MaxDays: 3},
		},
		ShippingCountries: []string{"US"},
		SuccessURL:        "https://pokemyheart.com/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:         "https://pokemyheart.com/cart",
		Metadata:          map[string]string{"total": "2890", "bundle_quantities": "card-only:1"},
		IdempotencyKey:    "checkout-6f9619ff-8b86-d011-b42d-00c04fc964ff",
	}
}

func TestStripeClient_CreateSession(t *testing.T) {
	fake := &fakeSessions{session: &stripe.CheckoutSession{ID: "cs_test_123", URL: "https://checkout.stripe.com/c/pay/cs_test_123"}}
	client := newStripeClient(fake, 5*time.Second, discardLogger())

	result, err := client.CreateSession(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", result.SessionID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_123", result.URL)
	assert.Equal(t, 1, fake.calls)

	p := fake.params
	require.NotNil(t, p)
	assert.Equal(t, "payment", *p.Mode)
	assert.Equal(t, "https://pokemyheart.com/cart", *p.CancelURL)
	assert.Equal(t, "https://pokemyheart.com/checkout/success?session_id={CHECKOUT_SESSION_ID}", *p.SuccessURL)
	require.NotNil(t, p.Context)
	_, hasDeadline := p.Context.Deadline()
	assert.True(t, hasDeadline, "provider call must carry a timeout")

	require.Len(t, p.LineItems, 2)
	first := p.LineItems[0]
	assert.Equal(t, int64(2), *first.Quantity)
	assert.Equal(t, int64(2395), *first.PriceData.UnitAmount)
	assert.Equal(t, "usd", *first.PriceData.Currency)
	assert.Equal(t, "Poke My Heart Card", *first.PriceData.ProductData.Name)
	require.Len(t, first.PriceData.ProductData.Images, 1)
	assert.Equal(t, "https://pokemyheart.com/images/charizard.png", *first.PriceData.ProductData.Images[0])
	assert.Equal(t, "card-only", first.PriceData.ProductData.Metadata["bundle_id"])
	assert.Empty(t, p.LineItems[1].PriceData.ProductData.Images)

	require.Len(t, p.ShippingOptions, 2)
	standard := p.ShippingOptions[0].ShippingRateData
	assert.Equal(t, "fixed_amount", *standard.Type)
	assert.Equal(t, int64(495), *standard.FixedAmount.Amount)
	assert.Equal(t, int64(5), *standard.DeliveryEstimate.Minimum.Value)
	assert.Equal(t, int64(7), *standard.DeliveryEstimate.Maximum.Value)
	assert.Equal(t, int64(1295), *p.ShippingOptions[1].ShippingRateData.FixedAmount.Amount)

	assert.Equal(t, []*string{stripe.String("US")}, p.ShippingAddressCollection.AllowedCountries)
	assert.Equal(t, "2890", p.Metadata["total"])
	assert.Equal(t, "card-only:1", p.PaymentIntentData.Metadata["bundle_quantities"])
	require.NotNil(t, p.IdempotencyKey)
	assert.Equal(t, "checkout-6f9619ff-8b86-d011-b42d-00c04fc964ff", *p.IdempotencyKey)
}

func TestStripeClient_NoIdempotencyKeyWithoutRequestID(t *testing.T) {
	fake := &fakeSessions{session: &stripe.CheckoutSession{ID: "cs_1"}}
	client := newStripeClient(fake, time.Second, discardLogger())

	req := sampleRequest()
	req.IdempotencyKey = ""
	_, err := client.CreateSession(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, fake.params.IdempotencyKey)
}

func TestStripeClient_NotConfigured(t *testing.T) {
	client := NewStripeClient("", time.Second, discardLogger())

	_, err := client.CreateSession(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestStripeClient_ProviderError(t *testing.T) {
	fake := &fakeSessions{err: &stripe.Error{
		Msg:            "Invalid URL: An explicit scheme must be provided.",
		HTTPStatusCode: 400,
		Type:           stripe.ErrorTypeInvalidRequest,
	}}
	client := newStripeClient(fake, time.Second, discardLogger())

	_, err := client.CreateSession(context.Background(), sampleRequest())
	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "Invalid URL: An explicit scheme must be provided.", pe.Message)
	assert.Equal(t, 400, pe.StatusCode)
	assert.Contains(t, err.Error(), "Invalid URL")
	assert.Equal(t, 1, fake.calls, "provider calls are never retried")
}

func TestStripeClient_NetworkError(t *testing.T) {
	fake := &fakeSessions{err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}}
	client := newStripeClient(fake, time.Second, discardLogger())

	_, err := client.CreateSession(context.Background(), sampleRequest())
	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, pe.Message, "connection refused")
	assert.Equal(t, 1, fake.calls)
}

func TestStripeClient_BreakerOpensOnServerErrors(t *testing.T) {
	fake := &fakeSessions{err: &stripe.Error{Msg: "internal", HTTPStatusCode: 500, Type: stripe.ErrorTypeAPI}}
	client := newStripeClient(fake, time.Second, discardLogger())

	for i := 0; i < 5; i++ {
		_, err := client.CreateSession(context.Background(), sampleRequest())
		var pe *ProviderError
		require.True(t, errors.As(err, &pe), "call %d", i)
	}

	_, err := client.CreateSession(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Equal(t, 5, fake.calls, "open breaker must not reach the provider")
}

func TestStripeClient_BreakerIgnoresRejectedRequests(t *testing.T) {
	fake := &fakeSessions{err: &stripe.Error{Msg: "bad", HTTPStatusCode: 400, Type: stripe.ErrorTypeInvalidRequest}}
	client := newStripeClient(fake, time.Second, discardLogger())

	for i := 0; i < 8; i++ {
		_, err := client.CreateSession(context.Background(), sampleRequest())
		assert.NotErrorIs(t, err, ErrProviderUnavailable)
	}
	assert.Equal(t, 8, fake.calls)
}

func TestStripeClient_BackendSendsEachCallOnce(t *testing.T) {
	var hits atomic.Int32
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Stripe-Should-Retry", "true")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream unavailable","type":"api_error"}}`))
	}))
	defer srv.Close()

	var logs bytes.Buffer
	sdkLog := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sessions := &session.Client{B: newStripeBackend(srv.URL, sdkLog), Key: "sk_test_123"}
	client := newStripeClient(sessions, 5*time.Second, discardLogger())

	_, err := client.CreateSession(context.Background(), sampleRequest())
	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusServiceUnavailable, pe.StatusCode)
	assert.Equal(t, "upstream unavailable", pe.Message)
	assert.Equal(t, int32(1), hits.Load(), "the SDK must not retry behind the breaker")
	assert.Equal(t, "/v1/checkout/sessions", path)
	assert.Contains(t, logs.String(), `"component":"stripe"`)
}

func TestSlogLeveledLogger(t *testing.T) {
	var buf bytes.Buffer
	l := &slogLeveledLogger{log: slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))}

	l.Debugf("requesting %s", "/v1/checkout/sessions")
	l.Infof("requesting %s", "/v1/checkout/sessions")
	assert.Empty(t, buf.String(), "below the configured level")

	l.Warnf("retrying in %dms", 500)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), `"msg":"retrying in 500ms"`)

	buf.Reset()
	l.Errorf("request error from stripe (status %d)", 503)
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), `"component":"stripe"`)
}

func TestCountsAsFailure(t *testing.T) {
	assert.False(t, countsAsFailure(nil))
	assert.False(t, countsAsFailure(&stripe.Error{HTTPStatusCode: 402}))
	assert.True(t, countsAsFailure(&stripe.Error{HTTPStatusCode: 429}))
	assert.True(t, countsAsFailure(&stripe.Error{HTTPStatusCode: 503}))
	assert.True(t, countsAsFailure(context.DeadlineExceeded))
}
