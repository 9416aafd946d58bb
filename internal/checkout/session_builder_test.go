package checkout

import (
	"testing"

	"github.com/athenareborn/pokemyheart-store/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCart() *models.Cart {
	return &models.Cart{
		Lines: []models.CartLine{
			{
				Name: "Poke My Heart Card", Description: "Holographic valentine card",
				Price: 2395, Quantity: 2,
				DesignID: "design-7", DesignName: "Charizard Crush",
				BundleID: "card-only", BundleName: "Card Only", BundleSKU: "PMH-CARD",
				Image: "https://pokemyheart.com/images/charizard.png",
			},
			{
				Name: "Poke My Heart Card", Description: "Holographic valentine card",
				Price: 4995, Quantity: 1,
				DesignID: "design-2", DesignName: "Pika Love",
				BundleID: "deluxe", BundleName: "Deluxe Gift Set", BundleSKU: "PMH-DLX",
			},
			{
				Name: "Poke My Heart Card", Description: "Holographic valentine card",
				Price: 2395, Quantity: 1,
				DesignID: "design-3", DesignName: "Snorlax Snuggle",
				BundleID: "card-only", BundleName: "Card Only", BundleSKU: "PMH-CARD",
			},
		},
	}
}

func TestSessionBuilder_Build(t *testing.T) {
	b := NewSessionBuilder("https://pokemyheart.com/", "usd", DefaultPricingRules)
	cart := sampleCart()
	pricing := DefaultPricingRules.Calculate(cart.Lines)

	req := b.Build(cart, pricing)

	assert.Equal(t, "usd", req.Currency)
	assert.Equal(t, "https://pokemyheart.com/checkout/success?session_id={CHECKOUT_SESSION_ID}", req.SuccessURL)
	assert.Equal(t, "https://pokemyheart.com/cart", req.CancelURL)
	assert.Equal(t, []string{"US"}, req.ShippingCountries)
	assert.Empty(t, req.IdempotencyKey)

	require.Len(t, req.LineItems, 3)
	first := req.LineItems[0]
	assert.Equal(t, "Poke My Heart Card", first.Name)
	assert.Equal(t, int64(2395), first.UnitAmount)
	assert.Equal(t, int64(2), first.Quantity)
	assert.Equal(t, "https://pokemyheart.com/images/charizard.png", first.Image)
	assert.Equal(t, map[string]string{
		"design_id":   "design-7",
		"design_name": "Charizard Crush",
		"bundle_id":   "card-only",
		"bundle_name": "Card Only",
		"bundle_sku":  "PMH-CARD",
	}, first.Metadata)
	assert.Empty(t, req.LineItems[1].Image)

	require.Len(t, req.ShippingOptions, 2)
	assert.Equal(t, int64(0), req.ShippingOptions[0].Amount)
	assert.Equal(t, "Free Standard Shipping", req.ShippingOptions[0].DisplayName)
	assert.Equal(t, DefaultPricingRules.ExpressShipping, req.ShippingOptions[1].Amount)

	assert.Equal(t, map[string]string{
		MetaItemCount:        "4",
		MetaSubtotal:         "12180",
		MetaShippingCost:     "0",
		MetaTotal:            "12180",
		MetaFreeShipping:     "true",
		MetaBundleQuantities: "card-only:3,deluxe:1",
	}, req.Metadata)
}

func TestSessionBuilder_StandardShippingBelowThreshold(t *testing.T) {
	b := NewSessionBuilder("https://pokemyheart.com", "usd", DefaultPricingRules)
	cart := &models.Cart{Lines: []models.CartLine{{BundleID: "card-only", Price: 2395, Quantity: 1}}}

	req := b.Build(cart, DefaultPricingRules.Calculate(cart.Lines))

	assert.Equal(t, "Standard Shipping", req.ShippingOptions[0].DisplayName)
	assert.Equal(t, int64(495), req.ShippingOptions[0].Amount)
	assert.Equal(t, "2890", req.Metadata[MetaTotal])
	assert.Equal(t, "false", req.Metadata[MetaFreeShipping])
}

func TestSessionBuilder_IdempotencyKey(t *testing.T) {
	b := NewSessionBuilder("https://pokemyheart.com", "usd", DefaultPricingRules)
	cart := sampleCart()
	cart.RequestID = "6f9619ff-8b86-d011-b42d-00c04fc964ff"

	req := b.Build(cart, DefaultPricingRules.Calculate(cart.Lines))
	assert.Equal(t, "checkout-6f9619ff-8b86-d011-b42d-00c04fc964ff", req.IdempotencyKey)
}

func TestParseBundleQuantities(t *testing.T) {
	got, err := ParseBundleQuantities(FormatBundleQuantities(sampleCart().Lines))
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"card-only": 3, "deluxe": 1}, got)

	empty, err := ParseBundleQuantities("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, bad := range []string{"card-only", ":2", "card-only:x", "card-only:0", "card-only:-1", "a:1,"} {
		_, err := ParseBundleQuantities(bad)
		assert.Error(t, err, bad)
	}
}
