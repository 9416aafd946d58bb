package checkout

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/athenareborn/pokemyheart-store/internal/models"
)

// Metadata keys shared with the webhook reconciliation.
const (
	MetaItemCount        = "item_count"
	MetaSubtotal         = "subtotal"
	MetaShippingCost     = "shipping_cost"
	MetaTotal            = "total"
	MetaFreeShipping     = "free_shipping"
	MetaBundleQuantities = "bundle_quantities"
)

// SessionBuilder assembles the provider payload. Redirect URLs come only from
// the configured site URL, never from the request.
type SessionBuilder struct {
	successURL string
	cancelURL  string
	currency   string
	rules      PricingRules
	countries  []string
}

// NewSessionBuilder creates a builder for the given storefront origin.
func NewSessionBuilder(siteURL, currency string, rules PricingRules) *SessionBuilder {
	base := strings.TrimRight(siteURL, "/")
	return &SessionBuilder{
		successURL: base + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		cancelURL:  base + "/cart",
		currency:   currency,
		rules:      rules,
		countries:  []string{"US"},
	}
}

// Build creates the session request for a validated cart and its pricing.
func (b *SessionBuilder) Build(cart *models.Cart, pricing models.Pricing) models.SessionRequest {
	items := make([]models.SessionLineItem, 0, len(cart.Lines))
	var units int64
	for _, line := range cart.Lines {
		units += line.Quantity
		items = append(items, models.SessionLineItem{
			Name:        line.Name,
			Description: line.Description,
			UnitAmount:  line.Price,
			Quantity:    line.Quantity,
			Image:       line.Image,
			Metadata: map[string]string{
				"design_id":   line.DesignID,
				"design_name": line.DesignName,
				"bundle_id":   line.BundleID,
				"bundle_name": line.BundleName,
				"bundle_sku":  line.BundleSKU,
			},
		})
	}

	req := models.SessionRequest{
		Currency:  b.currency,
		LineItems: items,
		ShippingOptions: []models.ShippingOption{
			{DisplayName: standardShippingName(pricing), Amount: pricing.ShippingCost, MinDays: 5, MaxDays: 7},
			{DisplayName: "Express Shipping", Amount: b.rules.ExpressShipping, MinDays: 1, MaxDays: 3},
		},
		ShippingCountries: b.countries,
		SuccessURL:        b.successURL,
		CancelURL:         b.cancelURL,
		Metadata: map[string]string{
			MetaItemCount:        strconv.FormatInt(units, 10),
			MetaSubtotal:         strconv.FormatInt(pricing.Subtotal, 10),
			MetaShippingCost:     strconv.FormatInt(pricing.ShippingCost, 10),
			MetaTotal:            strconv.FormatInt(pricing.Total, 10),
			MetaFreeShipping:     strconv.FormatBool(pricing.QualifiesForFreeShipping),
			MetaBundleQuantities: FormatBundleQuantities(cart.Lines),
		},
	}

	if cart.RequestID != "" {
		req.IdempotencyKey = "checkout-" + cart.RequestID
	}

	return req
}

func standardShippingName(pricing models.Pricing) string {
	if pricing.QualifiesForFreeShipping {
		return "Free Standard Shipping"
	}
	return "Standard Shipping"
}

// FormatBundleQuantities aggregates quantities per bundle as
// "bundleA:2,bundleB:1", sorted by bundle id.
func FormatBundleQuantities(lines []models.CartLine) string {
	totals := make(map[string]int64)
	for _, line := range lines {
		totals[line.BundleID] += line.Quantity
	}

	ids := make([]string, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id+":"+strconv.FormatInt(totals[id], 10))
	}
	return strings.Join(parts, ",")
}

// ParseBundleQuantities is the inverse of FormatBundleQuantities.
func ParseBundleQuantities(s string) (map[string]int64, error) {
	result := make(map[string]int64)
	if s == "" {
		return result, nil
	}
	for _, part := range strings.Split(s, ",") {
		id, qty, ok := strings.Cut(part, ":")
		if !ok || id == "" {
			return nil, fmt.Errorf("malformed bundle quantity %q", part)
		}
		n, err := strconv.ParseInt(qty, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("malformed bundle quantity %q", part)
		}
		result[id] += n
	}
	return result, nil
}
