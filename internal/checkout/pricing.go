package checkout

import "github.com/athenareborn/pokemyheart-store/internal/models"

// PricingRules holds the shipping constants, in cents.
type PricingRules struct {
	FreeShippingThreshold int64
	StandardShipping      int64
	ExpressShipping       int64
}

// DefaultPricingRules are the storefront's shipping rates.
var DefaultPricingRules = PricingRules{
	FreeShippingThreshold: 3500,
	StandardShipping:      495,
	ExpressShipping:       1295,
}

// Calculate prices already-validated lines. A subtotal equal to the threshold
// qualifies for free shipping.
func (r PricingRules) Calculate(lines []models.CartLine) models.Pricing {
	var subtotal int64
	for _, line := range lines {
		subtotal += line.Price * line.Quantity
	}

	qualifies := subtotal >= r.FreeShippingThreshold
	shipping := r.StandardShipping
	if qualifies {
		shipping = 0
	}

	return models.Pricing{
		Subtotal:                 subtotal,
		ShippingCost:             shipping,
		Total:                    subtotal + shipping,
		QualifiesForFreeShipping: qualifies,
	}
}
