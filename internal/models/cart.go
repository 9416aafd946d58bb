package models

// Cart is a validated checkout request body.
type Cart struct {
	Lines     []CartLine
	RequestID string // optional client-generated UUID, used as idempotency key
}

// CartLine is a validated cart line. Price always equals the catalog price of
// BundleID and Quantity is within the allowed range.
type CartLine struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Quantity    int64  `json:"quantity"`
	DesignID    string `json:"designId"`
	DesignName  string `json:"designName"`
	BundleID    string `json:"bundleId"`
	BundleName  string `json:"bundleName"`
	BundleSKU   string `json:"bundleSku"`
	Image       string `json:"image,omitempty"`
}

// Pricing is recomputed per request and never persisted.
type Pricing struct {
	Subtotal                 int64 `json:"subtotal"`
	ShippingCost             int64 `json:"shippingCost"`
	Total                    int64 `json:"total"`
	QualifiesForFreeShipping bool  `json:"qualifiesForFreeShipping"`
}

// CheckoutResult is returned to the storefront after a session is created.
type CheckoutResult struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}
