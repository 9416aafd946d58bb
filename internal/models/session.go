package models

// SessionLineItem is one provider line item, built from a validated cart line.
type SessionLineItem struct {
	Name        string
	Description string
	UnitAmount  int64
	Quantity    int64
	Image       string
	Metadata    map[string]string
}

// ShippingOption is a fixed-amount shipping rate offered on the hosted page.
type ShippingOption struct {
	DisplayName string
	Amount      int64
	MinDays     int64
	MaxDays     int64
}

// SessionRequest is the provider-facing checkout session payload.
// It is built once per request and discarded after the provider call.
type SessionRequest struct {
	Currency          string
	LineItems         []SessionLineItem
	ShippingOptions   []ShippingOption
	ShippingCountries []string
	SuccessURL        string
	CancelURL         string
	Metadata          map[string]string
	IdempotencyKey    string
}

// CompletedCheckout is what the provider reports once a hosted checkout is paid.
type CompletedCheckout struct {
	SessionID    string
	Email        string
	Name         string
	Currency     string
	Subtotal     int64
	ShippingCost int64
	Total        int64
	Paid         bool
	Metadata     map[string]string
}
