package models

import "time"

// OrderStatus is the fulfilment state of a paid order
type OrderStatus string

const (
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusFulfilled OrderStatus = "fulfilled"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPaid:      {OrderStatusFulfilled, OrderStatusCancelled},
	OrderStatusFulfilled: {OrderStatusShipped},
}

// CanTransitionTo reports whether an order may move from s to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsValid reports whether s is a known status.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPaid, OrderStatusFulfilled, OrderStatusShipped, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is recorded once the payment provider reports a completed checkout.
type Order struct {
	ID           string           `json:"id"`
	SessionID    string           `json:"sessionId"`
	Email        string           `json:"email,omitempty"`
	Name         string           `json:"name,omitempty"`
	Items        map[string]int64 `json:"items"` // bundleId -> quantity
	Subtotal     int64            `json:"subtotal"`
	ShippingCost int64            `json:"shippingCost"`
	Total        int64            `json:"total"`
	Currency     string           `json:"currency"`
	Status       OrderStatus      `json:"status"`
	StockIssues  []string         `json:"stockIssues,omitempty"` // bundles whose stock was not taken
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// UpdateOrderRequest is the body of PATCH /api/admin/orders/{orderId}
type UpdateOrderRequest struct {
	Status OrderStatus `json:"status"`
}
