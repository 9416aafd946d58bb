package models

import (
	"testing"
	"time"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusPaid, OrderStatusFulfilled, true},
		{OrderStatusPaid, OrderStatusCancelled, true},
		{OrderStatusFulfilled, OrderStatusShipped, true},
		{OrderStatusPaid, OrderStatusShipped, false},
		{OrderStatusShipped, OrderStatusPaid, false},
		{OrderStatusCancelled, OrderStatusFulfilled, false},
		{OrderStatusFulfilled, OrderStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiscount_Usable(t *testing.T) {
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		d    Discount
		want bool
	}{
		{"active unlimited", Discount{Active: true}, true},
		{"inactive", Discount{Active: false}, false},
		{"expired", Discount{Active: true, ExpiresAt: &past}, false},
		{"expires exactly now", Discount{Active: true, ExpiresAt: &now}, false},
		{"not yet expired", Discount{Active: true, ExpiresAt: &future}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.Usable(now); got != tt.want {
				t.Errorf("Usable() = %v, want %v", got, tt.want)
			}
		})
	}
}
