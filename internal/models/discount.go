package models

import "time"

// Discount is a percentage-off code managed from the admin back-office.
type Discount struct {
	Code       string     `json:"code"`
	PercentOff int64      `json:"percentOff"`
	Active     bool       `json:"active"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
}

// Usable reports whether the discount can be applied at the given time.
func (d Discount) Usable(now time.Time) bool {
	if !d.Active {
		return false
	}
	return d.ExpiresAt == nil || now.Before(*d.ExpiresAt)
}

// ValidateDiscountRequest is the body of POST /api/discounts/validate
type ValidateDiscountRequest struct {
	Code string `json:"code"`
}
