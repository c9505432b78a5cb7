package domain

import "time"

// DiscountType determines how a coupon value is applied to the base price.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is a discount code scoped to one establishment. UsedCount is
// incremented at most once per appointment, and only once that appointment's
// payment requirement is satisfied.
type Coupon struct {
	ID              int64
	EstablishmentID int64
	Code            string
	DiscountType    DiscountType
	Value           float64
	ValidFrom       *time.Time
	ValidUntil      *time.Time
	UsageLimit      *int
	UsedCount       int
	Active          bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// InValidityWindow reports whether now falls inside the coupon's validity
// window. Unset bounds are open-ended.
func (c *Coupon) InValidityWindow(now time.Time) bool {
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return false
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return false
	}
	return true
}

// Exhausted reports whether the usage limit has been reached.
func (c *Coupon) Exhausted() bool {
	return c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit
}
