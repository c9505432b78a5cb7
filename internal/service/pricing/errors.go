package pricing

import "errors"

var (
	// ErrCouponNotFound is returned when the code does not exist for the
	// establishment.
	ErrCouponNotFound = errors.New("pricing: coupon not found")

	// ErrCouponInactive is returned when the coupon has been deactivated.
	ErrCouponInactive = errors.New("pricing: coupon is not active")

	// ErrCouponNotYetValid is returned before the validity window opens.
	ErrCouponNotYetValid = errors.New("pricing: coupon is not yet valid")

	// ErrCouponExpired is returned after the validity window closes.
	ErrCouponExpired = errors.New("pricing: coupon has expired")

	// ErrCouponExhausted is returned when the usage limit has been reached.
	ErrCouponExhausted = errors.New("pricing: coupon usage limit reached")

	// ErrInternal is returned on repository failures.
	ErrInternal = errors.New("pricing: internal error")
)
