package coupon

import "errors"

var (
	// ErrCouponNotFound is returned when no coupon matches the code.
	ErrCouponNotFound = errors.New("coupon.repository: coupon not found")

	// ErrUsageLimitReached is returned when the conditional increment finds
	// the usage limit already exhausted.
	ErrUsageLimitReached = errors.New("coupon.repository: usage limit reached")

	// ErrBuildQuery is returned when the SQL statement cannot be built.
	ErrBuildQuery = errors.New("coupon.repository: failed to build query")

	// ErrExecQuery is returned when the SQL statement fails to execute.
	ErrExecQuery = errors.New("coupon.repository: failed to execute query")

	// ErrScanRow is returned when a result row cannot be scanned.
	ErrScanRow = errors.New("coupon.repository: failed to scan row")
)
