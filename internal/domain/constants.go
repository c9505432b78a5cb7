package domain

import "math"

// Default configuration values applied when the settings snapshot leaves a
// field unset.
const (
	DefaultSlotGranularityMinutes = 30
	DefaultSlotsPerHour           = 1
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses are the appointment statuses that count toward slot
// capacity. Used when counting occupancy.
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusStarted,
	StatusCompleted,
}

// TerminalPaymentStatuses are payment statuses that admit no further
// transition. Status-gated updates only apply when the current status is
// outside this set.
var TerminalPaymentStatuses = []PaymentStatus{
	PaymentPaid,
	PaymentRejected,
	PaymentExpired,
}

// RoundMoney rounds a monetary amount to two decimal places.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
