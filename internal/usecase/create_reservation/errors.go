package create_reservation

import "errors"

var (
	ErrEstablishmentNotFound = errors.New("establishment not found")
	ErrServiceNotFound       = errors.New("service not found")
	ErrServiceInactive       = errors.New("service is inactive")
	ErrSlotInPast            = errors.New("slot is in the past")
	ErrSlotBlocked           = errors.New("slot is blocked")
	ErrSlotClosed            = errors.New("establishment is closed at this time")
	ErrSlotFull              = errors.New("slot capacity is exhausted")
	ErrDateOutsideWindow     = errors.New("date is outside the booking window")
	ErrSlotMisaligned        = errors.New("slot start is not aligned to the schedule")
	ErrCouponRejected        = errors.New("coupon rejected")
	ErrInvalidInput          = errors.New("invalid input data")
	ErrInternal              = errors.New("internal error")
)
