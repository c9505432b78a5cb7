package get_availability

import "time"

// Request carries the calendar range query.
type Request struct {
	EstablishmentID int64
	ServiceID       int64
	From            time.Time
	To              time.Time
}

// Day is the status of a single calendar date.
type Day struct {
	Date   time.Time
	Status string
}

// Response lists the status of every day in the requested range, in order.
type Response struct {
	EstablishmentID int64
	ServiceID       int64
	Days            []Day
}
