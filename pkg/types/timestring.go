package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// Format is the wall-clock format used for slot times (HH:MM).
const Format = "15:04"

// ErrInvalidTimeString is returned when a string cannot be parsed as HH:MM.
var ErrInvalidTimeString = errors.New("types: invalid time string format")

// TimeString represents a wall-clock time of day without a date ("10:30").
// It is stored in the database as a TIME column and serialized to JSON as a
// plain string.
type TimeString string

// NewTimeString creates a TimeString from the wall-clock part of t.
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(Format))
}

// NewTimeStringFromString parses an "HH:MM" string into a TimeString.
func NewTimeStringFromString(s string) (TimeString, error) {
	t, err := time.Parse(Format, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return NewTimeString(t), nil
}

// String returns the "HH:MM" representation.
func (ts TimeString) String() string {
	return string(ts)
}

// Minutes returns the number of minutes since midnight.
func (ts TimeString) Minutes() (int, error) {
	t, err := time.Parse(Format, string(ts))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(ts))
	}
	return t.Hour()*60 + t.Minute(), nil
}

// AddMinutes returns a new TimeString shifted forward by the given number of
// minutes. The result wraps within a single day.
func (ts TimeString) AddMinutes(minutes int) (TimeString, error) {
	t, err := time.Parse(Format, string(ts))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, string(ts))
	}
	return NewTimeString(t.Add(time.Duration(minutes) * time.Minute)), nil
}

// IsBefore reports whether ts is strictly earlier than other.
// Invalid values compare lexicographically, which matches HH:MM ordering.
func (ts TimeString) IsBefore(other TimeString) bool {
	return string(ts) < string(other)
}

// IsAfter reports whether ts is strictly later than other.
func (ts TimeString) IsAfter(other TimeString) bool {
	return string(ts) > string(other)
}

// At anchors the wall-clock time onto the given date in the given location,
// producing an absolute instant.
func (ts TimeString) At(date time.Time, loc *time.Location) (time.Time, error) {
	minutes, err := ts.Minutes()
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, loc), nil
}

// Value implements driver.Valuer.
func (ts TimeString) Value() (driver.Value, error) {
	return string(ts), nil
}

// Scan implements sql.Scanner. Accepts TIME columns returned as string,
// []byte or time.Time.
func (ts *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*ts = ""
		return nil
	case string:
		return ts.scanString(v)
	case []byte:
		return ts.scanString(string(v))
	case time.Time:
		*ts = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported source type %T", ErrInvalidTimeString, src)
	}
}

func (ts *TimeString) scanString(s string) error {
	// TIME columns come back as "10:30:00"; trim the seconds part.
	if len(s) > len(Format) {
		s = s[:len(Format)]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
