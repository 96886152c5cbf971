package model

import (
	"fmt"
	"time"
)

// DateLayout is the wire format of a calendar date.
const DateLayout = "2006-01-02"

// Date is a calendar date in YYYY-MM-DD form. The zero value means "no date".
type Date string

// ParseDate validates s as a calendar date.
func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", &ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not a YYYY-MM-DD date", s)}
	}
	return Date(s), nil
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// IsZero reports whether d is unset.
func (d Date) IsZero() bool { return d == "" }

// String implements fmt.Stringer.
func (d Date) String() string { return string(d) }

// Time returns midnight UTC of d. Invalid dates yield the zero time.
func (d Date) Time() time.Time {
	t, _ := time.Parse(DateLayout, string(d))
	return t
}

// DaysSince returns the number of whole days from other to d
// (midnight to midnight). It is negative when d is before other.
func (d Date) DaysSince(other Date) int {
	return int(d.Time().Sub(other.Time()).Hours() / 24)
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}
