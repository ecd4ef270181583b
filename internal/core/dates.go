package core

import (
	"fmt"
	"time"
)

// Wire formats shared by every backend and interchange format.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// Date is a calendar date without a time component.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day (UTC midnight).
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("%w: date %q (want %s)", ErrFormat, s, DateLayout)
	}
	return Date{Time: t}, nil
}

// FormatDate is the exact inverse of ParseDate.
func FormatDate(d Date) string {
	return d.Format(DateLayout)
}

// ParseDateTime parses a "YYYY-MM-DD HH:MM:SS" string.
func ParseDateTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateTimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: datetime %q (want %s)", ErrFormat, s, DateTimeLayout)
	}
	return t, nil
}

// FormatDateTime is the exact inverse of ParseDateTime.
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}

// ParseDateTimeOrNow applies the lenient created_at policy: a blank or
// unparseable timestamp is substituted with the current time instead of
// failing the record.
func ParseDateTimeOrNow(s string) time.Time {
	t, err := ParseDateTime(s)
	if err != nil {
		return time.Now().UTC().Truncate(time.Second)
	}
	return t
}

// Before reports whether d falls strictly before other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d falls strictly after other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// Equal reports calendar equality.
func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

func (d Date) String() string {
	return FormatDate(d)
}
