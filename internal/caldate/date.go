package caldate

import (
	"fmt"
	"time"
)

// ISOLayout is the time layout of the canonical representation.
const ISOLayout = "2006-01-02"

// Date is a calendar date without time of day or location.
// The zero value means "no date"; every date built by New, Of or a parser
// is valid, including 0001-01-01.
type Date struct {
	t     time.Time
	valid bool
}

// New returns the date for the given year, month and day.
// Out-of-range values are normalized the way time.Date does.
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), valid: true}
}

// Of returns the calendar date of t in t's own location.
func Of(t time.Time) Date {
	y, m, d := t.Date()
	return New(y, m, d)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return !d.valid
}

// String returns the canonical YYYY-MM-DD form, or "" for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(ISOLayout)
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	return d.t.Before(o.t)
}

// Equal reports whether d and o are the same calendar date.
func (d Date) Equal(o Date) bool {
	return d.valid == o.valid && d.t.Equal(o.t)
}

// AddDays returns d shifted by n days. n may be negative.
// The zero Date stays zero.
func (d Date) AddDays(n int) Date {
	if !d.valid {
		return d
	}
	return Date{t: d.t.AddDate(0, 0, n), valid: true}
}

// DaysSince returns the number of days from o to d.
func (d Date) DaysSince(o Date) int {
	return int(d.t.Sub(o.t).Hours() / 24)
}

// MarshalText implements encoding.TextMarshaler using the canonical form.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// Only the canonical form is accepted; use Parse for foreign formats.
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseCanonical(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseCanonical parses s strictly as YYYY-MM-DD with zero padding.
func ParseCanonical(s string) (Date, error) {
	if len(s) != len(ISOLayout) {
		return Date{}, &ParseError{Input: s}
	}
	t, err := time.Parse(ISOLayout, s)
	if err != nil {
		return Date{}, &ParseError{Input: s}
	}
	return Of(t), nil
}

// IsCanonical reports whether s is already in canonical form.
func IsCanonical(s string) bool {
	_, err := ParseCanonical(s)
	return err == nil
}

// MustParse is like ParseCanonical but panics on error.
// Intended for tests and package-level fixtures.
func MustParse(s string) Date {
	d, err := ParseCanonical(s)
	if err != nil {
		panic(fmt.Sprintf("caldate: MustParse(%q): %v", s, err))
	}
	return d
}
