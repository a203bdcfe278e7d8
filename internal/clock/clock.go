// Package clock provides the time source for audit and recalibration runs.
//
// Workflows never read the wall clock directly. They receive a Clock and ask
// it for Today, so a run can be replayed for any as-of date and tests stay
// deterministic without patching time globally.
package clock

import (
	"sync"
	"time"

	"github.com/roach88/calibra/internal/caldate"
)

// Clock yields the current calendar date.
type Clock interface {
	Today() caldate.Date
}

// System reads the wall clock in the local time zone.
type System struct{}

// Today returns the local calendar date.
func (System) Today() caldate.Date {
	return caldate.Of(time.Now())
}

// Fixed is a Clock pinned to one date until moved.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Fixed struct {
	mu    sync.Mutex
	today caldate.Date
}

// NewFixed returns a Clock that reports d until Set or Advance is called.
func NewFixed(d caldate.Date) *Fixed {
	return &Fixed{today: d}
}

// Today returns the pinned date.
func (c *Fixed) Today() caldate.Date {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.today
}

// Set moves the clock to d.
func (c *Fixed) Set(d caldate.Date) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.today = d
}

// Advance moves the clock forward by days (backward when negative).
func (c *Fixed) Advance(days int) caldate.Date {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.today = c.today.AddDays(days)
	return c.today
}
