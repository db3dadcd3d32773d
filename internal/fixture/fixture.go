// Package fixture holds sample types exercised by both inspection
// backends in tests. It deliberately imports nothing beyond the standard
// library so it loads fast under go/packages.
package fixture

import (
	"context"
	"time"
)

// Clock exposes one member of every calling convention the inspector
// classifies.
type Clock struct {
	zone string
}

// NewClock creates a clock in the local zone.
func NewClock() *Clock {
	return &Clock{zone: "Local"}
}

// ClockReset rewinds a clock to the zero time.
func ClockReset(c *Clock) {
	c.zone = ""
}

// Now reports the current time.
func (c *Clock) Now() time.Time {
	return time.Now()
}

// Sleep blocks until d elapses or ctx is cancelled.
func (c *Clock) Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Format renders the current time in the given layout.
func (c *Clock) Format(layout string) string {
	return time.Now().Format(layout)
}

func (c *Clock) secret() string {
	return c.zone
}

// Ticker is an interface target with a small member surface.
type Ticker interface {
	// Tick advances the ticker by one step.
	Tick(ctx context.Context) error
	// Interval reports the configured tick interval.
	Interval() time.Duration
}
