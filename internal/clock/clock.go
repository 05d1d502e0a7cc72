// Package clock provides the wall-clock capability used for event expiry.
package clock

import "time"

// Clock returns the current wall-clock time.
type Clock interface {
	Now() time.Time
}

// TimeProvider provides the real system time
type TimeProvider struct{}

// NewTimeProvider creates a new real-time provider
func NewTimeProvider() *TimeProvider {
	return &TimeProvider{}
}

// Now returns the current time
func (p *TimeProvider) Now() time.Time {
	return time.Now()
}

// NowMs returns c.Now() in unix milliseconds.
func NowMs(c Clock) int64 {
	return c.Now().UnixMilli()
}
