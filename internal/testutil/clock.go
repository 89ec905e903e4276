package testutil

import (
	"sync/atomic"
	"time"
)

// Epoch is where every new Clock starts.
var Epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// Clock is a manual time source. Its Now method can be passed wherever a
// func() time.Time is accepted, such as auth.NewVerifier.
type Clock struct {
	offset atomic.Int64 // nanoseconds since Epoch
}

// NewClock returns a Clock reading Epoch.
func NewClock() *Clock {
	return &Clock{}
}

func (c *Clock) Now() time.Time {
	return Epoch.Add(time.Duration(c.offset.Load()))
}

// Advance moves the clock by d, which may be negative.
func (c *Clock) Advance(d time.Duration) {
	c.offset.Add(int64(d))
}

func (c *Clock) Set(t time.Time) {
	c.offset.Store(int64(t.Sub(Epoch)))
}
