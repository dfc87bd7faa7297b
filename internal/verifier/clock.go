package verifier

import "sync/atomic"

// Clock is a monotonic logical clock for ordering interaction results.
//
// Every InteractionResult is stamped with a strictly increasing seq
// number so the history store and trace output preserve contract order
// without relying on wall-clock timestamps.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations),
// though the verifier's single-threaded design means only one goroutine
// typically calls Next().
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
// Calls are linearizable - each call returns a unique, increasing value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
