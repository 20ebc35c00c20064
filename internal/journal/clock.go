package journal

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Clock hands out strictly increasing seq numbers within a run.
type Clock interface {
	Next() int64
}

// LogicalClock is the production Clock.
//
// Thread-safety: safe for concurrent use (atomic operations). Actions that
// complete concurrently each get a distinct seq.
type LogicalClock struct {
	seq atomic.Int64
}

// NewLogicalClock returns a clock whose first Next is 1.
func NewLogicalClock() *LogicalClock {
	return &LogicalClock{}
}

// Next returns the next sequence number.
func (c *LogicalClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last sequence number handed out.
func (c *LogicalClock) Current() int64 {
	return c.seq.Load()
}

// RunIDGenerator names runs.
type RunIDGenerator interface {
	NewRunID() string
}

// UUIDv7Generator generates time-sortable run ids, so runs list in start order.
type UUIDv7Generator struct{}

// NewRunID returns a new UUIDv7 string.
// Panics if the random source fails, which only happens when the system is broken.
func (UUIDv7Generator) NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}
