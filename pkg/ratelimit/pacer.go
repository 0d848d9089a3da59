package ratelimit

import (
	"sync"
	"time"
)

// Pacer spaces successive operations apart in time
type Pacer interface {
	// Pace blocks until the next operation is allowed to start
	Pace()
	// Reset forgets the last operation time
	Reset()
}

// FixedInterval implements a pacer that enforces a minimum interval between
// successive calls. The first call never blocks.
type FixedInterval struct {
	interval time.Duration
	last     time.Time
	mu       sync.Mutex
}

// NewFixedInterval creates a new fixed-interval pacer
func NewFixedInterval(interval time.Duration) *FixedInterval {
	return &FixedInterval{
		interval: interval,
	}
}

// Pace blocks until at least the configured interval has elapsed since the
// previous call, then records the current time
func (p *FixedInterval) Pace() {
	p.mu.Lock()
	last := p.last
	p.mu.Unlock()

	if !last.IsZero() {
		if wait := p.interval - time.Since(last); wait > 0 {
			time.Sleep(wait)
		}
	}

	p.mu.Lock()
	p.last = time.Now()
	p.mu.Unlock()
}

// Reset forgets the last operation time so the next Pace returns immediately
func (p *FixedInterval) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.last = time.Time{}
}
