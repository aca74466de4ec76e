// Package retry computes reconnect delays for the stream client.
//
// Delays grow multiplicatively from Base up to Cap. Each delay actually
// waited is the current delay plus a random fraction of it, so clients
// reconnecting to a recovered server spread out instead of arriving together.
package retry

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	// DefaultBase is the first reconnect delay after a successful open
	DefaultBase = 1000 * time.Millisecond

	// DefaultCap is the maximum un-jittered reconnect delay
	DefaultCap = 30000 * time.Millisecond

	// DefaultMultiplier is the growth factor applied after every closure
	DefaultMultiplier = 2.0

	// DefaultJitterFraction is the maximum extra delay, as a fraction of the current delay
	DefaultJitterFraction = 0.3
)

// Policy holds the backoff schedule and the delay to use next.
// It is not safe for concurrent use; the stream client guards it.
type Policy struct {
	Base           time.Duration
	Cap            time.Duration
	Multiplier     float64
	JitterFraction float64

	// Rand returns a value in [0,1). Defaults to math/rand/v2.
	Rand func() float64

	delay time.Duration
}

// New creates a policy with the given schedule, starting at base.
func New(base, cap time.Duration, multiplier, jitterFraction float64) *Policy {
	return &Policy{
		Base:           base,
		Cap:            cap,
		Multiplier:     multiplier,
		JitterFraction: jitterFraction,
		delay:          base,
	}
}

// Default returns the schedule used by the stream client when none is configured.
func Default() *Policy {
	return New(DefaultBase, DefaultCap, DefaultMultiplier, DefaultJitterFraction)
}

// Validate reports whether the schedule is usable.
func (p *Policy) Validate() error {
	if p.Base <= 0 {
		return fmt.Errorf("retry base must be positive, got %v", p.Base)
	}
	if p.Cap < p.Base {
		return fmt.Errorf("retry cap %v is below base %v", p.Cap, p.Base)
	}
	if p.Multiplier < 1 {
		return fmt.Errorf("retry multiplier must be at least 1, got %v", p.Multiplier)
	}
	if p.JitterFraction < 0 || p.JitterFraction > 1 {
		return fmt.Errorf("retry jitter must be within [0,1], got %v", p.JitterFraction)
	}
	return nil
}

// Current returns the un-jittered delay the next NextDelay call is based on.
func (p *Policy) Current() time.Duration {
	if p.delay == 0 {
		return p.Base
	}
	return p.delay
}

// NextDelay returns the delay to wait now and advances the schedule.
func (p *Policy) NextDelay() time.Duration {
	d := p.Current()

	r := p.Rand
	if r == nil {
		r = rand.Float64
	}
	wait := d + time.Duration(float64(d)*p.JitterFraction*r())

	next := time.Duration(float64(d) * p.Multiplier)
	if next > p.Cap {
		next = p.Cap
	}
	p.delay = next

	return wait
}

// Reset returns the schedule to Base. Called on every successful open.
func (p *Policy) Reset() {
	p.delay = p.Base
}
