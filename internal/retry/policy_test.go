package retry

import (
	"testing"
	"time"
)

func zeroRand() float64 { return 0 }

func TestNextDelay_Schedule(t *testing.T) {
	p := New(1000*time.Millisecond, 30000*time.Millisecond, 2, 0.3)
	p.Rand = zeroRand

	want := []time.Duration{1000, 2000, 4000, 8000, 16000, 30000, 30000, 30000}
	for i, w := range want {
		if got := p.NextDelay(); got != w*time.Millisecond {
			t.Errorf("delay[%d] = %v, want %v", i, got, w*time.Millisecond)
		}
	}
}

func TestNextDelay_JitterBounds(t *testing.T) {
	tests := []struct {
		name string
		r    float64
	}{
		{"no jitter", 0},
		{"half jitter", 0.5},
		{"near max jitter", 0.999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Default()
			p.Rand = func() float64 { return tt.r }

			for i := 0; i < 10; i++ {
				base := p.Current()
				got := p.NextDelay()
				upper := base + time.Duration(float64(base)*p.JitterFraction)
				if got < base || got > upper {
					t.Fatalf("delay[%d] = %v, want within [%v, %v]", i, got, base, upper)
				}
			}
		})
	}
}

func TestNextDelay_DefaultRandWithinBounds(t *testing.T) {
	p := Default()
	for i := 0; i < 100; i++ {
		base := p.Current()
		got := p.NextDelay()
		if got < base || got > base+time.Duration(float64(base)*DefaultJitterFraction) {
			t.Fatalf("delay[%d] = %v outside jitter window of %v", i, got, base)
		}
	}
}

func TestReset(t *testing.T) {
	p := Default()
	p.Rand = zeroRand

	for i := 0; i < 4; i++ {
		p.NextDelay()
	}
	if p.Current() != 16*time.Second {
		t.Fatalf("Current() after 4 delays = %v, want 16s", p.Current())
	}

	p.Reset()
	if got := p.NextDelay(); got != DefaultBase {
		t.Errorf("NextDelay() after Reset = %v, want %v", got, DefaultBase)
	}
}

func TestCurrent_ZeroValuePolicy(t *testing.T) {
	p := &Policy{Base: time.Second, Cap: 4 * time.Second, Multiplier: 2}
	p.Rand = zeroRand

	if got := p.NextDelay(); got != time.Second {
		t.Errorf("first delay = %v, want 1s", got)
	}
	if got := p.Current(); got != 2*time.Second {
		t.Errorf("Current() = %v, want 2s", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		policy  *Policy
		wantErr bool
	}{
		{"default", Default(), false},
		{"zero base", New(0, time.Second, 2, 0.3), true},
		{"cap below base", New(2*time.Second, time.Second, 2, 0.3), true},
		{"shrinking multiplier", New(time.Second, 2*time.Second, 0.5, 0.3), true},
		{"negative jitter", New(time.Second, 2*time.Second, 2, -0.1), true},
		{"jitter above one", New(time.Second, 2*time.Second, 2, 1.5), true},
		{"constant delay", New(time.Second, time.Second, 1, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
