// Package refresh periodically reloads the embedded view of a Command page.
package refresh

import (
	"fmt"
	"time"

	"github.com/muurk/slidecast/internal/clock"
	"github.com/muurk/slidecast/internal/logging"
	"go.uber.org/zap"
)

// DefaultIntervalSeconds is the polling period used until the user picks another.
const DefaultIntervalSeconds = 5

// Poster hands a callback to the event loop. Timer callbacks fire on the
// clock's goroutine and are posted back so every state change happens on
// the loop.
type Poster func(fn func())

// Timer re-triggers a reload every interval while enabled.
//
// Enable, Disable and the posted ticks must all run on the same event loop.
// Each Enable starts a new generation; a tick from an older generation is
// ignored, so at most one schedule is ever live.
type Timer struct {
	clock  clock.Clock
	post   Poster
	reload func()

	enabled  bool
	interval time.Duration
	gen      uint64
	handle   clock.Timer
}

// New creates a disabled timer. reload runs on the loop once per tick.
func New(c clock.Clock, post Poster, reload func()) *Timer {
	return &Timer{
		clock:  c,
		post:   post,
		reload: reload,
	}
}

// Enable cancels any running schedule and starts a new one that reloads
// every seconds. The first reload happens one full interval from now.
func (t *Timer) Enable(seconds int) error {
	if seconds <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %d", seconds)
	}

	t.Disable()

	t.enabled = true
	t.interval = time.Duration(seconds) * time.Second
	t.schedule(t.gen)

	logging.Debug("Auto-refresh enabled", zap.Int("interval_seconds", seconds))
	return nil
}

// Disable cancels the schedule. Safe to call when already disabled.
func (t *Timer) Disable() {
	if t.handle != nil {
		t.handle.Stop()
		t.handle = nil
	}
	if t.enabled {
		logging.Debug("Auto-refresh disabled")
	}
	t.enabled = false
	t.gen++
}

// Enabled reports whether a schedule is live.
func (t *Timer) Enabled() bool {
	return t.enabled
}

// Interval returns the current period, or zero when disabled.
func (t *Timer) Interval() time.Duration {
	if !t.enabled {
		return 0
	}
	return t.interval
}

func (t *Timer) schedule(gen uint64) {
	t.handle = t.clock.AfterFunc(t.interval, func() {
		t.post(func() { t.fire(gen) })
	})
}

func (t *Timer) fire(gen uint64) {
	if !t.enabled || gen != t.gen {
		return
	}
	t.reload()
	t.schedule(gen)
}
