package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// loopQueueSize bounds completions waiting for the update loop.
const loopQueueSize = 64

// loopMsg carries a completion into Update.
type loopMsg struct {
	fn func()
}

// Loop is the navigation dispatcher backed by the bubbletea update loop.
// Work runs on its own goroutine; the completion it returns is queued and
// run inside Update, so the controller is only ever touched from there.
type Loop struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once
}

// NewLoop creates an open loop.
func NewLoop() *Loop {
	return &Loop{
		queue: make(chan func(), loopQueueSize),
		done:  make(chan struct{}),
	}
}

// Go runs work off the loop and queues its completion.
func (l *Loop) Go(work func() func()) {
	go func() {
		if fn := work(); fn != nil {
			l.Post(fn)
		}
	}()
}

// Post queues fn to run on the loop. After Close it is dropped.
// Must not be called from the loop itself while the queue is full.
func (l *Loop) Post(fn func()) {
	select {
	case <-l.done:
		return
	default:
	}
	select {
	case l.queue <- fn:
	case <-l.done:
	}
}

// Next waits for the next queued completion. Update re-arms it after every
// loopMsg. It yields nil once the loop is closed.
func (l *Loop) Next() tea.Cmd {
	return func() tea.Msg {
		select {
		case fn := <-l.queue:
			return loopMsg{fn: fn}
		case <-l.done:
			return nil
		}
	}
}

// Close stops delivery. Pending completions are discarded.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.done) })
}
