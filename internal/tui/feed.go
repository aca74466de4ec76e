package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/slidecast/internal/stream"
)

type streamDataMsg []byte

type streamEventMsg stream.Event

// Feed carries stream traffic into the update loop. Wire OnData and OnEvent
// into a stream.Client; the model reads them back through Next.
//
// OnData blocks until the message is taken, which keeps messages in wire
// order and applies backpressure to the reader goroutine.
type Feed struct {
	data   chan []byte
	events chan stream.Event
	done   chan struct{}
	once   sync.Once
}

// NewFeed creates an open feed.
func NewFeed() *Feed {
	return &Feed{
		data:   make(chan []byte),
		events: make(chan stream.Event, 8),
		done:   make(chan struct{}),
	}
}

// OnData hands one inbound message to the viewer.
func (f *Feed) OnData(b []byte) {
	cp := make([]byte, len(b))
	copy(cp, b)
	select {
	case f.data <- cp:
	case <-f.done:
	}
}

// OnEvent hands a connection state change to the viewer.
func (f *Feed) OnEvent(ev stream.Event) {
	select {
	case f.events <- ev:
	case <-f.done:
	}
}

// Next waits for the next message or state change.
func (f *Feed) Next() tea.Cmd {
	return func() tea.Msg {
		select {
		case b := <-f.data:
			return streamDataMsg(b)
		case ev := <-f.events:
			return streamEventMsg(ev)
		case <-f.done:
			return nil
		}
	}
}

// Close releases any blocked sender.
func (f *Feed) Close() {
	f.once.Do(func() { close(f.done) })
}
