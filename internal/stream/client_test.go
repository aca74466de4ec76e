package stream

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/muurk/slidecast/internal/clock"
	"github.com/muurk/slidecast/internal/retry"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// mockServer is a stream endpoint whose behaviour tests can switch at runtime.
type mockServer struct {
	*httptest.Server

	reject   atomic.Bool
	dials    atomic.Int32
	active   atomic.Int32
	messages []string

	mu    sync.Mutex
	conns []*websocket.Conn
}

func newMockServer(t *testing.T, messages ...string) *mockServer {
	t.Helper()
	s := &mockServer{messages: messages}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.dials.Add(1)
		if s.reject.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Upgrade() error = %v", err)
			return
		}
		s.mu.Lock()
		s.conns = append(s.conns, conn)
		s.mu.Unlock()

		s.active.Add(1)
		defer s.active.Add(-1)

		for _, m := range s.messages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
				return
			}
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *mockServer) wsURL() string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

// dropAll closes every server-side connection abruptly.
func (s *mockServer) dropAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		_ = c.Close()
	}
	s.conns = nil
}

type harness struct {
	client *Client
	clock  *clock.Fake
	events chan Event

	mu   sync.Mutex
	data []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		clock:  clock.NewFake(time.Unix(0, 0)),
		events: make(chan Event, 64),
	}
	h.client = NewClient(func(data []byte) {
		h.mu.Lock()
		h.data = append(h.data, string(data))
		h.mu.Unlock()
	})
	h.client.Clock = h.clock
	h.client.Policy.Rand = func() float64 { return 0 }
	h.client.OnEvent = func(ev Event) { h.events <- ev }
	t.Cleanup(func() { _ = h.client.Close() })
	return h
}

func (h *harness) waitFor(t *testing.T, state State) Event {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case ev := <-h.events:
			if ev.State == state {
				return ev
			}
		case <-timeout:
			t.Fatalf("timed out waiting for state %v (client is %v)", state, h.client.State())
			return Event{}
		}
	}
}

func (h *harness) received() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.data))
	copy(out, h.data)
	return out
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestConnect_DeliversInOrder(t *testing.T) {
	var messages []string
	for i := 0; i < 200; i++ {
		messages = append(messages, fmt.Sprintf("chunk-%03d", i))
	}
	server := newMockServer(t, messages...)
	h := newHarness(t)

	h.client.Connect(server.wsURL())
	h.waitFor(t, StateOpen)

	eventually(t, "all messages", func() bool { return len(h.received()) == len(messages) })

	got := h.received()
	for i := range messages {
		if got[i] != messages[i] {
			t.Fatalf("message[%d] = %q, want %q", i, got[i], messages[i])
		}
	}
}

func TestConnect_ClosesPreviousConnection(t *testing.T) {
	server := newMockServer(t)
	h := newHarness(t)

	h.client.Connect(server.wsURL())
	h.waitFor(t, StateOpen)
	eventually(t, "first connection", func() bool { return server.active.Load() == 1 })

	h.client.Connect(server.wsURL())
	h.waitFor(t, StateOpen)

	eventually(t, "single live connection", func() bool {
		return server.dials.Load() == 2 && server.active.Load() == 1
	})
}

func TestBackoff_EscalatesAndResetsOnOpen(t *testing.T) {
	server := newMockServer(t)
	server.reject.Store(true)
	h := newHarness(t)

	h.client.Connect(server.wsURL())

	want := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}
	for i, w := range want {
		ev := h.waitFor(t, StateReconnecting)
		if ev.Delay != w {
			t.Fatalf("escalation %d delay = %v, want %v", i+1, ev.Delay, w)
		}
		if ev.Attempt != i+1 {
			t.Errorf("escalation %d attempt = %d", i+1, ev.Attempt)
		}
		if i < len(want)-1 {
			h.clock.Advance(ev.Delay)
		}
	}

	// Server recovers; the pending reconnect succeeds.
	server.reject.Store(false)
	h.clock.Advance(8 * time.Second)
	h.waitFor(t, StateOpen)
	eventually(t, "server connection", func() bool { return server.active.Load() == 1 })

	// The next loss starts over from the base delay.
	server.dropAll()
	ev := h.waitFor(t, StateReconnecting)
	if ev.Delay != retry.DefaultBase {
		t.Errorf("delay after successful open = %v, want %v", ev.Delay, retry.DefaultBase)
	}
}

func TestReconnect_AfterServerClose(t *testing.T) {
	server := newMockServer(t, "before")
	h := newHarness(t)

	h.client.Connect(server.wsURL())
	h.waitFor(t, StateOpen)
	eventually(t, "first message", func() bool { return len(h.received()) == 1 })

	server.dropAll()
	ev := h.waitFor(t, StateReconnecting)
	if ev.Err == nil {
		t.Error("reconnect event should carry the read error")
	}

	h.clock.Advance(ev.Delay)
	h.waitFor(t, StateOpen)
	eventually(t, "message after reconnect", func() bool { return len(h.received()) == 2 })

	if server.dials.Load() != 2 {
		t.Errorf("dials = %d, want 2", server.dials.Load())
	}
}

func TestClose_CancelsPendingReconnect(t *testing.T) {
	server := newMockServer(t)
	server.reject.Store(true)
	h := newHarness(t)

	h.client.Connect(server.wsURL())
	h.waitFor(t, StateReconnecting)
	if h.clock.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1 scheduled reconnect", h.clock.Pending())
	}

	if err := h.client.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if h.clock.Pending() != 0 {
		t.Errorf("Pending() = %d after Close, want 0", h.clock.Pending())
	}

	server.reject.Store(false)
	h.clock.Advance(time.Minute)
	time.Sleep(50 * time.Millisecond)

	if server.dials.Load() != 1 {
		t.Errorf("dials = %d, closed client must not reconnect", server.dials.Load())
	}
	if h.client.State() != StateClosed {
		t.Errorf("State() = %v, want closed", h.client.State())
	}
}

func TestReconnect_StaleSessionIgnored(t *testing.T) {
	server := newMockServer(t)
	h := newHarness(t)

	h.client.mu.Lock()
	stale := h.client.session
	h.client.mu.Unlock()

	h.client.Connect(server.wsURL())
	h.waitFor(t, StateOpen)

	// A reconnect callback from before Connect fires late.
	h.client.reconnect(stale)
	time.Sleep(50 * time.Millisecond)

	if server.dials.Load() != 1 {
		t.Errorf("dials = %d, stale reconnect must not dial", server.dials.Load())
	}
	if h.client.State() != StateOpen {
		t.Errorf("State() = %v, want open", h.client.State())
	}
}

func TestClose_ClosesConnection(t *testing.T) {
	server := newMockServer(t)
	h := newHarness(t)

	h.client.Connect(server.wsURL())
	h.waitFor(t, StateOpen)
	eventually(t, "server connection", func() bool { return server.active.Load() == 1 })

	_ = h.client.Close()
	eventually(t, "server sees close", func() bool { return server.active.Load() == 0 })

	if h.clock.Pending() != 0 {
		t.Errorf("Pending() = %d, intentional close must not schedule a reconnect", h.clock.Pending())
	}

	// Closing twice is harmless.
	if err := h.client.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestClose_NoDeliveryAfterReturn(t *testing.T) {
	server := newMockServer(t, "one", "two", "three")
	h := newHarness(t)

	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	h.client.OnData = func(data []byte) {
		h.mu.Lock()
		h.data = append(h.data, string(data))
		h.mu.Unlock()
		if string(data) == "one" {
			entered <- struct{}{}
			<-release
		}
	}

	h.client.Connect(server.wsURL())
	select {
	case <-entered:
	case <-time.After(3 * time.Second):
		t.Fatal("first message never delivered")
	}

	closed := make(chan struct{})
	go func() {
		_ = h.client.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned while a delivery was in progress")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-closed:
	case <-time.After(3 * time.Second):
		t.Fatal("Close did not return after the delivery finished")
	}

	time.Sleep(50 * time.Millisecond)
	if got := h.received(); len(got) != 1 || got[0] != "one" {
		t.Errorf("received = %v, want only the message in flight at Close", got)
	}
}

func TestState_String(t *testing.T) {
	tests := map[State]string{
		StateIdle:         "idle",
		StateConnecting:   "connecting",
		StateOpen:         "open",
		StateReconnecting: "reconnecting",
		StateClosed:       "closed",
		State(42):         "unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}
