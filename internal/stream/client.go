package stream

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/muurk/slidecast/internal/clock"
	"github.com/muurk/slidecast/internal/logging"
	"github.com/muurk/slidecast/internal/retry"
	"go.uber.org/zap"
)

const (
	// Time allowed to complete the websocket handshake
	handshakeTimeout = 10 * time.Second

	// Time allowed to write the close frame on teardown
	closeWait = time.Second
)

// State is the lifecycle state of the client.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateReconnecting
	StateClosed
)

// String returns a human-readable name for the state
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateReconnecting:
		return "reconnecting"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Event reports a state change. Delay is set when a reconnect is scheduled,
// Err when the change was caused by a dial or read failure.
type Event struct {
	State   State
	Delay   time.Duration
	Attempt int
	Err     error
}

// Client keeps a single websocket open to a stream endpoint and feeds every
// inbound message to OnData in arrival order.
//
// Losing the connection, whether by a clean close or an error, schedules a
// reconnect after the retry policy's next delay. Attempts continue until
// Close. Every Connect and Close starts a new session; callbacks belonging
// to an older session do nothing.
type Client struct {
	// Dialer opens connections. Defaults to a dialer with a 10s handshake timeout.
	Dialer *websocket.Dialer

	// Policy computes reconnect delays. Reset on Connect and on every successful open.
	Policy *retry.Policy

	// Clock schedules reconnects.
	Clock clock.Clock

	// OnData receives each inbound message. Called from the connection's
	// reader goroutine, one message at a time. It must not call Connect or
	// Close, which wait for a delivery in progress to return.
	OnData func(data []byte)

	// OnEvent, if set, is notified of state changes.
	OnEvent func(Event)

	// delivering is held across the session check and OnData, so once
	// Connect or Close returns no message from the old session arrives.
	delivering sync.Mutex

	mu         sync.Mutex
	url        string
	session    uint64
	state      State
	conn       *websocket.Conn
	timer      clock.Timer
	cancelDial context.CancelFunc
	attempts   int
}

// NewClient creates an idle client delivering inbound messages to onData.
func NewClient(onData func(data []byte)) *Client {
	return &Client{
		Dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeTimeout,
		},
		Policy: retry.Default(),
		Clock:  clock.Real(),
		OnData: onData,
	}
}

// State returns the current lifecycle state
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// URL returns the endpoint of the current session
func (c *Client) URL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.url
}

// Connect closes any open connection and starts a new session against url.
// It does not wait for the connection to open.
func (c *Client) Connect(url string) {
	c.mu.Lock()
	c.teardownLocked()
	c.session++
	session := c.session
	c.url = url
	c.attempts = 0
	c.Policy.Reset()
	c.state = StateConnecting
	c.mu.Unlock()
	c.awaitDelivery()

	logging.LogConnection(url, "connecting")
	c.notify(Event{State: StateConnecting})

	go c.dial(session)
}

// Close tears down the connection and cancels any pending reconnect.
// The client stays closed until the next Connect.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return nil
	}
	c.teardownLocked()
	c.session++
	c.state = StateClosed
	url := c.url
	c.mu.Unlock()
	c.awaitDelivery()

	logging.LogConnection(url, "closed")
	c.notify(Event{State: StateClosed})
	return nil
}

// Run connects to url and closes the client when ctx is done.
func (c *Client) Run(ctx context.Context, url string) error {
	c.Connect(url)
	<-ctx.Done()
	return c.Close()
}

// teardownLocked releases the live connection, the in-flight dial and the
// pending reconnect timer. Caller holds c.mu.
func (c *Client) teardownLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancelDial != nil {
		c.cancelDial()
		c.cancelDial = nil
	}
	if c.conn != nil {
		_ = c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(closeWait),
		)
		_ = c.conn.Close()
		c.conn = nil
	}
}

// dial opens a connection for session and then reads from it until it is lost.
func (c *Client) dial(session uint64) {
	c.mu.Lock()
	if session != c.session {
		c.mu.Unlock()
		return
	}
	url := c.url
	ctx, cancel := context.WithCancel(context.Background())
	c.cancelDial = cancel
	c.mu.Unlock()

	conn, _, err := c.Dialer.DialContext(ctx, url, nil)
	cancel()

	c.mu.Lock()
	if session != c.session {
		c.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		return
	}
	c.cancelDial = nil

	if err != nil {
		ev := c.scheduleReconnectLocked(session, err)
		c.mu.Unlock()
		logging.LogConnection(url, "dial_failed", zap.Error(err))
		c.notify(ev)
		return
	}

	c.conn = conn
	c.state = StateOpen
	c.attempts = 0
	c.Policy.Reset()
	c.mu.Unlock()

	logging.LogConnection(url, "open")
	c.notify(Event{State: StateOpen})

	c.readLoop(session, conn, url)
}

func (c *Client) readLoop(session uint64, conn *websocket.Conn, url string) {
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			c.lost(session, conn, err)
			return
		}
		if !c.deliver(session, conn, url, msgType, data) {
			return
		}
	}
}

// deliver hands one message to OnData if conn still belongs to the live
// session.
func (c *Client) deliver(session uint64, conn *websocket.Conn, url string, msgType int, data []byte) bool {
	c.delivering.Lock()
	defer c.delivering.Unlock()
	if !c.current(session, conn) {
		return false
	}
	logging.LogWebSocketMessage(url, "received", msgType, data)
	if c.OnData != nil {
		c.OnData(data)
	}
	return true
}

// awaitDelivery waits out a delivery that passed its session check before
// the session changed.
func (c *Client) awaitDelivery() {
	c.delivering.Lock()
	c.delivering.Unlock() //nolint:staticcheck // empty critical section waits for deliver
}

func (c *Client) current(session uint64, conn *websocket.Conn) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return session == c.session && c.conn == conn
}

// lost handles a connection that stopped reading. Close frames and errors
// are treated the same way.
func (c *Client) lost(session uint64, conn *websocket.Conn, err error) {
	c.mu.Lock()
	if session != c.session || c.conn != conn {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	_ = conn.Close()
	url := c.url
	ev := c.scheduleReconnectLocked(session, err)
	c.mu.Unlock()

	if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		logging.Warn("Stream closed unexpectedly", zap.String("url", url), zap.Error(err))
	} else {
		logging.LogConnection(url, "lost", zap.Error(err))
	}
	c.notify(ev)
}

// scheduleReconnectLocked arms the reconnect timer. Caller holds c.mu.
func (c *Client) scheduleReconnectLocked(session uint64, cause error) Event {
	delay := c.Policy.NextDelay()
	c.attempts++
	c.state = StateReconnecting
	c.timer = c.Clock.AfterFunc(delay, func() { c.reconnect(session) })

	logging.LogReconnectScheduled(c.url, delay, c.attempts)
	return Event{State: StateReconnecting, Delay: delay, Attempt: c.attempts, Err: cause}
}

func (c *Client) reconnect(session uint64) {
	c.mu.Lock()
	if session != c.session {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.state = StateConnecting
	attempt := c.attempts
	c.mu.Unlock()

	c.notify(Event{State: StateConnecting, Attempt: attempt})
	go c.dial(session)
}

func (c *Client) notify(ev Event) {
	if c.OnEvent != nil {
		c.OnEvent(ev)
	}
}
