// Package stream mirrors a remote terminal session over a websocket.
//
// # Lifecycle
//
//	Idle -> Connecting -> Open -> Reconnecting -> Connecting -> ... -> Closed
//
// The client holds at most one live connection. A connection that closes or
// fails schedules a reconnect after the retry policy's next delay; a
// successful open resets the policy to its base delay. There is no retry
// limit. Only Close is terminal.
//
// # Sessions
//
// Every Connect and Close increments a session counter. Dial results,
// reader exits and reconnect timers carry the session they were started in
// and do nothing once it is no longer current, so a stale reconnect can
// never revive a client that was intentionally closed.
//
// # Delivery
//
// Each connection has one reader goroutine which hands messages to OnData
// in wire order, without coalescing.
package stream
