// Package logging provides structured logging for slidecast.
//
// This package wraps a global zap logger with convenience functions for the
// logging patterns used by the viewer, the page catalog and the stream client.
//
// # Log Levels
//
//   - Debug: Stream payloads, discarded stale responses, fetch timings
//   - Info: Connection events, reconnect scheduling, page transitions
//   - Warn: Recoverable issues (caption fetch failed, interval rejected)
//   - Error: Catalog bootstrap and page content failures
//
// # Silent By Default
//
// Nothing is logged unless a level is given via --log-level or the
// SLIDECAST_LOG_LEVEL environment variable. The viewer owns the terminal,
// so interactive sessions should direct output to a file:
//
//	if err := logging.InitializeWithOptions(logging.Options{
//	    Level: "debug",
//	    File:  "/tmp/slidecast.log",
//	}); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Specialized Logging
//
//	logging.LogConnection(url, "open")
//	logging.LogReconnectScheduled(url, delay, attempt)
//	logging.LogWebSocketMessage(url, "received", msgType, payload)
//	logging.LogFetch("/pages/3", 200, elapsed, nil)
package logging
