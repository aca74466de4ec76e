package stream

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultPath is the stream endpoint served next to the page endpoints.
const DefaultPath = "/ws"

// EndpointURL derives the websocket URL for a presentation server base URL:
// http becomes ws, https becomes wss, and path replaces the base path.
func EndpointURL(serverURL, path string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL %q: %w", serverURL, err)
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q in server URL", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("server URL %q has no host", serverURL)
	}

	if path == "" {
		path = DefaultPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u.Path = path
	u.RawQuery = ""
	u.Fragment = ""

	return u.String(), nil
}
