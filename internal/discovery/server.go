package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Server is a presentation server found on the network.
type Server struct {
	// Instance is the advertised instance name, normally the deck title
	Instance string

	// Hostname is the mDNS hostname (e.g., "studio.local.")
	Hostname string

	// IP is the address to connect to, IPv4 when one was advertised
	IP string

	// Port is the HTTP port
	Port int

	// Metadata holds the TXT records
	Metadata map[string]string

	DiscoveredAt time.Time
}

// String returns a human-readable description of the server
func (s *Server) String() string {
	return fmt.Sprintf("%s (%s) at %s", s.Instance, s.Hostname, s.hostPort())
}

// BaseURL returns the HTTP base URL of the page endpoints
func (s *Server) BaseURL() string {
	return "http://" + s.hostPort()
}

// StreamPath returns the advertised stream endpoint path, or "" when the
// server did not advertise one.
func (s *Server) StreamPath() string {
	return s.GetMetadata("stream")
}

// PageCount returns the advertised number of pages, or -1 if unknown.
func (s *Server) PageCount() int {
	n, err := strconv.Atoi(s.GetMetadata("pages"))
	if err != nil || n < 0 {
		return -1
	}
	return n
}

// GetMetadata retrieves a TXT value by key, or returns empty string if not found
func (s *Server) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}

func (s *Server) hostPort() string {
	return net.JoinHostPort(s.IP, strconv.Itoa(s.Port))
}
