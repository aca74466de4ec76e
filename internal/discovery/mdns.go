package discovery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"github.com/muurk/slidecast/internal/logging"
	"go.uber.org/zap"
)

const (
	// ServiceType is the mDNS service type presentation servers advertise
	ServiceType = "_slidecast._tcp"

	// ServiceDomain is the mDNS domain
	ServiceDomain = "local."

	// DefaultScanTimeout is how long a scan listens for answers
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is used when an entry carries no port
	DefaultPort = 80
)

// Scanner handles mDNS server discovery
type Scanner struct {
	// Timeout is the maximum time to wait for answers
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan listens for servers until the timeout elapses or ctx is done and
// returns every distinct server seen, sorted by instance name.
func (s *Scanner) Scan(ctx context.Context) ([]*Server, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	var (
		mu   sync.Mutex
		seen = make(map[string]*Server)
	)
	entries := make(chan *zeroconf.ServiceEntry)

	go func() {
		for entry := range entries {
			server := parseServiceEntry(entry)
			if server == nil {
				continue
			}
			logging.Debug("Discovered presentation server",
				zap.String("instance", server.Instance),
				zap.String("address", server.hostPort()))
			mu.Lock()
			seen[server.Instance+"@"+server.hostPort()] = server
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	mu.Lock()
	servers := collect(seen)
	mu.Unlock()

	logging.Info("mDNS scan finished", zap.Int("servers", len(servers)))
	return servers, nil
}

// Find waits for the server with the given instance name.
func (s *Scanner) Find(ctx context.Context, instance string) (*Server, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(chan *Server, 1)

	go func() {
		for entry := range entries {
			server := parseServiceEntry(entry)
			if server != nil && strings.EqualFold(server.Instance, instance) {
				select {
				case found <- server:
				default:
				}
				cancel()
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case server := <-found:
		return server, nil
	case <-ctx.Done():
		select {
		case server := <-found:
			return server, nil
		default:
		}
		return nil, fmt.Errorf("server %q not found within %s", instance, s.Timeout)
	}
}

// parseServiceEntry converts a zeroconf service entry to a Server.
// Returns nil if the entry has no usable address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Server {
	if entry == nil {
		return nil
	}

	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	instance := unescapeInstance(entry.Instance)
	if instance == "" {
		instance = strings.TrimSuffix(entry.HostName, ".")
	}
	if instance == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	// TXT records are in "key=value" format
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		if key != "" {
			metadata[key] = value
		}
	}

	return &Server{
		Instance:     instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// unescapeInstance undoes DNS-SD escaping of spaces and dots in instance names.
func unescapeInstance(s string) string {
	return strings.NewReplacer(`\ `, " ", `\.`, ".", `\\`, `\`).Replace(s)
}

func collect(seen map[string]*Server) []*Server {
	servers := make([]*Server, 0, len(seen))
	for _, s := range seen {
		servers = append(servers, s)
	}
	sort.Slice(servers, func(i, j int) bool {
		if servers[i].Instance == servers[j].Instance {
			return servers[i].hostPort() < servers[j].hostPort()
		}
		return servers[i].Instance < servers[j].Instance
	})
	return servers
}
