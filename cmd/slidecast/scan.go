package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/slidecast/internal/discovery"
	"github.com/muurk/slidecast/internal/logging"
	"github.com/muurk/slidecast/internal/ui"
)

var scanTimeout int

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", int(discovery.DefaultScanTimeout/time.Second), "Scan timeout in seconds")
	rootCmd.AddCommand(scanCmd)
}

// scanCmd discovers presentation servers on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for presentation servers on the network",
	Long: `Scan for slidecast servers using mDNS/DNS-SD discovery.

Servers advertise themselves as ` + discovery.ServiceType + `. Each one is listed with
the URL to pass to 'slidecast --server'.`,
	Example: `  # Scan for 5 seconds (default)
  slidecast scan

  # Longer scan for busy networks
  slidecast scan --timeout 15

  # Open a listed server by its name
  slidecast --server "Go Tour"`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	if scanTimeout <= 0 {
		return fmt.Errorf("--timeout must be positive, got %d", scanTimeout)
	}
	timeout := time.Duration(scanTimeout) * time.Second

	p := ui.NewPrinter(cmd.OutOrStdout())
	p.PrintHeader("Server scan", "slidecast scan",
		ui.Field{Key: "Service", Value: discovery.ServiceType},
		ui.Field{Key: "Timeout", Value: timeout.String()},
	)
	p.Newline()

	scanner := discovery.NewScanner()
	scanner.Timeout = timeout

	servers, err := scanner.Scan(cmd.Context())
	if err != nil {
		p.PrintError("Scan failed", err, []string{
			"Check that multicast traffic is allowed on this network",
			"Pass the address directly with --server",
		})
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(servers) == 0 {
		p.PrintWarning("No servers found", []string{
			"Ensure the presentation server is running and advertising over mDNS",
			"Check that you are on the same network as the presenter",
			"Try a longer --timeout",
			"Pass the address directly with --server",
		})
		return nil
	}

	p.PrintList(serverItems(servers))
	p.PrintSuccess(fmt.Sprintf("Found %d server(s)", len(servers)),
		ui.Field{Key: "Open with", Value: "slidecast --server <url|name>"},
	)
	return nil
}

func serverItems(servers []*discovery.Server) []ui.Item {
	items := make([]ui.Item, len(servers))
	for i, s := range servers {
		fields := []ui.Field{
			{Key: "URL", Value: s.BaseURL()},
			{Key: "Host", Value: strings.TrimSuffix(s.Hostname, ".")},
		}
		if n := s.PageCount(); n >= 0 {
			fields = append(fields, ui.Field{Key: "Slides", Value: strconv.Itoa(n)})
		}
		if path := s.StreamPath(); path != "" {
			fields = append(fields, ui.Field{Key: "Stream", Value: path})
		}
		items[i] = ui.Item{Title: s.Instance, Fields: fields}
	}
	return items
}

// findServer looks up a server by its advertised instance name.
var findServer = func(ctx context.Context, instance string) (*discovery.Server, error) {
	return discovery.NewScanner().Find(ctx, instance)
}

// resolveServer turns a --server given as an mDNS instance name into the
// server's URL. It returns nil when cfg.Server is already a URL.
func resolveServer(ctx context.Context) (*discovery.Server, error) {
	if cfg.Server == "" || strings.Contains(cfg.Server, "://") {
		return nil, nil
	}
	server, err := findServer(ctx, cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("cannot find server %q on the network: %w", cfg.Server, err)
	}
	logging.Info("Resolved server by name",
		zap.String("instance", server.Instance),
		zap.String("url", server.BaseURL()))
	cfg.Server = server.BaseURL()
	return server, nil
}
