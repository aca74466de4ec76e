package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/slidecast/internal/catalog"
	"github.com/muurk/slidecast/internal/discovery"
	"github.com/muurk/slidecast/internal/logging"
	"github.com/muurk/slidecast/internal/stream"
	"github.com/muurk/slidecast/internal/tui"
)

// Viewer flags
var (
	serverURL  string
	streamPath string
	interval   int
	discover   bool
	noStream   bool
)

func init() {
	rootCmd.Flags().StringVarP(&serverURL, "server", "s", "", "Presentation server URL (default from config)")
	rootCmd.Flags().StringVar(&streamPath, "stream-path", "", "Websocket path of the terminal stream (default /ws)")
	rootCmd.Flags().IntVarP(&interval, "interval", "i", 0, "Auto-refresh interval in seconds for command pages")
	rootCmd.Flags().BoolVarP(&discover, "discover", "d", false, "Pick a server found on the local network")
	rootCmd.Flags().BoolVar(&noStream, "no-stream", false, "Do not connect to the terminal stream")
}

func runView(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.Server = serverURL
	}
	if len(args) == 1 {
		cfg.Server = args[0]
	}
	if flags.Changed("stream-path") {
		cfg.StreamPath = streamPath
	}
	if flags.Changed("interval") {
		cfg.RefreshInterval = interval
	}

	var server *discovery.Server
	if discover {
		picked, err := pickServer(cmd.Context())
		if err != nil {
			return err
		}
		if picked == nil {
			return nil
		}
		server = picked
		cfg.Server = server.BaseURL()
	} else {
		resolved, err := resolveServer(cmd.Context())
		if err != nil {
			return err
		}
		server = resolved
	}
	if server != nil {
		if p := server.StreamPath(); p != "" && !flags.Changed("stream-path") {
			cfg.StreamPath = p
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	return view(cmd.Context())
}

// view runs the viewer and the stream client until the user quits or ctx
// is cancelled. Either one stopping stops the other.
func view(parent context.Context) error {
	streamURL, err := cfg.StreamURL()
	if err != nil {
		return err
	}

	pages := catalog.NewClient(cfg.Server)
	pages.SetTimeout(cfg.RequestTimeout)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	var feed *tui.Feed
	if !noStream {
		feed = tui.NewFeed()
		client := stream.NewClient(feed.OnData)
		client.OnEvent = feed.OnEvent
		client.Policy = cfg.RetryPolicy()

		g.Go(func() error {
			return client.Run(gctx, streamURL)
		})
	}

	model := tui.New(gctx, tui.Options{
		Catalog:  pages,
		Feed:     feed,
		Interval: cfg.RefreshInterval,
		Title:    hostOf(cfg.Server),
	})

	logging.Info("Starting viewer",
		zap.String("server", cfg.Server),
		zap.String("stream", streamURL),
		zap.Bool("stream_enabled", feed != nil))

	g.Go(func() error {
		defer cancel()
		if feed != nil {
			defer feed.Close()
		}

		p := tea.NewProgram(model,
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
			tea.WithContext(gctx),
		)
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && parent.Err() != nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("viewer failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// pickServer runs the discovery picker. It returns nil if the user quit.
func pickServer(ctx context.Context) (*discovery.Server, error) {
	scanner := discovery.NewScanner()
	picker := tui.NewPickerModel(scanner.Scan, scanner.Timeout)

	final, err := tea.NewProgram(picker, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, fmt.Errorf("server picker failed: %w", err)
	}
	m, ok := final.(tui.PickerModel)
	if !ok {
		return nil, nil
	}
	return m.Selected(), nil
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}
