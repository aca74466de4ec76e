// Slidecast is a terminal viewer for slide decks served over HTTP.
//
// It steps through the pages of a presentation server (text revealed line
// by line, code blocks, images and live command output) and mirrors the
// presenter's terminal session from the server's websocket stream.
//
// Usage:
//
//	slidecast [server-url] [flags]
//
// Running without a subcommand opens the viewer.
// See 'slidecast --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/slidecast/internal/config"
	"github.com/muurk/slidecast/internal/logging"
	"github.com/muurk/slidecast/internal/version"
)

// logFileName is used for viewer logs when logging is on but no file is set
const logFileName = "slidecast.log"

// Global flags
var (
	configPath string
	logLevel   string
	logFile    string

	// cfg is loaded before any command runs
	cfg *config.Config
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "slidecast [server-url]",
	Short: "Terminal viewer for slidecast presentations",
	Long: `A terminal viewer for slide decks served by a slidecast server.

Step through text, code, image and command pages with the arrow keys or the
mouse, and follow the presenter's terminal in the pane below the slides.

If no command is specified, the viewer opens against --server.`,
	Args:              cobra.MaximumNArgs(1),
	Version:           version.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runView,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/slidecast/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); silent when unset")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(versionCmd)
}

// setup loads the configuration and starts logging. Flags win over the
// config file and the environment.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile = logFile
	}

	opts := logging.Options{Level: cfg.LogLevel, File: cfg.LogFile}
	if cmd.Parent() == nil && opts.File == "" {
		// The viewer owns the terminal; keep logs out of it.
		if dir, err := config.GetConfigDir(); err == nil && os.MkdirAll(dir, 0o700) == nil {
			opts.File = filepath.Join(dir, logFileName)
		}
	}
	if err := logging.InitializeWithOptions(opts); err != nil {
		return err
	}

	logging.Debug("Configuration loaded")
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
	},
}
