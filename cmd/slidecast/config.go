package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/muurk/slidecast/internal/config"
	"github.com/muurk/slidecast/internal/ui"
)

var forceInit bool

func init() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the slidecast configuration",
	Long: `Manage the slidecast configuration file.

Settings are read from the config file, then from SLIDECAST_* environment
variables (for example SLIDECAST_SERVER, SLIDECAST_RETRY_CAP), then from
command-line flags.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := ui.NewPrinter(cmd.OutOrStdout())

		path, err := config.WriteDefault(configPath, forceInit)
		if err != nil {
			p.PrintError("Config not written", err, []string{"Use --force to overwrite an existing file"})
			return err
		}
		p.PrintSuccess("Config written", ui.Field{Key: "Path", Value: path})
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}

		source := cfg.Path
		if source == "" {
			source = "(defaults and environment)"
		}

		p := ui.NewPrinter(cmd.OutOrStdout())
		p.PrintHeader("Configuration", "slidecast config show", ui.Field{Key: "Source", Value: source})
		p.Newline()
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}
