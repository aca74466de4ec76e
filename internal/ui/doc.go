// Package ui renders the output of the non-interactive slidecast commands
// (scan, pages, config show) with Lipgloss.
//
// Commands write through a Printer:
//
//	p := ui.NewPrinter(cmd.OutOrStdout())
//	p.PrintHeader("Server scan", "slidecast scan", ui.Field{Key: "Timeout", Value: "5s"})
//	p.PrintList(items)
//	p.PrintSuccess("Found 2 servers")
//
// Output width follows the terminal, clamped between MinTerminalWidth and
// MaxContentWidth.
//
// Logging is controlled by SLIDECAST_LOG_LEVEL. When unset, zap is silent
// and only this curated output is shown.
package ui
