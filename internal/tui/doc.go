// Package tui implements the terminal slide viewer using Bubbletea.
//
// The viewer has two screens:
//
//   - PickerModel: finds presentation servers over mDNS and lets the user
//     pick one or type an address
//   - Model: shows the deck, the page caption, the embedded view of Command
//     pages and a mirror of the remote terminal stream
//
// # Event loop
//
// The navigation controller is single-threaded. Loop implements its
// dispatcher on top of the Bubbletea update loop: fetches run on their own
// goroutines and their completions come back as messages, so every state
// change happens inside Update. Stream traffic arrives the same way through
// a Feed.
//
// # Input
//
//	→ / l / left click      next line or page
//	← / h / right click     previous line or page
//	r / enter               run the command of a Command page
//	a                       toggle auto-refresh
//	+ / -                   change the refresh interval
//	g                       go to a slide by number
//	pgup / pgdn             scroll the terminal mirror
//	q                       quit
//
// Clicks on the controls bar, the caption and the terminal pane do not
// turn the page.
//
// # Usage
//
//	feed := tui.NewFeed()
//	m := tui.New(ctx, tui.Options{Catalog: client, Feed: feed})
//	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
//	_, err := p.Run()
package tui
