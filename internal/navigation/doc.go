// Package navigation implements the page-stepping state machine of the viewer.
//
// A Controller owns the current position in the deck, the reveal state of
// the current Text page and the auto-refresh timer of Command pages. It
// talks to the page server through a Catalog, renders through a View and
// runs all of its state changes on a single event loop provided by a
// Dispatcher:
//
//	ctrl := navigation.NewController(client, screen, loop, clock.Real())
//	ctrl.Start(ctx)
//	...
//	ctrl.Handle(navigation.KeyRight, nil)
//
// Network requests run off the loop. Their results come back to it as
// completions tagged with the fetch token that was current when they were
// issued; a completion whose token is no longer current is dropped, so a
// slow response for an abandoned page never reaches the screen.
//
// The position only changes once the new page's content has been applied.
// A failed fetch leaves the previous page in place.
package navigation
