package navigation

import (
	"context"
	"fmt"
	"time"

	"github.com/muurk/slidecast/internal/catalog"
	"github.com/muurk/slidecast/internal/clock"
	"github.com/muurk/slidecast/internal/logging"
	"github.com/muurk/slidecast/internal/refresh"
	"github.com/muurk/slidecast/internal/reveal"
	"go.uber.org/zap"
)

// Catalog is the page server as seen by the controller.
type Catalog interface {
	FetchAll(ctx context.Context) ([]catalog.Page, error)
	FetchContent(ctx context.Context, index int) (*catalog.Content, error)
	FetchFragment(ctx context.Context, index int) (string, error)
	FetchLabel(ctx context.Context, index int) (string, error)
}

// View renders the controller's state. All methods are called on the loop.
type View interface {
	// ShowText replaces the slide body with the revealed part of a Text page.
	ShowText(text string)
	// ShowMarkup replaces the slide body with a Code or Image fragment.
	ShowMarkup(pageType catalog.PageType, markup string)
	// ShowCommand replaces the slide body with an empty embedded-view container.
	ShowCommand(index int)
	// LoadEmbedded fills the embedded view with a rendered fragment.
	LoadEmbedded(fragment string)
	// TeardownEmbedded removes the embedded view and its content.
	TeardownEmbedded()
	// SetCaption shows the page label. Empty clears it.
	SetCaption(label string)
	// SetPosition shows the committed page index out of count.
	SetPosition(index, count int)
	// SetRefresh shows the auto-refresh controls.
	SetRefresh(enabled bool, interval time.Duration)
}

// Dispatcher is the event loop the controller lives on.
type Dispatcher interface {
	// Go runs work off the loop, then runs the completion it returns on the loop.
	Go(work func() func())
	// Post runs fn on the loop.
	Post(fn func())
}

// State is the navigation position. Index is the committed page, the one
// whose content is on screen.
type State struct {
	Index     int
	Direction reveal.Direction
	Reveal    reveal.State
}

// Controller drives navigation through the deck. Except for construction,
// every method must be called on the dispatcher's loop.
type Controller struct {
	catalog  Catalog
	view     View
	dispatch Dispatcher
	refresh  *refresh.Timer

	ctx       context.Context
	pages     []catalog.Page
	state     State
	committed bool
	interval  int

	// jumping is set while a fetch for another page is outstanding. The
	// committed page is on its way out, so its Command keys are refused.
	jumping bool

	// seq is the fetch token. Every navigation action bumps it and every
	// completion checks it.
	seq uint64

	// labelSeq tags caption fetches. It changes only on commit, so reveal
	// steps do not drop a pending caption.
	labelSeq uint64
}

// NewController creates a controller with an empty deck. Call Start to load it.
func NewController(cat Catalog, view View, d Dispatcher, c clock.Clock) *Controller {
	ctrl := &Controller{
		catalog:  cat,
		view:     view,
		dispatch: d,
		ctx:      context.Background(),
		interval: refresh.DefaultIntervalSeconds,
	}
	ctrl.refresh = refresh.New(c, d.Post, ctrl.loadEmbedded)
	return ctrl
}

// Start fetches the page catalog and enters the first page moving forward.
// A failed fetch is logged and leaves the deck empty; it is not retried.
func (c *Controller) Start(ctx context.Context) {
	c.ctx = ctx
	c.view.SetRefresh(false, c.intervalDuration())

	c.dispatch.Go(func() func() {
		pages, err := c.catalog.FetchAll(ctx)
		return func() {
			if err != nil {
				logging.Error("Cannot start without a page catalog", zap.Error(err))
				return
			}
			c.pages = pages
			if len(pages) == 0 {
				logging.Warn("Page catalog is empty")
				return
			}
			c.jump(0, reveal.Forward)
		}
	})
}

// Stop cancels auto-refresh and discards every in-flight fetch.
func (c *Controller) Stop() {
	c.refresh.Disable()
	c.jumping = false
	c.seq++
	c.labelSeq++
}

// State returns the current position.
func (c *Controller) State() State {
	return c.state
}

// Pages returns the loaded catalog.
func (c *Controller) Pages() []catalog.Page {
	out := make([]catalog.Page, len(c.pages))
	copy(out, c.pages)
	return out
}

// Ready reports whether a page has been committed.
func (c *Controller) Ready() bool {
	return c.committed
}

// Current returns the committed page. ok is false before the first commit.
func (c *Controller) Current() (page catalog.Page, ok bool) {
	if !c.committed {
		return catalog.Page{}, false
	}
	return c.pages[c.state.Index], true
}

// RefreshEnabled reports whether the current Command page auto-refreshes.
func (c *Controller) RefreshEnabled() bool {
	return c.refresh.Enabled()
}

// Interval returns the auto-refresh period in seconds.
func (c *Controller) Interval() int {
	return c.interval
}

// Handle reacts to one input. Pointer input whose target lies inside a
// control region is ignored. It reports whether the input was acted on.
func (c *Controller) Handle(in Input, target *Region) bool {
	if in.IsPointer() && target.InControl() {
		logging.Debug("Pointer input on control region ignored",
			zap.Stringer("input", in),
			zap.String("region", target.Name))
		return false
	}

	switch in {
	case PointerPrimary, KeyRight:
		return c.step(reveal.Forward)
	case PointerSecondary, KeyLeft:
		return c.step(reveal.Backward)
	case KeyRun:
		if !c.onCommand() {
			return false
		}
		c.loadEmbedded()
		return true
	case KeyToggleRefresh:
		if !c.onCommand() {
			return false
		}
		c.toggleRefresh()
		return true
	default:
		return false
	}
}

// Select jumps directly to page index, as the page selector does. The page
// is entered moving forward.
func (c *Controller) Select(index int) error {
	if index < 0 || index >= len(c.pages) {
		return catalog.NewOutOfRangeError(index, len(c.pages))
	}
	c.jump(index, reveal.Forward)
	return nil
}

// SetInterval changes the auto-refresh period. A running schedule restarts
// with the new period.
func (c *Controller) SetInterval(seconds int) error {
	if seconds <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %d", seconds)
	}
	c.interval = seconds
	if c.refresh.Enabled() {
		if err := c.refresh.Enable(seconds); err != nil {
			return err
		}
	}
	c.view.SetRefresh(c.refresh.Enabled(), c.intervalDuration())
	return nil
}

// step moves one unit in dir: a line of the current Text page if it has one
// left, otherwise a whole page. Steps past either end of the deck do nothing.
func (c *Controller) step(dir reveal.Direction) bool {
	if len(c.pages) == 0 {
		return false
	}
	if !c.committed {
		// Nothing on screen yet, so the first page failed to load. Try again.
		c.jump(0, reveal.Forward)
		return true
	}

	if c.pages[c.state.Index].Type == catalog.Text {
		var (
			next reveal.State
			ok   bool
		)
		if dir == reveal.Forward {
			next, ok = c.state.Reveal.Forward()
		} else {
			next, ok = c.state.Reveal.Backward()
		}
		if ok {
			// A pending jump is superseded by the latest input.
			c.seq++
			c.jumping = false
			c.state.Reveal = next
			c.state.Direction = dir
			c.view.ShowText(next.Text())
			return true
		}
	}

	target := c.state.Index + 1
	if dir == reveal.Backward {
		target = c.state.Index - 1
	}
	if target < 0 || target >= len(c.pages) {
		return false
	}
	c.jump(target, dir)
	return true
}

// jump leaves the current page and starts entering page i.
func (c *Controller) jump(i int, dir reveal.Direction) {
	c.refresh.Disable()
	c.view.SetRefresh(false, c.intervalDuration())
	c.view.TeardownEmbedded()

	c.seq++
	token := c.seq
	page := c.pages[i]

	logging.Debug("Entering page",
		zap.Int("index", i),
		zap.Stringer("type", page.Type),
		zap.Stringer("direction", dir))

	if page.Type == catalog.Command {
		c.jumping = false
		c.commit(i, dir, reveal.State{})
		c.view.ShowCommand(i)
		return
	}

	c.jumping = true
	c.dispatch.Go(func() func() {
		content, err := c.catalog.FetchContent(c.ctx, i)
		return func() {
			if token != c.seq {
				logging.Debug("Discarding stale page content", zap.Int("index", i))
				return
			}
			c.jumping = false
			if err != nil {
				logging.Error("Failed to load page, staying on current page",
					zap.Int("index", i),
					zap.Error(err))
				return
			}
			c.apply(i, dir, page.Type, content)
		}
	})
}

func (c *Controller) apply(i int, dir reveal.Direction, pageType catalog.PageType, content *catalog.Content) {
	switch pageType {
	case catalog.Code, catalog.Image:
		c.commit(i, dir, reveal.State{})
		c.view.ShowMarkup(pageType, content.Markup)
	case catalog.Command:
		// Command pages commit without a fetch.
	default:
		rs := reveal.Enter(content.Lines, dir)
		c.commit(i, dir, rs)
		c.view.ShowText(rs.Text())
	}
}

// commit makes page i current and requests its caption.
func (c *Controller) commit(i int, dir reveal.Direction, rs reveal.State) {
	c.state = State{Index: i, Direction: dir, Reveal: rs}
	c.committed = true
	if c.pages[i].Type != catalog.Command {
		c.refresh.Disable()
		c.view.SetRefresh(false, c.intervalDuration())
	}
	c.view.SetPosition(i, len(c.pages))
	c.view.SetCaption("")

	c.labelSeq++
	token := c.labelSeq
	c.dispatch.Go(func() func() {
		label, err := c.catalog.FetchLabel(c.ctx, i)
		return func() {
			if token != c.labelSeq || c.state.Index != i {
				return
			}
			if err != nil {
				logging.Warn("Failed to load page caption",
					zap.Int("index", i),
					zap.Error(err))
				return
			}
			c.view.SetCaption(label)
		}
	})
}

// onCommand reports whether a Command page is on screen and staying there.
func (c *Controller) onCommand() bool {
	page, ok := c.Current()
	return ok && !c.jumping && page.Type == catalog.Command
}

// loadEmbedded fetches the current Command page's fragment into the
// embedded view. It is also the auto-refresh reload.
func (c *Controller) loadEmbedded() {
	if !c.onCommand() {
		return
	}
	i := c.state.Index
	token := c.seq

	c.dispatch.Go(func() func() {
		fragment, err := c.catalog.FetchFragment(c.ctx, i)
		return func() {
			if token != c.seq || c.state.Index != i {
				return
			}
			if err != nil {
				logging.Error("Failed to load embedded view",
					zap.Int("index", i),
					zap.Error(err))
				return
			}
			c.view.LoadEmbedded(fragment)
		}
	})
}

func (c *Controller) toggleRefresh() {
	if c.refresh.Enabled() {
		c.refresh.Disable()
	} else if err := c.refresh.Enable(c.interval); err != nil {
		logging.Error("Failed to enable auto-refresh", zap.Error(err))
	}
	c.view.SetRefresh(c.refresh.Enabled(), c.intervalDuration())
}

func (c *Controller) intervalDuration() time.Duration {
	return time.Duration(c.interval) * time.Second
}
