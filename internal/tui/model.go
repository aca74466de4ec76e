package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/slidecast/internal/catalog"
	"github.com/muurk/slidecast/internal/clock"
	"github.com/muurk/slidecast/internal/logging"
	"github.com/muurk/slidecast/internal/navigation"
	"github.com/muurk/slidecast/internal/stream"
)

// Screen regions a click can land in. The controls bar, the caption and the
// terminal pane are controls; clicks there never turn the page.
var (
	regionViewer   = &navigation.Region{Name: "viewer"}
	regionControls = &navigation.Region{Name: "controls", Control: true, Parent: regionViewer}
	regionCaption  = &navigation.Region{Name: "caption", Parent: regionControls}
	regionSlide    = &navigation.Region{Name: "slide", Parent: regionViewer}
	regionTerminal = &navigation.Region{Name: "terminal", Control: true, Parent: regionViewer}
	regionFooter   = &navigation.Region{Name: "footer", Control: true, Parent: regionViewer}
)

// Options configures a viewer Model.
type Options struct {
	// Catalog serves the deck. Required.
	Catalog navigation.Catalog

	// Clock drives auto-refresh. Defaults to the real clock.
	Clock clock.Clock

	// Feed delivers the terminal stream. Nil hides the terminal pane.
	Feed *Feed

	// Mirror receives stream bytes. Defaults to a new mirror.
	Mirror *Mirror

	// Interval is the initial auto-refresh period in seconds. Zero keeps
	// the controller default.
	Interval int

	// Title is shown in the controls bar, normally the server address.
	Title string
}

// Model is the slide viewer.
type Model struct {
	ctx    context.Context
	ctrl   *navigation.Controller
	screen *Screen
	loop   *Loop
	feed   *Feed
	mirror *Mirror
	title  string

	width  int
	height int

	body    viewport.Model
	term    viewport.Model
	bodyGen uint64

	spinner spinner.Model
	help    help.Model
	keys    viewerKeyMap

	selector     textinput.Model
	selecting    bool
	selectorKeys selectorKeyMap
	notice       string

	streamState stream.State
	streamDelay time.Duration
}

// New creates a viewer. The deck is fetched when the program starts.
func New(ctx context.Context, opts Options) Model {
	c := opts.Clock
	if c == nil {
		c = clock.Real()
	}
	mirror := opts.Mirror
	if mirror == nil {
		mirror = NewMirror(0)
	}

	loop := NewLoop()
	screen := NewScreen()
	ctrl := navigation.NewController(opts.Catalog, screen, loop, c)
	if opts.Interval > 0 {
		if err := ctrl.SetInterval(opts.Interval); err != nil {
			logging.Warn("Ignoring refresh interval", zap.Int("interval", opts.Interval), zap.Error(err))
		}
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	selector := textinput.New()
	selector.Prompt = "Go to slide: "
	selector.CharLimit = 6
	selector.Width = 8

	width, height := GetTerminalSize()

	m := Model{
		ctx:          ctx,
		ctrl:         ctrl,
		screen:       screen,
		loop:         loop,
		feed:         opts.Feed,
		mirror:       mirror,
		title:        opts.Title,
		width:        width,
		height:       height,
		body:         viewport.New(width, 0),
		term:         viewport.New(width, 0),
		spinner:      s,
		help:         help.New(),
		keys:         newViewerKeyMap(),
		selector:     selector,
		selectorKeys: newSelectorKeyMap(),
		streamState:  stream.StateIdle,
	}
	m.resize()
	return m
}

// Controller exposes the navigation controller. Only use it from Update.
func (m Model) Controller() *navigation.Controller {
	return m.ctrl
}

// Init starts the deck fetch and the message pumps.
func (m Model) Init() tea.Cmd {
	m.ctrl.Start(m.ctx)

	cmds := []tea.Cmd{m.loop.Next(), m.spinner.Tick}
	if m.feed != nil {
		cmds = append(cmds, m.feed.Next())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case loopMsg:
		msg.fn()
		m.syncBody()
		return m, m.loop.Next()

	case streamDataMsg:
		follow := m.term.AtBottom()
		_, _ = m.mirror.Write(msg)
		m.term.SetContent(m.mirror.String())
		if follow {
			m.term.GotoBottom()
		}
		return m, m.feed.Next()

	case streamEventMsg:
		m.streamState = msg.State
		m.streamDelay = msg.Delay
		return m, m.feed.Next()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if m.ctrl.Ready() {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		m.syncBody()
		return m, cmd

	case tea.MouseMsg:
		m.handleMouse(msg)
		m.syncBody()
		return m, nil

	case tea.KeyMsg:
		if m.selecting {
			return m.updateSelector(msg)
		}
		return m.updateViewer(msg)
	}

	return m, nil
}

// updateViewer handles keyboard input while browsing
func (m Model) updateViewer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.loop.Close()
		m.ctrl.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Forward):
		m.ctrl.Handle(navigation.KeyRight, nil)

	case key.Matches(msg, m.keys.Backward):
		m.ctrl.Handle(navigation.KeyLeft, nil)

	case key.Matches(msg, m.keys.Run):
		m.ctrl.Handle(navigation.KeyRun, nil)

	case key.Matches(msg, m.keys.Toggle):
		m.ctrl.Handle(navigation.KeyToggleRefresh, nil)

	case key.Matches(msg, m.keys.IntervalUp):
		m.setInterval(m.ctrl.Interval() + 1)

	case key.Matches(msg, m.keys.IntervalDown):
		if m.ctrl.Interval() > 1 {
			m.setInterval(m.ctrl.Interval() - 1)
		}

	case key.Matches(msg, m.keys.Select):
		if len(m.ctrl.Pages()) > 0 {
			m.selecting = true
			m.selector.SetValue("")
			m.selector.Placeholder = fmt.Sprintf("1-%d", len(m.ctrl.Pages()))
			return m, m.selector.Focus()
		}

	case key.Matches(msg, m.keys.ScrollUp):
		m.body.SetYOffset(m.body.YOffset - 1)

	case key.Matches(msg, m.keys.ScrollDown):
		m.body.SetYOffset(m.body.YOffset + 1)

	case key.Matches(msg, m.keys.TermUp):
		m.term.SetYOffset(m.term.YOffset - m.term.Height)

	case key.Matches(msg, m.keys.TermDown):
		m.term.SetYOffset(m.term.YOffset + m.term.Height)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
	}

	m.syncBody()
	return m, nil
}

// updateSelector handles keyboard input in the page selector
func (m Model) updateSelector(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.selectorKeys.Cancel):
		m.closeSelector()
		return m, nil

	case key.Matches(msg, m.selectorKeys.Confirm):
		value := strings.TrimSpace(m.selector.Value())
		m.closeSelector()
		n, err := strconv.Atoi(value)
		if err != nil {
			m.notice = fmt.Sprintf("%q is not a slide number", value)
			return m, nil
		}
		err = m.ctrl.Select(n - 1)
		switch {
		case catalog.IsOutOfRange(err):
			m.notice = fmt.Sprintf("No slide %d", n)
			return m, nil
		case err != nil:
			logging.Warn("Page selection failed", zap.Int("slide", n), zap.Error(err))
			return m, nil
		}
		m.syncBody()
		return m, nil
	}

	m.selector, cmd = m.selector.Update(msg)
	return m, cmd
}

func (m *Model) closeSelector() {
	m.selecting = false
	m.selector.Blur()
	m.selector.SetValue("")
}

func (m *Model) setInterval(seconds int) {
	if err := m.ctrl.SetInterval(seconds); err != nil {
		logging.Warn("Failed to change refresh interval", zap.Error(err))
	}
}

// handleMouse maps button presses to pointer input. Wheel events scroll the
// pane under the pointer.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	region := m.regionAt(msg.Y)

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scrollPane(region, -1)
		return
	case tea.MouseButtonWheelDown:
		m.scrollPane(region, 1)
		return
	}

	if msg.Action != tea.MouseActionPress {
		return
	}
	switch msg.Button {
	case tea.MouseButtonLeft:
		m.ctrl.Handle(navigation.PointerPrimary, region)
	case tea.MouseButtonRight:
		m.ctrl.Handle(navigation.PointerSecondary, region)
	}
}

func (m *Model) scrollPane(region *navigation.Region, delta int) {
	switch region {
	case regionSlide:
		m.body.SetYOffset(m.body.YOffset + delta)
	case regionTerminal:
		m.term.SetYOffset(m.term.YOffset + delta)
	}
}

// Layout, top to bottom: controls bar, caption, slide body, terminal title,
// terminal pane, footer.
func (m Model) regionAt(y int) *navigation.Region {
	bodyTop := 2
	termTop := bodyTop + m.body.Height
	footerTop := termTop + m.terminalRows()

	switch {
	case y <= 0:
		return regionControls
	case y == 1:
		return regionCaption
	case y < termTop:
		return regionSlide
	case y < footerTop:
		return regionTerminal
	default:
		return regionFooter
	}
}

func (m Model) terminalRows() int {
	if m.feed == nil {
		return 0
	}
	return m.term.Height + 1
}

func (m Model) footerRows() int {
	if !m.help.ShowAll || m.selecting {
		return 1
	}
	rows := 1
	for _, column := range m.keys.FullHelp() {
		rows = max(rows, len(column))
	}
	return rows
}

// resize divides the height between the slide and the terminal pane.
func (m *Model) resize() {
	width := max(m.width, MinTerminalWidth)
	height := max(m.height, MinTerminalHeight)

	avail := height - 2 - m.footerRows()
	termHeight := 0
	if m.feed != nil {
		avail-- // terminal title
		termHeight = max(avail/3, 3)
	}
	bodyHeight := max(avail-termHeight, 1)

	m.body.Width = width
	m.body.Height = bodyHeight
	m.term.Width = width
	m.term.Height = termHeight

	m.body.SetContent(m.renderBody())
	m.term.SetContent(m.mirror.String())
}

// syncBody pushes new slide content into the body viewport. Newly revealed
// lines are scrolled into view; any other change starts at the top.
func (m *Model) syncBody() {
	if !m.ctrl.Ready() {
		m.body.SetContent(m.renderBody())
		return
	}
	if m.screen.gen == m.bodyGen {
		return
	}
	m.bodyGen = m.screen.gen
	m.body.SetContent(m.renderBody())
	if m.screen.follow {
		m.body.GotoBottom()
	} else {
		m.body.GotoTop()
	}
}

func (m Model) renderBody() string {
	if !m.ctrl.Ready() {
		msg := fmt.Sprintf("%s Loading slides...", m.spinner.View())
		return lipgloss.Place(m.body.Width, m.body.Height, lipgloss.Center, lipgloss.Center, msg)
	}
	return m.screen.Body(m.body.Width)
}

// View renders the viewer
func (m Model) View() string {
	width := max(m.width, MinTerminalWidth)

	sections := []string{
		m.renderControls(width),
		m.renderCaption(width),
		m.body.View(),
	}
	if m.feed != nil {
		sections = append(sections,
			TerminalTitleStyle.Width(width).Render("─ terminal "+strings.Repeat("─", max(width-11, 0))),
			TerminalStyle.Render(m.term.View()),
		)
	}
	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderControls(width int) string {
	left := AppNameStyle.Render(AppName)
	if m.title != "" {
		left += RefreshOffStyle.Render(m.title)
	}
	left += PositionStyle.Render(m.screen.Position())

	if refresh := m.screen.Refresh(); refresh != "" {
		if m.screen.refreshOn {
			left += RefreshOnStyle.Render(refresh)
		} else {
			left += RefreshOffStyle.Render(refresh)
		}
	}

	right := ""
	if m.feed != nil {
		right = streamStyle(m.streamState == stream.StateOpen).Render(m.streamStatus())
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return ControlsStyle.Width(width).
		Render(left + ControlsStyle.Render(strings.Repeat(" ", gap)) + right)
}

func (m Model) streamStatus() string {
	switch m.streamState {
	case stream.StateOpen:
		return "● live"
	case stream.StateReconnecting:
		return fmt.Sprintf("○ retry in %s", m.streamDelay.Round(100*time.Millisecond))
	default:
		return "○ " + m.streamState.String()
	}
}

func (m Model) renderCaption(width int) string {
	if m.screen.caption == "" {
		return strings.Repeat(" ", width)
	}
	return CaptionStyle.Width(width).MaxHeight(1).Render(m.screen.caption)
}

func (m Model) renderFooter() string {
	if m.selecting {
		return HelpStyle.Render(m.selector.View() + "  " + m.help.View(m.selectorKeys))
	}
	if m.notice != "" {
		return WarningStyle.PaddingLeft(1).Render(m.notice)
	}
	return HelpStyle.Render(m.help.View(m.keys))
}
