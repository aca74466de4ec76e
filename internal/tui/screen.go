package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/muurk/slidecast/internal/catalog"
	"github.com/muurk/slidecast/internal/markup"
)

type bodyKind int

const (
	bodyNone bodyKind = iota
	bodyText
	bodyMarkup
	bodyCommand
)

// Screen is the navigation.View of the terminal viewer. It records what the
// controller asked to show; the model renders it. Like the controller it is
// only touched from the update loop.
type Screen struct {
	kind     bodyKind
	text     string
	pageType catalog.PageType
	command  int

	embedded       string
	embeddedLoaded bool

	caption string

	index      int
	count      int
	positioned bool

	refreshOn bool
	interval  time.Duration

	// gen changes whenever the body content changes. follow is set when the
	// newest content is at the bottom (a Text page revealing lines).
	gen    uint64
	follow bool
}

// NewScreen creates an empty screen.
func NewScreen() *Screen {
	return &Screen{}
}

func (s *Screen) ShowText(text string) {
	s.kind = bodyText
	s.text = text
	s.pageType = catalog.Text
	s.touch(true)
}

func (s *Screen) ShowMarkup(pageType catalog.PageType, fragment string) {
	s.kind = bodyMarkup
	s.text = markup.ToText(fragment)
	s.pageType = pageType
	s.touch(false)
}

func (s *Screen) ShowCommand(index int) {
	s.kind = bodyCommand
	s.text = ""
	s.pageType = catalog.Command
	s.command = index
	s.embedded = ""
	s.embeddedLoaded = false
	s.touch(false)
}

func (s *Screen) LoadEmbedded(fragment string) {
	s.embedded = markup.ToText(fragment)
	s.embeddedLoaded = true
	s.touch(false)
}

func (s *Screen) TeardownEmbedded() {
	if s.embedded == "" && !s.embeddedLoaded {
		return
	}
	s.embedded = ""
	s.embeddedLoaded = false
	s.touch(false)
}

func (s *Screen) SetCaption(label string) {
	s.caption = strings.TrimSpace(label)
}

func (s *Screen) SetPosition(index, count int) {
	s.index = index
	s.count = count
	s.positioned = true
}

func (s *Screen) SetRefresh(enabled bool, interval time.Duration) {
	s.refreshOn = enabled
	s.interval = interval
}

func (s *Screen) touch(follow bool) {
	s.gen++
	s.follow = follow
}

// Position renders the page selector label, "Slide i/n" with i counted from one.
func (s *Screen) Position() string {
	if !s.positioned {
		if s.count == 0 {
			return "Slide -"
		}
		return fmt.Sprintf("Slide -/%d", s.count)
	}
	return fmt.Sprintf("Slide %d/%d", s.index+1, s.count)
}

// Refresh renders the auto-refresh control. It is only shown on Command pages.
func (s *Screen) Refresh() string {
	if s.kind != bodyCommand {
		return ""
	}
	state := "off"
	if s.refreshOn {
		state = "on"
	}
	return fmt.Sprintf("auto %s every %s", state, s.interval)
}

// Body renders the slide body at the given width.
func (s *Screen) Body(width int) string {
	switch s.kind {
	case bodyText:
		return BodyStyle.Width(width).Render(s.text)
	case bodyMarkup:
		return CodeStyle.Render(s.text)
	case bodyCommand:
		boxWidth := width - 6
		if boxWidth < 10 {
			boxWidth = 10
		}
		if !s.embeddedLoaded {
			return PlaceholderStyle.Width(boxWidth).
				Render(fmt.Sprintf("Command %d is not loaded. Press r to run it.", s.command+1))
		}
		return EmbeddedStyle.Width(boxWidth).Render(s.embedded)
	default:
		return ""
	}
}
