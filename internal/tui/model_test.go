package tui

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"github.com/muurk/slidecast/internal/catalog"
	"github.com/muurk/slidecast/internal/clock"
	"github.com/muurk/slidecast/internal/stream"
)

// newDeckServer serves a three page deck: Text, Code, Command.
func newDeckServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/pages", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"pages":[{"type":"text"},{"type":"code"},{"type":"command"}]}`)
	})
	mux.HandleFunc("/pages/{index}", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("index") {
		case "0":
			fmt.Fprint(w, `{"content":["alpha","beta","gamma"]}`)
		case "1":
			fmt.Fprint(w, `<pre><code>func main() {}</code></pre>`)
		case "2":
			fmt.Fprint(w, `<pre>load average: 0.42</pre>`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	mux.HandleFunc("/command/{index}", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "caption %s", r.PathValue("index"))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestModel(t *testing.T, feed *Feed) (Model, *clock.Fake) {
	t.Helper()
	server := newDeckServer(t)
	fake := clock.NewFake(time.Unix(0, 0))
	m := New(context.Background(), Options{
		Catalog: catalog.NewClient(server.URL),
		Clock:   fake,
		Feed:    feed,
		Title:   "test",
	})
	t.Cleanup(m.loop.Close)
	return m, fake
}

// pump delivers n completions from the loop to Update.
func pump(t *testing.T, m Model, n int) Model {
	t.Helper()
	for i := 0; i < n; i++ {
		msg := next(t, m.loop)
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func update(m Model, msg tea.Msg) Model {
	updated, _ := m.Update(msg)
	return updated.(Model)
}

// start runs Init and waits for the first page and its caption.
func start(t *testing.T, m Model) Model {
	t.Helper()
	m.Init()
	m = update(m, tea.WindowSizeMsg{Width: 80, Height: 30})
	// catalog, page 0 content, page 0 caption
	return pump(t, m, 3)
}

func click(y int, button tea.MouseButton) tea.MouseMsg {
	return tea.MouseMsg{X: 10, Y: y, Action: tea.MouseActionPress, Button: button}
}

func TestModel_LoadsFirstPage(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = start(t, m)

	if !m.ctrl.Ready() {
		t.Fatal("controller not ready after bootstrap")
	}
	view := m.View()
	for _, want := range []string{"Slide 1/3", "alpha", "caption 0"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "beta") {
		t.Error("second line revealed on entry")
	}
}

func TestModel_KeysStepThroughDeck(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = start(t, m)

	m = update(m, tea.KeyMsg{Type: tea.KeyRight})
	m = update(m, keyRunes("l"))
	if text := m.screen.text; !strings.Contains(text, "gamma") {
		t.Fatalf("after two steps text = %q", text)
	}

	// Fully revealed: the next step leaves for the Code page.
	m = update(m, tea.KeyMsg{Type: tea.KeyRight})
	m = pump(t, m, 2)
	if got := m.ctrl.State().Index; got != 1 {
		t.Fatalf("index = %d, want 1", got)
	}
	if view := m.View(); !strings.Contains(view, "func main() {}") || !strings.Contains(view, "Slide 2/3") {
		t.Errorf("View() on code page:\n%s", view)
	}

	// Back onto the Text page enters fully revealed.
	m = update(m, tea.KeyMsg{Type: tea.KeyLeft})
	m = pump(t, m, 2)
	if text := m.screen.text; !strings.Contains(text, "alpha") || !strings.Contains(text, "gamma") {
		t.Errorf("backward entry text = %q, want all lines", text)
	}
}

func TestModel_CommandPage(t *testing.T) {
	m, fake := newTestModel(t, nil)
	m = start(t, m)

	if err := m.ctrl.Select(2); err != nil {
		t.Fatalf("Select(2) error = %v", err)
	}
	m = pump(t, m, 1) // caption
	if view := m.View(); !strings.Contains(view, "not loaded") || !strings.Contains(view, "auto off") {
		t.Fatalf("View() on command page:\n%s", view)
	}

	m = update(m, keyRunes("r"))
	m = pump(t, m, 1)
	if view := m.View(); !strings.Contains(view, "load average: 0.42") {
		t.Fatalf("View() after run:\n%s", view)
	}

	m = update(m, keyRunes("a"))
	if !m.ctrl.RefreshEnabled() {
		t.Fatal("a should enable auto-refresh")
	}
	m = update(m, keyRunes("+"))
	if got := m.ctrl.Interval(); got != 6 {
		t.Errorf("interval after + = %d, want 6", got)
	}
	if view := m.View(); !strings.Contains(view, "auto on every 6s") {
		t.Errorf("View() refresh controls:\n%s", view)
	}

	fake.Advance(6 * time.Second)
	m = pump(t, m, 2) // tick, fragment
	if view := m.View(); !strings.Contains(view, "load average") {
		t.Errorf("View() after refresh tick:\n%s", view)
	}

	m = update(m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.ctrl.RefreshEnabled() {
		t.Error("leaving the page should stop auto-refresh")
	}
}

func TestModel_ClicksInControlsAreIgnored(t *testing.T) {
	m, _ := newTestModel(t, NewFeed())
	t.Cleanup(m.feed.Close)
	m = start(t, m)

	controls := []struct {
		name string
		y    int
	}{
		{"controls bar", 0},
		{"caption", 1},
		{"terminal pane", 2 + m.body.Height + 1},
	}
	for _, c := range controls {
		m = update(m, click(c.y, tea.MouseButtonLeft))
		if got := m.ctrl.State().Reveal.Revealed; got != 1 {
			t.Fatalf("click on %s revealed %d lines, want 1", c.name, got)
		}
	}

	m = update(m, click(3, tea.MouseButtonLeft))
	if got := m.ctrl.State().Reveal.Revealed; got != 2 {
		t.Fatalf("click on slide: revealed = %d, want 2", got)
	}
	m = update(m, click(3, tea.MouseButtonRight))
	if got := m.ctrl.State().Reveal.Revealed; got != 1 {
		t.Errorf("right click on slide: revealed = %d, want 1", got)
	}

	release := tea.MouseMsg{X: 10, Y: 3, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
	m = update(m, release)
	if got := m.ctrl.State().Reveal.Revealed; got != 1 {
		t.Errorf("button release stepped: revealed = %d", got)
	}
}

func TestModel_RegionLayout(t *testing.T) {
	m, _ := newTestModel(t, NewFeed())
	t.Cleanup(m.feed.Close)
	m = update(m, tea.WindowSizeMsg{Width: 80, Height: 30})

	termTop := 2 + m.body.Height
	tests := []struct {
		y       int
		want    string
		control bool
	}{
		{0, "controls", true},
		{1, "caption", true},
		{2, "slide", false},
		{termTop - 1, "slide", false},
		{termTop, "terminal", true},
		{29, "footer", true},
	}
	for _, tt := range tests {
		r := m.regionAt(tt.y)
		if r.Name != tt.want || r.InControl() != tt.control {
			t.Errorf("regionAt(%d) = %s (control %v), want %s (control %v)",
				tt.y, r.Name, r.InControl(), tt.want, tt.control)
		}
	}
}

func TestModel_PageSelector(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = start(t, m)

	m = update(m, keyRunes("g"))
	if !m.selecting {
		t.Fatal("g should open the page selector")
	}
	m = update(m, keyRunes("9"))
	m = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.selecting || !strings.Contains(m.View(), "No slide 9") {
		t.Fatalf("out of range selection:\n%s", m.View())
	}

	m = update(m, keyRunes("g"))
	m = update(m, keyRunes("2"))
	m = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = pump(t, m, 2)
	if got := m.ctrl.State().Index; got != 1 {
		t.Errorf("index after selecting 2 = %d, want 1", got)
	}

	m = update(m, keyRunes("g"))
	m = update(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.selecting {
		t.Error("esc should close the selector")
	}
}

func TestModel_StreamMirror(t *testing.T) {
	feed := NewFeed()
	m, _ := newTestModel(t, feed)
	t.Cleanup(feed.Close)
	m = update(m, tea.WindowSizeMsg{Width: 80, Height: 30})

	m = update(m, streamEventMsg(stream.Event{State: stream.StateReconnecting, Delay: 2 * time.Second}))
	if view := m.View(); !strings.Contains(view, "retry in 2s") {
		t.Errorf("View() stream status:\n%s", view)
	}

	m = update(m, streamEventMsg(stream.Event{State: stream.StateOpen}))
	m = update(m, streamDataMsg("\x1b[32m$ make test\x1b[0m\r\n"))
	m = update(m, streamDataMsg("PASS\r\n"))
	view := m.View()
	for _, want := range []string{"● live", "$ make test", "PASS"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestModel_Program(t *testing.T) {
	m, _ := newTestModel(t, nil)

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 30))

	waitFor := func(s string) {
		t.Helper()
		teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
			return bytes.Contains(b, []byte(s))
		}, teatest.WithCheckInterval(50*time.Millisecond), teatest.WithDuration(3*time.Second))
	}

	waitFor("alpha")
	tm.Send(tea.KeyMsg{Type: tea.KeyRight})
	waitFor("beta")
	tm.Send(tea.KeyMsg{Type: tea.KeyRight})
	tm.Send(tea.KeyMsg{Type: tea.KeyRight})
	waitFor("func main()")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))

	final, ok := tm.FinalModel(t).(Model)
	if !ok {
		t.Fatalf("FinalModel() = %T", tm.FinalModel(t))
	}
	if got := final.ctrl.State().Index; got != 1 {
		t.Errorf("final index = %d, want 1", got)
	}
}
