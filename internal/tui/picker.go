package tui

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/slidecast/internal/discovery"
)

// ScanFunc looks for presentation servers.
type ScanFunc func(ctx context.Context) ([]*discovery.Server, error)

// Messages for async operations
type scanStartMsg struct{}
type scanCompleteMsg struct {
	servers []*discovery.Server
	err     error
}

// pickerKeyMap defines key bindings for the server list
type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Rescan key.Binding
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k pickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Rescan, k.Manual, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k pickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Rescan, k.Manual, k.Quit},
	}
}

// manualKeyMap defines key bindings for manual address entry
type manualKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k manualKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k manualKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Confirm, k.Cancel}}
}

// serverItem wraps a Server for use with bubbles/list
type serverItem struct {
	server *discovery.Server
}

// FilterValue implements list.Item
func (s serverItem) FilterValue() string {
	return s.server.Instance + " " + s.server.IP + " " + s.server.Hostname
}

// serverDelegate renders one server per card
type serverDelegate struct{}

func (d serverDelegate) Height() int { return 3 }

func (d serverDelegate) Spacing() int { return 1 }

func (d serverDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d serverDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	si, ok := item.(serverItem)
	if !ok {
		return
	}
	s := si.server

	name := "  " + s.Instance
	if index == m.Index() {
		name = SelectedItemStyle.Render("→ " + s.Instance)
	}

	details := s.BaseURL()
	if n := s.PageCount(); n >= 0 {
		details += fmt.Sprintf(" • %d slides", n)
	}
	if s.Hostname != "" && s.Hostname != s.IP {
		details += " • " + strings.TrimSuffix(s.Hostname, ".")
	}

	fmt.Fprintf(w, "%s\n    %s\n", name, SubtitleStyle.Render(details))
}

// PickerModel lets the user choose a presentation server from an mDNS scan
// or type one in.
type PickerModel struct {
	scan    ScanFunc
	timeout time.Duration

	Scanning   bool
	ServerList list.Model
	Err        error
	selected   *discovery.Server

	ManualMode bool
	URLInput   textinput.Model
	inputErr   string

	Width         int
	Height        int
	Spinner       spinner.Model
	ProgressBar   progress.Model
	ScanStartTime time.Time
	Help          help.Model
	Keys          pickerKeyMap
	ManualKeys    manualKeyMap
}

// NewPickerModel creates a picker that runs scan, which is expected to
// return within timeout (used to draw the progress bar).
func NewPickerModel(scan ScanFunc, timeout time.Duration) PickerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	urlInput := textinput.New()
	urlInput.Placeholder = "http://192.168.1.20:8080"
	urlInput.CharLimit = 256
	urlInput.Width = 40

	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.Width = 40

	serverList := list.New([]list.Item{}, serverDelegate{}, 0, 0)
	serverList.Title = "Presentation servers"
	serverList.SetShowStatusBar(false)
	serverList.SetShowHelp(false)
	serverList.SetFilteringEnabled(false)
	serverList.Styles.Title = TitleStyle

	return PickerModel{
		scan:        scan,
		timeout:     timeout,
		ServerList:  serverList,
		URLInput:    urlInput,
		Spinner:     s,
		ProgressBar: progressBar,
		Help:        help.New(),
		Keys: pickerKeyMap{
			Up: key.NewBinding(
				key.WithKeys("up", "k"),
				key.WithHelp("↑/k", "move up"),
			),
			Down: key.NewBinding(
				key.WithKeys("down", "j"),
				key.WithHelp("↓/j", "move down"),
			),
			Enter: key.NewBinding(
				key.WithKeys("enter", " "),
				key.WithHelp("enter", "open"),
			),
			Rescan: key.NewBinding(
				key.WithKeys("r"),
				key.WithHelp("r", "rescan"),
			),
			Manual: key.NewBinding(
				key.WithKeys("m"),
				key.WithHelp("m", "enter address"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q", "esc", "ctrl+c"),
				key.WithHelp("q", "quit"),
			),
		},
		ManualKeys: manualKeyMap{
			Confirm: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "confirm"),
			),
			Cancel: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "cancel"),
			),
		},
	}
}

// Init starts the first scan
func (m PickerModel) Init() tea.Cmd {
	return m.startScan()
}

func (m PickerModel) startScan() tea.Cmd {
	scan := m.scan
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		func() tea.Msg {
			servers, err := scan(context.Background())
			return scanCompleteMsg{servers: servers, err: err}
		},
		m.Spinner.Tick,
	)
}

// Update handles messages and updates the model
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.ManualMode {
			return m.updateManualMode(msg)
		}
		return m.updateNormalMode(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.ServerList.SetWidth(msg.Width - 4)
		m.ServerList.SetHeight(msg.Height - 6)
		return m, nil

	case scanStartMsg:
		m.Scanning = true
		m.ScanStartTime = time.Now()
		return m, nil

	case scanCompleteMsg:
		m.Scanning = false
		m.Err = msg.err
		items := make([]list.Item, len(msg.servers))
		for i, s := range msg.servers {
			items[i] = serverItem{server: s}
		}
		m.ServerList.SetItems(items)
		return m, nil

	case spinner.TickMsg:
		if !m.Scanning {
			return m, nil
		}
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// updateNormalMode handles keyboard input in the server list
func (m PickerModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Manual):
		m.ManualMode = true
		m.inputErr = ""
		m.URLInput.SetValue("")
		return m, m.URLInput.Focus()

	case m.Scanning:
		return m, nil

	case key.Matches(msg, m.Keys.Enter):
		if item, ok := m.ServerList.SelectedItem().(serverItem); ok {
			m.selected = item.server
			return m, tea.Quit
		}
		return m, nil

	case key.Matches(msg, m.Keys.Rescan):
		m.ServerList.SetItems(nil)
		m.Err = nil
		return m, m.startScan()
	}

	m.ServerList, cmd = m.ServerList.Update(msg)
	return m, cmd
}

// updateManualMode handles keyboard input in manual address entry
func (m PickerModel) updateManualMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.ManualKeys.Cancel):
		m.ManualMode = false
		m.URLInput.Blur()
		return m, nil

	case key.Matches(msg, m.ManualKeys.Confirm):
		server, err := ManualServer(m.URLInput.Value())
		if err != nil {
			m.inputErr = err.Error()
			return m, nil
		}
		m.selected = server
		m.ManualMode = false
		m.URLInput.Blur()
		return m, tea.Quit
	}

	m.URLInput, cmd = m.URLInput.Update(msg)
	return m, cmd
}

// View renders the picker
func (m PickerModel) View() string {
	width := m.Width
	if width == 0 {
		width = DefaultWidth
	}

	var content, helpText string
	switch {
	case m.ManualMode:
		content = m.renderManualEntry()
		helpText = m.Help.View(m.ManualKeys)
	case m.Scanning:
		content = m.renderScanning(width)
		helpText = m.Help.View(m.Keys)
	default:
		content = m.renderResults()
		helpText = m.Help.View(m.Keys)
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, HelpStyle.Render(helpText))
}

func (m PickerModel) renderScanning(width int) string {
	elapsed := time.Since(m.ScanStartTime)
	fraction := 0.0
	if m.timeout > 0 {
		fraction = min(1, float64(elapsed)/float64(m.timeout))
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		TitleStyle.Render(m.Spinner.View()+" SEARCHING FOR PRESENTATIONS"),
		SubtitleStyle.Render("Listening for "+discovery.ServiceType+" on the local network..."),
		"",
		m.ProgressBar.ViewAs(fraction),
		"",
	)
	return lipgloss.Place(width, 0, lipgloss.Center, lipgloss.Top, content)
}

func (m PickerModel) renderResults() string {
	var b strings.Builder
	b.WriteString("\n")

	switch {
	case m.Err != nil:
		b.WriteString(RenderError(fmt.Sprintf("Scan failed: %v", m.Err)))
		b.WriteString("\n\n  Press m to enter an address, r to rescan.\n")
	case len(m.ServerList.Items()) == 0:
		b.WriteString("  ")
		b.WriteString(WarningStyle.Render("⚠ No presentations found on your network"))
		b.WriteString("\n\n  Press m to enter an address, r to rescan.\n")
	default:
		b.WriteString(m.ServerList.View())
	}
	return b.String()
}

func (m PickerModel) renderManualEntry() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Enter server address"))
	b.WriteString("\n  URL: ")
	b.WriteString(m.URLInput.View())
	b.WriteString("\n")
	if m.inputErr != "" {
		b.WriteString("\n  ")
		b.WriteString(WarningStyle.Render(m.inputErr))
		b.WriteString("\n")
	}
	return b.String()
}

// Selected returns the chosen server, or nil if the user quit.
func (m PickerModel) Selected() *discovery.Server {
	return m.selected
}

// ManualServer builds a Server from a typed address. A bare host or
// host:port is accepted and assumed to be http.
func ManualServer(raw string) (*discovery.Server, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("address is empty")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid address: %w", err)
	}
	if u.Scheme != "http" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("address has no host")
	}
	port := discovery.DefaultPort
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("invalid port %q", p)
		}
	}
	return &discovery.Server{
		Instance:     net.JoinHostPort(host, strconv.Itoa(port)),
		Hostname:     host,
		IP:           host,
		Port:         port,
		DiscoveredAt: time.Now(),
	}, nil
}
