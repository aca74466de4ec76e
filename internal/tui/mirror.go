package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
)

// DefaultMirrorLimit is the scrollback kept by the terminal mirror, in bytes.
const DefaultMirrorLimit = 64 * 1024

// Mirror is the byte sink for the remote terminal session. It keeps the tail
// of the stream and renders it as plain text. Escape sequences are stripped
// at render time, so a sequence split across two writes is still removed.
type Mirror struct {
	mu    sync.Mutex
	buf   []byte
	limit int
}

// NewMirror creates a mirror keeping at most limit bytes. A non-positive
// limit uses DefaultMirrorLimit.
func NewMirror(limit int) *Mirror {
	if limit <= 0 {
		limit = DefaultMirrorLimit
	}
	return &Mirror{limit: limit}
}

// Write appends p. It never fails.
func (m *Mirror) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.buf = append(m.buf, p...)
	if over := len(m.buf) - m.limit; over > 0 {
		// Drop whole lines where possible.
		cut := over
		for cut < len(m.buf) && m.buf[cut-1] != '\n' {
			cut++
		}
		if cut >= len(m.buf) {
			cut = over
		}
		m.buf = append(m.buf[:0], m.buf[cut:]...)
	}
	return len(p), nil
}

// Len returns the number of buffered bytes.
func (m *Mirror) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buf)
}

// Reset discards the scrollback.
func (m *Mirror) Reset() {
	m.mu.Lock()
	m.buf = m.buf[:0]
	m.mu.Unlock()
}

// String renders the scrollback as plain text with \n line endings. A bare
// carriage return rewinds to the start of the line, as a terminal would.
func (m *Mirror) String() string {
	m.mu.Lock()
	raw := string(m.buf)
	m.mu.Unlock()

	text := ansi.Strip(raw)
	text = strings.ReplaceAll(text, "\r\n", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.IndexByte(line, '\r') >= 0 {
			lines[i] = overwrite(line)
		}
	}
	return strings.Join(lines, "\n")
}

// overwrite applies the carriage returns in line. Each segment is drawn
// over the start of what came before it.
func overwrite(line string) string {
	segments := strings.Split(line, "\r")
	out := []rune(segments[0])
	for _, seg := range segments[1:] {
		r := []rune(seg)
		if len(r) >= len(out) {
			out = r
			continue
		}
		copy(out, r)
	}
	return string(out)
}
