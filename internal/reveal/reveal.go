// Package reveal tracks how much of a Text page is on screen.
//
// A Text page is a sequence of lines disclosed one at a time. Entering a
// page while moving forward shows only its first line; entering it while
// moving backward shows every line, so the page appears as it was left.
package reveal

import "strings"

// Separator is placed between revealed lines.
const Separator = "\n\n"

// Direction is the direction of travel through the deck.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// String returns "forward" or "backward"
func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// State is the visible prefix of a Text page's lines.
// Invariant: 0 <= Revealed <= len(Lines), and Revealed >= 1 when Lines is non-empty.
type State struct {
	Lines    []string
	Revealed int
}

// Enter returns the initial state for a page entered in direction dir.
func Enter(lines []string, dir Direction) State {
	s := State{Lines: lines}
	if len(lines) == 0 {
		return s
	}
	if dir == Backward {
		s.Revealed = len(lines)
	} else {
		s.Revealed = 1
	}
	return s
}

// Forward reveals one more line. It returns false at the boundary, when
// every line is already visible and the caller must move to the next page.
func (s State) Forward() (State, bool) {
	if s.Revealed >= len(s.Lines) {
		return s, false
	}
	s.Revealed++
	return s, true
}

// Backward hides the last visible line. It returns false at the boundary,
// when only the first line is visible and the caller must move to the
// previous page.
func (s State) Backward() (State, bool) {
	if s.Revealed <= 1 {
		return s, false
	}
	s.Revealed--
	return s, true
}

// Complete reports whether every line is visible.
func (s State) Complete() bool {
	return s.Revealed >= len(s.Lines)
}

// Visible returns the revealed lines.
func (s State) Visible() []string {
	return s.Lines[:s.Revealed]
}

// Text joins the revealed lines with Separator.
func (s State) Text() string {
	return strings.Join(s.Visible(), Separator)
}
