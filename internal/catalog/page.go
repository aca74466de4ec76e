package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PageType identifies how a page is rendered.
type PageType int

const (
	// Text pages are revealed one line at a time
	Text PageType = iota
	// Command pages embed an externally rendered view
	Command
	// Code pages render a source block at once
	Code
	// Image pages render an image reference at once
	Image
)

// String returns the wire name of the page type
func (t PageType) String() string {
	switch t {
	case Command:
		return "command"
	case Code:
		return "code"
	case Image:
		return "image"
	default:
		return "text"
	}
}

// ParsePageType maps a wire name to a PageType. Anything unrecognised is Text.
func ParsePageType(s string) PageType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "command":
		return Command
	case "code":
		return Code
	case "image":
		return Image
	default:
		return Text
	}
}

// UnmarshalJSON decodes a page type from its wire name
func (t *PageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("page type must be a string: %w", err)
	}
	*t = ParsePageType(s)
	return nil
}

// MarshalJSON encodes a page type as its wire name
func (t PageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// Page describes one entry of the catalog. Immutable once fetched.
type Page struct {
	Index int      `json:"-"`
	Type  PageType `json:"type"`
}

// String returns a short description like "3 (code)"
func (p Page) String() string {
	return fmt.Sprintf("%d (%s)", p.Index, p.Type)
}

// Content is the type-dependent payload of a page.
//
// Text pages carry Lines. Code and Image pages carry Markup, a fragment
// meant to be rendered as-is. Command pages carry nothing; their output is
// loaded separately into the embedded view.
type Content struct {
	Type   PageType
	Lines  []string
	Markup string
}

type pagesResponse struct {
	Pages []Page `json:"pages"`
}

type textResponse struct {
	Content   []string `json:"content"`
	TextLines []string `json:"text_lines"`
}

func (r textResponse) lines() []string {
	if r.Content != nil {
		return r.Content
	}
	return r.TextLines
}
