// Package markup renders the HTML fragments served for Code and Image pages
// as plain terminal text.
package markup

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ToText converts an HTML fragment to text suitable for a terminal pane.
//
// Preformatted blocks keep their whitespace. Images become "[image: ...]"
// placeholders and links are followed by their target in angle brackets.
// Script and style elements are dropped.
func ToText(fragment string) string {
	r := &renderer{}
	z := html.NewTokenizer(strings.NewReader(fragment))

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or malformed input; either way keep what was rendered.
			r.flushLink()
			return r.String()

		case html.TextToken:
			if r.skip > 0 {
				continue
			}
			r.text(string(z.Text()))

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			r.start(tok, tt == html.SelfClosingTagToken)

		case html.EndTagToken:
			tok := z.Token()
			r.end(tok)
		}
	}
}

type renderer struct {
	b        strings.Builder
	pre      int
	preFresh bool
	skip     int
	href     string

	// pending whitespace between inline runs
	space bool
}

func (r *renderer) String() string {
	return strings.Trim(r.b.String(), "\n ")
}

func (r *renderer) text(s string) {
	if r.pre > 0 {
		if r.preFresh {
			// A newline directly after <pre> is not part of the content.
			s = strings.TrimPrefix(s, "\n")
			r.preFresh = false
		}
		r.b.WriteString(s)
		return
	}

	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s != "" {
			r.space = true
		}
		return
	}
	if r.space || startsWithSpace(s) {
		r.writeSpace()
	}
	r.b.WriteString(strings.Join(fields, " "))
	r.space = endsWithSpace(s)
}

func (r *renderer) start(tok html.Token, selfClosing bool) {
	switch tok.DataAtom {
	case atom.Script, atom.Style:
		if !selfClosing {
			r.skip++
		}
	case atom.Br:
		r.b.WriteString("\n")
		r.space = false
	case atom.Pre:
		r.newline()
		r.pre++
		r.preFresh = true
	case atom.P, atom.Div, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Ul, atom.Ol, atom.Figure:
		r.newline()
	case atom.Li:
		r.newline()
		r.b.WriteString("- ")
		r.space = false
	case atom.Img:
		r.image(attr(tok, "src"), attr(tok, "alt"))
	case atom.A:
		r.href = attr(tok, "href")
	}
}

func (r *renderer) end(tok html.Token) {
	switch tok.DataAtom {
	case atom.Script, atom.Style:
		if r.skip > 0 {
			r.skip--
		}
	case atom.Pre:
		if r.pre > 0 {
			r.pre--
		}
		r.newline()
	case atom.P, atom.Div, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Ul, atom.Ol, atom.Li, atom.Figure:
		r.newline()
	case atom.A:
		r.flushLink()
	}
}

func (r *renderer) image(src, alt string) {
	var label string
	switch {
	case alt != "" && src != "":
		label = fmt.Sprintf("[image: %s (%s)]", alt, src)
	case src != "":
		label = fmt.Sprintf("[image: %s]", src)
	case alt != "":
		label = fmt.Sprintf("[image: %s]", alt)
	default:
		label = "[image]"
	}
	if r.space {
		r.writeSpace()
	}
	r.b.WriteString(label)
	r.space = false
}

func (r *renderer) flushLink() {
	if r.href == "" {
		return
	}
	r.writeSpace()
	r.b.WriteString("<" + r.href + ">")
	r.href = ""
}

// newline ends the current line unless it is already empty.
func (r *renderer) newline() {
	s := r.b.String()
	if s != "" && !strings.HasSuffix(s, "\n") {
		r.b.WriteString("\n")
	}
	r.space = false
}

func (r *renderer) writeSpace() {
	s := r.b.String()
	if s != "" && !strings.HasSuffix(s, "\n") && !strings.HasSuffix(s, " ") {
		r.b.WriteString(" ")
	}
	r.space = false
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func startsWithSpace(s string) bool {
	return s != "" && strings.TrimLeft(s, " \t\r\n") != s
}

func endsWithSpace(s string) bool {
	return s != "" && strings.TrimRight(s, " \t\r\n") != s
}
