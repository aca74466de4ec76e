package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Field is one key/value line in a header or result box. Fields render in
// the order given.
type Field struct {
	Key   string
	Value string
}

// Item is one entry of a list, a title followed by indented detail fields.
type Item struct {
	Title  string
	Fields []Field
}

// Printer writes styled command output to a writer.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// SetWidth overrides the detected terminal width
func (p *Printer) SetWidth(width int) *Printer {
	p.width = max(width, MinTerminalWidth)
	return p
}

// Width returns the width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command banner
func (p *Printer) PrintHeader(title, command string, fields ...Field) {
	sections := []string{
		HeaderTitleStyle.Render(strings.ToUpper(title)),
		HeaderCommandStyle.Render(command),
	}
	if len(fields) > 0 {
		sections = append(sections, divider(p.width-6), renderFields(fields, "  "))
	}
	p.Println(boxStyle(p.width, PrimaryColor).Render(lipgloss.JoinVertical(lipgloss.Left, sections...)))
}

// PrintSuccess prints a success box
func (p *Printer) PrintSuccess(title string, fields ...Field) {
	lines := []string{SuccessTitleStyle.Render(SuccessMarker + "  " + title)}
	if len(fields) > 0 {
		lines = append(lines, "", renderFields(fields, "   "))
	}
	p.Println(boxStyle(p.width, SuccessColor).Render(strings.Join(lines, "\n")))
}

// PrintWarning prints a warning box with hints
func (p *Printer) PrintWarning(title string, tips []string) {
	lines := []string{WarningTitleStyle.Render(WarningMarker + "  " + title)}
	lines = append(lines, renderTips(tips)...)
	p.Println(boxStyle(p.width, WarningColor).Render(strings.Join(lines, "\n")))
}

// PrintError prints an error box with troubleshooting tips
func (p *Printer) PrintError(title string, err error, tips []string) {
	message := ""
	if err != nil {
		message = err.Error()
	}
	p.PrintFailure(title, message, tips)
}

// PrintFailure is PrintError with the message already written for the user.
func (p *Printer) PrintFailure(title, message string, tips []string) {
	lines := []string{ErrorTitleStyle.Render(FailureMarker + "  " + title)}
	if message != "" {
		lines = append(lines, "", ErrorMessageStyle.Render("Error: "+message))
	}
	lines = append(lines, renderTips(tips)...)
	p.Println(boxStyle(p.width, ErrorColor).Render(strings.Join(lines, "\n")))
}

// PrintList prints numbered entries
func (p *Printer) PrintList(items []Item) {
	for i, item := range items {
		p.Println(ItemTitleStyle.Render(fmt.Sprintf("%d. %s", i+1, item.Title)))
		if len(item.Fields) > 0 {
			p.Println(renderFields(item.Fields, "   "))
		}
		p.Newline()
	}
}

func renderFields(fields []Field, indent string) string {
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, indent+FieldKeyStyle.Render(f.Key+":")+" "+FieldValueStyle.Render(f.Value))
	}
	return strings.Join(lines, "\n")
}

func renderTips(tips []string) []string {
	if len(tips) == 0 {
		return nil
	}
	lines := []string{"", TipStyle.Bold(true).Render("Troubleshooting:")}
	for _, tip := range tips {
		lines = append(lines, TipStyle.Render("  • "+tip))
	}
	return lines
}
