package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/yanqian/askbook/internal/domain/qa"
)

// Printer renders store results for a terminal. Styles degrade to plain text
// when the writer is not a TTY.
type Printer struct {
	out io.Writer

	prompt   lipgloss.Style
	answer   lipgloss.Style
	question lipgloss.Style
	subtle   lipgloss.Style
	warn     lipgloss.Style
}

// NewPrinter binds styles to out.
func NewPrinter(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:      out,
		prompt:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		answer:   r.NewStyle().Foreground(lipgloss.Color("86")),
		question: r.NewStyle().Bold(true),
		subtle:   r.NewStyle().Foreground(lipgloss.Color("241")),
		warn:     r.NewStyle().Foreground(lipgloss.Color("208")),
	}
}

// Lookup prints the outcome of a lookup.
func (p *Printer) Lookup(res qa.LookupResult) {
	switch res.Kind {
	case qa.LookupExact:
		p.printf("%s %s\n", p.prompt.Render("Answer:"), p.answer.Render(res.Answer))
	case qa.LookupSuggestions:
		best, _ := res.Best()
		p.printf("%s %s %s\n", p.prompt.Render("Closest match:"), p.question.Render(best.Question), p.subtle.Render(score(best.Score)))
		p.printf("%s %s\n", p.prompt.Render("Answer:"), p.answer.Render(best.Answer))
		if len(res.Suggestions) > 1 {
			p.printf("%s\n", p.subtle.Render("Other similar questions:"))
			for i, m := range res.Suggestions[1:] {
				p.printf("  %d. %s %s\n", i+2, m.Question, p.subtle.Render(score(m.Score)))
			}
		}
	default:
		p.printf("%s\n", p.subtle.Render("No stored question is close enough."))
	}
}

// Pairs prints every stored pair.
func (p *Printer) Pairs(pairs []qa.Pair) {
	if len(pairs) == 0 {
		p.printf("%s\n", p.subtle.Render("No questions stored yet."))
		return
	}
	for i, pair := range pairs {
		p.printf("%d. %s\n   %s\n", i+1, p.question.Render(pair.Question), p.answer.Render(pair.Answer))
	}
}

// Recorded confirms a stored pair.
func (p *Printer) Recorded(pair qa.Pair) {
	p.printf("%s %s\n", p.subtle.Render("Saved:"), pair.Question)
}

// Prompt writes a prompt label without a newline.
func (p *Printer) Prompt(label string) {
	p.printf("%s ", p.prompt.Render(label))
}

// Info prints a dim line.
func (p *Printer) Info(msg string) {
	p.printf("%s\n", p.subtle.Render(msg))
}

// Warn prints a highlighted line.
func (p *Printer) Warn(msg string) {
	p.printf("%s\n", p.warn.Render(msg))
}

func (p *Printer) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func score(s float64) string {
	return fmt.Sprintf("(%.2f)", s)
}
