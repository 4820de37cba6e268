package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spigell/job-ranker/internal/jobs"
)

const (
	headerWidth    = 80
	separatorWidth = 60
)

type styles struct {
	header    lipgloss.Style
	rank      lipgloss.Style
	high      lipgloss.Style
	medium    lipgloss.Style
	low       lipgloss.Style
	failed    lipgloss.Style
	label     lipgloss.Style
	separator lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		header:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		rank:      r.NewStyle().Bold(true),
		high:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		medium:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		low:       r.NewStyle().Foreground(lipgloss.Color("203")),
		failed:    r.NewStyle().Foreground(lipgloss.Color("240")),
		label:     r.NewStyle().Foreground(lipgloss.Color("245")),
		separator: r.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

func plainStyles() styles {
	plain := lipgloss.NewStyle()
	return styles{
		header: plain, rank: plain, high: plain, medium: plain,
		low: plain, failed: plain, label: plain, separator: plain,
	}
}

// Printer writes ranked records for a human reader.
type Printer struct {
	out    io.Writer
	styles styles
}

// NewPrinter returns a printer for out. With styled false no escape sequences are produced.
func NewPrinter(out io.Writer, styled bool) *Printer {
	s := plainStyles()
	if styled {
		s = newStyles(lipgloss.NewRenderer(out))
	}
	return &Printer{out: out, styles: s}
}

// Rankings prints a header followed by one block per record in rank order.
func (p *Printer) Rankings(ranked []jobs.ScoredRecord) error {
	var b strings.Builder

	rule := strings.Repeat("=", headerWidth)
	b.WriteString("\n")
	b.WriteString(p.styles.separator.Render(rule) + "\n")
	b.WriteString(p.styles.header.Render("JOB RANKINGS (Best to Worst Match)") + "\n")
	b.WriteString(p.styles.separator.Render(rule) + "\n")

	if len(ranked) == 0 {
		b.WriteString("\nNo jobs were ranked.\n")
	}

	for i, record := range ranked {
		b.WriteString("\n")
		b.WriteString(p.styles.rank.Render(fmt.Sprintf("#%d", i+1)))
		b.WriteString(" - ")
		b.WriteString(p.scoreStyle(record).Render(fmt.Sprintf("MATCH SCORE: %d/10", record.MatchScore)))
		b.WriteString("\n")
		p.field(&b, "Company", record.Company)
		p.field(&b, "Title", record.Title)
		p.field(&b, "URL", record.URL)
		p.field(&b, "Analysis", record.Analysis)
		b.WriteString(p.styles.separator.Render(strings.Repeat("-", separatorWidth)) + "\n")
	}

	_, err := io.WriteString(p.out, b.String())
	return err
}

func (p *Printer) field(b *strings.Builder, label, value string) {
	b.WriteString(p.styles.label.Render(label + ":"))
	b.WriteString(" ")
	b.WriteString(value)
	b.WriteString("\n")
}

func (p *Printer) scoreStyle(record jobs.ScoredRecord) lipgloss.Style {
	switch {
	case record.IsFailed():
		return p.styles.failed
	case record.MatchScore >= 8:
		return p.styles.high
	case record.MatchScore >= 5:
		return p.styles.medium
	default:
		return p.styles.low
	}
}
