package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"exporter/pkg/services"
)

var (
	accent  = lipgloss.Color("#2563EB")
	dim     = lipgloss.Color("#6B7280")
	success = lipgloss.Color("#22C55E")
	warning = lipgloss.Color("#F59E0B")
	danger  = lipgloss.Color("#EF4444")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle   = lipgloss.NewStyle().Foreground(dim).Width(22)
	okStyle      = lipgloss.NewStyle().Foreground(success).Bold(true)
	warnTagStyle = lipgloss.NewStyle().Foreground(warning).Bold(true)
	skipTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(dim)
	banner       = strings.Repeat("=", 80)
)

// summary is what the commands report after writing a file.
type summary struct {
	Title    string             `json:"-"`
	Path     string             `json:"path"`
	Report   string             `json:"report,omitempty"`
	MimeType string             `json:"mime_type"`
	Included int                `json:"included"`
	Skipped  int                `json:"skipped"`
	Details  []detail           `json:"-"`
	Warnings []services.Warning `json:"warnings"`
	Footer   []string           `json:"-"`
}

type detail struct {
	Label string
	Value string
}

func newSummary(title, path string, res *services.ExportResult) summary {
	warnings := res.Warnings
	if warnings == nil {
		warnings = []services.Warning{}
	}
	return summary{
		Title:    title,
		Path:     path,
		MimeType: res.MimeType,
		Included: res.Included,
		Skipped:  res.Skipped,
		Warnings: warnings,
	}
}

func (s summary) writeJSON(w io.Writer) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to create JSON output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// render formats the summary for the terminal.
func (s summary) render() string {
	var b strings.Builder

	b.WriteString(banner + "\n")
	b.WriteString(titleStyle.Render(s.Title) + "\n")
	b.WriteString(banner + "\n\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + value + "\n")
	}

	row("Fil:", s.Path)
	if s.Report != "" {
		row("Rapport:", s.Report)
	}
	for _, d := range s.Details {
		row(d.Label, d.Value)
	}
	row("Med i filen:", fmt.Sprintf("%d", s.Included))
	row("Utelämnade:", fmt.Sprintf("%d", s.Skipped))
	row("Varningar:", fmt.Sprintf("%d", len(s.Warnings)))

	if len(s.Warnings) > 0 {
		b.WriteString("\n=== VARNINGAR ===\n")
		for _, w := range s.Warnings {
			tag := warnTagStyle.Render("VARNING ")
			if w.Skipped {
				tag = skipTagStyle.Render("UTELÄMNAD")
			}
			b.WriteString(fmt.Sprintf("%s faktura %d %s\n", tag, w.InvoiceNumber, dimStyle.Render("("+string(w.Kind)+")")))
			b.WriteString("          " + w.Message + "\n")
		}
	} else {
		b.WriteString("\n" + okStyle.Render("Inga varningar.") + "\n")
	}

	b.WriteString("\n" + banner + "\n")
	for _, line := range s.Footer {
		b.WriteString(line + "\n")
	}
	if len(s.Footer) > 0 {
		b.WriteString(banner + "\n")
	}

	return b.String()
}

func (s summary) print(w io.Writer, asJSON bool) error {
	if asJSON {
		return s.writeJSON(w)
	}
	_, err := fmt.Fprint(w, s.render())
	return err
}
