// Package report renders diagnostics for people and for tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/agenthands/pystyle/pkg/lint"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// File groups the diagnostics of one document.
type File struct {
	Path        string            `json:"path"`
	Diagnostics []lint.Diagnostic `json:"diagnostics"`
}

// Reporter writes a complete set of results.
type Reporter interface {
	Report(files []File) error
}

// New returns the reporter for format.
func New(format string, w io.Writer) (Reporter, error) {
	switch format {
	case FormatText, "":
		return NewText(w), nil
	case FormatJSON:
		return NewJSON(w), nil
	}
	return nil, fmt.Errorf("report: unknown format %q", format)
}

// Summary counts files and diagnostics per severity.
type Summary struct {
	Files    int `json:"files"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
}

func Summarize(files []File) Summary {
	s := Summary{Files: len(files)}
	for _, f := range files {
		counts := lint.Count(f.Diagnostics)
		s.Errors += counts[lint.Error]
		s.Warnings += counts[lint.Warning]
		s.Infos += counts[lint.Info]
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%s, %s, %d info (%s)",
		plural(s.Errors, "error"), plural(s.Warnings, "warning"), s.Infos, plural(s.Files, "file"))
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// Text prints one line per diagnostic followed by a summary. Colours are
// only emitted when w is a terminal that supports them.
type Text struct {
	w        io.Writer
	path     lipgloss.Style
	code     lipgloss.Style
	severity map[lint.Severity]lipgloss.Style
}

func NewText(w io.Writer) *Text {
	r := lipgloss.NewRenderer(w)
	return &Text{
		w:    w,
		path: r.NewStyle().Bold(true),
		code: r.NewStyle().Faint(true),
		severity: map[lint.Severity]lipgloss.Style{
			lint.Error:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
			lint.Warning: r.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
			lint.Info:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		},
	}
}

func (t *Text) Report(files []File) error {
	for _, f := range files {
		for _, d := range f.Diagnostics {
			_, err := fmt.Fprintf(t.w, "%s:%d:%d: %s %s %s (%s)\n",
				t.path.Render(f.Path), d.Line+1, d.Column+1,
				t.severity[d.Severity].Render(d.Severity.String()),
				t.code.Render("["+d.Code+"]"), d.Message, d.Linter)
			if err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(t.w, Summarize(files))
	return err
}

// JSON writes a single document holding every file and the summary.
// Positions stay 0-based.
type JSON struct {
	w io.Writer
}

func NewJSON(w io.Writer) *JSON {
	return &JSON{w: w}
}

type jsonReport struct {
	Files   []File  `json:"files"`
	Summary Summary `json:"summary"`
}

func (j *JSON) Report(files []File) error {
	out := jsonReport{Files: make([]File, 0, len(files)), Summary: Summarize(files)}
	for _, f := range files {
		if f.Diagnostics == nil {
			f.Diagnostics = []lint.Diagnostic{}
		}
		out.Files = append(out.Files, f)
	}

	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
