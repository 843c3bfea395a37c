// Package lint defines the checker interface shared by all pystyle linters
// and runs them over the regions of a document.
package lint

import (
	"cmp"
	"iter"
	"log/slog"
	"slices"

	"github.com/agenthands/pystyle/pkg/config"
	"github.com/agenthands/pystyle/pkg/region"
	"github.com/agenthands/pystyle/pkg/source"
)

// Checker is a single style check. Check must not retain state between
// calls; the returned sequence may be abandoned at any point.
type Checker interface {
	Name() string
	Check(src string, cfg config.Config) iter.Seq[Finding]
}

// Runner applies a set of checkers to documents.
type Runner struct {
	Checkers []Checker
	Logger   *slog.Logger
}

func NewRunner(checkers []Checker, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{Checkers: checkers, Logger: logger}
}

// Run lints every region selected by cfg.Selector and returns the
// diagnostics ordered by position. Within one position the checker order
// and the order of findings are preserved.
func (r *Runner) Run(doc source.Document, cfg config.Config) []Diagnostic {
	if !region.Known(cfg.Selector) {
		r.Logger.Debug("unknown selector", "selector", cfg.Selector, "path", doc.Path)
	}

	var diags []Diagnostic
	for _, reg := range region.Select(cfg.Selector, doc) {
		for _, c := range r.Checkers {
			for f := range c.Check(reg.Text, cfg) {
				diags = append(diags, Emit(c.Name(), reg, f))
			}
		}
	}

	slices.SortStableFunc(diags, func(a, b Diagnostic) int {
		if c := cmp.Compare(a.Line, b.Line); c != 0 {
			return c
		}
		return cmp.Compare(a.Column, b.Column)
	})
	return diags
}

// Count returns the number of diagnostics per severity.
func Count(diags []Diagnostic) map[Severity]int {
	counts := make(map[Severity]int)
	for _, d := range diags {
		counts[d.Severity]++
	}
	return counts
}
