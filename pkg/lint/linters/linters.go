// Package linters registers every checker pystyle ships with.
package linters

import (
	"fmt"
	"log/slog"

	"github.com/agenthands/pystyle/pkg/lint"
	"github.com/agenthands/pystyle/pkg/lint/indent"
	"github.com/agenthands/pystyle/pkg/lint/pattern"
	"github.com/agenthands/pystyle/pkg/lint/signature"
)

// All returns every checker in reporting order.
func All(logger *slog.Logger) []lint.Checker {
	return []lint.Checker{
		signature.NewChecker(logger),
		indent.NewChecker(logger),
		pattern.BannedCharacters,
		pattern.ColonSpacing,
		pattern.NoEndingNewline,
		pattern.TrailingSpaces,
	}
}

// Names lists the registered checker names.
func Names() []string {
	var names []string
	for _, c := range All(nil) {
		names = append(names, c.Name())
	}
	return names
}

// Select returns the checkers named in names, in registry order. An empty
// list selects all of them.
func Select(names []string, logger *slog.Logger) ([]lint.Checker, error) {
	all := All(logger)
	if len(names) == 0 {
		return all, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var out []lint.Checker
	for _, c := range all {
		if wanted[c.Name()] {
			out = append(out, c)
			delete(wanted, c.Name())
		}
	}
	for _, n := range names {
		if wanted[n] {
			return nil, fmt.Errorf("linters: unknown linter %q", n)
		}
	}
	return out, nil
}
