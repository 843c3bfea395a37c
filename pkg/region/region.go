// Package region maps a selector to the spans of a document that are scanned.
package region

import (
	"strings"

	"github.com/agenthands/pystyle/pkg/source"
)

const (
	// Python selects Python source: whole .py files, and python fenced
	// code blocks inside Markdown.
	Python = "source.python"
	// Plain selects the whole document regardless of its type.
	Plain = "text.plain"
	// All is an alias of Plain.
	All = "*"
)

// Region is an independently scanned span of a document. Line and Col are
// the 0-based position of its first character in the document.
type Region struct {
	Line int
	Col  int
	Text string
}

// Known reports whether selector is understood by Select.
func Known(selector string) bool {
	switch selector {
	case Python, Plain, All:
		return true
	}
	return false
}

// Select returns the regions of doc matched by selector, in document order.
// Unknown selectors match nothing.
func Select(selector string, doc source.Document) []Region {
	switch selector {
	case Plain, All:
		return []Region{{Text: doc.Text}}
	case Python:
		switch doc.Ext() {
		case ".md", ".markdown":
			return fencedBlocks(doc.Text, isPythonFence)
		default:
			return []Region{{Text: doc.Text}}
		}
	}
	return nil
}

func isPythonFence(info string) bool {
	lang, _, _ := strings.Cut(strings.TrimSpace(info), " ")
	switch strings.ToLower(strings.Trim(lang, "{}.")) {
	case "python", "py", "python3":
		return true
	}
	return false
}

// fencedBlocks extracts the bodies of Markdown fenced code blocks whose
// info string satisfies match. An unclosed fence runs to the end of text.
// When the opening fence is indented, up to that many leading spaces are
// removed from each body line and the region starts at that column.
func fencedBlocks(text string, match func(info string) bool) []Region {
	var (
		regions   []Region
		body      strings.Builder
		open      bool
		keep      bool
		fence     string
		indent    int
		startLine int
	)

	for line, raw := range strings.SplitAfter(text, "\n") {
		content := strings.TrimRight(raw, "\r\n")
		trimmed := strings.TrimLeft(content, " ")
		lead := len(content) - len(trimmed)
		indented := lead >= 4

		switch {
		case !open && !indented && (strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")):
			marker := trimmed[:1]
			n := len(trimmed) - len(strings.TrimLeft(trimmed, marker))
			open = true
			fence = trimmed[:n]
			keep = match(trimmed[n:])
			indent = lead
			startLine = line + 1
			body.Reset()
		case open && !indented && strings.HasPrefix(trimmed, fence) && strings.TrimSpace(strings.TrimLeft(trimmed, fence[:1])) == "":
			if keep {
				regions = append(regions, Region{Line: startLine, Col: indent, Text: body.String()})
			}
			open = false
		case open && keep:
			body.WriteString(stripSpaces(raw, indent))
		}
	}

	if open && keep {
		regions = append(regions, Region{Line: startLine, Col: indent, Text: body.String()})
	}
	return regions
}

// stripSpaces removes at most n leading spaces from line.
func stripSpaces(line string, n int) string {
	i := 0
	for i < n && i < len(line) && line[i] == ' ' {
		i++
	}
	return line[i:]
}
