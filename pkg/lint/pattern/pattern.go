// Package pattern holds the flat regular-expression checks. They have no
// structural state: each one matches its expression over the region text.
package pattern

import (
	"iter"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agenthands/pystyle/pkg/config"
	"github.com/agenthands/pystyle/pkg/lint"
)

// Checker reports every match of a regular expression.
type Checker struct {
	name          string
	re            *regexp.Regexp
	severity      lint.Severity
	code          string
	message       string
	stripComments bool
}

func (c *Checker) Name() string { return c.name }

func (c *Checker) Check(src string, _ config.Config) iter.Seq[lint.Finding] {
	return func(yield func(lint.Finding) bool) {
		text := src
		if c.stripComments {
			text = blankComments(src)
		}
		idx := newLineIndex(text)
		for _, m := range c.re.FindAllStringIndex(text, -1) {
			line, col := idx.position(m[0])
			f := lint.Finding{
				Line:     line,
				Col:      col,
				Excerpt:  strings.TrimRight(text[m[0]:m[1]], "\n"),
				Severity: c.severity,
				Code:     c.code,
				Message:  c.message,
			}
			if !yield(f) {
				return
			}
		}
	}
}

var (
	BannedCharacters = &Checker{
		name:          "bannedcharacters",
		re:            regexp.MustCompile(`[^a-zA-Z0-9"'\-:; \r\n\t()\[\]\\/.=_{},^+<>%&?$@*!|]`),
		severity:      lint.Error,
		code:          "Nonstandard characters",
		message:       "Nonstandard characters.",
		stripComments: true,
	}

	ColonSpacing = &Checker{
		name:     "colonspacing",
		re:       regexp.MustCompile(` : `),
		severity: lint.Info,
		code:     "Inconsistent spacing",
		message:  `Inconsistent spacing around colon. Write ": " not " : "`,
	}

	NoEndingNewline = &Checker{
		name:     "noendingnewline",
		re:       regexp.MustCompile(`[^\n]+\z`),
		severity: lint.Error,
		code:     "No ending newline",
		message:  "No newline before EOF.",
	}

	TrailingSpaces = &Checker{
		name:     "trailingspaces",
		re:       regexp.MustCompile(`[ \t]+\n`),
		severity: lint.Info,
		code:     "Trailing whitespace",
		message:  "Trailing whitespace(s).",
	}
)

// blankComments replaces everything from the first '#' of each line with
// one space per character, keeping positions intact.
func blankComments(src string) string {
	if !strings.Contains(src, "#") {
		return src
	}
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		if at := strings.IndexByte(line, '#'); at >= 0 {
			lines[i] = line[:at] + strings.Repeat(" ", utf8.RuneCountInString(line[at:]))
		}
	}
	return strings.Join(lines, "\n")
}

type lineIndex struct {
	text   string
	starts []int
}

func newLineIndex(text string) lineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return lineIndex{text: text, starts: starts}
}

// position converts a byte offset into a 0-based line and rune column.
func (l lineIndex) position(offset int) (line, col int) {
	line = sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > offset }) - 1
	return line, utf8.RuneCountInString(l.text[l.starts[line]:offset])
}
