// Package indent reports indentation that differs from the enclosing
// block's accepted prefix plus exactly one unit of spaces.
package indent

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/agenthands/pystyle/pkg/config"
	"github.com/agenthands/pystyle/pkg/lexer"
	"github.com/agenthands/pystyle/pkg/lint"
)

const (
	Name = "invalidindent"
	Code = "Invalid Indent"
)

var ErrUnderflow = errors.New("indent: more dedents than indents")

// Validate walks ts once. Every INDENT token must equal the accepted prefix
// of the enclosing level plus unit spaces; each mismatch is reported through
// yield and scanning continues. The expected prefix, not the token's text,
// becomes the accepted prefix of the new level.
func Validate(ts lexer.Stream, unit int, yield func(lint.Finding) bool) error {
	if unit <= 0 {
		unit = config.DefaultIndentUnitSize
	}
	step := strings.Repeat(" ", unit)
	message := fmt.Sprintf("Indent should be %d spaces.", unit)

	stack := []string{""}
	for {
		tok := ts.Next()
		switch tok.Kind {
		case lexer.KindEOF:
			return nil
		case lexer.KindError:
			return lexer.ErrLexical
		case lexer.KindIndent:
			expected := stack[len(stack)-1] + step
			stack = append(stack, expected)
			if tok.Text == expected {
				continue
			}
			f := lint.Finding{
				Line:     tok.Line,
				Col:      tok.Col,
				Excerpt:  tok.Text,
				Severity: lint.Error,
				Code:     Code,
				Message:  message,
			}
			if !yield(f) {
				return nil
			}
		case lexer.KindDedent:
			if len(stack) == 1 {
				return fmt.Errorf("%w at %d:%d", ErrUnderflow, tok.Line+1, tok.Col+1)
			}
			stack = stack[:len(stack)-1]
		}
	}
}

// Checker adapts Validate to the lint.Checker interface.
type Checker struct {
	Logger *slog.Logger
}

func NewChecker(logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{Logger: logger}
}

func (c *Checker) Name() string { return Name }

func (c *Checker) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

func (c *Checker) Check(src string, cfg config.Config) iter.Seq[lint.Finding] {
	return func(yield func(lint.Finding) bool) {
		s := lexer.NewScanner(src)
		if err := Validate(s, cfg.IndentUnit(), yield); err != nil {
			if lexErr := s.Err(); lexErr != nil {
				err = fmt.Errorf("%w: %w", err, lexErr)
			}
			c.logger().Debug("region scan aborted", "linter", Name, "error", err)
		}
	}
}
