// Package signature reports function definitions that have no return type
// annotation.
package signature

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/agenthands/pystyle/pkg/config"
	"github.com/agenthands/pystyle/pkg/lexer"
	"github.com/agenthands/pystyle/pkg/lint"
	"github.com/agenthands/pystyle/pkg/lint/bracket"
)

const (
	Name    = "noreturntype"
	Code    = "Missing return type annotation"
	Message = "Function definition with missing return type annotation."

	keyword = "def"
)

var (
	ErrMissingName   = errors.New("signature: expected function name")
	ErrMissingParams = errors.New("signature: expected parameter list")
)

// Scan walks ts once and calls yield for every definition whose parameter
// list is followed directly by the block colon. It stops early when yield
// returns false. A malformed definition ends the scan with an error;
// findings already yielded stand.
//
// Definitions nested in default values are skipped with the parameter list
// that contains them.
func Scan(ts lexer.Stream, yield func(lint.Finding) bool) error {
	for {
		tok := ts.Next()
		switch tok.Kind {
		case lexer.KindEOF:
			return nil
		case lexer.KindError:
			return lexer.ErrLexical
		case lexer.KindName:
			if tok.Text != keyword {
				continue
			}
		default:
			continue
		}

		f, found, err := scanDef(ts, tok)
		if err != nil {
			return err
		}
		if found && !yield(f) {
			return nil
		}
	}
}

// scanDef inspects one definition. def is the already consumed keyword.
func scanDef(ts lexer.Stream, def lexer.Token) (lint.Finding, bool, error) {
	name := ts.Next()
	if name.Kind != lexer.KindName {
		return lint.Finding{}, false, fmt.Errorf("%w at %d:%d, found %v", ErrMissingName, name.Line+1, name.Col+1, name.Kind)
	}

	open := ts.Next()
	if open.Kind == lexer.KindLBracket {
		if err := bracket.Skip(ts, open.Kind); err != nil {
			return lint.Finding{}, false, fmt.Errorf("type parameters of %s: %w", name.Text, err)
		}
		open = ts.Next()
	}
	if open.Kind != lexer.KindLParen {
		return lint.Finding{}, false, fmt.Errorf("%w for %s at %d:%d, found %v", ErrMissingParams, name.Text, open.Line+1, open.Col+1, open.Kind)
	}
	if err := bracket.Skip(ts, open.Kind); err != nil {
		return lint.Finding{}, false, fmt.Errorf("parameters of %s: %w", name.Text, err)
	}

	after := ts.Next()
	switch after.Kind {
	case lexer.KindArrow:
		return lint.Finding{}, false, nil
	case lexer.KindColon:
		return finding(after, def), true, nil
	case lexer.KindEOF:
		return finding(def, def), true, nil
	case lexer.KindError:
		return lint.Finding{}, false, lexer.ErrLexical
	}
	// Anything else is irregular syntax, not a missing annotation.
	return lint.Finding{}, false, nil
}

func finding(at, def lexer.Token) lint.Finding {
	return lint.Finding{
		Line:     at.Line,
		Col:      at.Col,
		Excerpt:  strings.TrimSpace(def.LineText),
		Severity: lint.Error,
		Code:     Code,
		Message:  Message,
	}
}

// Checker adapts Scan to the lint.Checker interface.
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

func (c *Checker) Check(src string, _ config.Config) iter.Seq[lint.Finding] {
	return func(yield func(lint.Finding) bool) {
		s := lexer.NewScanner(src)
		if err := Scan(s, yield); err != nil {
			if lexErr := s.Err(); lexErr != nil {
				err = fmt.Errorf("%w: %w", err, lexErr)
			}
			c.logger().Debug("region scan aborted", "linter", Name, "error", err)
		}
	}
}
