// Package bracket skips balanced (), [] and {} groups in a token stream.
package bracket

import (
	"errors"
	"fmt"

	"github.com/agenthands/pystyle/pkg/lexer"
)

var (
	ErrMismatched   = errors.New("bracket: mismatched closer")
	ErrUnterminated = errors.New("bracket: unterminated group")
	ErrNotOpener    = errors.New("bracket: not an opening bracket")
)

// Skip consumes tokens from ts until the group opened by opener is closed.
// The opener itself must already have been consumed. Nested groups of any
// kind are tracked on an explicit stack, so depth is bounded only by the
// input.
func Skip(ts lexer.Stream, opener lexer.Kind) error {
	if !opener.IsOpener() {
		return fmt.Errorf("%w: %v", ErrNotOpener, opener)
	}

	stack := []lexer.Kind{opener}
	for len(stack) > 0 {
		tok := ts.Next()
		switch {
		case tok.Kind == lexer.KindEOF:
			return fmt.Errorf("%w: %d group(s) open at end of input", ErrUnterminated, len(stack))
		case tok.Kind == lexer.KindError:
			return fmt.Errorf("%w: %w", ErrUnterminated, lexer.ErrLexical)
		case tok.Kind.IsOpener():
			stack = append(stack, tok.Kind)
		case tok.Kind.IsCloser():
			top := stack[len(stack)-1]
			if top.Closer() != tok.Kind {
				return fmt.Errorf("%w: %q at %d:%d closes %v", ErrMismatched, tok.Text, tok.Line+1, tok.Col+1, top)
			}
			stack = stack[:len(stack)-1]
		}
	}
	return nil
}
