// Package pyast counts unannotated function definitions with a real Python
// parser. It backs `pystyle verify` and serves as an independent oracle
// for the token-based signature scanner.
package pyast

import (
	"fmt"
	"strings"

	"github.com/go-python/gpython/ast"
	"github.com/go-python/gpython/parser"
	"github.com/go-python/gpython/py"
)

// Def is a function definition without a return annotation.
// Line is 0-based.
type Def struct {
	Name string
	Line int
}

// MissingReturns parses src and lists every function definition, at any
// depth, that has no return annotation. The parser understands Python 3.4
// syntax only.
func MissingReturns(src string) ([]Def, error) {
	mod, err := parser.Parse(strings.NewReader(src), "<string>", py.ExecMode)
	if err != nil {
		return nil, fmt.Errorf("python parse error: %w", err)
	}

	module, ok := mod.(*ast.Module)
	if !ok {
		return nil, fmt.Errorf("expected *ast.Module, got %T", mod)
	}

	var defs []Def
	ast.Walk(module, func(node ast.Ast) bool {
		if fn, ok := node.(*ast.FunctionDef); ok && fn.Returns == nil {
			defs = append(defs, Def{Name: string(fn.Name), Line: fn.Lineno - 1})
		}
		return true
	})
	return defs, nil
}
