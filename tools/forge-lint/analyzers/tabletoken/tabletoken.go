// Package tabletoken detects malformed [TABLE:] and [ROLL:] tokens in string literals.
package tabletoken

import (
	"go/ast"
	"go/token"
	"strconv"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer reports table and roll tokens that the resolver would leave unexpanded.
var Analyzer = &analysis.Analyzer{
	Name:     "tabletoken",
	Doc:      "detects malformed [TABLE:name] and [ROLL:expr] tokens in string literals",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

var prefixes = []string{"[TABLE:", "[ROLL:"}

func run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.BasicLit)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		lit := n.(*ast.BasicLit)
		if lit.Kind != token.STRING {
			return
		}
		text, err := strconv.Unquote(lit.Value)
		if err != nil {
			return
		}
		if msg := check(text); msg != "" {
			pass.Reportf(lit.Pos(), "%s", msg)
		}
	})

	return nil, nil
}

// check returns a description of the first malformed token in text, or "".
func check(text string) string {
	upper := strings.ToUpper(text)
	for _, prefix := range prefixes {
		offset := 0
		for {
			i := strings.Index(upper[offset:], prefix)
			if i < 0 {
				break
			}
			start := offset + i
			if !strings.HasPrefix(text[start:], prefix) {
				return "token " + text[start:start+len(prefix)] + " must be written " + prefix
			}
			rest := text[start+len(prefix):]
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return prefix + " token is missing its closing bracket"
			}
			if strings.TrimSpace(rest[:end]) == "" {
				return prefix + "] token is empty"
			}
			offset = start + len(prefix) + end
		}
	}
	return ""
}
