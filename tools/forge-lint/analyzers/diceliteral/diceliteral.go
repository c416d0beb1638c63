// Package diceliteral detects dice expressions the dice parser will reject.
package diceliteral

import (
	"go/ast"
	"go/token"
	"regexp"
	"strconv"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer checks string literals used as dice: Dice struct fields and the
// first argument of Roll and Parse calls.
var Analyzer = &analysis.Analyzer{
	Name:     "diceliteral",
	Doc:      "detects unreadable dice expressions in Dice fields and Roll/Parse calls",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// reDice accepts NdM[+-K], dN, d% and bare integers.
var reDice = regexp.MustCompile(`(?i)^\s*(?:(\d*)\s*d\s*(?:\d+|%)\s*(?:[+-]\s*\d+)?|-?\d+)\s*$`)

var diceFuncs = map[string]bool{
	"Roll":  true,
	"Parse": true,
}

func run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.KeyValueExpr)(nil),
		(*ast.CallExpr)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		switch node := n.(type) {
		case *ast.KeyValueExpr:
			key, ok := node.Key.(*ast.Ident)
			if !ok || key.Name != "Dice" {
				return
			}
			report(pass, node.Value)
		case *ast.CallExpr:
			sel, ok := node.Fun.(*ast.SelectorExpr)
			if !ok || !diceFuncs[sel.Sel.Name] || len(node.Args) != 1 {
				return
			}
			report(pass, node.Args[0])
		}
	})

	return nil, nil
}

func report(pass *analysis.Pass, expr ast.Expr) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return
	}
	value, err := strconv.Unquote(lit.Value)
	if err != nil || value == "" {
		return
	}
	if !reDice.MatchString(value) {
		pass.Reportf(lit.Pos(), "dice expression %q is not NdM[+-K] or an integer", value)
	}
}
