// Package analyzers provides all custom static analyzers for campaign-forge.
package analyzers

import (
	"golang.org/x/tools/go/analysis"

	"github.com/ersonp/campaign-forge/tools/forge-lint/analyzers/diceliteral"
	"github.com/ersonp/campaign-forge/tools/forge-lint/analyzers/tabletoken"
)

// All returns all analyzers to run.
func All() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		tabletoken.Analyzer,
		diceliteral.Analyzer,
	}
}
