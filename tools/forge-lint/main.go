// forge-lint checks table templates and dice literals in campaign-forge sources.
package main

import (
	"golang.org/x/tools/go/analysis/multichecker"

	"github.com/ersonp/campaign-forge/tools/forge-lint/analyzers"
)

func main() {
	multichecker.Main(analyzers.All()...)
}
