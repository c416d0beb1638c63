package parsers

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONParser parses tables from JSON. It reads the same {"tables": [...]}
// document that a table export writes.
type JSONParser struct{}

// Parse reads JSON from the reader and returns parsed tables.
func (p *JSONParser) Parse(r io.Reader) ([]RawTable, error) {
	var doc tableFile

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	// Position = array index + 1
	return numberTables(doc.Tables), nil
}
