package parsers

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLParser parses tables from a YAML document with a top-level "tables" list.
type YAMLParser struct{}

// Parse reads YAML from the reader and returns parsed tables.
func (p *YAMLParser) Parse(r io.Reader) ([]RawTable, error) {
	var doc tableFile

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return []RawTable{}, nil
		}
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	return numberTables(doc.Tables), nil
}
