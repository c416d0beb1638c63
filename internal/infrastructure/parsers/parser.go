// Package parsers provides parsers for importing custom tables from various formats.
package parsers

import (
	"io"
	"path/filepath"
	"strings"
)

// RawTable represents a table parsed from an external source before validation.
type RawTable struct {
	ID       string     `json:"id" yaml:"id"`
	Name     string     `json:"name,omitempty" yaml:"name,omitempty"`
	Dice     string     `json:"dice,omitempty" yaml:"dice,omitempty"`
	Method   string     `json:"method" yaml:"method"`
	Entries  []RawEntry `json:"entries" yaml:"entries"`
	Fallback *RawEntry  `json:"fallback,omitempty" yaml:"fallback,omitempty"`
	LineNum  int        `json:"-" yaml:"-"` // Position in source file (set by parser)
}

// RawEntry is one table row as written in the source file.
// Range accepts "N" or "N-M" as a shorthand for Min/Max.
type RawEntry struct {
	Range      string            `json:"range,omitempty" yaml:"range,omitempty"`
	Min        int               `json:"min,omitempty" yaml:"min,omitempty"`
	Max        int               `json:"max,omitempty" yaml:"max,omitempty"`
	Weight     *float64          `json:"weight,omitempty" yaml:"weight,omitempty"` // Pointer to distinguish 0 from unset
	Text       string            `json:"text" yaml:"text"`
	Subtable   string            `json:"subtable,omitempty" yaml:"subtable,omitempty"`
	Dice       string            `json:"dice,omitempty" yaml:"dice,omitempty"`
	Conditions []RawCondition    `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// RawCondition is an unvalidated entry condition.
type RawCondition struct {
	Type  string `json:"type" yaml:"type"`
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
	Min   int    `json:"min,omitempty" yaml:"min,omitempty"`
	Max   int    `json:"max,omitempty" yaml:"max,omitempty"`
}

// Parser defines the interface for parsing tables from various formats.
type Parser interface {
	Parse(r io.Reader) ([]RawTable, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "yaml", "json", "csv".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return &YAMLParser{}
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return nil
	}
	return ForFormat(ext)
}

// tableFile is the document shape shared by the YAML and JSON formats.
type tableFile struct {
	Tables []RawTable `json:"tables" yaml:"tables"`
}

func numberTables(tables []RawTable) []RawTable {
	if tables == nil {
		return []RawTable{}
	}
	for i := range tables {
		tables[i].LineNum = i + 1
	}
	return tables
}
