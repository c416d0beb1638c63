package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// CSVParser parses tables from CSV, one entry per row.
// Rows sharing a "table" value form one table, in order of first appearance.
// Expected columns: table, text, and optionally name, method, table_dice,
// range, min, max, weight, dice, subtable.
type CSVParser struct{}

// Parse reads CSV from the reader and returns parsed tables.
func (p *CSVParser) Parse(r io.Reader) ([]RawTable, error) {
	reader := csv.NewReader(r)

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, colIndex)
}

// readHeader reads and validates the CSV header row.
func (p *CSVParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[col] = i
	}

	requiredCols := []string{"table", "text"}
	for _, col := range requiredCols {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	return colIndex, nil
}

// readRecords reads all data rows and groups them into RawTables.
func (p *CSVParser) readRecords(reader *csv.Reader, colIndex map[string]int) ([]RawTable, error) {
	tables := []RawTable{}
	byID := make(map[string]int)
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		id := getColumn(record, colIndex, "table")
		idx, ok := byID[id]
		if !ok {
			tables = append(tables, RawTable{ID: id, LineNum: lineNum})
			idx = len(tables) - 1
			byID[id] = idx
		}
		t := &tables[idx]
		if t.Name == "" {
			t.Name = getColumn(record, colIndex, "name")
		}
		if t.Method == "" {
			t.Method = getColumn(record, colIndex, "method")
		}
		if t.Dice == "" {
			t.Dice = getColumn(record, colIndex, "table_dice")
		}

		entry, err := p.parseRecord(record, colIndex, lineNum)
		if err != nil {
			return nil, err
		}
		t.Entries = append(t.Entries, entry)
	}

	return tables, nil
}

// parseRecord converts a CSV record to a RawEntry.
func (p *CSVParser) parseRecord(record []string, colIndex map[string]int, lineNum int) (RawEntry, error) {
	entry := RawEntry{
		Text:     getColumn(record, colIndex, "text"),
		Range:    getColumn(record, colIndex, "range"),
		Dice:     getColumn(record, colIndex, "dice"),
		Subtable: getColumn(record, colIndex, "subtable"),
	}

	for _, col := range []string{"min", "max"} {
		s := getColumn(record, colIndex, col)
		if s == "" {
			continue
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return RawEntry{}, fmt.Errorf("line %d: invalid %s value %q: %w", lineNum, col, s, err)
		}
		if col == "min" {
			entry.Min = v
		} else {
			entry.Max = v
		}
	}

	weightStr := getColumn(record, colIndex, "weight")
	if weightStr != "" {
		w, err := strconv.ParseFloat(weightStr, 64)
		if err != nil {
			return RawEntry{}, fmt.Errorf("line %d: invalid weight value %q: %w", lineNum, weightStr, err)
		}
		entry.Weight = &w
	}

	return entry, nil
}

// getColumn safely retrieves a column value from a record.
func getColumn(record []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(record) {
		return record[idx]
	}
	return ""
}
