package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ersonp/campaign-forge/internal/domain/entities"
	"github.com/ersonp/campaign-forge/internal/infrastructure/parsers"
)

// ConflictStrategy defines how to handle tables whose id is already registered.
type ConflictStrategy string

const (
	// ConflictSkip keeps the registered table and skips the imported one.
	ConflictSkip ConflictStrategy = "skip"
	// ConflictOverwrite replaces the registered table.
	ConflictOverwrite ConflictStrategy = "overwrite"
	// ConflictFail rejects the whole import when any id is already registered.
	ConflictFail ConflictStrategy = "fail"
)

// ParseConflictStrategy validates and converts a string to ConflictStrategy.
func ParseConflictStrategy(s string) (ConflictStrategy, error) {
	switch ConflictStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case ConflictSkip, "":
		return ConflictSkip, nil
	case ConflictOverwrite:
		return ConflictOverwrite, nil
	case ConflictFail:
		return ConflictFail, nil
	default:
		return "", fmt.Errorf("invalid conflict strategy %q (valid: skip, overwrite, fail)", s)
	}
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun     bool             // Validate without registering
	OnConflict ConflictStrategy // How to handle existing tables
}

// ImportError represents an error for a specific table during import.
type ImportError struct {
	Line    int    // Position in the source (1-indexed, 0 if unknown)
	Table   string // Table id, if known
	Field   string // Which field has the error
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e ImportError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	Imported []string
	Skipped  []string
	Errors   []ImportError
}

// TableImportService validates custom tables and registers them.
type TableImportService struct {
	registry *Registry
	logger   *zap.Logger
}

// NewTableImportService creates a new import service.
func NewTableImportService(registry *Registry, logger *zap.Logger) *TableImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TableImportService{registry: registry, logger: logger}
}

// Import validates raw tables and registers the valid ones.
// Invalid tables are reported in ImportResult.Errors and do not stop the import.
func (s *TableImportService) Import(ctx context.Context, raws []parsers.RawTable, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{}

	tables, validationErrors := s.validateTables(raws)
	result.Errors = validationErrors

	if len(tables) == 0 {
		return result, nil
	}

	if opts.OnConflict == ConflictFail {
		for i := range tables {
			if s.registry.Has(tables[i].ID) {
				return nil, &entities.DuplicateTableError{ID: tables[i].ID}
			}
		}
	}

	for i := range tables {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t := tables[i]

		exists := s.registry.Has(t.ID)
		if exists && opts.OnConflict != ConflictOverwrite {
			result.Skipped = append(result.Skipped, t.ID)
			continue
		}
		if opts.DryRun {
			result.Imported = append(result.Imported, t.ID)
			continue
		}
		if err := s.registry.Replace(t); err != nil {
			return nil, fmt.Errorf("registering table %q: %w", t.ID, err)
		}
		s.logger.Debug("imported table", zap.String("table", t.ID), zap.Bool("replaced", exists))
		result.Imported = append(result.Imported, t.ID)
	}

	return result, nil
}

// validateTables converts raw tables and returns valid ones with any errors.
func (s *TableImportService) validateTables(raws []parsers.RawTable) ([]entities.Table, []ImportError) {
	valid := make([]entities.Table, 0, len(raws))
	var errors []ImportError
	seen := make(map[string]bool, len(raws))

	for i := range raws {
		raw := &raws[i]
		lineNum := raw.LineNum
		if lineNum == 0 {
			lineNum = i + 1
		}

		t, ierr := convertRawTable(raw, lineNum)
		if ierr != nil {
			errors = append(errors, *ierr)
			continue
		}
		if seen[t.ID] {
			errors = append(errors, ImportError{
				Line:    lineNum,
				Table:   t.ID,
				Field:   "id",
				Value:   t.ID,
				Message: fmt.Sprintf("table %q is defined more than once", t.ID),
			})
			continue
		}
		seen[t.ID] = true
		valid = append(valid, t)
	}

	return valid, errors
}

// convertRawTable validates a single raw table and converts it to an entity.
func convertRawTable(raw *parsers.RawTable, lineNum int) (entities.Table, *ImportError) {
	id := strings.TrimSpace(raw.ID)
	if id == "" {
		return entities.Table{}, &ImportError{Line: lineNum, Field: "id", Message: "missing required field: id"}
	}

	methodStr := raw.Method
	if methodStr == "" {
		methodStr = string(entities.MethodStandard)
	}
	method, err := entities.ParseMethod(methodStr)
	if err != nil {
		return entities.Table{}, &ImportError{Line: lineNum, Table: id, Field: "method", Value: raw.Method, Message: err.Error()}
	}

	t := entities.Table{
		ID:      id,
		Name:    raw.Name,
		Dice:    strings.TrimSpace(raw.Dice),
		Method:  method,
		Entries: make([]entities.Entry, 0, len(raw.Entries)),
	}
	for i := range raw.Entries {
		entry, ierr := convertRawEntry(&raw.Entries[i], method)
		if ierr != nil {
			ierr.Line = lineNum
			ierr.Table = id
			ierr.Message = fmt.Sprintf("table %q entry[%d]: %s", id, i, ierr.Message)
			return entities.Table{}, ierr
		}
		t.Entries = append(t.Entries, entry)
	}
	if raw.Fallback != nil {
		fb, ierr := convertRawEntry(raw.Fallback, entities.MethodWeighted)
		if ierr != nil {
			ierr.Line = lineNum
			ierr.Table = id
			ierr.Message = fmt.Sprintf("table %q fallback: %s", id, ierr.Message)
			return entities.Table{}, ierr
		}
		t.Fallback = &fb
	}

	if err := t.Validate(); err != nil {
		return entities.Table{}, &ImportError{Line: lineNum, Table: id, Message: err.Error()}
	}
	return t, nil
}

func convertRawEntry(raw *parsers.RawEntry, method entities.Method) (entities.Entry, *ImportError) {
	entry := entities.Entry{
		Min:      raw.Min,
		Max:      raw.Max,
		Text:     raw.Text,
		Subtable: strings.TrimSpace(raw.Subtable),
		Dice:     strings.TrimSpace(raw.Dice),
	}
	if entry.Text == "" && entry.Subtable == "" && len(raw.Attributes) == 0 {
		return entities.Entry{}, &ImportError{Field: "text", Message: "missing required field: text"}
	}

	if raw.Range != "" {
		lo, hi, err := parseRange(raw.Range)
		if err != nil {
			return entities.Entry{}, &ImportError{Field: "range", Value: raw.Range, Message: err.Error()}
		}
		entry.Min, entry.Max = lo, hi
	} else if method.IsRanged() && entry.Max == 0 {
		entry.Max = entry.Min
	}

	if raw.Weight != nil {
		if *raw.Weight < 0 {
			return entities.Entry{}, &ImportError{
				Field:   "weight",
				Value:   strconv.FormatFloat(*raw.Weight, 'f', -1, 64),
				Message: "weight must be >= 0",
			}
		}
		entry.Weight = *raw.Weight
	}

	for _, rc := range raw.Conditions {
		cond := entities.Condition{
			Type:  entities.ConditionType(strings.ToLower(strings.TrimSpace(rc.Type))),
			Key:   strings.TrimSpace(rc.Key),
			Value: rc.Value,
			Min:   rc.Min,
			Max:   rc.Max,
		}
		switch cond.Type {
		case entities.ConditionParameter, entities.ConditionRange, entities.ConditionExists:
		default:
			return entities.Entry{}, &ImportError{
				Field:   "conditions",
				Value:   rc.Type,
				Message: fmt.Sprintf("invalid condition type %q (valid: parameter, range, exists)", rc.Type),
			}
		}
		if cond.Key == "" {
			return entities.Entry{}, &ImportError{Field: "conditions", Message: "condition is missing a key"}
		}
		entry.Conditions = append(entry.Conditions, cond)
	}

	if len(raw.Attributes) > 0 {
		entry.Attributes = make(map[string]string, len(raw.Attributes))
		for k, v := range raw.Attributes {
			entry.Attributes[k] = v
		}
	}
	return entry, nil
}

// parseRange reads "N" or "N-M".
func parseRange(s string) (lo, hi int, err error) {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(s, "-", 2)
	lo, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range %q", s)
	}
	if len(parts) == 1 {
		return lo, lo, nil
	}
	hi, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range %q", s)
	}
	if lo > hi {
		return 0, 0, fmt.Errorf("invalid range %q: low end exceeds high end", s)
	}
	return lo, hi, nil
}
