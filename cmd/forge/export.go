package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ersonp/campaign-forge/internal/domain/entities"
	"github.com/ersonp/campaign-forge/internal/domain/services"
)

// writeOutput writes through format to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, format func(io.Writer) error) (err error) {
	if path == "" {
		return format(w)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing file: %w", cerr)
		}
	}()
	return format(f)
}

func formatTables(w io.Writer, format string, export services.TablesExport) error {
	switch format {
	case "json":
		return printJSON(w, export)
	case "yaml":
		return formatTablesYAML(w, export.Tables)
	case "csv":
		return formatTablesCSV(w, export.Tables)
	case "markdown":
		return formatTablesMarkdown(w, export.Tables)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// formatTablesYAML writes the {tables: [...]} document the YAML importer reads.
func formatTablesYAML(w io.Writer, tables []entities.Table) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(map[string][]entities.Table{"tables": tables}); err != nil {
		return err
	}
	return encoder.Close()
}

// formatTablesCSV writes one row per entry. Conditions and attributes have
// no CSV column and are dropped.
func formatTablesCSV(w io.Writer, tables []entities.Table) error {
	writer := csv.NewWriter(w)

	header := []string{"table", "name", "method", "table_dice", "min", "max", "weight", "dice", "subtable", "text"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for i := range tables {
		t := &tables[i]
		for _, e := range t.Entries {
			row := []string{
				t.ID,
				t.Name,
				string(t.Method),
				t.Dice,
				intOrEmpty(e.Min),
				intOrEmpty(e.Max),
				floatOrEmpty(e.Weight),
				e.Dice,
				e.Subtable,
				e.Label(),
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatTablesMarkdown(w io.Writer, tables []entities.Table) error {
	if _, err := fmt.Fprintf(w, "# Exported Tables\n\nTotal: %d tables\n", len(tables)); err != nil {
		return err
	}

	for i := range tables {
		t := &tables[i]
		if _, err := fmt.Fprintf(w, "\n## %s (`%s`)\n\n", escapeMarkdown(t.Name), t.ID); err != nil {
			return err
		}
		if dice := t.DiceExpression(); dice != "" {
			if _, err := fmt.Fprintf(w, "Method: %s, dice: %s\n\n", t.Method, dice); err != nil {
				return err
			}
		} else if _, err := fmt.Fprintf(w, "Method: %s\n\n", t.Method); err != nil {
			return err
		}

		if _, err := fmt.Fprint(w, "| Roll | Result |\n|------|--------|\n"); err != nil {
			return err
		}
		for _, e := range t.Entries {
			if _, err := fmt.Fprintf(w, "| %s | %s |\n", entryKey(t, e), escapeMarkdown(entryText(e))); err != nil {
				return err
			}
		}
	}

	return nil
}

// entryKey labels an entry by its range, weight or conditions.
func entryKey(t *entities.Table, e entities.Entry) string {
	switch {
	case t.Method.IsRanged() && e.Min == e.Max:
		return strconv.Itoa(e.Min)
	case t.Method.IsRanged():
		return fmt.Sprintf("%d-%d", e.Min, e.Max)
	case t.Method == entities.MethodWeighted:
		return "w" + strconv.FormatFloat(e.EffectiveWeight(), 'f', -1, 64)
	case len(e.Conditions) > 0:
		parts := make([]string, 0, len(e.Conditions))
		for _, c := range e.Conditions {
			parts = append(parts, conditionString(c))
		}
		return escapeMarkdown(strings.Join(parts, " & "))
	default:
		return "-"
	}
}

func entryText(e entities.Entry) string {
	text := e.Label()
	if e.Dice != "" {
		text += " (" + e.Dice + ")"
	}
	if e.Subtable != "" {
		text += " -> " + e.Subtable
	}
	return text
}

func conditionString(c entities.Condition) string {
	switch c.Type {
	case entities.ConditionParameter:
		return c.Key + "=" + c.Value
	case entities.ConditionRange:
		return fmt.Sprintf("%s in %d..%d", c.Key, c.Min, c.Max)
	default:
		return c.Key + "?"
	}
}

func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

func intOrEmpty(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func floatOrEmpty(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
