package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/campaign-forge/internal/domain/entities"
	"github.com/ersonp/campaign-forge/internal/infrastructure/parsers"
)

func weightPtr(w float64) *float64 { return &w }

func rawInns() parsers.RawTable {
	return parsers.RawTable{
		ID:     "inns",
		Name:   "Inns",
		Dice:   "1d4",
		Method: "standard",
		Entries: []parsers.RawEntry{
			{Range: "1-3", Text: "The Prancing Pony"},
			{Min: 4, Text: "The Green Dragon"},
		},
	}
}

func TestParseConflictStrategy(t *testing.T) {
	tests := []struct {
		input   string
		want    ConflictStrategy
		wantErr bool
	}{
		{input: "", want: ConflictSkip},
		{input: "skip", want: ConflictSkip},
		{input: " Overwrite ", want: ConflictOverwrite},
		{input: "FAIL", want: ConflictFail},
		{input: "merge", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseConflictStrategy(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTableImportService_Import(t *testing.T) {
	registry := NewRegistry()
	svc := NewTableImportService(registry, nil)

	result, err := svc.Import(context.Background(), []parsers.RawTable{rawInns()}, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"inns"}, result.Imported)
	assert.Empty(t, result.Errors)

	table, err := registry.Get("inns")
	require.NoError(t, err)
	require.Len(t, table.Entries, 2)
	assert.Equal(t, 1, table.Entries[0].Min)
	assert.Equal(t, 3, table.Entries[0].Max)
	assert.Equal(t, 4, table.Entries[1].Min)
	assert.Equal(t, 4, table.Entries[1].Max)
	report, err := registry.Check("inns")
	require.NoError(t, err)
	assert.True(t, report.OK())
}

func TestTableImportService_DryRun(t *testing.T) {
	registry := NewRegistry()
	svc := NewTableImportService(registry, nil)

	result, err := svc.Import(context.Background(), []parsers.RawTable{rawInns()}, ImportOptions{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"inns"}, result.Imported)
	assert.False(t, registry.Has("inns"))
}

func TestTableImportService_Conflicts(t *testing.T) {
	replacement := rawInns()
	replacement.Entries = []parsers.RawEntry{{Range: "1-4", Text: "The Yawning Portal"}}

	tests := []struct {
		name     string
		strategy ConflictStrategy
		wantErr  bool
		skipped  []string
		imported []string
		wantText string
	}{
		{name: "skip", strategy: ConflictSkip, skipped: []string{"inns"}, wantText: "The Prancing Pony"},
		{name: "overwrite", strategy: ConflictOverwrite, imported: []string{"inns"}, wantText: "The Yawning Portal"},
		{name: "fail", strategy: ConflictFail, wantErr: true, wantText: "The Prancing Pony"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry()
			svc := NewTableImportService(registry, nil)
			_, err := svc.Import(context.Background(), []parsers.RawTable{rawInns()}, ImportOptions{})
			require.NoError(t, err)

			result, err := svc.Import(context.Background(), []parsers.RawTable{replacement}, ImportOptions{OnConflict: tt.strategy})
			if tt.wantErr {
				var dup *entities.DuplicateTableError
				assert.True(t, errors.As(err, &dup))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.skipped, result.Skipped)
				assert.Equal(t, tt.imported, result.Imported)
			}

			table, err := registry.Get("inns")
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, table.Entries[0].Text)
		})
	}
}

func TestTableImportService_PerTableErrors(t *testing.T) {
	registry := NewRegistry()
	svc := NewTableImportService(registry, nil)

	raws := []parsers.RawTable{
		rawInns(),
		{ID: "", Method: "weighted", Entries: []parsers.RawEntry{{Text: "x"}}, LineNum: 7},
		{ID: "bad_method", Method: "chaotic", Entries: []parsers.RawEntry{{Text: "x"}}},
		{ID: "bad_range", Dice: "1d6", Entries: []parsers.RawEntry{{Range: "5-2", Text: "x"}}},
		{ID: "bad_weight", Method: "weighted", Entries: []parsers.RawEntry{{Weight: weightPtr(-1), Text: "x"}}},
		{ID: "bad_condition", Method: "conditional", Entries: []parsers.RawEntry{{
			Text:       "x",
			Conditions: []parsers.RawCondition{{Type: "vibes", Key: "mood"}},
		}}},
		{ID: "no_text", Method: "weighted", Entries: []parsers.RawEntry{{Weight: weightPtr(1)}}},
		{ID: "no_dice", Method: "standard", Entries: []parsers.RawEntry{{Range: "1", Text: "x"}}},
		rawInns(),
	}

	result, err := svc.Import(context.Background(), raws, ImportOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"inns"}, result.Imported)
	require.Len(t, result.Errors, 8)
	assert.Equal(t, 7, result.Errors[0].Line)
	assert.Equal(t, "id", result.Errors[0].Field)
	assert.Equal(t, "method", result.Errors[1].Field)
	assert.Equal(t, "range", result.Errors[2].Field)
	assert.Equal(t, "weight", result.Errors[3].Field)
	assert.Equal(t, "conditions", result.Errors[4].Field)
	assert.Equal(t, "text", result.Errors[5].Field)
	assert.Contains(t, result.Errors[6].Message, "need a dice expression")
	assert.Contains(t, result.Errors[7].Message, "defined more than once")
	assert.Equal(t, 9, result.Errors[7].Line)
}

func TestTableImportService_FallbackAndConditions(t *testing.T) {
	registry := NewRegistry()
	svc := NewTableImportService(registry, nil)

	raw := parsers.RawTable{
		ID:     "ambush",
		Method: "conditional",
		Entries: []parsers.RawEntry{{
			Text: "Goblins",
			Conditions: []parsers.RawCondition{
				{Type: "Parameter", Key: "environment", Value: "forest"},
				{Type: "range", Key: "partyLevel", Min: 1, Max: 3},
			},
		}},
		Fallback: &parsers.RawEntry{Text: "All clear"},
	}

	result, err := svc.Import(context.Background(), []parsers.RawTable{raw}, ImportOptions{})
	require.NoError(t, err)
	require.Empty(t, result.Errors)

	table, err := registry.Get("ambush")
	require.NoError(t, err)
	require.NotNil(t, table.Fallback)
	assert.Equal(t, "All clear", table.Fallback.Text)
	require.Len(t, table.Entries[0].Conditions, 2)
	assert.Equal(t, entities.ConditionParameter, table.Entries[0].Conditions[0].Type)
	assert.True(t, table.Entries[0].Allows(entities.Params{"environment": "forest", "partyLevel": "2"}))
}

func TestTableImportService_CanceledContext(t *testing.T) {
	svc := NewTableImportService(NewRegistry(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Import(ctx, []parsers.RawTable{rawInns()}, ImportOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		input   string
		lo, hi  int
		wantErr bool
	}{
		{input: "4", lo: 4, hi: 4},
		{input: "1-3", lo: 1, hi: 3},
		{input: " 10 - 20 ", lo: 10, hi: 20},
		{input: "5-2", wantErr: true},
		{input: "a-b", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lo, hi, err := parseRange(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.lo, lo)
			assert.Equal(t, tt.hi, hi)
		})
	}
}
