package handlers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/campaign-forge/internal/domain/entities"
	"github.com/ersonp/campaign-forge/internal/domain/services"
)

func newTestImportHandler(t *testing.T) (*ImportHandler, *services.Registry) {
	t.Helper()
	registry, err := services.NewDefaultRegistry()
	require.NoError(t, err)
	return NewImportHandler(services.NewTableImportService(registry, nil)), registry
}

const innsYAML = `
tables:
  - id: inns
    name: Inns of the Realm
    method: standard
    dice: 1d4
    entries:
      - range: 1-2
        text: The Prancing Pony
      - range: 3-4
        text: The Green Dragon
`

func TestImportHandler_Handle_YAMLFile(t *testing.T) {
	handler, registry := newTestImportHandler(t)

	path := filepath.Join(t.TempDir(), "inns.yaml")
	require.NoError(t, os.WriteFile(path, []byte(innsYAML), 0644))

	result, err := handler.Handle(context.Background(), path, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"inns"}, result.Imported)
	assert.Empty(t, result.Errors)

	table, err := registry.Get("inns")
	require.NoError(t, err)
	assert.Equal(t, 3, table.Entries[1].Min)
	assert.Equal(t, 4, table.Entries[1].Max)
}

func TestImportHandler_Handle_CSVFile(t *testing.T) {
	handler, registry := newTestImportHandler(t)

	path := filepath.Join(t.TempDir(), "signs.csv")
	content := "table,method,text,weight\nsigns,weighted,A crow,3\nsigns,weighted,A comet,1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	result, err := handler.Handle(context.Background(), path, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"signs"}, result.Imported)

	table, err := registry.Get("signs")
	require.NoError(t, err)
	assert.Equal(t, entities.MethodWeighted, table.Method)
	assert.Equal(t, 3.0, table.Entries[0].Weight)
}

func TestImportHandler_Handle_ExplicitFormat(t *testing.T) {
	handler, _ := newTestImportHandler(t)

	path := filepath.Join(t.TempDir(), "inns.txt")
	require.NoError(t, os.WriteFile(path, []byte(innsYAML), 0644))

	result, err := handler.Handle(context.Background(), path, ImportOptions{Format: "yaml"})
	require.NoError(t, err)
	assert.Equal(t, []string{"inns"}, result.Imported)
}

func TestImportHandler_Handle_UnsupportedFormat(t *testing.T) {
	handler, _ := newTestImportHandler(t)

	_, err := handler.Handle(context.Background(), "tables.xml", ImportOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestImportHandler_Handle_BuiltinConflictSkipped(t *testing.T) {
	handler, registry := newTestImportHandler(t)

	path := filepath.Join(t.TempDir(), "weather.json")
	content := `{"tables":[{"id":"weather","method":"weighted","entries":[{"text":"Always sunny"}]}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	result, err := handler.Handle(context.Background(), path, ImportOptions{OnConflict: services.ConflictSkip})
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Equal(t, []string{"weather"}, result.Skipped)

	table, err := registry.Get("weather")
	require.NoError(t, err)
	assert.Equal(t, entities.MethodPercentile, table.Method)
}

func TestImportHandler_HandleDir(t *testing.T) {
	handler, registry := newTestImportHandler(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_inns.yaml"), []byte(innsYAML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b_signs.csv"), []byte("table,method,text\nsigns,weighted,A crow\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	result, err := handler.HandleDir(context.Background(), dir, ImportOptions{})
	require.NoError(t, err)
	assert.Len(t, result.Files, 2)
	assert.Equal(t, []string{"inns", "signs"}, result.Imported)
	assert.True(t, registry.Has("signs"))
}

func TestImportHandler_HandleDir_Missing(t *testing.T) {
	handler, _ := newTestImportHandler(t)

	result, err := handler.HandleDir(context.Background(), filepath.Join(t.TempDir(), "nope"), ImportOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
}
