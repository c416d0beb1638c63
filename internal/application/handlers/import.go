package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ersonp/campaign-forge/internal/domain/services"
	"github.com/ersonp/campaign-forge/internal/infrastructure/parsers"
)

// ImportHandler handles importing custom tables from files.
type ImportHandler struct {
	service *services.TableImportService
}

// NewImportHandler creates a new import handler.
func NewImportHandler(service *services.TableImportService) *ImportHandler {
	return &ImportHandler{
		service: service,
	}
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	Format     string                    // "yaml", "json", "csv", or "auto"
	DryRun     bool                      // Validate without registering
	OnConflict services.ConflictStrategy // How to handle existing tables
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	Files    []string               `json:"files,omitempty"`
	Imported []string               `json:"imported"`
	Skipped  []string               `json:"skipped,omitempty"`
	Errors   []services.ImportError `json:"errors,omitempty"`
}

// Handle imports tables from a file.
func (h *ImportHandler) Handle(ctx context.Context, filePath string, opts ImportOptions) (*ImportResult, error) {
	// Get parser
	var parser parsers.Parser
	if opts.Format == "" || opts.Format == "auto" {
		parser = parsers.ForFile(filePath)
	} else {
		parser = parsers.ForFormat(opts.Format)
	}

	if parser == nil {
		return nil, fmt.Errorf("unsupported format for file: %s", filePath)
	}

	// Open file
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	// Parse tables
	rawTables, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}

	if len(rawTables) == 0 {
		return &ImportResult{Files: []string{filePath}}, nil
	}

	// Import tables
	serviceOpts := services.ImportOptions{
		DryRun:     opts.DryRun,
		OnConflict: opts.OnConflict,
	}

	serviceResult, err := h.service.Import(ctx, rawTables, serviceOpts)
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", filePath, err)
	}

	return &ImportResult{
		Files:    []string{filePath},
		Imported: serviceResult.Imported,
		Skipped:  serviceResult.Skipped,
		Errors:   serviceResult.Errors,
	}, nil
}

// HandleDir imports every supported file in dir, in name order.
// A missing directory imports nothing.
func (h *ImportHandler) HandleDir(ctx context.Context, dir string, opts ImportOptions) (*ImportResult, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return &ImportResult{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading tables directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || parsers.ForFile(e.Name()) == nil {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	total := &ImportResult{}
	for _, name := range names {
		res, err := h.Handle(ctx, filepath.Join(dir, name), ImportOptions{
			DryRun:     opts.DryRun,
			OnConflict: opts.OnConflict,
		})
		if err != nil {
			return nil, err
		}
		total.Files = append(total.Files, res.Files...)
		total.Imported = append(total.Imported, res.Imported...)
		total.Skipped = append(total.Skipped, res.Skipped...)
		total.Errors = append(total.Errors, res.Errors...)
	}
	return total, nil
}
