package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ersonp/campaign-forge/internal/application/handlers"
	"github.com/ersonp/campaign-forge/internal/domain/entities"
	"github.com/ersonp/campaign-forge/internal/domain/services"
)

func newTablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Manage random tables",
		Long:  "List, inspect, check, import, and export the registered random tables.",
	}

	cmd.AddCommand(
		newTablesListCmd(),
		newTablesShowCmd(),
		newTablesValidateCmd(),
		newTablesImportCmd(),
		newTablesExportCmd(),
	)

	return cmd
}

func newTablesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				tables := d.Tables.HandleList()
				out := cmd.OutOrStdout()
				if globalJSON {
					return printJSON(out, tables)
				}
				displayTableList(out, tables)
				return nil
			})
		},
	}
}

func displayTableList(w io.Writer, tables []handlers.TableSummary) {
	fmt.Fprintf(w, "%d tables:\n\n", len(tables))
	for _, t := range tables {
		dice := t.Dice
		if dice == "" {
			dice = "-"
		}
		fmt.Fprintf(w, "  %-16s %-12s %-6s %3d entries  %s\n", t.ID, t.Method, dice, t.Entries, t.Name)
	}
}

func newTablesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <table-id>",
		Short: "Show a table definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				table, err := d.Tables.HandleShow(args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if globalJSON {
					return printJSON(out, table)
				}
				return formatTablesMarkdown(out, []entities.Table{*table})
			})
		},
	}
}

func newTablesValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [table-id]",
		Short: "Check range coverage and subtable references",
		Long: `Checks that ranged tables cover every outcome of their dice exactly once
and that every subtable reference points at a registered table.
Without an id every table is checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return withDeps(cmd.Context(), func(d *Deps) error {
				reports, err := d.Tables.HandleValidate(id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if globalJSON {
					return printJSON(out, reports)
				}
				if failed := displayReports(out, reports); failed > 0 {
					return fmt.Errorf("%d of %d tables failed validation", failed, len(reports))
				}
				return nil
			})
		},
	}
}

// displayReports prints one line per table and returns the number that failed.
func displayReports(w io.Writer, reports []services.TableReport) int {
	failed := 0
	for _, r := range reports {
		if r.OK() {
			fmt.Fprintf(w, "ok    %s\n", r.TableID)
			continue
		}
		failed++
		fmt.Fprintf(w, "FAIL  %s\n", r.TableID)
		if r.Problem != "" {
			fmt.Fprintf(w, "        %s\n", r.Problem)
		}
		if len(r.Coverage.Gaps) > 0 {
			fmt.Fprintf(w, "        uncovered rolls: %v\n", r.Coverage.Gaps)
		}
		if len(r.Coverage.Overlaps) > 0 {
			fmt.Fprintf(w, "        overlapping rolls: %v\n", r.Coverage.Overlaps)
		}
		for _, m := range r.Missing {
			fmt.Fprintf(w, "        missing subtable: %s\n", m)
		}
	}
	return failed
}

type tablesImportFlags struct {
	format     string
	dryRun     bool
	onConflict string
}

func newTablesImportCmd() *cobra.Command {
	var flags tablesImportFlags

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Check a custom table file",
		Long: `Parses and validates a YAML, JSON, or CSV table file against the registry.
To make tables permanent, place the file in the tables directory
(.forge/tables by default); it is loaded on every run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTablesImport(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "auto", "File format (yaml, json, csv, auto)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Validate without registering")
	cmd.Flags().StringVar(&flags.onConflict, "on-conflict", "skip", "Conflict handling (skip, overwrite, fail)")

	return cmd
}

func runTablesImport(cmd *cobra.Command, filePath string, flags tablesImportFlags) error {
	strategy, err := services.ParseConflictStrategy(flags.onConflict)
	if err != nil {
		return err
	}

	return withDeps(cmd.Context(), func(d *Deps) error {
		result, err := d.Import.Handle(cmd.Context(), filePath, handlers.ImportOptions{
			Format:     flags.format,
			DryRun:     flags.dryRun,
			OnConflict: strategy,
		})
		if err != nil {
			return fmt.Errorf("importing file: %w", err)
		}

		out := cmd.OutOrStdout()
		if globalJSON {
			return printJSON(out, result)
		}
		displayImportResult(out, result, flags.dryRun)
		return nil
	})
}

func displayImportResult(w io.Writer, result *handlers.ImportResult, dryRun bool) {
	// Display errors
	if len(result.Errors) > 0 {
		fmt.Fprintf(w, "Validation errors (%d):\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  %s\n", e.Error())
		}
		fmt.Fprintln(w)
	}

	// Display summary
	if dryRun {
		fmt.Fprintf(w, "Dry run: %d tables would be imported", len(result.Imported))
	} else {
		fmt.Fprintf(w, "Imported: %d tables", len(result.Imported))
	}
	if len(result.Skipped) > 0 {
		fmt.Fprintf(w, ", %d skipped (already registered)", len(result.Skipped))
	}
	if len(result.Errors) > 0 {
		fmt.Fprintf(w, ", %d errors", len(result.Errors))
	}
	fmt.Fprintln(w)
}

type tablesExportFlags struct {
	format string
	output string
}

func newTablesExportCmd() *cobra.Command {
	var flags tablesExportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every registered table",
		Long:  "Exports the table registry to JSON, YAML, CSV, or markdown. JSON and YAML exports can be imported again.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !contains(validFormats, flags.format) {
				return fmt.Errorf("invalid format %q, valid formats: %v", flags.format, validFormats)
			}
			return withDeps(cmd.Context(), func(d *Deps) error {
				export := d.Tables.HandleExport()
				err := writeOutput(cmd.OutOrStdout(), flags.output, func(w io.Writer) error {
					return formatTables(w, flags.format, export)
				})
				if err != nil {
					return fmt.Errorf("formatting output: %w", err)
				}
				if flags.output != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d tables to %s\n", len(export.Tables), flags.output)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "Output format (json, yaml, csv, markdown)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}
