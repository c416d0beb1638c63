package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage saved campaign sessions",
		Long:  "Each session keeps its own relationships, plot threads, and roll history. Select one with --session.",
	}

	cmd.AddCommand(
		newSessionExportCmd(),
		newSessionImportCmd(),
		newSessionListCmd(),
		newSessionDeleteCmd(),
	)

	return cmd
}

func newSessionExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the session's relationships and story as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				export, err := d.Session.HandleExport(cmd.Context(), sessionName())
				if err != nil {
					return err
				}
				err = writeOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
					return printJSON(w, export)
				})
				if err != nil {
					return fmt.Errorf("writing export: %w", err)
				}
				if output != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "Exported session %s to %s\n", sessionName(), output)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func newSessionImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the session with an exported JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				export, err := d.Session.HandleImport(cmd.Context(), sessionName(), args[0])
				if err != nil {
					return fmt.Errorf("importing session: %w", err)
				}
				out := cmd.OutOrStdout()
				if globalJSON {
					return printJSON(out, export)
				}
				fmt.Fprintf(out, "Imported %d relationships, %d threads, %d characters with events into session %s\n",
					len(export.Relationships), len(export.Threads), len(export.Events), sessionName())
				return nil
			})
		},
	}
}

func newSessionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				infos, err := d.Session.HandleList(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if globalJSON {
					return printJSON(out, infos)
				}
				if len(infos) == 0 {
					fmt.Fprintln(out, "No sessions saved.")
					return nil
				}
				for _, info := range infos {
					fmt.Fprintf(out, "  %-20s %4d versions  updated %s\n",
						info.Name, info.Versions, info.UpdatedAt.Local().Format("2006-01-02 15:04"))
				}
				return nil
			})
		},
	}
}

func newSessionDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete every saved version of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !force && !confirmAction(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete session %q?", name)) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			return withDeps(cmd.Context(), func(d *Deps) error {
				if err := d.Session.HandleDelete(cmd.Context(), name); err != nil {
					return fmt.Errorf("deleting session: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted session: %s\n", name)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func confirmAction(in io.Reader, out io.Writer, prompt string) bool {
	if in == nil {
		in = os.Stdin
	}
	reader := bufio.NewReader(in)
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	response, _ := reader.ReadString('\n') // Error ignored: EOF/error treated as "no"
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
