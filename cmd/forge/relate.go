package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/campaign-forge/internal/application/handlers"
	"github.com/ersonp/campaign-forge/internal/domain/entities"
)

func newRelateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relate",
		Short: "Track relationships between characters",
		Long: `Tracks trust between pairs of characters within a session.
Trust runs from -100 to 100 and moves with events, conflicts, and alliances.`,
	}

	cmd.AddCommand(
		newRelateCreateCmd(),
		newRelateEventCmd(),
		newRelateConflictCmd(),
		newRelateResolveCmd(),
		newRelateAllyCmd(),
		newRelateDissolveCmd(),
		newRelateStatusCmd(),
		newRelateShowCmd(),
		newRelateListCmd(),
	)

	return cmd
}

func newRelateCreateCmd() *cobra.Command {
	var trust int

	cmd := &cobra.Command{
		Use:   "create <character-a> <type> <character-b>",
		Short: "Start tracking a relationship",
		Long: fmt.Sprintf(`Creates a relationship between two characters.
Use quotes for names with spaces.

Suggested types: %s

Examples:
  forge relate create Aerdrie friend Bram
  forge relate create "Lady Vess" rival Bram --trust -20`, strings.Join(handlers.ValidRelationTypes, ", ")),
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				rel, err := d.Relationship.HandleCreate(cmd.Context(), sessionName(), args[0], args[2], args[1], trust)
				if err != nil {
					return fmt.Errorf("creating relationship: %w", err)
				}
				return printRelationship(cmd.OutOrStdout(), rel)
			})
		},
	}

	cmd.Flags().IntVarP(&trust, "trust", "t", 0, "Initial trust (-100 to 100)")

	return cmd
}

func newRelateEventCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "event <relationship-id> <type>",
		Short: "Record an interaction (help, gift, rescue, insult, argument, betrayal)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				rel, err := d.Relationship.HandleEvent(cmd.Context(), sessionName(), args[0], args[1], description)
				if err != nil {
					return fmt.Errorf("recording event: %w", err)
				}
				return printRelationship(cmd.OutOrStdout(), rel)
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "What happened")

	return cmd
}

func newRelateConflictCmd() *cobra.Command {
	var severity string

	cmd := &cobra.Command{
		Use:   "conflict <relationship-id> <description>",
		Short: "Open a conflict",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				c, err := d.Relationship.HandleConflict(cmd.Context(), sessionName(), args[0], args[1], severity)
				if err != nil {
					return fmt.Errorf("opening conflict: %w", err)
				}
				out := cmd.OutOrStdout()
				if globalJSON {
					return printJSON(out, c)
				}
				fmt.Fprintf(out, "Opened %s conflict: %s\n", c.Severity, c.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&severity, "severity", entities.DefaultConflictSeverity, "Severity (minor, moderate, major, severe)")

	return cmd
}

func newRelateResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <conflict-id> <method>",
		Short: "Resolve a conflict (forgiveness, mediation, compromise, apology, victory, separation)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				c, err := d.Relationship.HandleResolve(cmd.Context(), sessionName(), args[0], args[1])
				if err != nil {
					return fmt.Errorf("resolving conflict: %w", err)
				}
				out := cmd.OutOrStdout()
				if globalJSON {
					return printJSON(out, c)
				}
				fmt.Fprintf(out, "Resolved conflict %s by %s\n", c.ID, c.ResolutionMethod)
				return nil
			})
		},
	}
}

func newRelateAllyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ally <relationship-id> <purpose>",
		Short: "Form an alliance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				a, err := d.Relationship.HandleAlly(cmd.Context(), sessionName(), args[0], args[1])
				if err != nil {
					return fmt.Errorf("forming alliance: %w", err)
				}
				out := cmd.OutOrStdout()
				if globalJSON {
					return printJSON(out, a)
				}
				fmt.Fprintf(out, "Alliance %s: %s\n", a.ID, a.Purpose)
				return nil
			})
		},
	}
}

func newRelateDissolveCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "dissolve <alliance-id>",
		Short: "Dissolve an alliance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				a, err := d.Relationship.HandleDissolve(cmd.Context(), sessionName(), args[0], reason)
				if err != nil {
					return fmt.Errorf("dissolving alliance: %w", err)
				}
				out := cmd.OutOrStdout()
				if globalJSON {
					return printJSON(out, a)
				}
				fmt.Fprintf(out, "Dissolved alliance %s\n", a.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Why the alliance ended")

	return cmd
}

func newRelateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <relationship-id> <status>",
		Short: "Set the free-text status of a relationship",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				rel, err := d.Relationship.HandleStatus(cmd.Context(), sessionName(), args[0], args[1])
				if err != nil {
					return fmt.Errorf("updating status: %w", err)
				}
				return printRelationship(cmd.OutOrStdout(), rel)
			})
		},
	}
}

func newRelateShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <relationship-id>",
		Short: "Show a relationship with its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				rel, err := d.Relationship.HandleGet(cmd.Context(), sessionName(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if globalJSON {
					return printJSON(out, rel)
				}
				displayRelationshipDetail(out, rel)
				return nil
			})
		},
	}
}

func newRelateListCmd() *cobra.Command {
	var character string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List relationships in the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				rels, err := d.Relationship.HandleList(cmd.Context(), sessionName(), character)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if globalJSON {
					return printJSON(out, rels)
				}
				if len(rels) == 0 {
					fmt.Fprintln(out, "No relationships found.")
					return nil
				}
				for i := range rels {
					displayRelationship(out, &rels[i])
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&character, "character", "c", "", "Only relationships involving this character")

	return cmd
}

func printRelationship(w io.Writer, rel *entities.Relationship) error {
	if globalJSON {
		return printJSON(w, rel)
	}
	displayRelationship(w, rel)
	return nil
}

func displayRelationship(w io.Writer, rel *entities.Relationship) {
	fmt.Fprintf(w, "%s  %s -[%s]- %s  trust %+d (%s)\n",
		rel.ID, rel.CharacterA, rel.Type, rel.CharacterB, rel.Trust, rel.Status)
}

func displayRelationshipDetail(w io.Writer, rel *entities.Relationship) {
	displayRelationship(w, rel)

	if len(rel.Events) > 0 {
		fmt.Fprintln(w, "  Events:")
		for _, ev := range rel.Events {
			fmt.Fprintf(w, "    %-18s %+4d -> %+4d  %s\n", ev.Type, ev.TrustDelta, ev.TrustAfter, ev.Description)
		}
	}
	if len(rel.Conflicts) > 0 {
		fmt.Fprintln(w, "  Conflicts:")
		for _, c := range rel.Conflicts {
			state := "open"
			if c.Resolved {
				state = "resolved by " + c.ResolutionMethod
			}
			fmt.Fprintf(w, "    %s [%s, %s] %s\n", c.ID, c.Severity, state, c.Description)
		}
	}
	if len(rel.Alliances) > 0 {
		fmt.Fprintln(w, "  Alliances:")
		for _, a := range rel.Alliances {
			state := "active"
			if !a.Active {
				state = "dissolved"
			}
			fmt.Fprintf(w, "    %s [%s] %s\n", a.ID, state, a.Purpose)
		}
	}
}
