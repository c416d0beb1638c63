package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/campaign-forge/internal/application/handlers"
	"github.com/ersonp/campaign-forge/internal/domain/entities"
	"github.com/ersonp/campaign-forge/internal/domain/ports"
)

type rollFlags struct {
	params []string
	value  int
	times  int
}

func newRollCmd() *cobra.Command {
	var flags rollFlags

	cmd := &cobra.Command{
		Use:   "roll <table-id>",
		Short: "Roll on a table",
		Long: `Resolves a table, following subtables and expanding {param},
[TABLE:id], and [ROLL:dice] tokens. Every roll is kept in the session history.

Examples:
  forge roll weather
  forge roll encounters --param environment=forest --param partyLevel=3
  forge roll surnames --value 29`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoll(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringArrayVarP(&flags.params, "param", "p", nil, "Generation context as key=value (repeatable)")
	cmd.Flags().IntVar(&flags.value, "value", 0, "Use this roll instead of rolling (ranged tables only)")
	cmd.Flags().IntVarP(&flags.times, "times", "n", 1, "Number of times to roll")

	return cmd
}

func runRoll(cmd *cobra.Command, tableID string, flags rollFlags) error {
	params, err := handlers.ParseParams(flags.params)
	if err != nil {
		return err
	}
	if flags.times < 1 {
		return fmt.Errorf("--times must be at least 1")
	}

	opts := handlers.RollOptions{Session: sessionName(), Params: params}
	if cmd.Flags().Changed("value") {
		opts.Value = &flags.value
	}

	return withDeps(cmd.Context(), func(d *Deps) error {
		results := make([]*entities.ResolvedResult, 0, flags.times)
		for i := 0; i < flags.times; i++ {
			result, err := d.Tables.HandleRoll(cmd.Context(), tableID, opts)
			if err != nil {
				return err
			}
			results = append(results, result)
		}

		out := cmd.OutOrStdout()
		if globalJSON {
			if len(results) == 1 {
				return printJSON(out, results[0])
			}
			return printJSON(out, results)
		}
		for _, r := range results {
			displayResult(out, r)
		}
		return nil
	})
}

func displayResult(w io.Writer, r *entities.ResolvedResult) {
	var sb strings.Builder
	if r.Roll > 0 {
		fmt.Fprintf(&sb, "[%s %d] ", r.TableID, r.Roll)
	} else {
		fmt.Fprintf(&sb, "[%s] ", r.TableID)
	}
	sb.WriteString(r.FullText())
	if r.EntryRoll > 0 {
		sb.WriteString(" (" + strconv.Itoa(r.EntryRoll) + ")")
	}
	if r.Fallback {
		fmt.Fprintf(&sb, " (fallback: %s)", r.Reason)
	}
	fmt.Fprintln(w, sb.String())
}

func newDiceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dice <expression>",
		Short: "Roll a dice expression such as 3d6+2 or d%",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				res, err := d.Tables.HandleDice(args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if globalJSON {
					return printJSON(out, res)
				}
				displayDice(out, res)
				return nil
			})
		},
	}
}

func displayDice(w io.Writer, res ports.DiceResult) {
	if len(res.Rolls) == 0 {
		fmt.Fprintf(w, "%s = %d\n", res.Expression, res.Total)
		return
	}
	rolls := make([]string, 0, len(res.Rolls))
	for _, r := range res.Rolls {
		rolls = append(rolls, strconv.Itoa(r))
	}
	detail := strings.Join(rolls, " + ")
	switch {
	case res.Modifier > 0:
		detail += fmt.Sprintf(" + %d", res.Modifier)
	case res.Modifier < 0:
		detail += fmt.Sprintf(" - %d", -res.Modifier)
	}
	fmt.Fprintf(w, "%s: %s = %d\n", res.Expression, detail, res.Total)
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent table rolls for the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				rolls, err := d.Session.HandleHistory(cmd.Context(), sessionName(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if globalJSON {
					return printJSON(out, rolls)
				}
				displayHistory(out, rolls)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultHistoryLimit, "Maximum number of rolls to display")

	return cmd
}

func displayHistory(w io.Writer, rolls []entities.RollRecord) {
	if len(rolls) == 0 {
		fmt.Fprintln(w, "No rolls recorded.")
		return
	}
	for _, r := range rolls {
		marker := ""
		if r.Fallback {
			marker = " (fallback)"
		}
		fmt.Fprintf(w, "%s  %-14s %3d  %s%s\n", r.CreatedAt.Local().Format("2006-01-02 15:04"), r.TableID, r.Roll, r.Text, marker)
	}
}
