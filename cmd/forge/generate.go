package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/campaign-forge/internal/application/handlers"
	"github.com/ersonp/campaign-forge/internal/domain/entities"
)

func newNPCCmd() *cobra.Command {
	var params []string

	cmd := &cobra.Command{
		Use:   "npc",
		Short: "Generate a non-player character",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := handlers.ParseParams(params)
			if err != nil {
				return err
			}
			return withDeps(cmd.Context(), func(d *Deps) error {
				npc, err := d.Generate.HandleNPC(p)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if globalJSON {
					return printJSON(out, npc)
				}
				displayNPC(out, npc)
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Generation context as key=value (repeatable)")

	return cmd
}

func displayNPC(w io.Writer, npc *entities.NPC) {
	fmt.Fprintf(w, "%s\n", npc.Name)
	if npc.Race != "" || npc.Gender != "" {
		fmt.Fprintf(w, "  %s\n", strings.TrimSpace(npc.Gender+" "+npc.Race))
	}
	fmt.Fprintf(w, "  Personality: %s\n", npc.Personality)
	fmt.Fprintf(w, "  Motivation:  %s\n", npc.Motivation)
	fmt.Fprintf(w, "  Quirk:       %s\n", npc.Quirk)
}

func newBackstoryCmd() *cobra.Command {
	var opts entities.BackstoryOptions

	cmd := &cobra.Command{
		Use:   "backstory",
		Short: "Generate a character backstory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				b, err := d.Generate.HandleBackstory(cmd.Context(), opts)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if globalJSON {
					return printJSON(out, b)
				}
				displayBackstory(out, b)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Class, "class", "c", "", "Character class (narrows backgrounds)")
	cmd.Flags().StringVarP(&opts.Race, "race", "r", "", "Character race")
	cmd.Flags().StringVarP(&opts.Alignment, "alignment", "a", "", "Character alignment")

	return cmd
}

func displayBackstory(w io.Writer, b *entities.Backstory) {
	fmt.Fprintf(w, "Background: %s\n", b.Background.Name)
	if len(b.Background.Skills) > 0 {
		fmt.Fprintf(w, "  Skills: %s\n", strings.Join(b.Background.Skills, ", "))
	}
	fmt.Fprintf(w, "Origin: %s\n", b.Origin.Name)
	displayItems(w, "Motivations", b.Motivations)
	displayItems(w, "Ideals", b.Ideals)
	displayItems(w, "Bonds", b.Bonds)
	displayItems(w, "Flaws", b.Flaws)
	displayItems(w, "Personality", b.PersonalityTraits)
	fmt.Fprintf(w, "\n%s\n", b.Narrative)
}

func displayItems(w io.Writer, label string, items []entities.BackstoryItem) {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	fmt.Fprintf(w, "%s: %s\n", label, strings.Join(names, ", "))
}

type plotFlags struct {
	characters []string
	length     int
	attach     string
}

func newPlotCmd() *cobra.Command {
	var flags plotFlags

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Generate a campaign plot outline",
		Long: `Builds a story pattern, acts, character arcs, and one key event per chapter.

Characters are given as name[/class]:motivations:background:flaws,
with comma-separated lists. Only the name is required.

Examples:
  forge plot -c "Aerdrie/wizard:knowledge,power:sage:arrogant" -c Bram --length 12
  forge plot -c Aerdrie --attach party --session saltmarsh`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(cmd, flags)
		},
	}

	cmd.Flags().StringArrayVarP(&flags.characters, "character", "c", nil, "Party member (repeatable)")
	cmd.Flags().IntVarP(&flags.length, "length", "l", entities.DefaultCampaignLength, "Campaign length in chapters")
	cmd.Flags().StringVar(&flags.attach, "attach", "", "Store the outline in the session under this character or party id")

	return cmd
}

func runPlot(cmd *cobra.Command, flags plotFlags) error {
	party := make([]entities.CharacterData, 0, len(flags.characters))
	for _, s := range flags.characters {
		c, err := handlers.ParseCharacter(s)
		if err != nil {
			return err
		}
		party = append(party, c)
	}

	return withDeps(cmd.Context(), func(d *Deps) error {
		outline, err := d.Generate.HandlePlot(cmd.Context(), party, handlers.PlotOptions{
			Length:   flags.length,
			Session:  sessionName(),
			AttachTo: flags.attach,
		})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if globalJSON {
			return printJSON(out, outline)
		}
		displayOutline(out, outline)
		return nil
	})
}

func displayOutline(w io.Writer, o *entities.PlotOutline) {
	fmt.Fprintf(w, "%s (%d chapters)\n", o.Pattern.Name, o.CampaignLength)
	fmt.Fprintf(w, "%s\n\n", o.Summary)

	fmt.Fprintln(w, "Acts:")
	for _, a := range o.Acts {
		if a.Chapters == 0 {
			fmt.Fprintf(w, "  %d. %s (no chapters)\n", a.Number, a.Title)
			continue
		}
		fmt.Fprintf(w, "  %d. %s (chapters %d-%d)\n", a.Number, a.Title, a.ChapterStart, a.ChapterEnd)
	}

	if len(o.CharacterArcs) > 0 {
		fmt.Fprintln(w, "\nCharacter arcs:")
		for _, arc := range o.CharacterArcs {
			fmt.Fprintf(w, "  %s: %s, %s\n", arc.Character, arc.Arc, arc.Summary)
		}
	}

	fmt.Fprintln(w, "\nKey events:")
	for _, ev := range o.KeyEvents {
		fmt.Fprintf(w, "  %s\n", ev.Description)
	}
}

func newAdventureCmd() *cobra.Command {
	var params []string

	cmd := &cobra.Command{
		Use:   "adventure",
		Short: "Generate a one-shot adventure seed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := handlers.ParseParams(params)
			if err != nil {
				return err
			}
			return withDeps(cmd.Context(), func(d *Deps) error {
				adv, err := d.Generate.HandleAdventure(p)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if globalJSON {
					return printJSON(out, adv)
				}
				displayAdventure(out, adv)
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Generation context as key=value (repeatable)")

	return cmd
}

func displayAdventure(w io.Writer, a *entities.Adventure) {
	fmt.Fprintf(w, "Hook:         %s\n", a.Hook)
	fmt.Fprintf(w, "Location:     %s\n", a.Location)
	fmt.Fprintf(w, "Antagonist:   %s (%s)\n", a.Antagonist.Name, a.Antagonist.Motivation)
	fmt.Fprintf(w, "Complication: %s\n", a.Complication)
	fmt.Fprintf(w, "Encounter:    %s\n", a.Encounter)
	fmt.Fprintf(w, "Treasure:     %s\n", a.Treasure)
}
