package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ersonp/campaign-forge/internal/application/handlers"
	"github.com/ersonp/campaign-forge/internal/domain/entities"
)

func newStoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "story",
		Short: "Track story events and plot threads",
	}

	cmd.AddCommand(
		newStoryRecordCmd(),
		newStoryThreadCmd(),
		newStoryCompleteCmd(),
		newStoryListCmd(),
	)

	return cmd
}

func newStoryRecordCmd() *cobra.Command {
	var ev entities.StoryEvent

	cmd := &cobra.Command{
		Use:   "record <character-id> <title>",
		Short: "Record a story event for a character",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ev.Title = args[1]
			return withDeps(cmd.Context(), func(d *Deps) error {
				recorded, err := d.Story.HandleRecord(cmd.Context(), sessionName(), args[0], ev)
				if err != nil {
					return fmt.Errorf("recording event: %w", err)
				}
				out := cmd.OutOrStdout()
				if globalJSON {
					return printJSON(out, recorded)
				}
				fmt.Fprintf(out, "Recorded event %s for %s\n", recorded.ID, recorded.CharacterID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&ev.Type, "type", "t", "milestone", "Event type")
	cmd.Flags().StringVarP(&ev.Description, "description", "d", "", "Event description")
	cmd.Flags().IntVar(&ev.Session, "game-session", 0, "Game session number the event happened in")

	return cmd
}

func newStoryThreadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "thread <thread-id> <title>",
		Short: "Activate a plot thread",
		Long:  "Activates a plot thread. Activating a thread that is already active leaves it unchanged.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				res, err := d.Story.HandleActivate(cmd.Context(), sessionName(), args[0], args[1])
				if err != nil {
					return fmt.Errorf("activating thread: %w", err)
				}
				out := cmd.OutOrStdout()
				if globalJSON {
					return printJSON(out, res)
				}
				if res.Changed {
					fmt.Fprintf(out, "Activated thread %s: %s\n", res.Thread.ID, res.Thread.Title)
				} else {
					fmt.Fprintf(out, "Thread %s is already active\n", res.Thread.ID)
				}
				return nil
			})
		},
	}
}

func newStoryCompleteCmd() *cobra.Command {
	var outcome string

	cmd := &cobra.Command{
		Use:   "complete <thread-id>",
		Short: "Complete a plot thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				thread, err := d.Story.HandleComplete(cmd.Context(), sessionName(), args[0], outcome)
				if err != nil {
					return fmt.Errorf("completing thread: %w", err)
				}
				out := cmd.OutOrStdout()
				if globalJSON {
					return printJSON(out, thread)
				}
				fmt.Fprintf(out, "Completed thread %s\n", thread.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outcome, "outcome", "o", "", "How the thread ended")

	return cmd
}

func newStoryListCmd() *cobra.Command {
	var (
		character  string
		activeOnly bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the session timeline and plot threads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				summary, err := d.Story.HandleList(cmd.Context(), sessionName(), character, activeOnly)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if globalJSON {
					return printJSON(out, summary)
				}
				displayStory(out, summary)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&character, "character", "c", "", "Only events for this character")
	cmd.Flags().BoolVar(&activeOnly, "active", false, "Only active threads")

	return cmd
}

func displayStory(w io.Writer, s *handlers.StorySummary) {
	fmt.Fprintf(w, "Threads (%d):\n", len(s.Threads))
	for _, t := range s.Threads {
		if t.Active {
			fmt.Fprintf(w, "  [active]    %s  %s\n", t.ID, t.Title)
		} else {
			fmt.Fprintf(w, "  [completed] %s  %s: %s\n", t.ID, t.Title, t.Outcome)
		}
	}

	fmt.Fprintf(w, "\nTimeline (%d):\n", len(s.Timeline))
	for _, ev := range s.Timeline {
		session := ""
		if ev.Session > 0 {
			session = fmt.Sprintf(" (session %d)", ev.Session)
		}
		fmt.Fprintf(w, "  %s  %-10s %-12s %s%s\n", ev.CreatedAt.Local().Format("2006-01-02"), ev.CharacterID, ev.Type, ev.Title, session)
	}
}
