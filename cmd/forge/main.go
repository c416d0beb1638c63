// Package main provides the entry point for the forge CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version       = "0.1.0-dev"
	globalSession string
	globalVerbose bool
	globalJSON    bool
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:           "forge",
		Short:         "Random tables, NPCs, backstories and plot outlines for D&D 3.5 campaigns",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&globalSession, "session", "s", "", "Campaign session to operate on (default \"default\")")
	rootCmd.PersistentFlags().BoolVarP(&globalVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&globalJSON, "json", false, "Print results as JSON")

	rootCmd.AddCommand(
		newInitCmd(),
		newTablesCmd(),
		newRollCmd(),
		newDiceCmd(),
		newHistoryCmd(),
		newNPCCmd(),
		newBackstoryCmd(),
		newPlotCmd(),
		newAdventureCmd(),
		newRelateCmd(),
		newStoryCmd(),
		newSessionCmd(),
		newWatchCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
