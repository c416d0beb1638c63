package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/campaign-forge/internal/application/handlers"
	"github.com/ersonp/campaign-forge/internal/infrastructure/config"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new forge workspace",
		Long:  "Creates a .forge directory with default configuration, a custom tables directory, and the session database.",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	if config.Exists(cwd) {
		return fmt.Errorf("forge already initialized in %s", cwd)
	}

	// Defaults plus environment overrides; no config file exists yet.
	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := openStore(cfg, cwd)
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := handlers.NewInitHandler(store).Handle(ctx, cwd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if globalJSON {
		return printJSON(out, result)
	}
	fmt.Fprintf(out, "Created %s\n", result.ConfigPath)
	fmt.Fprintf(out, "Custom tables directory: %s\n", result.TablesDir)
	fmt.Fprintf(out, "Session database: %s\n", result.DatabasePath)
	fmt.Fprintln(out, "Forge initialized successfully!")

	return nil
}
