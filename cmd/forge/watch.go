package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ersonp/campaign-forge/internal/application/handlers"
	"github.com/ersonp/campaign-forge/internal/domain/entities"
	"github.com/ersonp/campaign-forge/internal/domain/services"
	"github.com/ersonp/campaign-forge/internal/infrastructure/tablewatch"
)

func newWatchCmd() *cobra.Command {
	var noReload bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Interactive rolling with live table reloads",
		Long: `Starts an interactive prompt for rolling tables and dice.
While it runs, table files saved into the tables directory are imported
again, replacing the registered versions.

Input:
  <table-id> [key=value ...]   roll on a table
  dice <expression>            roll dice
  list                         list registered tables
  quit                         exit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, noReload)
		},
	}

	cmd.Flags().BoolVar(&noReload, "no-reload", false, "Do not watch the tables directory")

	return cmd
}

func runWatch(cmd *cobra.Command, noReload bool) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	return withDeps(cmd.Context(), func(d *Deps) error {
		g, ctx := errgroup.WithContext(cmd.Context())
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		if !noReload {
			dir := d.Config.TablesDir(cwd)
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("creating tables directory: %w", err)
			}
			w := tablewatch.New(dir, reloadTables(d), d.Logger)
			g.Go(func() error { return w.Run(ctx) })
		}

		g.Go(func() error {
			defer cancel()
			s := &watchState{deps: d, out: cmd.OutOrStdout()}
			return s.runInputLoop(ctx, cmd.InOrStdin())
		})

		return g.Wait()
	})
}

// reloadTables re-imports a changed file, replacing tables with the same id.
func reloadTables(d *Deps) tablewatch.ReloadFunc {
	return func(ctx context.Context, path string) error {
		result, err := d.Import.Handle(ctx, path, handlers.ImportOptions{
			Format:     "auto",
			OnConflict: services.ConflictOverwrite,
		})
		if err != nil {
			return err
		}
		for _, e := range result.Errors {
			d.Logger.Warn("custom table rejected", zap.String("table", e.Table), zap.String("error", e.Error()))
		}
		if len(result.Imported) > 0 {
			d.Logger.Info("tables reloaded", zap.Strings("tables", result.Imported))
		}
		return nil
	}
}

type watchState struct {
	deps *Deps
	out  io.Writer
}

type watchCommandKind int

const (
	watchNone watchCommandKind = iota
	watchQuit
	watchList
	watchDice
	watchRoll
)

type watchCommand struct {
	kind   watchCommandKind
	target string // table id or dice expression
	params entities.Params
}

// parseWatchLine interprets one line of interactive input.
func parseWatchLine(line string) (watchCommand, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return watchCommand{kind: watchNone}, nil
	}

	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		return watchCommand{kind: watchQuit}, nil
	case "list":
		return watchCommand{kind: watchList}, nil
	case "dice":
		expr := strings.Join(fields[1:], "")
		if expr == "" {
			return watchCommand{}, fmt.Errorf("dice needs an expression, e.g. dice 3d6+2")
		}
		return watchCommand{kind: watchDice, target: expr}, nil
	}

	params, err := handlers.ParseParams(fields[1:])
	if err != nil {
		return watchCommand{}, err
	}
	return watchCommand{kind: watchRoll, target: fields[0], params: params}, nil
}

func (s *watchState) runInputLoop(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(s.out, "Forge interactive mode. Type a table id to roll, 'dice <expr>', 'list', or 'quit'.")

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
		close(lines)
	}()

	for {
		fmt.Fprint(s.out, "> ")
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(s.out)
				return <-scanErr
			}
			if s.handleLine(ctx, line) {
				return nil
			}
		}
	}
}

// handleLine runs one command and reports whether the loop should exit.
func (s *watchState) handleLine(ctx context.Context, line string) bool {
	cmd, err := parseWatchLine(line)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return false
	}

	switch cmd.kind {
	case watchQuit:
		return true
	case watchList:
		displayTableList(s.out, s.deps.Tables.HandleList())
	case watchDice:
		res, err := s.deps.Tables.HandleDice(cmd.target)
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			return false
		}
		displayDice(s.out, res)
	case watchRoll:
		result, err := s.deps.Tables.HandleRoll(ctx, cmd.target, handlers.RollOptions{
			Session: sessionName(),
			Params:  cmd.params,
		})
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			return false
		}
		displayResult(s.out, result)
	}
	return false
}
