package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/tasks"
	"github.com/aretw0/tasks/internal/render"
	lcadapter "github.com/aretw0/tasks/pkg/adapters/lifecycle"
	"github.com/aretw0/tasks/pkg/core"
)

var watchTasks bool

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "Show the tasks of the active context",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if watchTasks {
			return watchActive(cmd)
		}
		return listTasks(cmd, false, "")
	},
}

func listTasks(cmd *cobra.Command, all bool, match string) error {
	store, cfg, err := openStore()
	if err != nil {
		return err
	}
	return printTasks(cmd, store, cfg, all, match)
}

func printTasks(cmd *cobra.Command, store tasks.Store, cfg *tasks.Config, all bool, match string) error {
	list, err := store.ListTasks(cmd.Context(), all)
	if err != nil {
		return err
	}
	list, err = render.FilterContexts(list, match)
	if err != nil {
		return err
	}
	return render.Collection(cmd.OutOrStdout(), list, renderOptions(store, cfg))
}

// watchActive redraws the active context every time the data document changes.
func watchActive(cmd *cobra.Command) error {
	store, cfg, err := openStore()
	if err != nil {
		return err
	}
	watcher, ok := store.(core.Watcher)
	if !ok {
		return core.ErrWatchUnsupported
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	events, err := watcher.Watch(ctx)
	if err != nil {
		if errors.Is(err, core.ErrWatchUnsupported) {
			return fmt.Errorf("--watch needs the local backend: %w", err)
		}
		return err
	}

	source := lcadapter.NewSource(events)
	if err := source.Start(ctx); err != nil {
		return err
	}

	if err := printTasks(cmd, store, cfg, false, ""); err != nil {
		return err
	}
	for event := range source.Events() {
		slog.Debug("redrawing", "event", event)
		fmt.Fprint(cmd.OutOrStdout(), "\033[H\033[2J")
		if err := printTasks(cmd, store, cfg, false, ""); err != nil {
			slog.Warn("failed to list tasks", "error", err)
		}
	}
	return nil
}

func init() {
	lsCmd.Flags().BoolVarP(&watchTasks, "watch", "w", false, "Redraw whenever the tasks change")
	rootCmd.AddCommand(lsCmd)
}
