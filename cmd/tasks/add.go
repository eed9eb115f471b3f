package main

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <content...>",
	Short: "Add a task to the active context",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		task, err := store.AddTask(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		slog.Debug("task added", "id", task.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
