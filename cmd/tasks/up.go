package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/tasks/pkg/core"
)

var upCmd = &cobra.Command{
	Use:   "up <id> <content...>",
	Short: "Replace the content of a task",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		store, _, err := openStore()
		if err != nil {
			return err
		}
		return store.EditTask(cmd.Context(), id, strings.Join(args[1:], " "))
	},
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q: %w", s, core.ErrMalformedInput)
	}
	return id, nil
}

func init() {
	rootCmd.AddCommand(upCmd)
}
