package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <ids>",
	Short: "Delete one or several tasks (separated by a comma) of the active context",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		return store.DeleteTasks(cmd.Context(), strings.Join(args, ","))
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
