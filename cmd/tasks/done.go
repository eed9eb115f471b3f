package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done <ids>",
	Short: "Mark one or several tasks (separated by a comma) as done",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		return store.MarkDone(cmd.Context(), strings.Join(args, ","))
	},
}

func init() {
	rootCmd.AddCommand(doneCmd)
}
