package main

import (
	"github.com/spf13/cobra"
)

var upcCmd = &cobra.Command{
	Use:   "upc <id> <name>",
	Short: "Rename a context",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		store, _, err := openStore()
		if err != nil {
			return err
		}
		return store.EditContext(cmd.Context(), id, args[1])
	},
}

func init() {
	rootCmd.AddCommand(upcCmd)
}
