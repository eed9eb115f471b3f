package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var rmcCmd = &cobra.Command{
	Use:   "rmc <names|positions>",
	Short: "Delete one or several contexts (separated by a comma) by name or position",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		return store.DeleteContexts(cmd.Context(), strings.Join(args, ","))
	},
}

func init() {
	rootCmd.AddCommand(rmcCmd)
}
