package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var useCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Switch to a context, creating it when missing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		if err := store.UseContext(cmd.Context(), args[0]); err != nil {
			return err
		}
		slog.Debug("context active", "name", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(useCmd)
}
