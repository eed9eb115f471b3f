package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/tasks/internal/render"
)

var lscCmd = &cobra.Command{
	Use:   "lsc",
	Short: "Show the list of contexts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		summaries, err := store.ListContexts(cmd.Context())
		if err != nil {
			return err
		}
		return render.Contexts(cmd.OutOrStdout(), summaries)
	},
}

func init() {
	rootCmd.AddCommand(lscCmd)
}
