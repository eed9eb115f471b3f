package main

import (
	"github.com/spf13/cobra"
)

var matchContexts string

var lsaCmd = &cobra.Command{
	Use:   "lsa",
	Short: "Show the tasks of every context",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listTasks(cmd, true, matchContexts)
	},
}

func init() {
	lsaCmd.Flags().StringVarP(&matchContexts, "match", "m", "", "Only show contexts whose name matches a glob (e.g. 'work/**')")
	rootCmd.AddCommand(lsaCmd)
}
