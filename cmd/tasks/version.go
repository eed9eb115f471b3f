package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/tasks"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tasks",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tasks version %s\n", strings.TrimSpace(tasks.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
