package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/tasks"
)

var dryRun bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy the file data into the REST service, replacing what is stored there",
	Long: `Migrate reads the data document (remote when ssh_ip is set, local otherwise)
and recreates every context and task in the service configured by api_url.
Everything already stored in the service is deleted first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		result, err := tasks.Migrate(cmd.Context(), cfg, dryRun, tasks.WithLogger(slog.Default()))
		if err != nil {
			return err
		}

		verb := "Migrated"
		if dryRun {
			verb = "Would migrate"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d contexts and %d tasks to %s\n", verb, result.Contexts, result.Tasks, cfg.APIURL)
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only count what would be migrated")
	rootCmd.AddCommand(migrateCmd)
}
