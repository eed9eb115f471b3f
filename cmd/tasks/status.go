package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"
)

type statusReport struct {
	Component string `json:"component"`
	Config    any    `json:"config"`
	State     any    `json:"state"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the resolved backend and its state as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cfg, err := openStore()
		if err != nil {
			return err
		}

		report := statusReport{Config: cfg.Redacted()}
		if comp, ok := store.(introspection.Component); ok {
			report.Component = comp.ComponentType()
		}
		if in, ok := store.(introspection.Introspectable); ok {
			report.State = in.State()
		}

		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode status: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
