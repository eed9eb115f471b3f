// Package migrate copies a document backend into the remote task service.
package migrate

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/tasks/pkg/core"
)

// Result counts what was (or, in a dry run, would be) created on the destination.
type Result struct {
	Contexts int `json:"contexts"`
	Tasks    int `json:"tasks"`
}

// Option configures a migration run.
type Option func(*options)

type options struct {
	dryRun bool
	logger *slog.Logger
}

// WithDryRun reports the counts without touching the destination.
func WithDryRun(dryRun bool) Option {
	return func(o *options) {
		o.dryRun = dryRun
	}
}

// WithLogger sets the logger used for progress messages.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Run replaces everything on dst with the collection stored in src.
//
// The destination is wiped first, then every context is created as-is (keeping its
// active flag) followed by its tasks in one batch. The run is not resumable: a failure
// leaves dst partially migrated and the error names the context being copied.
func Run(ctx context.Context, src core.DocumentBackend, dst core.EntityBackend, opts ...Option) (Result, error) {
	o := &options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(o)
	}

	data, err := src.Load(ctx, false)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load source: %w", err)
	}

	var result Result
	if o.dryRun {
		for _, c := range data {
			result.Contexts++
			result.Tasks += len(c.Tasks)
		}
		o.logger.Info("dry run, destination untouched", "contexts", result.Contexts, "tasks", result.Tasks)
		return result, nil
	}

	if err := dst.DeleteAllContexts(ctx); err != nil {
		return result, fmt.Errorf("failed to delete remote contexts: %w", err)
	}
	if err := dst.DeleteAllTasks(ctx); err != nil {
		return result, fmt.Errorf("failed to delete remote tasks: %w", err)
	}

	for _, c := range data {
		created, err := dst.CreateContext(ctx, core.ContextInput{
			Name:         c.Name,
			Active:       c.Active,
			SimpleCreate: true,
		})
		if err != nil {
			return result, fmt.Errorf("failed to migrate context %q: %w", c.Name, err)
		}
		result.Contexts++

		if len(c.Tasks) == 0 {
			continue
		}

		batch := make([]core.TaskInput, 0, len(c.Tasks))
		for _, task := range c.Tasks {
			in := core.TaskInput{Content: task.Content, ContextID: created.ID}
			if !task.CreationDate.IsZero() {
				in.CreationDate = &task.CreationDate
			}
			if !task.ModificationDate.IsZero() {
				in.ModificationDate = &task.ModificationDate
			}
			batch = append(batch, in)
		}
		if err := dst.CreateTasks(ctx, batch); err != nil {
			return result, fmt.Errorf("failed to migrate tasks for context %q: %w", c.Name, err)
		}
		result.Tasks += len(batch)
		o.logger.Debug("migrated context", "name", c.Name, "tasks", len(batch))
	}

	o.logger.Info("migration completed", "contexts", result.Contexts, "tasks", result.Tasks)
	return result, nil
}
