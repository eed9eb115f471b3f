package platform

import (
	"context"

	"github.com/aretw0/tasks/internal/config"
	"github.com/aretw0/tasks/pkg/migrate"
)

// Migrate copies the configured document backend into the REST service.
func Migrate(ctx context.Context, cfg *config.Config, dryRun bool, opts ...Option) (migrate.Result, error) {
	src, dst, err := OpenMigration(cfg, opts...)
	if err != nil {
		return migrate.Result{}, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return migrate.Run(ctx, src, dst, migrate.WithDryRun(dryRun), migrate.WithLogger(o.logger))
}
