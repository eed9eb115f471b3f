package tasks

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/tasks/internal/config"
	"github.com/aretw0/tasks/internal/platform"
	"github.com/aretw0/tasks/pkg/adapters/sftp"
	"github.com/aretw0/tasks/pkg/core"
	"github.com/aretw0/tasks/pkg/migrate"
)

// --- Types ---

// Config is the user configuration (see LoadConfig).
type Config = config.Config

// Store is the operation surface shared by every backend.
type Store = core.Store

// MigrationResult counts what a migration copied.
type MigrationResult = migrate.Result

// --- Configuration ---

// Option defines a functional option for opening a Store.
type Option = platform.Option

// WithLogger sets the logger shared by the store and its backend.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithClock overrides the time source used for task timestamps.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithHTTPClient sets the client used to reach the REST service.
func WithHTTPClient(c *http.Client) Option {
	return platform.WithHTTPClient(c)
}

// WithDocumentBackend injects a custom whole-document backend.
func WithDocumentBackend(b core.DocumentBackend) Option {
	return platform.WithDocumentBackend(b)
}

// WithEntityBackend injects a custom per-entity backend.
func WithEntityBackend(b core.EntityBackend) Option {
	return platform.WithEntityBackend(b)
}

// WithSFTPOpener replaces the SSH dialer of the remote filesystem backend.
func WithSFTPOpener(open sftp.Opener) Option {
	return platform.WithSFTPOpener(open)
}

// LoadConfig reads the YAML config at path (missing is fine) and applies TASKS_* overrides.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// --- Factory ---

// New opens the Store for the backend selected by cfg.
func New(cfg *Config, opts ...Option) (Store, error) {
	return platform.Open(cfg, opts...)
}

// Migrate copies the file-family data (remote when ssh_ip is set, local otherwise)
// into the REST service configured by cfg, replacing everything stored there.
func Migrate(ctx context.Context, cfg *Config, dryRun bool, opts ...Option) (MigrationResult, error) {
	return platform.Migrate(ctx, cfg, dryRun, opts...)
}
