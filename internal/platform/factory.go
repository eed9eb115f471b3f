// Package platform wires the configured backend into a core.Store.
package platform

import (
	"errors"
	"fmt"

	"github.com/aretw0/tasks/internal/config"
	"github.com/aretw0/tasks/pkg/adapters/api"
	"github.com/aretw0/tasks/pkg/adapters/fs"
	"github.com/aretw0/tasks/pkg/adapters/sftp"
	"github.com/aretw0/tasks/pkg/core"
)

// ErrMigrationTarget is returned when migrating without a REST service configured.
var ErrMigrationTarget = errors.New("migration needs api_url and api_key")

// Open returns the Store for the backend selected by cfg.
// Precedence: api_url, then ssh_ip, then the local filesystem.
func Open(cfg *config.Config, opts ...Option) (core.Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if err := resolve(cfg); err != nil {
		return nil, err
	}

	switch cfg.Mode {
	case core.KindAPI:
		return core.NewEntityStore(o.entityBackend(cfg), o.storeOptions()...), nil
	case core.KindSSH, core.KindLocal:
		return core.NewDocumentStore(o.documentBackend(cfg), cfg.Mode, o.storeOptions()...), nil
	default:
		return nil, fmt.Errorf("unknown backend mode %q", cfg.Mode)
	}
}

// OpenMigration returns the document backend holding the existing data (remote when
// ssh_ip is set, local otherwise) and the REST backend it is migrated into.
func OpenMigration(cfg *config.Config, opts ...Option) (core.DocumentBackend, core.EntityBackend, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if err := resolve(cfg); err != nil {
		return nil, nil, err
	}
	if cfg.Mode != core.KindAPI {
		return nil, nil, ErrMigrationTarget
	}
	return o.documentBackend(cfg), o.entityBackend(cfg), nil
}

func resolve(cfg *config.Config) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if cfg.Mode != "" {
		return nil
	}
	if err := cfg.Resolve(); err != nil {
		return fmt.Errorf("failed to resolve config: %w", err)
	}
	return cfg.Validate()
}

func (o *options) documentBackend(cfg *config.Config) core.DocumentBackend {
	if o.document != nil {
		return o.document
	}
	if cfg.SSHIP != "" {
		var sftpOpts []sftp.Option
		if o.sftpOpener != nil {
			sftpOpts = append(sftpOpts, sftp.WithOpener(o.sftpOpener))
		}
		return sftp.NewBackend(sftp.Config{
			Host:   cfg.SSHIP,
			User:   cfg.SSHUsername,
			Folder: cfg.FolderPath,
			Logger: o.logger,
		}, sftpOpts...)
	}
	return fs.NewBackend(fs.Config{
		Path:   cfg.FolderPath,
		Logger: o.logger,
	})
}

func (o *options) entityBackend(cfg *config.Config) core.EntityBackend {
	if o.entity != nil {
		return o.entity
	}
	return api.NewClient(api.Config{
		BaseURL:    cfg.APIURL,
		APIKey:     cfg.APIKey,
		HTTPClient: o.httpClient,
		Logger:     o.logger,
	})
}
