// Package fs stores the task collection as a JSON document on the local filesystem.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/tasks/pkg/core"
)

// DefaultFileName is the name of the data document inside the data folder.
const DefaultFileName = "tasks.json"

// Config holds the configuration for the filesystem backend.
type Config struct {
	Path     string // data folder, created on first load
	FileName string // defaults to DefaultFileName
	Logger   *slog.Logger
}

// Backend implements core.DocumentBackend on the local filesystem.
type Backend struct {
	Path   string
	file   string
	logger *slog.Logger

	mu          sync.RWMutex
	watching    bool
	lastPersist *time.Time
}

// NewBackend creates a filesystem backend rooted at config.Path.
func NewBackend(config Config) *Backend {
	name := config.FileName
	if name == "" {
		name = DefaultFileName
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Backend{
		Path:   filepath.Clean(config.Path),
		file:   filepath.Join(filepath.Clean(config.Path), name),
		logger: logger,
	}
}

// FilePath returns the absolute location of the data document.
func (b *Backend) FilePath() string {
	return b.file
}

// Load implements core.DocumentBackend.
func (b *Backend) Load(ctx context.Context, createIfMissing bool) (core.Collection, error) {
	if err := b.ensureFolder(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(b.file)
	if errors.Is(err, os.ErrNotExist) {
		if !createIfMissing {
			return nil, fmt.Errorf("%s: %w", b.file, core.ErrNotFound)
		}
		if err := b.writeDocument(core.Collection{}); err != nil {
			return nil, err
		}
		b.logger.Debug("created empty data document", "path", b.file)
		return core.Collection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", b.file, err)
	}

	b.logger.Debug("loaded data document", "path", b.file, "bytes", len(data))
	return core.DecodeCollection(data)
}

// Persist implements core.DocumentBackend.
func (b *Backend) Persist(ctx context.Context, c core.Collection) error {
	if err := b.writeDocument(c); err != nil {
		return err
	}
	b.recordPersist()
	return nil
}

var _ core.DocumentBackend = (*Backend)(nil)
