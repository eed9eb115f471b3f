// Package sftp stores the task collection as a JSON document on a remote host,
// reached over SSH with the SFTP subsystem.
package sftp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"sync"
	"time"

	"github.com/pkg/sftp"

	"github.com/aretw0/tasks/pkg/core"
)

// DefaultFileName is the name of the data document inside the remote folder.
const DefaultFileName = "tasks.json"

// Config holds the connection and location settings of the remote document.
type Config struct {
	Host           string // host or host:port
	User           string
	Folder         string // relative to the login directory, may be empty
	FileName       string // defaults to DefaultFileName
	KnownHostsFile string // defaults to ~/.ssh/known_hosts
	AgentSocket    string // defaults to $SSH_AUTH_SOCK
	Logger         *slog.Logger
}

// Backend implements core.DocumentBackend over SFTP. Every Load and Persist opens
// its own session and closes it before returning.
type Backend struct {
	config Config
	file   string
	logger *slog.Logger
	open   Opener

	mu          sync.RWMutex
	sessions    int
	lastPersist *time.Time
}

// Option configures a Backend.
type Option func(*Backend)

// WithOpener replaces the SSH dialer, e.g. with an in-memory server in tests.
func WithOpener(open Opener) Option {
	return func(b *Backend) {
		b.open = open
	}
}

// NewBackend creates an SFTP backend for the given host.
func NewBackend(config Config, opts ...Option) *Backend {
	if config.FileName == "" {
		config.FileName = DefaultFileName
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	b := &Backend{
		config: config,
		file:   path.Join(config.Folder, config.FileName),
		logger: logger,
	}
	b.open = dialOpener(config, logger)
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FilePath returns the remote location of the data document.
func (b *Backend) FilePath() string {
	return b.file
}

func (b *Backend) session(ctx context.Context) (*Session, error) {
	s, err := b.open(ctx)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.sessions++
	b.mu.Unlock()
	return s, nil
}

// Load implements core.DocumentBackend.
func (b *Backend) Load(ctx context.Context, createIfMissing bool) (core.Collection, error) {
	s, err := b.session(ctx)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	f, err := s.Client.Open(b.file)
	if errors.Is(err, os.ErrNotExist) {
		if !createIfMissing {
			return nil, fmt.Errorf("%s on %s: %w", b.file, b.config.Host, core.ErrNotFound)
		}
		if err := b.write(s.Client, []byte("[]")); err != nil {
			return nil, err
		}
		b.logger.Debug("created empty remote document", "host", b.config.Host, "path", b.file)
		return core.Collection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", b.file, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", b.file, err)
	}

	b.logger.Debug("loaded remote document", "host", b.config.Host, "path", b.file, "bytes", len(data))
	return core.DecodeCollection(data)
}

// Persist implements core.DocumentBackend.
func (b *Backend) Persist(ctx context.Context, c core.Collection) error {
	data, err := core.EncodeCollection(c)
	if err != nil {
		return err
	}

	s, err := b.session(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := b.write(s.Client, data); err != nil {
		return err
	}

	b.logger.Debug("persisted remote document", "host", b.config.Host, "path", b.file, "contexts", len(c))
	b.mu.Lock()
	now := time.Now()
	b.lastPersist = &now
	b.mu.Unlock()
	return nil
}

// write stages data in <file>.tmp and renames it over the document.
func (b *Backend) write(client *sftp.Client, data []byte) error {
	if b.config.Folder != "" {
		if err := client.MkdirAll(b.config.Folder); err != nil {
			return fmt.Errorf("failed to create remote folder %s: %w", b.config.Folder, err)
		}
	}

	tmp := b.file + ".tmp"
	f, err := client.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmp, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp, err)
	}

	if err := client.PosixRename(tmp, b.file); err == nil {
		return nil
	}

	// Plain SFTP rename refuses to overwrite.
	if err := client.Remove(b.file); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to replace %s: %w", b.file, err)
	}
	if err := client.Rename(tmp, b.file); err != nil {
		return fmt.Errorf("failed to rename %s to %s: %w", tmp, b.file, err)
	}
	return nil
}

var _ core.DocumentBackend = (*Backend)(nil)
