package platform

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/tasks/pkg/adapters/sftp"
	"github.com/aretw0/tasks/pkg/core"
)

// options holds the wiring overrides applied when opening a store.
type options struct {
	logger     *slog.Logger
	now        func() time.Time
	httpClient *http.Client
	document   core.DocumentBackend
	entity     core.EntityBackend
	sftpOpener sftp.Opener
}

// Option defines a functional option for opening a store.
type Option func(*options)

func defaultOptions() *options {
	return &options{}
}

// WithLogger sets the logger shared by the store and its backend.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock overrides the time source used for task timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithHTTPClient sets the client used to reach the REST service.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithDocumentBackend injects a custom whole-document backend (e.g. a mock).
// It replaces the local or remote filesystem backend selected by the config.
func WithDocumentBackend(b core.DocumentBackend) Option {
	return func(o *options) {
		o.document = b
	}
}

// WithEntityBackend injects a custom per-entity backend, replacing the REST client.
func WithEntityBackend(b core.EntityBackend) Option {
	return func(o *options) {
		o.entity = b
	}
}

// WithSFTPOpener replaces the SSH dialer of the remote filesystem backend.
func WithSFTPOpener(open sftp.Opener) Option {
	return func(o *options) {
		o.sftpOpener = open
	}
}

func (o *options) storeOptions() []core.StoreOption {
	return []core.StoreOption{core.WithLogger(o.logger), core.WithClock(o.now)}
}
