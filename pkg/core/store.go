package core

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Store is the operation surface shared by every backend.
// Each call is one command: load state, apply at most one mutation, persist.
type Store interface {
	// Kind names the backend behind the store.
	Kind() BackendKind

	// UseContext creates the named context when missing and makes it the only active one.
	UseContext(ctx context.Context, name string) error
	// AddTask appends a task to the active context.
	AddTask(ctx context.Context, content string) (Task, error)
	// EditTask replaces the content of a task of the active context.
	EditTask(ctx context.Context, id int, content string) error
	// EditContext renames a context.
	EditContext(ctx context.Context, id int, name string) error
	// DeleteTasks removes the comma-separated task ids from the active context.
	DeleteTasks(ctx context.Context, args string) error
	// DeleteContexts removes the comma-separated contexts, given by name or position.
	DeleteContexts(ctx context.Context, args string) error
	// MarkDone flags the comma-separated task ids of the active context as done.
	MarkDone(ctx context.Context, args string) error
	// ClearTasks empties the active context.
	ClearTasks(ctx context.Context) error

	// ListTasks returns the active context, or every context when all is set.
	ListTasks(ctx context.Context, all bool) (Collection, error)
	// ListContexts returns a summary of every context.
	ListContexts(ctx context.Context) ([]ContextSummary, error)
}

// StoreOption configures a Store.
type StoreOption func(*storeOptions)

type storeOptions struct {
	logger *slog.Logger
	now    func() time.Time
}

func defaultStoreOptions() *storeOptions {
	return &storeOptions{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
}

// WithLogger sets the logger used for warnings (skipped ids, unknown refs) and debug traces.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(o *storeOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock overrides the time source used for task timestamps.
func WithClock(now func() time.Time) StoreOption {
	return func(o *storeOptions) {
		if now != nil {
			o.now = now
		}
	}
}

func warnMalformed(logger *slog.Logger, err error) {
	if err != nil {
		logger.Warn("skipping malformed ids", "error", err)
	}
}
