package core

import "context"

// DocumentBackend stores the whole collection as a single document.
// Adhering to this interface keeps the Store independent of where the document
// lives (local disk, remote host over SFTP, ...).
type DocumentBackend interface {
	// Load reads the full collection. When the document is missing it returns
	// ErrNotFound, unless createIfMissing is set, in which case an empty document
	// is created and an empty collection returned.
	Load(ctx context.Context, createIfMissing bool) (Collection, error)

	// Persist replaces the stored document with c.
	// The previous document is only replaced once the new one is fully serialized.
	Persist(ctx context.Context, c Collection) error
}

// ContextInput is the payload used to create a context on an EntityBackend.
type ContextInput struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
	// SimpleCreate skips the server-side "use" semantics (deactivating others).
	SimpleCreate bool `json:"simple_create"`
}

// TaskInput is the payload used to create tasks on an EntityBackend.
// A zero ContextID targets the active context.
type TaskInput struct {
	Content          string     `json:"content"`
	ContextID        int        `json:"context_id,omitempty"`
	CreationDate     *Timestamp `json:"creation_date,omitempty"`
	ModificationDate *Timestamp `json:"modification_date,omitempty"`
}

// EntityBackend is a per-entity remote service: the server owns the collection and
// exposes one call per logical change instead of a whole-document round trip.
type EntityBackend interface {
	// ListContexts returns every context with its tasks.
	ListContexts(ctx context.Context) (Collection, error)
	// ActiveContext returns the active context with its tasks, or ErrNoActiveContext.
	ActiveContext(ctx context.Context) (Context, error)
	// CountContexts returns every context with its task count.
	CountContexts(ctx context.Context) ([]ContextSummary, error)

	// UseContext creates the named context if needed and makes it the only active one.
	UseContext(ctx context.Context, name string) (Context, error)
	// CreateContext creates a context as-is.
	CreateContext(ctx context.Context, in ContextInput) (Context, error)
	// UpdateContext renames the context with the given id.
	UpdateContext(ctx context.Context, id int, name string) error
	// DeleteContext removes a context and its tasks.
	DeleteContext(ctx context.Context, id int) error
	// DeleteAllContexts removes every context.
	DeleteAllContexts(ctx context.Context) error
	// ClearActive removes every task of the active context.
	ClearActive(ctx context.Context) error

	// CreateTask adds a task.
	CreateTask(ctx context.Context, in TaskInput) (Task, error)
	// CreateTasks adds many tasks in one call.
	CreateTasks(ctx context.Context, in []TaskInput) error
	// UpdateTask changes the content of the task at the given 1-based position of the active context.
	UpdateTask(ctx context.Context, position int, content string) error
	// MarkDone flags the task at the given 1-based position of the active context as done.
	MarkDone(ctx context.Context, position int) error
	// DeleteTask removes the task with the given server id.
	DeleteTask(ctx context.Context, id int) error
	// DeleteAllTasks removes every task of every context.
	DeleteAllTasks(ctx context.Context) error
}
