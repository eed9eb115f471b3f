package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DocumentStore implements Store over a DocumentBackend.
//
// Workflow for every command:
//  1. Load the full collection (creating an empty document when missing).
//  2. Determine the active context (fails unless the command can run without one).
//  3. Apply one mutation through the Collection helpers.
//  4. Persist the full collection (skipped for list operations and lookup misses).
type DocumentStore struct {
	backend DocumentBackend
	kind    BackendKind
	logger  *slog.Logger
	now     func() time.Time
}

// NewDocumentStore creates a Store over a whole-document backend.
func NewDocumentStore(backend DocumentBackend, kind BackendKind, opts ...StoreOption) *DocumentStore {
	o := defaultStoreOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &DocumentStore{
		backend: backend,
		kind:    kind,
		logger:  o.logger,
		now:     o.now,
	}
}

// Kind implements Store.
func (s *DocumentStore) Kind() BackendKind {
	return s.kind
}

// load reads the collection and locates the active context.
// The returned index is -1 when no context is active and requireActive is false.
func (s *DocumentStore) load(ctx context.Context, requireActive bool) (Collection, int, error) {
	data, err := s.backend.Load(ctx, true)
	if err != nil {
		return nil, -1, fmt.Errorf("failed to load data: %w", err)
	}

	index := data.ActiveIndex()
	if requireActive && index < 0 {
		return nil, -1, ErrNoActiveContext
	}
	return data, index, nil
}

func (s *DocumentStore) persist(ctx context.Context, data Collection) error {
	if err := s.backend.Persist(ctx, data); err != nil {
		return fmt.Errorf("failed to persist data: %w", err)
	}
	return nil
}

// UseContext implements Store.
func (s *DocumentStore) UseContext(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("context name cannot be empty")
	}

	data, _, err := s.load(ctx, false)
	if err != nil {
		return err
	}

	data = data.Use(name)
	s.logger.Debug("using context", "name", name)
	return s.persist(ctx, data)
}

// AddTask implements Store.
func (s *DocumentStore) AddTask(ctx context.Context, content string) (Task, error) {
	data, index, err := s.load(ctx, true)
	if err != nil {
		return Task{}, err
	}

	task := data[index].AddTask(content, s.now())
	if err := s.persist(ctx, data); err != nil {
		return Task{}, err
	}
	return task, nil
}

// EditTask implements Store.
func (s *DocumentStore) EditTask(ctx context.Context, id int, content string) error {
	data, index, err := s.load(ctx, true)
	if err != nil {
		return err
	}

	if err := data[index].EditTask(id, content, s.now()); err != nil {
		return err
	}
	return s.persist(ctx, data)
}

// EditContext implements Store.
func (s *DocumentStore) EditContext(ctx context.Context, id int, name string) error {
	if name == "" {
		return fmt.Errorf("context name cannot be empty")
	}

	data, _, err := s.load(ctx, true)
	if err != nil {
		return err
	}

	if err := data.Rename(id, name); err != nil {
		return err
	}
	return s.persist(ctx, data)
}

// DeleteTasks implements Store.
func (s *DocumentStore) DeleteTasks(ctx context.Context, args string) error {
	data, index, err := s.load(ctx, true)
	if err != nil {
		return err
	}

	ids, parseErr := ParseIDs(args)
	warnMalformed(s.logger, parseErr)

	for _, id := range data[index].RemoveTasks(ids) {
		s.logger.Warn("no task found", "id", id, "context", data[index].Name)
	}
	return s.persist(ctx, data)
}

// DeleteContexts implements Store.
func (s *DocumentStore) DeleteContexts(ctx context.Context, args string) error {
	data, _, err := s.load(ctx, true)
	if err != nil {
		return err
	}

	kept, unmatched := data.RemoveContexts(ParseContextRefs(args))
	for _, ref := range unmatched {
		s.logger.Warn("no context found", "ref", ref.String())
	}
	return s.persist(ctx, kept)
}

// MarkDone implements Store. Unknown ids are ignored silently.
func (s *DocumentStore) MarkDone(ctx context.Context, args string) error {
	data, index, err := s.load(ctx, true)
	if err != nil {
		return err
	}

	ids, parseErr := ParseIDs(args)
	warnMalformed(s.logger, parseErr)

	data[index].MarkDone(ids, s.now())
	return s.persist(ctx, data)
}

// ClearTasks implements Store.
func (s *DocumentStore) ClearTasks(ctx context.Context) error {
	data, index, err := s.load(ctx, true)
	if err != nil {
		return err
	}

	data[index].Clear()
	return s.persist(ctx, data)
}

// ListTasks implements Store.
func (s *DocumentStore) ListTasks(ctx context.Context, all bool) (Collection, error) {
	data, index, err := s.load(ctx, !all)
	if err != nil {
		return nil, err
	}
	if all {
		return data, nil
	}
	return Collection{data[index]}, nil
}

// ListContexts implements Store.
func (s *DocumentStore) ListContexts(ctx context.Context) ([]ContextSummary, error) {
	data, _, err := s.load(ctx, false)
	if err != nil {
		return nil, err
	}
	return data.Summaries(), nil
}

var _ Store = (*DocumentStore)(nil)
