package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// EntityStore implements Store over an EntityBackend.
//
// The remote service owns the collection, so every operation maps onto one or more
// per-entity calls. Comma-separated targets are resolved against a snapshot taken
// first, which keeps sequential deletes from shifting the positions still to process.
// Task ids stay server-assigned (they are not renumbered); tasks are addressed by
// their display position instead.
type EntityStore struct {
	backend EntityBackend
	logger  *slog.Logger
}

// NewEntityStore creates a Store over a per-entity backend.
func NewEntityStore(backend EntityBackend, opts ...StoreOption) *EntityStore {
	o := defaultStoreOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &EntityStore{backend: backend, logger: o.logger}
}

// Kind implements Store.
func (s *EntityStore) Kind() BackendKind {
	return KindAPI
}

// UseContext implements Store.
func (s *EntityStore) UseContext(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("context name cannot be empty")
	}
	_, err := s.backend.UseContext(ctx, name)
	return err
}

// AddTask implements Store.
func (s *EntityStore) AddTask(ctx context.Context, content string) (Task, error) {
	active, err := s.backend.ActiveContext(ctx)
	if err != nil {
		return Task{}, err
	}
	return s.backend.CreateTask(ctx, TaskInput{Content: content, ContextID: active.ID})
}

// requireActive fails with ErrNoActiveContext before position-addressed calls,
// which the service would otherwise report as a plain miss.
func (s *EntityStore) requireActive(ctx context.Context) error {
	_, err := s.backend.ActiveContext(ctx)
	return err
}

// EditTask implements Store. id is the display position of the task.
func (s *EntityStore) EditTask(ctx context.Context, id int, content string) error {
	if err := s.requireActive(ctx); err != nil {
		return err
	}
	return s.backend.UpdateTask(ctx, id, content)
}

// EditContext implements Store.
func (s *EntityStore) EditContext(ctx context.Context, id int, name string) error {
	if name == "" {
		return fmt.Errorf("context name cannot be empty")
	}
	if err := s.requireActive(ctx); err != nil {
		return err
	}
	return s.backend.UpdateContext(ctx, id, name)
}

// DeleteTasks implements Store. The ids are display positions in the active context.
func (s *EntityStore) DeleteTasks(ctx context.Context, args string) error {
	positions, parseErr := ParseIDs(args)
	warnMalformed(s.logger, parseErr)

	active, err := s.backend.ActiveContext(ctx)
	if err != nil {
		return err
	}

	// Repeated positions resolve to the same server id; delete it once.
	deleted := make(map[int]bool, len(positions))
	for _, pos := range positions {
		if pos > len(active.Tasks) {
			s.logger.Warn("no task found", "id", pos, "context", active.Name)
			continue
		}
		id := active.Tasks[pos-1].ID
		if deleted[id] {
			continue
		}
		deleted[id] = true
		if err := s.backend.DeleteTask(ctx, id); err != nil {
			return fmt.Errorf("failed to delete task %d: %w", pos, err)
		}
	}
	return nil
}

// DeleteContexts implements Store.
func (s *EntityStore) DeleteContexts(ctx context.Context, args string) error {
	snapshot, err := s.backend.ListContexts(ctx)
	if err != nil {
		return err
	}
	if snapshot.ActiveIndex() < 0 {
		return ErrNoActiveContext
	}

	kept, unmatched := snapshot.RemoveContexts(ParseContextRefs(args))
	for _, ref := range unmatched {
		s.logger.Warn("no context found", "ref", ref.String())
	}

	survivors := make(map[int]bool, len(kept))
	for _, c := range kept {
		survivors[c.ID] = true
	}

	activeRemoved := false
	for _, c := range snapshot {
		if survivors[c.ID] {
			continue
		}
		if err := s.backend.DeleteContext(ctx, c.ID); err != nil {
			return fmt.Errorf("failed to delete context %q: %w", c.Name, err)
		}
		activeRemoved = activeRemoved || c.Active
	}

	// The promotion rule is enforced here rather than trusted to the server.
	if activeRemoved && len(kept) > 0 {
		if _, err := s.backend.UseContext(ctx, kept[0].Name); err != nil {
			return fmt.Errorf("failed to activate %q: %w", kept[0].Name, err)
		}
	}
	return nil
}

// MarkDone implements Store. Unknown positions are ignored silently.
func (s *EntityStore) MarkDone(ctx context.Context, args string) error {
	positions, parseErr := ParseIDs(args)
	warnMalformed(s.logger, parseErr)

	if err := s.requireActive(ctx); err != nil {
		return err
	}
	for _, pos := range positions {
		err := s.backend.MarkDone(ctx, pos)
		if errors.Is(err, ErrEntityNotFound) {
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ClearTasks implements Store.
func (s *EntityStore) ClearTasks(ctx context.Context) error {
	if err := s.requireActive(ctx); err != nil {
		return err
	}
	return s.backend.ClearActive(ctx)
}

// ListTasks implements Store.
func (s *EntityStore) ListTasks(ctx context.Context, all bool) (Collection, error) {
	if all {
		return s.backend.ListContexts(ctx)
	}
	active, err := s.backend.ActiveContext(ctx)
	if err != nil {
		return nil, err
	}
	return Collection{active}, nil
}

// ListContexts implements Store.
func (s *EntityStore) ListContexts(ctx context.Context) ([]ContextSummary, error) {
	summaries, err := s.backend.CountContexts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range summaries {
		summaries[i].Position = i + 1
	}
	return summaries, nil
}

var _ Store = (*EntityStore)(nil)
