package core

import (
	"context"
	"fmt"
	"time"
)

// ChangeEvent reports that the stored document was rewritten.
type ChangeEvent struct {
	Path string
	Time time.Time
}

func (e ChangeEvent) String() string {
	return fmt.Sprintf("%s changed at %s", e.Path, e.Time.Format(time.TimeOnly))
}

// Watcher is implemented by backends that can report changes to the stored document.
// The returned channel is closed once ctx is done.
type Watcher interface {
	Watch(ctx context.Context) (<-chan ChangeEvent, error)
}

// Watch implements Watcher when the underlying backend does.
func (s *DocumentStore) Watch(ctx context.Context) (<-chan ChangeEvent, error) {
	w, ok := s.backend.(Watcher)
	if !ok {
		return nil, ErrWatchUnsupported
	}
	return w.Watch(ctx)
}

var _ Watcher = (*DocumentStore)(nil)
