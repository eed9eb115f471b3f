package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/tasks/pkg/core"
)

const debounceInterval = 50 * time.Millisecond

// Watch implements core.Watcher. It watches the data folder rather than the file,
// since every persist replaces the file through a rename.
func (b *Backend) Watch(ctx context.Context) (<-chan core.ChangeEvent, error) {
	if err := os.MkdirAll(b.Path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data folder: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(b.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", b.Path, err)
	}

	events := make(chan core.ChangeEvent)
	b.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer b.setWatcherActive(false)
		defer watcher.Close()
		return b.watchLoop(ctx, watcher, events)
	}, lifecycle.WithErrorHandler(func(err error) {
		b.logger.Error("watcher failed", "error", err)
	}))

	return events, nil
}

// watchLoop coalesces bursts of filesystem events on the data document into one ChangeEvent.
func (b *Backend) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, events chan<- core.ChangeEvent) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if !b.isDocumentEvent(event) {
				continue
			}
			b.logger.Debug("event received", "name", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounceInterval)
			} else {
				timer.Reset(debounceInterval)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			select {
			case events <- core.ChangeEvent{Path: b.file, Time: time.Now()}:
			case <-ctx.Done():
				return nil
			}

		case wErr, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			b.logger.Error("fsnotify error", "error", wErr)
		}
	}
}

func (b *Backend) isDocumentEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != b.file {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

var _ core.Watcher = (*Backend)(nil)
