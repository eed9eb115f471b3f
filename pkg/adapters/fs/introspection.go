package fs

import (
	"os"
	"time"

	"github.com/aretw0/introspection"
)

// BackendState exposes internal state for observability.
type BackendState struct {
	Path          string     `json:"path"`
	File          string     `json:"file"`
	Exists        bool       `json:"exists"`
	WatcherActive bool       `json:"watcher_active"`
	LastPersist   *time.Time `json:"last_persist,omitempty"`
}

// State implements introspection.Introspectable.
func (b *Backend) State() any {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, err := os.Stat(b.file)
	return BackendState{
		Path:          b.Path,
		File:          b.file,
		Exists:        err == nil,
		WatcherActive: b.watching,
		LastPersist:   b.lastPersist,
	}
}

// ComponentType implements introspection.Component.
func (b *Backend) ComponentType() string {
	return "fs-backend"
}

var _ introspection.Introspectable = (*Backend)(nil)
var _ introspection.Component = (*Backend)(nil)

func (b *Backend) setWatcherActive(active bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.watching = active
}

func (b *Backend) recordPersist() {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := time.Now()
	b.lastPersist = &now
}
