package sftp

import (
	"time"

	"github.com/aretw0/introspection"
)

// BackendState exposes internal state for observability.
type BackendState struct {
	Host        string     `json:"host"`
	User        string     `json:"user"`
	File        string     `json:"file"`
	Sessions    int        `json:"sessions_opened"`
	LastPersist *time.Time `json:"last_persist,omitempty"`
}

// State implements introspection.Introspectable.
func (b *Backend) State() any {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return BackendState{
		Host:        b.config.Host,
		User:        b.config.User,
		File:        b.file,
		Sessions:    b.sessions,
		LastPersist: b.lastPersist,
	}
}

// ComponentType implements introspection.Component.
func (b *Backend) ComponentType() string {
	return "sftp-backend"
}

var _ introspection.Introspectable = (*Backend)(nil)
var _ introspection.Component = (*Backend)(nil)
