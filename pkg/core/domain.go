// Package core holds the task tracker domain: tasks grouped into contexts, the
// backend ports, and the Store that keeps the collection consistent.
package core

import "encoding/json"

// Task is a single item inside a Context.
// IDs are dense within their context: for N tasks they are exactly 1..N.
type Task struct {
	ID               int       `json:"id"`
	Content          string    `json:"content"`
	Done             bool      `json:"done"`
	CreationDate     Timestamp `json:"creation_date"`
	ModificationDate Timestamp `json:"modification_date"`
}

// UnmarshalJSON accepts the older document schema that stored the content under "name".
func (t *Task) UnmarshalJSON(data []byte) error {
	type alias Task
	var raw struct {
		alias
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*t = Task(raw.alias)
	if t.Content == "" {
		t.Content = raw.Name
	}
	return nil
}

// Context is a named group of tasks. At most one context of a Collection is active.
type Context struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Tasks  []Task `json:"tasks"`
	Active bool   `json:"active"`
}

// MarshalJSON always writes tasks as an array, never null.
func (c Context) MarshalJSON() ([]byte, error) {
	type alias Context
	if c.Tasks == nil {
		c.Tasks = []Task{}
	}
	return json.Marshal(alias(c))
}

// NewContext builds an active, empty context for a collection currently holding size contexts.
// Context IDs are count+1 at creation and are never renumbered afterwards.
func NewContext(name string, size int) Context {
	return Context{
		ID:     size + 1,
		Name:   name,
		Tasks:  []Task{},
		Active: true,
	}
}

// ContextSummary is the read model used when listing contexts.
type ContextSummary struct {
	Position  int    `json:"position"`
	ID        int    `json:"id"`
	Name      string `json:"name"`
	TaskCount int    `json:"count"`
	Active    bool   `json:"active"`
}

// BackendKind names the storage strategy behind a Store.
type BackendKind string

const (
	KindLocal BackendKind = "local"
	KindSSH   BackendKind = "ssh"
	KindAPI   BackendKind = "api"
)

// RenumbersTasks reports whether task IDs are kept dense by the backend.
// The API backend keeps server-assigned IDs, so tasks are addressed by display position there.
func (k BackendKind) RenumbersTasks() bool {
	return k != KindAPI
}
