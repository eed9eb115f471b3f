// Package tasks is the Composition Root for the tasks tracker.
//
// Tasks are grouped into named contexts, exactly one of which is active at a
// time. The collection is persisted by one of three interchangeable backends:
//
//   - **Local filesystem**: a JSON document written atomically (temp file + rename).
//   - **Remote filesystem**: the same document on a host reached over SSH/SFTP.
//   - **REST service**: a remote API that owns the collection, one endpoint per change.
//
// The backend is chosen from the configuration: api_url wins over ssh_ip, which
// wins over the local filesystem. Whatever the backend, the same data model holds:
// task ids are dense per context, context ids are never renumbered and at most one
// context is active.
//
// Usage:
//
//	cfg, err := tasks.LoadConfig("")
//	store, err := tasks.New(cfg, tasks.WithLogger(logger))
//
//	err = store.UseContext(ctx, "work")
//	task, err := store.AddTask(ctx, "buy milk")
//
// Existing file data can be moved into the REST service with Migrate.
package tasks
