package core

import (
	"fmt"
	"slices"
	"time"
)

// Collection is the full ordered list of contexts, the unit of persistence for
// document backends.
type Collection []Context

// ActiveIndex returns the index of the active context, or -1 when none is active.
func (c Collection) ActiveIndex() int {
	return slices.IndexFunc(c, func(ctx Context) bool { return ctx.Active })
}

// IndexOfName returns the index of the context with the given name, or -1.
func (c Collection) IndexOfName(name string) int {
	return slices.IndexFunc(c, func(ctx Context) bool { return ctx.Name == name })
}

// IndexOfID returns the index of the first context with the given id, or -1.
// Context ids are not renumbered, so after deletions two contexts may share an id;
// the first one in list order wins.
func (c Collection) IndexOfID(id int) int {
	return slices.IndexFunc(c, func(ctx Context) bool { return ctx.ID == id })
}

// Use creates the named context when missing and makes it the only active one.
func (c Collection) Use(name string) Collection {
	if c.IndexOfName(name) < 0 {
		c = append(c, NewContext(name, len(c)))
	}
	for i := range c {
		c[i].Active = c[i].Name == name
	}
	return c
}

// Rename changes the name of the context with the given id.
func (c Collection) Rename(id int, name string) error {
	i := c.IndexOfID(id)
	if i < 0 {
		return fmt.Errorf("no context found with id %d: %w", id, ErrEntityNotFound)
	}
	if j := c.IndexOfName(name); j >= 0 && j != i {
		return fmt.Errorf("%q: %w", name, ErrDuplicateName)
	}
	c[i].Name = name
	return nil
}

// RemoveContexts drops every context matched by refs, resolved against the current
// positions before anything is removed. If the active context is dropped and others
// remain, the first survivor becomes active. Refs that matched nothing are returned.
func (c Collection) RemoveContexts(refs []ContextRef) (Collection, []ContextRef) {
	matched := make([]bool, len(refs))
	kept := make(Collection, 0, len(c))

	for i, ctx := range c {
		drop := false
		for j, ref := range refs {
			if ref.Matches(i+1, ctx) {
				matched[j] = true
				drop = true
			}
		}
		if !drop {
			kept = append(kept, ctx)
		}
	}

	if len(kept) > 0 && kept.ActiveIndex() < 0 {
		kept[0].Active = true
	}

	var unmatched []ContextRef
	for j, ref := range refs {
		if !matched[j] {
			unmatched = append(unmatched, ref)
		}
	}
	return kept, unmatched
}

// Summaries returns the list-contexts read model.
func (c Collection) Summaries() []ContextSummary {
	out := make([]ContextSummary, 0, len(c))
	for i, ctx := range c {
		out = append(out, ContextSummary{
			Position:  i + 1,
			ID:        ctx.ID,
			Name:      ctx.Name,
			TaskCount: len(ctx.Tasks),
			Active:    ctx.Active,
		})
	}
	return out
}

// AddTask appends a new task with the next dense id.
func (c *Context) AddTask(content string, now time.Time) Task {
	ts := NewTimestamp(now)
	task := Task{
		ID:               len(c.Tasks) + 1,
		Content:          content,
		Done:             false,
		CreationDate:     ts,
		ModificationDate: ts,
	}
	c.Tasks = append(c.Tasks, task)
	return task
}

// EditTask replaces the content of the task with the given id.
func (c *Context) EditTask(id int, content string, now time.Time) error {
	i := slices.IndexFunc(c.Tasks, func(t Task) bool { return t.ID == id })
	if i < 0 {
		return fmt.Errorf("no task found with id %d: %w", id, ErrEntityNotFound)
	}
	c.Tasks[i].Content = content
	c.Tasks[i].ModificationDate = NewTimestamp(now)
	return nil
}

// RemoveTasks deletes the tasks with the given ids and renumbers the survivors 1..N
// in their original order. Ids that matched nothing are returned.
func (c *Context) RemoveTasks(ids []int) []int {
	found := make(map[int]bool, len(ids))
	kept := make([]Task, 0, len(c.Tasks))

	for _, task := range c.Tasks {
		if slices.Contains(ids, task.ID) {
			found[task.ID] = true
			continue
		}
		task.ID = len(kept) + 1
		kept = append(kept, task)
	}
	c.Tasks = kept

	var missing []int
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

// MarkDone flags the tasks with the given ids as done. Unknown ids are ignored.
// It returns how many tasks changed.
func (c *Context) MarkDone(ids []int, now time.Time) int {
	changed := 0
	for i := range c.Tasks {
		if !slices.Contains(ids, c.Tasks[i].ID) || c.Tasks[i].Done {
			continue
		}
		c.Tasks[i].Done = true
		c.Tasks[i].ModificationDate = NewTimestamp(now)
		changed++
	}
	return changed
}

// Clear removes every task, keeping the context itself.
func (c *Context) Clear() {
	c.Tasks = []Task{}
}
