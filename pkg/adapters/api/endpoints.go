package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/aretw0/tasks/pkg/core"
)

var (
	activeQuery = url.Values{"active": {"true"}}
	countQuery  = url.Values{"count": {"true"}}
	indexQuery  = url.Values{"index": {"true"}}
)

// ListContexts implements core.EntityBackend.
func (c *Client) ListContexts(ctx context.Context) (core.Collection, error) {
	var out core.Collection
	if err := c.do(ctx, http.MethodGet, "/context", nil, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = core.Collection{}
	}
	return out, nil
}

// ActiveContext implements core.EntityBackend.
func (c *Client) ActiveContext(ctx context.Context) (core.Context, error) {
	var out core.Context
	err := c.do(ctx, http.MethodGet, "/context", activeQuery, nil, &out)
	if errors.Is(err, core.ErrEntityNotFound) {
		return core.Context{}, core.ErrNoActiveContext
	}
	return out, err
}

// CountContexts implements core.EntityBackend.
func (c *Client) CountContexts(ctx context.Context) ([]core.ContextSummary, error) {
	var out []core.ContextSummary
	if err := c.do(ctx, http.MethodGet, "/context", countQuery, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []core.ContextSummary{}
	}
	return out, nil
}

// UseContext implements core.EntityBackend.
func (c *Client) UseContext(ctx context.Context, name string) (core.Context, error) {
	return c.CreateContext(ctx, core.ContextInput{Name: name, Active: true, SimpleCreate: false})
}

// CreateContext implements core.EntityBackend.
func (c *Client) CreateContext(ctx context.Context, in core.ContextInput) (core.Context, error) {
	var out core.Context
	if err := c.do(ctx, http.MethodPost, "/context", nil, in, &out); err != nil {
		return core.Context{}, err
	}
	return out, nil
}

// UpdateContext implements core.EntityBackend.
func (c *Client) UpdateContext(ctx context.Context, id int, name string) error {
	body := map[string]string{"name": name}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/context/%d", id), nil, body, nil); err != nil {
		return fmt.Errorf("failed to rename context %d: %w", id, err)
	}
	return nil
}

// DeleteContext implements core.EntityBackend.
func (c *Client) DeleteContext(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/context/%d", id), nil, nil, nil)
}

// DeleteAllContexts implements core.EntityBackend.
func (c *Client) DeleteAllContexts(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/context", nil, nil, nil)
}

// ClearActive implements core.EntityBackend.
func (c *Client) ClearActive(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/context/clear", nil, nil, nil)
	if errors.Is(err, core.ErrEntityNotFound) {
		return core.ErrNoActiveContext
	}
	return err
}

// CreateTask implements core.EntityBackend.
func (c *Client) CreateTask(ctx context.Context, in core.TaskInput) (core.Task, error) {
	var out core.Task
	if err := c.do(ctx, http.MethodPost, "/task", nil, in, &out); err != nil {
		return core.Task{}, err
	}
	return out, nil
}

// CreateTasks implements core.EntityBackend.
func (c *Client) CreateTasks(ctx context.Context, in []core.TaskInput) error {
	return c.do(ctx, http.MethodPost, "/task/batch", nil, in, nil)
}

// UpdateTask implements core.EntityBackend.
func (c *Client) UpdateTask(ctx context.Context, position int, content string) error {
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/task/%d", position), indexQuery, body, nil); err != nil {
		return fmt.Errorf("failed to update task %d: %w", position, err)
	}
	return nil
}

// MarkDone implements core.EntityBackend.
func (c *Client) MarkDone(ctx context.Context, position int) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/task/done/%d", position), indexQuery, nil, nil)
}

// DeleteTask implements core.EntityBackend.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/task/%d", id), nil, nil, nil)
}

// DeleteAllTasks implements core.EntityBackend.
func (c *Client) DeleteAllTasks(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/task", nil, nil, nil)
}

var _ core.EntityBackend = (*Client)(nil)
