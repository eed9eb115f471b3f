package api

import "github.com/aretw0/introspection"

// ClientState exposes internal state for observability.
type ClientState struct {
	BaseURL       string `json:"base_url"`
	Authenticated bool   `json:"authenticated"`
	Requests      int    `json:"requests"`
	LastStatus    int    `json:"last_status,omitempty"`
	LastRequestID string `json:"last_request_id,omitempty"`
}

// State implements introspection.Introspectable.
func (c *Client) State() any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return ClientState{
		BaseURL:       c.base,
		Authenticated: c.key != "",
		Requests:      c.requests,
		LastStatus:    c.lastStatus,
		LastRequestID: c.lastID,
	}
}

// ComponentType implements introspection.Component.
func (c *Client) ComponentType() string {
	return "api-client"
}

var _ introspection.Introspectable = (*Client)(nil)
var _ introspection.Component = (*Client)(nil)
