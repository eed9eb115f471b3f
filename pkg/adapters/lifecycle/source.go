// Package lifecycle bridges backend change notifications into lifecycle sources.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/tasks/pkg/core"
)

// Change reports the latest write to the data document together with how many
// writes happened since the previous Change was consumed.
type Change struct {
	core.ChangeEvent
	Writes int
}

func (c Change) String() string {
	if c.Writes <= 1 {
		return c.ChangeEvent.String()
	}
	return fmt.Sprintf("%s (%d writes)", c.ChangeEvent.String(), c.Writes)
}

type changeSource struct {
	events <-chan core.ChangeEvent
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits a Change per burst of document
// writes. While the consumer is busy, new writes are merged into the pending
// Change instead of queueing one redraw each.
func NewSource(events <-chan core.ChangeEvent) lifecycle.Source {
	return &changeSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *changeSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *changeSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)

		var pending Change
		for {
			// A nil channel disables the send case until something is pending.
			var out chan lifecycle.Event
			if pending.Writes > 0 {
				out = s.out
			}

			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					if pending.Writes > 0 {
						select {
						case s.out <- pending:
						case <-ctx.Done():
						}
					}
					return nil
				}
				pending.ChangeEvent = e
				pending.Writes++
			case out <- pending:
				pending = Change{}
			}
		}
	})
	return nil
}
