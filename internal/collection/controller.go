// Package collection holds the state machine behind every list screen: load,
// server-side sort and search, and delete behind a confirmation step.
package collection

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/MLinh204/Class-Helper-Admin/pkg/logger"
)

// Source is the data-access side of a collection. Implementations report every
// failure (network, non-2xx, bad payload) as a plain error.
type Source[K comparable, T any] interface {
	FetchAll(ctx context.Context) ([]T, error)
	FetchSorted(ctx context.Context, column string, dir Direction) ([]T, error)
	FetchSearch(ctx context.Context, query string) ([]T, error)
	Remove(ctx context.Context, id K) error
}

// Controller mediates between a list surface and a Source.
//
// Operations are safe for concurrent use. Requests run outside the lock and
// each one is tagged with a sequence number when issued; a response is applied
// only when no newer request has been issued since, so a slow response can
// never overwrite a fresher one. Operations never return errors: failures are
// reported through State.Status and State.ErrorMessage.
type Controller[K comparable, T any] struct {
	name   string
	source Source[K, T]
	keyOf  func(T) K

	mu       sync.Mutex
	state    State[K, T]
	seq      uint64
	removing bool
}

// New returns an idle controller. keyOf extracts the identifier used by the
// delete flow.
func New[K comparable, T any](name string, source Source[K, T], keyOf func(T) K) *Controller[K, T] {
	return &Controller[K, T]{
		name:   name,
		source: source,
		keyOf:  keyOf,
		state:  State[K, T]{Status: StatusIdle},
	}
}

// Name identifies the collection in logs.
func (c *Controller[K, T]) Name() string {
	return c.name
}

// Snapshot returns a copy of the current state.
func (c *Controller[K, T]) Snapshot() State[K, T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Load fetches the full collection and resets any sort or search framing.
// On failure the previous items stay visible.
func (c *Controller[K, T]) Load(ctx context.Context) State[K, T] {
	seq := c.begin(ctx, "load", nil)
	items, err := c.source.FetchAll(ctx)
	return c.finish(ctx, "load", seq, err, func(s *State[K, T]) {
		s.Items = items
		s.Sort = nil
		s.SearchQuery = ""
	})
}

// SortBy requests the collection ordered by column. Calling it again with the
// same column flips the direction; a different column starts ascending. The
// new sort is kept even when the request fails, so repeating the call retries
// the same direction. The active search query is left as is but is not sent.
//
// Callers must check column against the screen's sortable set.
func (c *Controller[K, T]) SortBy(ctx context.Context, column string) State[K, T] {
	var key SortKey
	seq := c.begin(ctx, "sort", func(s *State[K, T]) {
		key = next(s.Sort, column)
		s.Sort = &key
	})
	items, err := c.source.FetchSorted(ctx, key.Column, key.Direction)
	return c.finish(ctx, "sort", seq, err, func(s *State[K, T]) {
		s.Items = items
	})
}

// Search asks the server for records matching query, then narrows the answer
// again with Filter so that a server ignoring the query still yields correct
// rows.
func (c *Controller[K, T]) Search(ctx context.Context, query string) State[K, T] {
	seq := c.begin(ctx, "search", func(s *State[K, T]) {
		s.SearchQuery = query
	})
	items, err := c.source.FetchSearch(ctx, query)
	if err == nil {
		items = Filter(items, query)
	}
	return c.finish(ctx, "search", seq, err, func(s *State[K, T]) {
		s.Items = items
	})
}

// RequestDelete opens the confirmation for id. It reports false, and changes
// nothing, when id is not one of the current items.
func (c *Controller[K, T]) RequestDelete(id K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.state.Items {
		if c.keyOf(item) == id {
			c.state.PendingDeleteID = &id
			return true
		}
	}
	return false
}

// CancelDelete closes the confirmation.
func (c *Controller[K, T]) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.PendingDeleteID = nil
}

// ConfirmDelete removes the pending record and reloads the collection. With
// nothing pending, or while a removal is already running, it does nothing.
// The confirmation is closed whatever the outcome.
func (c *Controller[K, T]) ConfirmDelete(ctx context.Context) State[K, T] {
	c.mu.Lock()
	if c.state.PendingDeleteID == nil || c.removing {
		st := c.state.clone()
		c.mu.Unlock()
		return st
	}
	id := *c.state.PendingDeleteID
	c.removing = true
	c.seq++
	seq := c.seq
	c.state.Status = StatusLoading
	c.state.ErrorMessage = ""
	c.mu.Unlock()

	log := logger.FromContext(ctx)
	log.Debug("removing record", "collection", c.name, "id", id, "seq", seq)
	err := c.source.Remove(ctx, id)

	c.mu.Lock()
	c.removing = false
	if c.state.PendingDeleteID != nil && *c.state.PendingDeleteID == id {
		c.state.PendingDeleteID = nil
	}
	if err != nil {
		if seq == c.seq {
			c.state.Status = StatusFailed
			c.state.ErrorMessage = fmt.Sprintf("failed to delete %v: %s", id, describe(err))
		}
		st := c.state.clone()
		c.mu.Unlock()
		log.Warn("delete failed", "collection", c.name, "id", id, "error", err)
		return st
	}
	c.mu.Unlock()
	return c.Load(ctx)
}

func (c *Controller[K, T]) begin(ctx context.Context, op string, mutate func(*State[K, T])) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if mutate != nil {
		mutate(&c.state)
	}
	c.seq++
	c.state.Status = StatusLoading
	c.state.ErrorMessage = ""
	logger.FromContext(ctx).Debug("request issued", "collection", c.name, "op", op, "seq", c.seq)
	return c.seq
}

func (c *Controller[K, T]) finish(
	ctx context.Context,
	op string,
	seq uint64,
	err error,
	apply func(*State[K, T]),
) State[K, T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	log := logger.FromContext(ctx)
	if seq != c.seq {
		log.Debug("stale response dropped", "collection", c.name, "op", op, "seq", seq, "latest", c.seq)
		return c.state.clone()
	}
	if err != nil {
		c.state.Status = StatusFailed
		c.state.ErrorMessage = describe(err)
		log.Warn("request failed", "collection", c.name, "op", op, "error", err)
		return c.state.clone()
	}
	apply(&c.state)
	c.state.Status = StatusReady
	log.Debug("response applied", "collection", c.name, "op", op, "seq", seq, "items", len(c.state.Items))
	return c.state.clone()
}

func describe(err error) string {
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return "request failed"
}
