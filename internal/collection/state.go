package collection

import "slices"

// Status is the lifecycle of the most recent request.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// State is a point-in-time view of a controller.
type State[K comparable, T any] struct {
	Items           []T      `json:"data"`
	Status          Status   `json:"status"`
	ErrorMessage    string   `json:"error,omitempty"`
	Sort            *SortKey `json:"sort,omitempty"`
	SearchQuery     string   `json:"search,omitempty"`
	PendingDeleteID *K       `json:"pending_delete_id,omitempty"`
}

// Failed reports whether the last applied request failed.
func (s State[K, T]) Failed() bool {
	return s.Status == StatusFailed
}

// clone returns a copy that shares nothing mutable with s.
func (s State[K, T]) clone() State[K, T] {
	out := s
	out.Items = slices.Clone(s.Items)
	if s.Sort != nil {
		sk := *s.Sort
		out.Sort = &sk
	}
	if s.PendingDeleteID != nil {
		id := *s.PendingDeleteID
		out.PendingDeleteID = &id
	}
	return out
}
