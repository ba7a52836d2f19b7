package collection

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Direction is the order requested from the sort endpoint.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// String returns the wire form used by the `order` query parameter.
func (d Direction) String() string {
	if d == Descending {
		return "DESC"
	}
	return "ASC"
}

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

// ParseDirection accepts ASC/DESC in any case, plus the asc/desc long forms.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("invalid sort direction %q: must be ASC or DESC", s)
	}
}

// SortKey is the active server-side sort.
type SortKey struct {
	Column    string    `json:"column"`
	Direction Direction `json:"-"`
}

// MarshalJSON renders the direction in its wire form.
func (k SortKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Column string `json:"column"`
		Order  string `json:"order"`
	}{Column: k.Column, Order: k.Direction.String()})
}

// next applies the toggle rule: the same column flips, a new column starts ascending.
func next(current *SortKey, column string) SortKey {
	if current != nil && current.Column == column {
		return SortKey{Column: column, Direction: current.Direction.Flip()}
	}
	return SortKey{Column: column, Direction: Ascending}
}
