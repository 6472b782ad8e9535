package models

import (
	"errors"
	"fmt"
)

// StatusField is the one field the service itself reads or writes on a row.
const StatusField = "status"

var ErrNotObject = errors.New("row is not a JSON object")

// Record is a single project row. Rows have no fixed schema: anything the
// client posted is stored as-is, which is normally a map[string]any.
type Record = any

// Collection is every stored row, in insertion order. A row's position is its id.
type Collection []Record

// InRange reports whether index addresses an existing row.
func (c Collection) InRange(index int) bool {
	return index >= 0 && index < len(c)
}

// SetStatus sets (or creates) the status field of the row at index and
// returns the updated row.
func (c Collection) SetStatus(index int, status any) (Record, error) {
	if !c.InRange(index) {
		return nil, fmt.Errorf("row %d of %d: out of range", index, len(c))
	}
	row, ok := c[index].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("row %d: %w", index, ErrNotObject)
	}
	row[StatusField] = status
	return row, nil
}
