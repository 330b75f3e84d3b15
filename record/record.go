// Package record provides the external task record store: a page-oriented
// document API holding one record per task. The orchestrator treats it as
// the system of record; webhook notifications are only a side channel.
package record

import (
	"context"
	"errors"
	"time"
)

// Field names referenced by the pipeline.
const (
	FieldName        = "Name"
	FieldStatus      = "Status"
	FieldAgentStatus = "Agent Status"
	FieldResearch    = "Research Data"
	FieldContent     = "Content"
	FieldArchetype   = "Archetype Used"
	FieldError       = "Error"
	FieldCommand     = "Command Used"
	FieldMode        = "Execution Mode"
	FieldDescription = "Task Description"
)

// TextLimit is the store's ceiling for one text field. Longer values are
// truncated before writing.
const TextLimit = 2000

// ErrNotFound is returned when a record ID does not exist.
var ErrNotFound = errors.New("record: not found")

// Fields is a flat field-name to value mapping for one record.
type Fields map[string]string

// Record is one stored page.
type Record struct {
	ID        string
	Fields    Fields
	CreatedAt time.Time
}

// Filter selects records by simple equality on one named field.
// A zero Filter matches everything.
type Filter struct {
	Field  string
	Equals string
}

// Matches reports whether the record satisfies the filter.
func (f Filter) Matches(r Record) bool {
	if f.Field == "" {
		return true
	}
	return r.Fields[f.Field] == f.Equals
}

// truncate caps a field value at TextLimit runes before writing.
func truncate(v string) string {
	runes := []rune(v)
	if len(runes) <= TextLimit {
		return v
	}
	return string(runes[:TextLimit])
}

// Store is the record store collaborator. Implementations must be safe for
// concurrent use; task runs share one client and touch disjoint records.
type Store interface {
	// Create makes a new record titled title with the given initial fields
	// and returns its assigned ID.
	Create(ctx context.Context, title string, fields Fields) (string, error)

	// Update merges fields into an existing record.
	Update(ctx context.Context, id string, fields Fields) error

	// Query returns up to pageSize records matching the filter, newest first.
	Query(ctx context.Context, filter Filter, pageSize int) ([]Record, error)

	// Get retrieves one record, or ErrNotFound.
	Get(ctx context.Context, id string) (Record, error)
}
