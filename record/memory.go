package record

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is a thread-safe in-memory Store, used in tests and local runs.
type Memory struct {
	mu   sync.RWMutex
	data map[string]Record
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]Record)}
}

// Create makes a new record and returns its generated ID.
func (m *Memory) Create(_ context.Context, title string, fields Fields) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	merged := Fields{FieldName: title}
	for k, v := range fields {
		merged[k] = truncate(v)
	}
	m.data[id] = Record{ID: id, Fields: merged, CreatedAt: time.Now()}
	return id, nil
}

// Update merges fields into an existing record.
func (m *Memory) Update(_ context.Context, id string, fields Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.data[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		rec.Fields[k] = truncate(v)
	}
	m.data[id] = rec
	return nil
}

// Query returns matching records, newest first.
func (m *Memory) Query(_ context.Context, filter Filter, pageSize int) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Record
	for _, rec := range m.data {
		if filter.Matches(rec) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if pageSize > 0 && len(out) > pageSize {
		out = out[:pageSize]
	}
	return out, nil
}

// Get retrieves one record.
func (m *Memory) Get(_ context.Context, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.data[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

var _ Store = (*Memory)(nil)
