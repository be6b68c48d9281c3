package record

import (
	"context"
	"sync"
)

// MemoryStore keeps collections in-process. It backs tests and local
// development and mirrors GormStore semantics exactly, including
// timestamp stamping and copy-on-read/write isolation.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Record
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]Record)}
}

func (m *MemoryStore) collection(name string) map[string]Record {
	c, ok := m.collections[name]
	if !ok {
		c = make(map[string]Record)
		m.collections[name] = c
	}
	return c
}

// Get returns the record at key, or ErrNotFound.
func (m *MemoryStore) Get(_ context.Context, collection, key string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.collections[collection][key]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.Clone(), nil
}

// Put writes the record, conditionally when failIfExists is set.
func (m *MemoryStore) Put(_ context.Context, collection, key string, rec Record, failIfExists bool) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.collection(collection)
	existing, exists := c[key]
	if failIfExists && exists {
		return nil, ErrAlreadyExists
	}
	stored := rec.Clone()
	now := FormatTime(timeNow())
	// createdAt is set once and survives upsert overwrites.
	if exists && existing.String(FieldCreatedAt) != "" {
		stored[FieldCreatedAt] = existing.String(FieldCreatedAt)
	} else if stored.String(FieldCreatedAt) == "" {
		stored[FieldCreatedAt] = now
	}
	stored[FieldUpdatedAt] = now
	c[key] = stored
	return stored.Clone(), nil
}

// Update applies a partial update and returns the full updated record.
func (m *MemoryStore) Update(_ context.Context, collection, key string, upd *Update) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.collections[collection][key]
	if !ok {
		return nil, ErrNotFound
	}
	updated := rec.Clone()
	for _, fv := range upd.Fields() {
		updated[fv.Name] = cloneValue(fv.Value)
	}
	updated[FieldUpdatedAt] = FormatTime(timeNow())
	m.collections[collection][key] = updated
	return updated.Clone(), nil
}

// Increment atomically adds delta to a numeric field.
func (m *MemoryStore) Increment(_ context.Context, collection, key, field string, delta int64) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.collections[collection][key]
	if !ok {
		return nil, ErrNotFound
	}
	updated := rec.Clone()
	updated[field] = updated.Int(field) + delta
	updated[FieldUpdatedAt] = FormatTime(timeNow())
	m.collections[collection][key] = updated
	return updated.Clone(), nil
}

// Delete removes the record; absent keys are a no-op.
func (m *MemoryStore) Delete(_ context.Context, collection, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections[collection], key)
	return nil
}

// ScanAll returns every record in the collection, unordered.
func (m *MemoryStore) ScanAll(_ context.Context, collection string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := m.collections[collection]
	out := make([]Record, 0, len(c))
	for _, rec := range c {
		out = append(out, rec.Clone())
	}
	return out, nil
}

// QueryByIndex returns records whose index field equals indexKey,
// descending by createdAt.
func (m *MemoryStore) QueryByIndex(_ context.Context, collection, indexKey string) ([]Record, error) {
	field := IndexField(collection)
	m.mu.RLock()
	out := make([]Record, 0)
	for _, rec := range m.collections[collection] {
		if field != "" && rec.String(field) == indexKey {
			out = append(out, rec.Clone())
		}
	}
	m.mu.RUnlock()
	sortRecords(out, FieldCreatedAt, true)
	return out, nil
}
