package entitycache

import (
	"sync"

	"schemaviz-backend/domain/schemagraph"
)

// Store is an in-memory normalized cache shared by every query.
type Store struct {
	mu      sync.RWMutex
	records schemagraph.EntityCache
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{records: schemagraph.EntityCache{}}
}

// Write normalizes data under rootKey and merges the result field by field
// into the existing records.
func (s *Store) Write(rootKey string, data map[string]any) {
	normalized := Normalize(rootKey, data)

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, record := range normalized {
		existing, ok := s.records[key]
		if !ok {
			s.records[key] = record
			continue
		}
		for field, value := range record {
			existing[field] = value
		}
	}
}

// Extract returns a deep copy snapshot of the store
func (s *Store) Extract() schemagraph.EntityCache {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(schemagraph.EntityCache, len(s.records))
	for key, record := range s.records {
		copied := make(schemagraph.EntityRecord, len(record))
		for field, value := range record {
			copied[field] = copyValue(value)
		}
		snapshot[key] = copied
	}
	return snapshot
}

// Reset drops every record
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = schemagraph.EntityCache{}
}

// Len returns the number of records
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

func copyValue(value any) any {
	switch v := value.(type) {
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = copyValue(item)
		}
		return items
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, item := range v {
			m[k] = copyValue(item)
		}
		return m
	default:
		return v
	}
}
