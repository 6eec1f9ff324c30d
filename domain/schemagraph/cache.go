package schemagraph

import (
	"sort"
	"strings"
)

const (
	// RootQueryKey is the cache key of the record holding root query fields.
	RootQueryKey = "ROOT_QUERY"

	// RootMutationKey is the cache key of the record holding root mutation fields.
	RootMutationKey = "ROOT_MUTATION"

	// TypenameField carries the GraphQL type name of a cached record.
	TypenameField = "__typename"

	// SchemaField is the root query field the introspection result is stored under.
	SchemaField = "__schema"
)

// EntityRecord is one normalized object: field name to scalar, Reference, or
// a slice of those.
type EntityRecord map[string]any

// Typename reports the record's __typename, if it has a string one.
func (r EntityRecord) Typename() (string, bool) {
	v, ok := r[TypenameField]
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}

// Reference points from one record's field at another cache key.
type Reference struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	Generated bool   `json:"generated"`
}

// NewReference builds a Reference to the given key.
func NewReference(id string, generated bool) Reference {
	return Reference{Type: "id", ID: id, Generated: generated}
}

// EntityCache is a flat snapshot of a normalized client cache.
type EntityCache map[string]EntityRecord

// Keys returns the cache keys in ascending order.
func (c EntityCache) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CacheFilter hides introspection bookkeeping from the entity grouping.
// Records whose key lives under `$ROOT_QUERY.<field>` are dropped and the
// field itself is removed from a copy of the ROOT_QUERY record.
type CacheFilter struct {
	ExcludedRootFields []string
}

// DefaultCacheFilter hides the stored introspection result.
func DefaultCacheFilter() CacheFilter {
	return CacheFilter{ExcludedRootFields: []string{SchemaField}}
}

// Apply returns a filtered view of cache. The input is left untouched; the
// ROOT_QUERY record is copied before any field is removed from it.
func (f CacheFilter) Apply(cache EntityCache) EntityCache {
	out := make(EntityCache, len(cache))
	for key, record := range cache {
		if f.excludesKey(key) {
			continue
		}
		out[key] = record
	}

	if root, ok := out[RootQueryKey]; ok && root != nil {
		trimmed := make(EntityRecord, len(root))
		for field, value := range root {
			trimmed[field] = value
		}
		for _, field := range f.ExcludedRootFields {
			delete(trimmed, field)
		}
		out[RootQueryKey] = trimmed
	}

	return out
}

func (f CacheFilter) excludesKey(key string) bool {
	for _, field := range f.ExcludedRootFields {
		if strings.Contains(key, "$"+RootQueryKey+"."+field) {
			return true
		}
	}
	return false
}
