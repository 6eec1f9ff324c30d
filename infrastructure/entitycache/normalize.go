// Package entitycache flattens GraphQL responses into a normalized entity
// cache keyed by "Typename:id", the way client-side GraphQL caches do.
package entitycache

import (
	"fmt"
	"strconv"
	"strings"

	"schemaviz-backend/domain/schemagraph"
)

const generatedPrefix = "$"

// DataID returns the stable cache key of an object, "Typename:id". Objects
// without both fields have no stable key.
func DataID(obj map[string]any) (string, bool) {
	typename, ok := obj[schemagraph.TypenameField].(string)
	if !ok || typename == "" {
		return "", false
	}
	id, ok := obj["id"]
	if !ok || id == nil {
		return "", false
	}
	return typename + ":" + formatID(id), true
}

// Normalize flattens data, the result of an operation rooted at rootKey,
// into cache records. Nested objects are replaced by references; objects
// without a stable key get generated keys derived from their path.
func Normalize(rootKey string, data map[string]any) schemagraph.EntityCache {
	out := schemagraph.EntityCache{}
	writeObject(rootKey, data, out)
	return out
}

func writeObject(key string, obj map[string]any, out schemagraph.EntityCache) {
	record, ok := out[key]
	if !ok {
		record = schemagraph.EntityRecord{}
		out[key] = record
	}
	for field, value := range obj {
		record[field] = normalizeValue(generatedPath(key, field), value, out)
	}
}

func normalizeValue(path string, value any, out schemagraph.EntityCache) any {
	switch v := value.(type) {
	case map[string]any:
		if id, ok := DataID(v); ok {
			writeObject(id, v, out)
			return schemagraph.NewReference(id, false)
		}
		writeObject(path, v, out)
		return schemagraph.NewReference(path, true)
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = normalizeValue(path+"."+strconv.Itoa(i), item, out)
		}
		return items
	default:
		return v
	}
}

func generatedPath(parent, field string) string {
	if strings.HasPrefix(parent, generatedPrefix) {
		return parent + "." + field
	}
	return generatedPrefix + parent + "." + field
}

func formatID(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
