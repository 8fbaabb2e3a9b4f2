package leadform

import (
	"sort"
)

// DefaultLookupDepth bounds the recursive value walk. Input documents are
// externally supplied JSON; the cap guards against pathological nesting.
const DefaultLookupDepth = 8

// containerKeys are the wrapper keys leaf-key discovery descends through.
// Records coming back from the gateway nest their payload under these.
var containerKeys = map[string]struct{}{
	"metadata": {},
	"data":     {},
	"payload":  {},
	"location": {},
}

// ignoredLeafKeys never surface as discovered columns.
var ignoredLeafKeys = map[string]struct{}{
	"id": {},
}

// FindValueByKey walks a decoded JSON value looking for targetKey and
// returns the first match in depth-first order. The walk is an explicit
// switch over map/slice/scalar and is depth-bounded; slices are not
// descended into, matching how record payloads nest values under parent
// objects.
func FindValueByKey(obj any, targetKey string) (any, bool) {
	return findValueByKey(obj, targetKey, DefaultLookupDepth)
}

func findValueByKey(obj any, targetKey string, depth int) (any, bool) {
	if depth <= 0 {
		return nil, false
	}
	m, ok := obj.(map[string]any)
	if !ok {
		return nil, false
	}
	if v, exists := m[targetKey]; exists {
		return v, true
	}

	// Deterministic order so repeated lookups over the same document
	// always resolve the same nested match.
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch child := m[k].(type) {
		case map[string]any:
			if v, found := findValueByKey(child, targetKey, depth-1); found {
				return v, true
			}
		default:
			// scalars and arrays are not containers for this walk
		}
	}
	return nil, false
}

// CollectLeafKeys gathers the scalar-valued keys of a record, descending
// only through the known container keys. Container keys themselves never
// surface; "id" is skipped because views render it separately.
func CollectLeafKeys(obj any, into map[string]struct{}) {
	collectLeafKeys(obj, into, DefaultLookupDepth)
}

func collectLeafKeys(obj any, into map[string]struct{}, depth int) {
	if depth <= 0 {
		return
	}
	m, ok := obj.(map[string]any)
	if !ok {
		return
	}
	for k, v := range m {
		if _, container := containerKeys[k]; container {
			collectLeafKeys(v, into, depth-1)
			continue
		}
		if _, skip := ignoredLeafKeys[k]; skip {
			continue
		}
		switch child := v.(type) {
		case map[string]any:
			collectLeafKeys(child, into, depth-1)
		case nil:
			// null values contribute no column
		case []any:
			// arrays are not flattened into columns
		default:
			into[k] = struct{}{}
		}
	}
}

// SortedLeafKeys returns the discovered leaf keys of a set of records in
// sorted order.
func SortedLeafKeys(records []map[string]any) []string {
	set := make(map[string]struct{})
	for _, rec := range records {
		CollectLeafKeys(rec, set)
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
