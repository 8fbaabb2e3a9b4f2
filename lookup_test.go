package leadform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFindValueByKey tests top-level and nested key resolution
func TestFindValueByKey(t *testing.T) {
	doc := map[string]any{
		"id": "rec-1",
		"data": map[string]any{
			"email":  "a@b.com",
			"nested": map[string]any{"status": "New"},
		},
	}

	v, ok := FindValueByKey(doc, "email")
	require.True(t, ok)
	assert.Equal(t, "a@b.com", v)

	v, ok = FindValueByKey(doc, "status")
	require.True(t, ok)
	assert.Equal(t, "New", v)

	_, ok = FindValueByKey(doc, "missing")
	assert.False(t, ok)
}

// TestFindValueByKeyTopLevelWins tests that a direct key beats nested
// matches
func TestFindValueByKeyTopLevelWins(t *testing.T) {
	doc := map[string]any{
		"status": "Top",
		"data":   map[string]any{"status": "Nested"},
	}

	v, ok := FindValueByKey(doc, "status")
	require.True(t, ok)
	assert.Equal(t, "Top", v)
}

// TestFindValueByKeySkipsArrays tests that slices are never descended
func TestFindValueByKeySkipsArrays(t *testing.T) {
	doc := map[string]any{
		"items": []any{map[string]any{"status": "Hidden"}},
	}

	_, ok := FindValueByKey(doc, "status")
	assert.False(t, ok)
}

// TestFindValueByKeyDepthBound tests the recursion depth cap
func TestFindValueByKeyDepthBound(t *testing.T) {
	leaf := map[string]any{"target": "found"}
	doc := any(leaf)
	for i := 0; i < DefaultLookupDepth; i++ {
		doc = map[string]any{"wrap": doc}
	}

	_, ok := FindValueByKey(doc, "target")
	assert.False(t, ok)

	// one level shallower resolves
	doc = any(leaf)
	for i := 0; i < DefaultLookupDepth-1; i++ {
		doc = map[string]any{"wrap": doc}
	}
	v, ok := FindValueByKey(doc, "target")
	require.True(t, ok)
	assert.Equal(t, "found", v)
}

// TestFindValueByKeyNonMap tests scalar inputs
func TestFindValueByKeyNonMap(t *testing.T) {
	_, ok := FindValueByKey("scalar", "key")
	assert.False(t, ok)
	_, ok = FindValueByKey(nil, "key")
	assert.False(t, ok)
}

// TestFindValueByKeyDeterministic tests that sibling subtrees resolve in
// key order
func TestFindValueByKeyDeterministic(t *testing.T) {
	doc := map[string]any{
		"alpha": map[string]any{"status": "A"},
		"beta":  map[string]any{"status": "B"},
	}

	for i := 0; i < 20; i++ {
		v, ok := FindValueByKey(doc, "status")
		require.True(t, ok)
		assert.Equal(t, "A", v)
	}
}

// TestCollectLeafKeys tests scalar key discovery through containers
func TestCollectLeafKeys(t *testing.T) {
	doc := map[string]any{
		"id":     "rec-1",
		"status": "New",
		"data": map[string]any{
			"email":      "a@b.com",
			"lead_score": 80.0,
			"tags":       []any{"a", "b"},
			"missing":    nil,
		},
	}

	set := make(map[string]struct{})
	CollectLeafKeys(doc, set)

	assert.Contains(t, set, "status")
	assert.Contains(t, set, "email")
	assert.Contains(t, set, "lead_score")
	assert.NotContains(t, set, "id")
	assert.NotContains(t, set, "data")
	assert.NotContains(t, set, "tags")
	assert.NotContains(t, set, "missing")
}

// TestSortedLeafKeys tests the merged, ordered column set across records
func TestSortedLeafKeys(t *testing.T) {
	records := []map[string]any{
		{"email": "a@b.com", "id": "1"},
		{"data": map[string]any{"status": "New"}},
		{"email": "c@d.com", "phone": "123"},
	}

	assert.Equal(t, []string{"email", "phone", "status"}, SortedLeafKeys(records))
	assert.Empty(t, SortedLeafKeys(nil))
}
