package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare_IdenticalJSON(t *testing.T) {
	c := NewJSONComparator()

	diff, err := c.Compare([]byte(`{"a":1,"b":"x"}`), []byte(`{"a":1,"b":"x"}`))
	require.NoError(t, err)

	assert.True(t, diff.Empty())
}

func TestCompare_KeyOrderIrrelevant(t *testing.T) {
	c := NewJSONComparator()

	diff, err := c.Compare([]byte(`{"a":1,"b":2}`), []byte(`{"b":2,"a":1}`))
	require.NoError(t, err)

	assert.True(t, diff.Empty())
}

func TestCompare_ValueMismatchAtPath(t *testing.T) {
	c := NewJSONComparator()

	diff, err := c.Compare([]byte(`{"a":1}`), []byte(`{"a":2}`))
	require.NoError(t, err)

	require.False(t, diff.Empty())
	mismatch, ok := diff["a"]
	require.True(t, ok, "diff must contain path %q, got %v", "a", diff.SortedPaths())
	assert.Equal(t, "values differ", mismatch.Message)
}

func TestCompare_NestedPath(t *testing.T) {
	c := NewJSONComparator()

	diff, err := c.Compare(
		[]byte(`{"order":{"items":[{"sku":"A-1"},{"sku":"A-2"}]}}`),
		[]byte(`{"order":{"items":[{"sku":"A-1"},{"sku":"B-9"}]}}`),
	)
	require.NoError(t, err)

	require.False(t, diff.Empty())
	_, ok := diff["order.items[1].sku"]
	assert.True(t, ok, "got paths %v", diff.SortedPaths())
}

func TestCompare_MissingAndUnexpectedFields(t *testing.T) {
	c := NewJSONComparator()

	diff, err := c.Compare([]byte(`{"a":1,"b":2}`), []byte(`{"a":1,"c":3}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "c"}, diff.SortedPaths())
}

func TestCompare_ArrayLengthMismatch(t *testing.T) {
	c := NewJSONComparator()

	diff, err := c.Compare([]byte(`{"items":[1,2,3]}`), []byte(`{"items":[1,2]}`))
	require.NoError(t, err)

	mismatch, ok := diff["items"]
	require.True(t, ok)
	assert.Equal(t, "expected 3 elements, got 2", mismatch.Message)
}

func TestCompare_TypeMismatch(t *testing.T) {
	c := NewJSONComparator()

	diff, err := c.Compare([]byte(`{"a":{"b":1}}`), []byte(`{"a":[1]}`))
	require.NoError(t, err)

	mismatch, ok := diff["a"]
	require.True(t, ok)
	assert.Equal(t, "expected an object, got an array", mismatch.Message)
}

func TestCompare_NonJSONFallsBackToBytes(t *testing.T) {
	c := NewJSONComparator()

	diff, err := c.Compare([]byte("plain text"), []byte("plain text"))
	require.NoError(t, err)
	assert.True(t, diff.Empty())

	diff, err = c.Compare([]byte("plain text"), []byte("other text"))
	require.NoError(t, err)
	mismatch, ok := diff["$"]
	require.True(t, ok)
	assert.Equal(t, "payloads differ", mismatch.Message)
}

func TestCompare_Idempotent(t *testing.T) {
	c := NewJSONComparator()
	expected := []byte(`{"a":1}`)
	actual := []byte(`{"a":2}`)

	first, err := c.Compare(expected, actual)
	require.NoError(t, err)
	second, err := c.Compare(expected, actual)
	require.NoError(t, err)

	assert.Equal(t, first, second, "comparison must be deterministic")

	// And the matched case stays matched.
	matched, err := c.Compare(expected, expected)
	require.NoError(t, err)
	matchedAgain, err := c.Compare(expected, expected)
	require.NoError(t, err)
	assert.True(t, matched.Empty())
	assert.True(t, matchedAgain.Empty())
}

func TestCompareMetadata_AllKeysMatch(t *testing.T) {
	c := NewJSONComparator()

	result, err := c.CompareMetadata(
		map[string]any{"content-type": "application/json", "retries": 3},
		map[string]any{"content-type": "application/json", "retries": 3},
	)
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.Nil(t, result["content-type"], "matched key must map to nil diff")
	assert.Nil(t, result["retries"])
}

func TestCompareMetadata_MissingKey(t *testing.T) {
	c := NewJSONComparator()

	result, err := c.CompareMetadata(
		map[string]any{"content-type": "text/plain"},
		map[string]any{},
	)
	require.NoError(t, err)

	require.Contains(t, result, "content-type")
	require.NotNil(t, result["content-type"])
	assert.Equal(t, `metadata key "content-type" is missing`, result["content-type"]["content-type"].Message)
}

func TestCompareMetadata_ValueMismatch(t *testing.T) {
	c := NewJSONComparator()

	result, err := c.CompareMetadata(
		map[string]any{"content-type": "application/json"},
		map[string]any{"content-type": "text/plain"},
	)
	require.NoError(t, err)

	require.NotNil(t, result["content-type"])
	assert.False(t, result["content-type"].Empty())
}

func TestCompareMetadata_ExtraActualKeysIgnored(t *testing.T) {
	c := NewJSONComparator()

	result, err := c.CompareMetadata(
		map[string]any{"content-type": "application/json"},
		map[string]any{"content-type": "application/json", "trace-id": "abc"},
	)
	require.NoError(t, err)

	require.Len(t, result, 1, "only expected keys are evaluated")
	assert.Nil(t, result["content-type"])
}

func TestDiff_SortedPaths(t *testing.T) {
	d := Diff{
		"b": Mismatch{},
		"a": Mismatch{},
		"c": Mismatch{},
	}

	assert.Equal(t, []string{"a", "b", "c"}, d.SortedPaths())
}
