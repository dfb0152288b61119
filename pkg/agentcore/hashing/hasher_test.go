package hashing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_InsensitiveToKeyOrder(t *testing.T) {
	a := map[string]any{"span_id": "s1", "provider": "openai", "model": "gpt-4"}
	b := map[string]any{"model": "gpt-4", "span_id": "s1", "provider": "openai"}

	ha, err := Hash(a, DefaultOptions())
	require.NoError(t, err)
	hb, err := Hash(b, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, ha, hb)
	assert.Len(t, ha, 64)
}

func TestHash_DifferentValuesDiffer(t *testing.T) {
	a := map[string]any{"span_id": "s1"}
	b := map[string]any{"span_id": "other"}

	ha, err := Hash(a, DefaultOptions())
	require.NoError(t, err)
	hb, err := Hash(b, DefaultOptions())
	require.NoError(t, err)

	assert.NotEqual(t, ha, hb)
}

func TestHash_PreservesArrayOrder(t *testing.T) {
	a := map[string]any{"tags": []any{"a", "b"}}
	b := map[string]any{"tags": []any{"b", "a"}}

	ha, err := Hash(a, DefaultOptions())
	require.NoError(t, err)
	hb, err := Hash(b, DefaultOptions())
	require.NoError(t, err)

	assert.NotEqual(t, ha, hb)
}

func TestHash_ExcludesConfiguredFields(t *testing.T) {
	a := map[string]any{"span_id": "s1", "metadata": map[string]any{"user_id": "u1"}}
	b := map[string]any{"span_id": "s1", "metadata": map[string]any{"user_id": "u2"}}

	ha, err := Hash(a, DefaultOptions())
	require.NoError(t, err)
	hb, err := Hash(b, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, ha, hb)
}

func TestHashMany_OrderSignificant(t *testing.T) {
	items := []any{map[string]any{"a": 1}, map[string]any{"b": 2}}
	reversed := []any{items[1], items[0]}

	h1, err := HashMany(items, DefaultOptions())
	require.NoError(t, err)
	h2, err := HashMany(reversed, DefaultOptions())
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestHash_Unmarshalable(t *testing.T) {
	_, err := Hash(make(chan int), DefaultOptions())
	require.Error(t, err)
	var hf *HashingFailed
	assert.ErrorAs(t, err, &hf)
}
