package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	t.Run("plain object", func(t *testing.T) {
		out, err := ExtractJSONObject(`{"a": 1}`)
		require.NoError(t, err)
		assert.Equal(t, `{"a": 1}`, out)
	})

	t.Run("fenced object", func(t *testing.T) {
		out, err := ExtractJSONObject("```json\n{\"a\": 1}\n```")
		require.NoError(t, err)
		assert.Equal(t, `{"a": 1}`, out)
	})

	t.Run("surrounding prose", func(t *testing.T) {
		out, err := ExtractJSONObject(`Here is the result: {"a": {"b": 2}} hope it helps`)
		require.NoError(t, err)
		assert.Equal(t, `{"a": {"b": 2}}`, out)
	})

	t.Run("braces inside strings", func(t *testing.T) {
		out, err := ExtractJSONObject(`{"text": "closing } brace and \" quote"}`)
		require.NoError(t, err)
		assert.Equal(t, `{"text": "closing } brace and \" quote"}`, out)
	})

	t.Run("no object", func(t *testing.T) {
		_, err := ExtractJSONObject("the model refused to answer")
		assert.ErrorIs(t, err, ErrUnparseable)
	})

	t.Run("unbalanced braces", func(t *testing.T) {
		_, err := ExtractJSONObject(`{"a": {"b": 2}`)
		assert.ErrorIs(t, err, ErrUnparseable)
	})
}
