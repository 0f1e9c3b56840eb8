package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	t.Run("whole string", func(t *testing.T) {
		got, err := ExtractJSON(`  {"a": 1, "b": "x"}  `)
		require.NoError(t, err)
		require.Equal(t, map[string]any{"a": float64(1), "b": "x"}, got)
	})

	t.Run("fenced block", func(t *testing.T) {
		text := "Here is the result:\n```json\n{\"total\": 12}\n```\nthanks"
		got, err := ExtractJSON(text)
		require.NoError(t, err)
		require.Equal(t, map[string]any{"total": float64(12)}, got)
	})

	t.Run("fenced block without language tag", func(t *testing.T) {
		text := "```\n{\"k\": true}\n```"
		got, err := ExtractJSON(text)
		require.NoError(t, err)
		require.Equal(t, map[string]any{"k": true}, got)
	})

	t.Run("embedded object", func(t *testing.T) {
		text := `The invoice came back as {"total": 12, "currency": "EUR"} according to the parser.`
		got, err := ExtractJSON(text)
		require.NoError(t, err)
		require.Equal(t, "EUR", got["currency"])
	})

	t.Run("nested braces", func(t *testing.T) {
		text := `prefix {"outer": {"inner": 1}} suffix`
		got, err := ExtractJSON(text)
		require.NoError(t, err)
		require.Equal(t, map[string]any{"inner": float64(1)}, got["outer"])
	})

	t.Run("braces inside strings", func(t *testing.T) {
		text := `x {"note": "a } inside", "n": 2} y`
		got, err := ExtractJSON(text)
		require.NoError(t, err)
		require.Equal(t, float64(2), got["n"])
	})

	t.Run("skips unparseable candidate", func(t *testing.T) {
		text := `{not json} but later {"ok": 1}`
		got, err := ExtractJSON(text)
		require.NoError(t, err)
		require.Equal(t, float64(1), got["ok"])
	})

	t.Run("no JSON", func(t *testing.T) {
		_, err := ExtractJSON("plain text without objects")
		require.ErrorIs(t, err, ErrNoJSON)
	})

	t.Run("unbalanced", func(t *testing.T) {
		_, err := ExtractJSON(`{"open": 1`)
		require.ErrorIs(t, err, ErrNoJSON)
	})
}
