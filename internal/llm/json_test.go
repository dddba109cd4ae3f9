package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONSingleFencedBlock(t *testing.T) {
	text := "Analysis complete.\n```json\n{\"typography\": {\"font\": \"Inter\"}}\n```\nDone."

	got, err := ExtractJSON(text)
	require.NoError(t, err)
	assert.Contains(t, got, "typography")
}

func TestExtractJSONMergesMultipleBlocks(t *testing.T) {
	text := "```json\n{\"typography\": \"first\"}\n```\nand also\n```json\n{\"typography\": \"second\", \"imagery\": \"photos\"}\n```"

	got, err := ExtractJSON(text)
	require.NoError(t, err)
	assert.Equal(t, `"first"`, string(got["typography"]))
	assert.Equal(t, `"photos"`, string(got["imagery"]))
}

func TestExtractJSONBraceFallback(t *testing.T) {
	text := `The result is {"color-contrast": {"primary": "#0055FF"}} as requested.`

	got, err := ExtractJSON(text)
	require.NoError(t, err)
	assert.Contains(t, got, "color-contrast")
}

func TestExtractJSONSkipsInvalidBlocks(t *testing.T) {
	text := "```json\nnot json at all\n```\n```json\n{\"cards\": {}}\n```"

	got, err := ExtractJSON(text)
	require.NoError(t, err)
	assert.Contains(t, got, "cards")
}

func TestExtractJSONUnterminatedFence(t *testing.T) {
	text := "```json\n{\"navigation\": {\"sticky\": true}}"

	got, err := ExtractJSON(text)
	require.NoError(t, err)
	assert.Contains(t, got, "navigation")
}

func TestExtractJSONNoJSON(t *testing.T) {
	_, err := ExtractJSON("nothing structured here")
	assert.ErrorIs(t, err, ErrNoJSON)
}
