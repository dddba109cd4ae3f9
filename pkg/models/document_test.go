package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentSurvivesSerializationRoundTrip(t *testing.T) {
	original := &Document{
		URL:        "https://example.com",
		Incomplete: true,
		Categories: []Category{
			{ID: "typography", Label: "Typography"},
			{ID: "color-contrast", Label: "Color & Contrast"},
			{ID: "navigation", Label: "Navigation & Header"},
		},
		Results: []CategoryResult{
			{CategoryID: "typography", Status: StatusOK, Payload: json.RawMessage(`"Inter"`)},
			{CategoryID: "color-contrast", Status: StatusError, Diagnostic: "timeout"},
			{CategoryID: "navigation", Status: StatusUnavailable},
		},
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Document
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "https://example.com", decoded.URL)
	assert.True(t, decoded.Incomplete)
	require.Len(t, decoded.Categories, 3)
	assert.Equal(t, "typography", decoded.Categories[0].ID)
	assert.Equal(t, "Color & Contrast", decoded.Categories[1].Label)

	typ := decoded.Result("typography")
	require.NotNil(t, typ)
	assert.Equal(t, StatusOK, typ.Status)
	assert.Equal(t, json.RawMessage(`"Inter"`), typ.Payload)

	cc := decoded.Result("color-contrast")
	require.NotNil(t, cc)
	assert.Equal(t, StatusError, cc.Status)
	assert.Equal(t, "timeout", cc.Diagnostic)

	nav := decoded.Result("navigation")
	require.NotNil(t, nav)
	assert.Equal(t, StatusUnavailable, nav.Status)
}

func TestDocumentUnmarshalPreservesCategoryOrder(t *testing.T) {
	data := []byte(`{"categories":{"b":{"label":"B","status":"ok"},"a":{"label":"A","status":"ok"}}}`)

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Categories, 2)
	assert.Equal(t, "b", doc.Categories[0].ID)
	assert.Equal(t, "a", doc.Categories[1].ID)
}

func TestDocumentUnmarshalRejectsNonObject(t *testing.T) {
	var doc Document
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &doc))
}
