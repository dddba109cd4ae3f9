package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, id := range IDs() {
		assert.False(t, seen[id], "duplicate category ID %q", id)
		seen[id] = true
	}
}

func TestEveryCategoryBelongsToAKnownGroup(t *testing.T) {
	known := make(map[string]bool)
	for _, g := range GroupOrder {
		known[g] = true
	}
	for _, c := range Categories() {
		assert.True(t, known[c.Group], "category %q has unknown group %q", c.ID, c.Group)
	}
}

func TestGroupsPartitionTheCatalog(t *testing.T) {
	total := 0
	for _, g := range GroupOrder {
		total += len(ByGroup(g))
	}
	assert.Equal(t, len(Categories()), total)
}

func TestByID(t *testing.T) {
	c := ByID("typography")
	require.NotNil(t, c)
	assert.Equal(t, "Typography", c.Label)

	assert.Nil(t, ByID("no-such-category"))
}

func TestCategoriesReturnsACopy(t *testing.T) {
	first := Categories()
	first[0].Label = "mutated"
	assert.NotEqual(t, "mutated", Categories()[0].Label)
}

func TestSchemaJSONCoversEveryCategory(t *testing.T) {
	var template map[string]struct {
		Label       string `json:"label"`
		Instruction string `json:"instruction"`
	}
	require.NoError(t, json.Unmarshal([]byte(SchemaJSON()), &template))

	assert.Len(t, template, len(Categories()))
	for _, id := range IDs() {
		entry, ok := template[id]
		require.True(t, ok, "schema missing %q", id)
		assert.NotEmpty(t, entry.Instruction)
	}
}
