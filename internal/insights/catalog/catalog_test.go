package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsComplete(t *testing.T) {
	doc := Default()

	require.Len(t, doc.Cards, 5)
	assert.NotEmpty(t, doc.KPIHeader.Revenue.Value)
	assert.NotEmpty(t, doc.KPIHeader.Profit.Amount)
	assert.Equal(t, "Beverage Sales", doc.KPIHeader.Critical.Label)

	seen := make(map[int]bool)
	for _, card := range doc.Cards {
		assert.False(t, seen[card.ID], "duplicate card id %d", card.ID)
		seen[card.ID] = true

		assert.NotEmpty(t, card.Title)
		assert.NotEmpty(t, card.Description)
		assert.NotEmpty(t, card.Recommendation)
		require.NotEmpty(t, card.Actions, "card %d has no actions", card.ID)

		// Every shipped action key has published detail text, so the
		// rationale view never shows the generic template for the
		// default set.
		for _, a := range card.Actions {
			assert.Contains(t, actionDetails, a.Key)
		}
	}
}

func TestDefault_ReturnsIsolatedCopy(t *testing.T) {
	first := Default()
	first.Cards[0].Title = "mutated"
	first.Metadata["period"] = "mutated"
	first.Cards[0].Actions[0].Key = "mutated"

	second := Default()
	assert.Equal(t, "Beverage Sales Falling Short", second.Cards[0].Title)
	assert.Equal(t, "2024-P12", second.Metadata["period"])
	assert.Equal(t, "beverageAudit", second.Cards[0].Actions[0].Key)
}

func TestActionDetail(t *testing.T) {
	d := ActionDetail("beverageAudit")
	assert.Equal(t, "Beverage Station Audit", d.Title)
	assert.NotEmpty(t, d.Content)

	generic := ActionDetail("unknownKey")
	assert.Equal(t, "Remediation Steps", generic.Title)
	assert.NotEmpty(t, generic.Content)
}
