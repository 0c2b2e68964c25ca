package presentation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pnl-insights/internal/insights"
)

func TestColorForType(t *testing.T) {
	tests := []struct {
		name       string
		cardType   insights.CardType
		wantBorder string
	}{
		{"critical", insights.TypeCritical, "border-red-500"},
		{"alert", insights.TypeAlert, "border-orange-500"},
		{"opportunity", insights.TypeOpportunity, "border-green-500"},
		{"insight", insights.TypeInsight, "border-blue-500"},
		{"performance", insights.TypePerformance, "border-purple-500"},
		{"unknown falls back to neutral", insights.CardType("emergency"), "border-gray-300"},
		{"empty falls back to neutral", insights.CardType(""), "border-gray-300"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := ColorForType(tt.cardType)
			assert.Equal(t, tt.wantBorder, cs.Border)
			assert.NotEmpty(t, cs.Background)
			assert.NotEmpty(t, cs.Text)
			assert.NotEmpty(t, cs.Badge)
		})
	}
}

func TestColorForPriority(t *testing.T) {
	assert.Equal(t, "bg-red-600 text-white", ColorForPriority(insights.PriorityUrgent))
	assert.Equal(t, "bg-orange-500 text-white", ColorForPriority(insights.PriorityHigh))
	assert.Equal(t, "bg-yellow-400 text-gray-900", ColorForPriority(insights.PriorityMedium))
	assert.Equal(t, "bg-gray-200 text-gray-700", ColorForPriority(insights.PriorityLow))
	assert.Equal(t, "bg-gray-100 text-gray-600", ColorForPriority(insights.Priority("whenever")))
}

func TestIconFor(t *testing.T) {
	assert.Equal(t, "TrendingDown", IconFor("TrendingDown"))
	assert.Equal(t, "Target", IconFor("Target"))
	assert.Equal(t, DefaultIcon, IconFor("Sparkles"))
	assert.Equal(t, DefaultIcon, IconFor(""))
	// Lookup is case-sensitive; a near-miss is still unknown.
	assert.Equal(t, DefaultIcon, IconFor("trendingdown"))
}

type stubStore map[string]bool

func (s stubStore) IsCompleted(cardID int, actionKey string) bool {
	return s[actionKey]
}

func TestStatusLabelFor(t *testing.T) {
	store := stubStore{"beverageAudit": true}
	audit := insights.Action{Label: "Beverage Audit", Type: "primary", Key: "beverageAudit"}
	training := insights.Action{Label: "Staff Training", Type: "secondary", Key: "staffTraining"}

	assert.Equal(t, "Completed", StatusLabelFor(store, 1, audit))
	assert.Equal(t, "Staff Training", StatusLabelFor(store, 1, training))
}
