// Package presentation maps the symbolic fields of an insight card (type,
// priority, icon name) to concrete visual attributes. Every lookup is total:
// values outside the known sets resolve to an explicit neutral default, never
// to an error or an empty token.
package presentation

import "pnl-insights/internal/insights"

// ColorSet is the group of style tokens a card of a given type renders with.
type ColorSet struct {
	Border     string `json:"border"`
	Background string `json:"background"`
	Text       string `json:"text"`
	Badge      string `json:"badge"`
}

// DefaultIcon is rendered for any icon name outside the known set.
const DefaultIcon = "AlertCircle"

var typeColors = map[insights.CardType]ColorSet{
	insights.TypeCritical: {
		Border:     "border-red-500",
		Background: "bg-red-50",
		Text:       "text-red-700",
		Badge:      "bg-red-100 text-red-700",
	},
	insights.TypeAlert: {
		Border:     "border-orange-500",
		Background: "bg-orange-50",
		Text:       "text-orange-700",
		Badge:      "bg-orange-100 text-orange-700",
	},
	insights.TypeOpportunity: {
		Border:     "border-green-500",
		Background: "bg-green-50",
		Text:       "text-green-700",
		Badge:      "bg-green-100 text-green-700",
	},
	insights.TypeInsight: {
		Border:     "border-blue-500",
		Background: "bg-blue-50",
		Text:       "text-blue-700",
		Badge:      "bg-blue-100 text-blue-700",
	},
	insights.TypePerformance: {
		Border:     "border-purple-500",
		Background: "bg-purple-50",
		Text:       "text-purple-700",
		Badge:      "bg-purple-100 text-purple-700",
	},
}

var neutralColors = ColorSet{
	Border:     "border-gray-300",
	Background: "bg-gray-50",
	Text:       "text-gray-700",
	Badge:      "bg-gray-100 text-gray-700",
}

var priorityBadges = map[insights.Priority]string{
	insights.PriorityUrgent: "bg-red-600 text-white",
	insights.PriorityHigh:   "bg-orange-500 text-white",
	insights.PriorityMedium: "bg-yellow-400 text-gray-900",
	insights.PriorityLow:    "bg-gray-200 text-gray-700",
}

const neutralPriorityBadge = "bg-gray-100 text-gray-600"

var knownIcons = map[string]struct{}{
	"TrendingDown": {},
	"TrendingUp":   {},
	"DollarSign":   {},
	"BarChart3":    {},
	"Target":       {},
	"AlertCircle":  {},
}

// ColorForType returns the style tokens for a card type, or the neutral set
// for values outside the closed enumeration.
func ColorForType(t insights.CardType) ColorSet {
	if cs, ok := typeColors[t]; ok {
		return cs
	}
	return neutralColors
}

// ColorForPriority returns the badge token for a priority, or the neutral
// badge for values outside the closed enumeration.
func ColorForPriority(p insights.Priority) string {
	if b, ok := priorityBadges[p]; ok {
		return b
	}
	return neutralPriorityBadge
}

// IconFor resolves a symbolic icon name to a renderable icon. Unknown names
// resolve to DefaultIcon.
func IconFor(name string) string {
	if _, ok := knownIcons[name]; ok {
		return name
	}
	return DefaultIcon
}

// CompletionStore is the slice of the action registry the mapper needs.
type CompletionStore interface {
	IsCompleted(cardID int, actionKey string) bool
}

// StatusLabelFor derives the label an action renders with: the action's own
// label while pending, "Completed" once the registry records the pair as
// completed. Registry state is the only input.
func StatusLabelFor(store CompletionStore, cardID int, action insights.Action) string {
	if store.IsCompleted(cardID, action.Key) {
		return "Completed"
	}
	return action.Label
}
