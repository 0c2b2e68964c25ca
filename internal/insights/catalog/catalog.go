// Package catalog holds the embedded default insight set used whenever the
// external configuration document is unavailable or malformed, plus the
// remediation detail text keyed by action key. The default document satisfies
// every structural invariant the board relies on, so the dashboard is always
// renderable.
package catalog

import "pnl-insights/internal/insights"

// Detail is the remediation detail shown when an action's rationale is
// expanded.
type Detail struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

var defaultDocument = insights.Document{
	Metadata: map[string]interface{}{
		"store_number":   "1619",
		"period":         "2024-P12",
		"total_insights": 5,
		"methodology":    "Embedded default catalog",
	},
	KPIHeader: insights.KPIHeader{
		Revenue:  insights.KPIEntry{Value: "-6.1%", Amount: "$320,433"},
		Profit:   insights.KPIEntry{Value: "-6.6%", Amount: "$539,814"},
		Critical: insights.KPIEntry{Value: "-18.6%", Amount: "$15,826", Label: "Beverage Sales"},
	},
	Cards: []insights.Card{
		{
			ID:             1,
			Type:           insights.TypeCritical,
			Priority:       insights.PriorityUrgent,
			Icon:           "TrendingDown",
			Title:          "Beverage Sales Falling Short",
			Description:    "Beverage revenue is 18.6% below plan, the largest gap in the P&L. Fountain and specialty drink attach rates have dropped across all dayparts.",
			Metric:         "-18.6%",
			MetricLabel:    "vs Plan",
			ActualValue:    "$15,826",
			PlannedValue:   "$19,442",
			Variance:       "-$3,616",
			Recommendation: "Run a beverage station audit and coach cashiers on suggestive selling during peak lunch hours.",
			Actions: []insights.Action{
				{Label: "Beverage Audit", Type: "primary", Key: "beverageAudit"},
				{Label: "Staff Training", Type: "secondary", Key: "staffTraining"},
			},
			Impact:     "Critical - largest revenue gap",
			Timeframe:  "Immediate (Week 1)",
			DataSource: "Beverage Sales",
		},
		{
			ID:             2,
			Type:           insights.TypeAlert,
			Priority:       insights.PriorityHigh,
			Icon:           "AlertCircle",
			Title:          "Labor Costs Over Budget",
			Description:    "Weekly labor is running 2.3% above budget. Overlapping mid-shift coverage during low-traffic afternoons is the main driver.",
			Metric:         "+2.3%",
			MetricLabel:    "Over Budget",
			ActualValue:    "$89,240",
			PlannedValue:   "$87,230",
			Variance:       "+$2,010",
			Recommendation: "Review shift schedules and release staff early during the 2-4 PM lull.",
			Actions: []insights.Action{
				{Label: "Schedule Review", Type: "primary", Key: "scheduleReview"},
				{Label: "Labor Forecast", Type: "secondary", Key: "laborForecast"},
			},
			Impact:     "High - recurring weekly overrun",
			Timeframe:  "This week",
			DataSource: "Labor",
		},
		{
			ID:             3,
			Type:           insights.TypeOpportunity,
			Priority:       insights.PriorityMedium,
			Icon:           "DollarSign",
			Title:          "Food Waste Savings Available",
			Description:    "Entrée waste is trending 12.4% better than last period after smaller batch sizes were piloted. Extending the pilot to all dayparts would lock in the savings.",
			Metric:         "-12.4%",
			MetricLabel:    "Waste vs Last Period",
			ActualValue:    "$4,190",
			PlannedValue:   "$4,783",
			Variance:       "-$593",
			Recommendation: "Extend reduced batch cooking to dinner service and track waste weigh-ins daily.",
			Actions: []insights.Action{
				{Label: "Waste Audit", Type: "primary", Key: "wasteAudit"},
				{Label: "Batch Planning", Type: "secondary", Key: "batchPlanning"},
			},
			Impact:     "Medium - ~$600/period cost saving",
			Timeframe:  "30-90 days",
			DataSource: "Cost of Goods",
		},
		{
			ID:             4,
			Type:           insights.TypeInsight,
			Priority:       insights.PriorityMedium,
			Icon:           "Target",
			Title:          "Promotion Lagging Plan",
			Description:    "The seasonal entrée promotion is converting 9.8% below plan. Attachment is strongest at dinner; lunch displays are not being set consistently.",
			Metric:         "-9.8%",
			MetricLabel:    "vs Promo Plan",
			ActualValue:    "$11,204",
			PlannedValue:   "$12,421",
			Variance:       "-$1,217",
			Recommendation: "Verify lunch merchandising daily and re-brief the front line on the promotion script.",
			Actions: []insights.Action{
				{Label: "Promo Analysis", Type: "primary", Key: "promoAnalysis"},
				{Label: "Menu Mix Review", Type: "secondary", Key: "menuMixReview"},
			},
			Impact:     "Medium - promotion ROI at risk",
			Timeframe:  "This week",
			DataSource: "Promotions",
		},
		{
			ID:             5,
			Type:           insights.TypePerformance,
			Priority:       insights.PriorityLow,
			Icon:           "BarChart3",
			Title:          "Overall Performance Summary",
			Description:    "Total revenue is 6.1% below plan for the period. Beverage and promotion gaps account for most of the variance; food cost control remains a bright spot.",
			Metric:         "-6.1%",
			MetricLabel:    "Revenue vs Plan",
			ActualValue:    "$320,433",
			PlannedValue:   "$341,247",
			Variance:       "-$20,814",
			Recommendation: "Focus the next two weeks on beverage recovery while holding the food cost gains.",
			Actions: []insights.Action{
				{Label: "Performance Review", Type: "primary", Key: "performanceReview"},
				{Label: "Action Plan", Type: "secondary", Key: "actionPlan"},
			},
			Impact:     "Summary - period close position",
			Timeframe:  "Next period",
			DataSource: "P&L Summary",
		},
	},
}

var actionDetails = map[string]Detail{
	"beverageAudit": {
		Title:   "Beverage Station Audit",
		Content: "Walk the fountain and specialty drink stations at open, peak, and close. Check syrup levels, CO2 pressure, cup stock, and menu board placement. Log attach rate by daypart for one week and compare against the plan baseline.",
	},
	"staffTraining": {
		Title:   "Suggestive Selling Refresher",
		Content: "Run a 15-minute pre-shift huddle on beverage suggestive selling. Each cashier should offer a drink pairing on every entrée order; track offer rate on the shift card.",
	},
	"scheduleReview": {
		Title:   "Shift Schedule Review",
		Content: "Compare scheduled versus actual labor hours for the last two weeks. Identify overlapping coverage between 2-4 PM and adjust next week's schedule before posting.",
	},
	"laborForecast": {
		Title:   "Labor Forecast Check",
		Content: "Rebuild the labor forecast from the latest transaction counts instead of last year's pattern. Flag any day where forecast hours exceed the labor budget by more than 2%.",
	},
	"wasteAudit": {
		Title:   "Food Waste Audit",
		Content: "Weigh and log entrée waste at close for seven days. Separate overproduction from quality discards and review batch sizes against the hourly sales curve.",
	},
	"batchPlanning": {
		Title:   "Batch Cooking Plan",
		Content: "Translate the waste audit into per-daypart batch targets. Post the targets at the wok line and review adherence in the weekly manager meeting.",
	},
	"promoAnalysis": {
		Title:   "Promotion Performance Analysis",
		Content: "Pull promotion sales by daypart and compare against plan. Confirm display and point-of-sale materials are set before each lunch service; photograph the set-up for the district lead.",
	},
	"menuMixReview": {
		Title:   "Menu Mix Review",
		Content: "Review the entrée mix report for items cannibalized by the promotion. If premium entrées are down more than the promotion is up, adjust the recommendation script.",
	},
	"performanceReview": {
		Title:   "Period Performance Review",
		Content: "Schedule the period close review with the assistant managers. Walk the P&L top to bottom, assign one owner per variance line, and set a measurable goal for the next period.",
	},
	"actionPlan": {
		Title:   "Next Period Action Plan",
		Content: "Consolidate open remediation items into a single page: owner, action, deadline, expected dollar impact. Post it in the office and review progress every Friday.",
	},
}

// Default returns the embedded fallback document. The result is a deep copy;
// callers may mutate it freely without touching the embedded source.
func Default() *insights.Document {
	return defaultDocument.Clone()
}

// ActionDetail returns the remediation detail for an action key. Unknown keys
// resolve to a generic template rather than an error or another action's
// detail.
func ActionDetail(key string) Detail {
	if d, ok := actionDetails[key]; ok {
		return d
	}
	return Detail{
		Title:   "Remediation Steps",
		Content: "Detailed guidance for this action has not been published yet. Review the card's recommendation with your district lead and record the agreed next steps in the period action plan.",
	}
}
