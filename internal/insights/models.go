// internal/insights/models.go
package insights

import "time"

// CardType drives severity colouring. The set is closed; anything outside it
// renders with the neutral default.
type CardType string

const (
	TypeCritical    CardType = "critical"
	TypeAlert       CardType = "alert"
	TypeOpportunity CardType = "opportunity"
	TypeInsight     CardType = "insight"
	TypePerformance CardType = "performance"
)

// Priority drives emphasis, independent of CardType. Cards are never
// re-sorted by priority; document order is producer-controlled.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Action is one remediation affordance on a card. Key is unique within the
// card and links the action to its remediation detail text.
type Action struct {
	Label string `json:"label"`
	Type  string `json:"type"`
	Key   string `json:"action"`
}

// Card is one discrete business finding. Metric fields arrive pre-formatted
// from the upstream producer and are passed through as display strings.
type Card struct {
	ID             int      `json:"id"`
	Type           CardType `json:"type"`
	Priority       Priority `json:"priority"`
	Icon           string   `json:"icon"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Metric         string   `json:"metric"`
	MetricLabel    string   `json:"metricLabel"`
	ActualValue    string   `json:"actualValue"`
	PlannedValue   string   `json:"plannedValue"`
	Variance       string   `json:"variance"`
	Recommendation string   `json:"recommendation"`
	Actions        []Action `json:"actions"`
	Impact         string   `json:"impact"`
	Timeframe      string   `json:"timeframe"`
	DataSource     string   `json:"dataSource"`
}

// Action returns the card action with the given key, if present.
func (c *Card) Action(key string) (Action, bool) {
	for _, a := range c.Actions {
		if a.Key == key {
			return a, true
		}
	}
	return Action{}, false
}

// PrimaryAction returns the first action on the card, the one the board
// exposes as the execute affordance.
func (c *Card) PrimaryAction() (Action, bool) {
	if len(c.Actions) == 0 {
		return Action{}, false
	}
	return c.Actions[0], true
}

// KPIEntry is one cell of the dashboard header strip.
type KPIEntry struct {
	Value  string `json:"value"`
	Amount string `json:"amount"`
	Label  string `json:"label,omitempty"`
}

// KPIHeader is the fixed-shape summary rendered above the card list.
type KPIHeader struct {
	Revenue  KPIEntry `json:"revenue"`
	Profit   KPIEntry `json:"profit"`
	Critical KPIEntry `json:"critical"`
}

// Document is the externally supplied insight configuration. Metadata is
// generation provenance and passes through opaque; only the presence and
// array shape of insight_cards is validated at load time.
type Document struct {
	Metadata  map[string]interface{} `json:"metadata"`
	KPIHeader KPIHeader              `json:"kpi_header"`
	Cards     []Card                 `json:"insight_cards"`
}

// Card returns the card with the given id, if present.
func (d *Document) Card(id int) (*Card, bool) {
	for i := range d.Cards {
		if d.Cards[i].ID == id {
			return &d.Cards[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy so callers can hold a document across refreshes
// without racing the board.
func (d *Document) Clone() *Document {
	out := &Document{
		KPIHeader: d.KPIHeader,
		Cards:     make([]Card, len(d.Cards)),
	}
	if d.Metadata != nil {
		out.Metadata = make(map[string]interface{}, len(d.Metadata))
		for k, v := range d.Metadata {
			out.Metadata[k] = v
		}
	}
	for i, c := range d.Cards {
		cc := c
		cc.Actions = append([]Action(nil), c.Actions...)
		out.Cards[i] = cc
	}
	return out
}

// OperationStatusInProgress is the only operation status for a live session;
// completion transitions are out of scope for the tracker.
const OperationStatusInProgress = "in progress"

// Operation is a session-local record of a remediation action the user has
// initiated. Operations are append-only for the session lifetime.
type Operation struct {
	ID                 string    `json:"operationId"`
	Name               string    `json:"name"`
	Type               CardType  `json:"type"`
	Impact             string    `json:"impact"`
	ExpectedCompletion string    `json:"expectedCompletion"`
	StartedAt          time.Time `json:"startedAt"`
	Status             string    `json:"status"`
}

// OperationTemplate carries the card-derived fields used to build an
// Operation on first completion.
type OperationTemplate struct {
	Name               string
	Type               CardType
	Impact             string
	ExpectedCompletion string
}
