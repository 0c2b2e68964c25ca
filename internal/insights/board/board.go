// Package board is the dashboard's aggregate view model. It owns the current
// insight document, keeps it fresh on a fixed cycle, renders cards through the
// presentation mapping, and routes action executions into the session
// registry. The board is always renderable: before the first load completes
// it reports Loading, after that it serves either the configured document or
// the built-in fallback.
package board

import (
	"context"
	"sync"
	"time"

	"pnl-insights/internal/common/errors"
	"pnl-insights/internal/common/logger"
	"pnl-insights/internal/common/metrics"
	"pnl-insights/internal/insights"
	"pnl-insights/internal/insights/catalog"
	"pnl-insights/internal/insights/loader"
	"pnl-insights/internal/insights/presentation"
	"pnl-insights/internal/insights/registry"
)

// Source identifies where the currently served document came from.
type Source string

const (
	// SourceLoading is reported before the first load attempt resolves.
	SourceLoading Source = "loading"
	// SourceConfigured means the document came from the external
	// configuration.
	SourceConfigured Source = "configured"
	// SourceFallback means the built-in catalog is being served.
	SourceFallback Source = "fallback"
)

// RenderedAction is a card action joined with its session status.
type RenderedAction struct {
	insights.Action
	StatusLabel string `json:"statusLabel"`
	Completed   bool   `json:"completed"`
}

// RenderedCard is a card with its visual attributes resolved and its actions
// joined with session state. Cards appear in the snapshot in document order.
type RenderedCard struct {
	insights.Card
	Colors           presentation.ColorSet `json:"colors"`
	ResolvedIcon     string                `json:"resolvedIcon"`
	PriorityBadge    string                `json:"priorityBadge"`
	RenderedActions  []RenderedAction      `json:"renderedActions"`
	PrimaryCompleted bool                  `json:"primaryCompleted"`
}

// Snapshot is one consistent view of the board, safe to hold after the board
// moves on.
type Snapshot struct {
	Source    Source                 `json:"source"`
	LoadedAt  time.Time              `json:"loadedAt"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	KPIHeader insights.KPIHeader     `json:"kpi_header"`
	Cards     []RenderedCard         `json:"insight_cards"`
}

// Operation templates fall back to these when the card carries no impact or
// timeframe of its own.
const (
	placeholderImpact     = "Impact under assessment"
	placeholderCompletion = "To be scheduled"
)

// Board holds the current document and the session action state.
type Board struct {
	loader          *loader.Loader
	registry        *registry.Registry
	logger          logger.Logger
	refreshInterval time.Duration

	onOperation func(insights.Operation)
	onRefresh   func(Source)

	mu       sync.RWMutex
	doc      *insights.Document
	source   Source
	loadedAt time.Time
}

// New creates a Board in the Loading state. Call Start to perform the initial
// load and begin the refresh cycle.
func New(l *loader.Loader, reg *registry.Registry, refreshInterval time.Duration, log logger.Logger) *Board {
	return &Board{
		loader:          l,
		registry:        reg,
		logger:          log.WithFields(map[string]interface{}{"component": "insight-board"}),
		refreshInterval: refreshInterval,
		source:          SourceLoading,
	}
}

// OnOperation registers a callback invoked whenever an action execution
// creates a new operation. Set before Start; the callback runs on the
// executing goroutine.
func (b *Board) OnOperation(fn func(insights.Operation)) {
	b.onOperation = fn
}

// OnRefresh registers a callback invoked whenever a refresh replaces the
// served document, with the source it came from. Failed refreshes do not
// notify. Set before Start; the callback runs on the refreshing goroutine.
func (b *Board) OnRefresh(fn func(Source)) {
	b.onRefresh = fn
}

// Start performs the initial load synchronously, then launches the periodic
// refresh loop. The loop stops when ctx is cancelled.
func (b *Board) Start(ctx context.Context) {
	b.refresh(ctx)

	if b.refreshInterval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(b.refreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				b.refresh(ctx)
			}
		}
	}()
}

// refresh attempts one load. A successful load always replaces the current
// document, last writer wins. A failed load never downgrades: once a
// configured document is being served, it stays until a newer configured one
// arrives, and before any success the fallback catalog fills in.
func (b *Board) refresh(ctx context.Context) {
	doc, loadErr := b.loader.Load(ctx)

	var replaced Source

	b.mu.Lock()
	switch {
	case loadErr == nil:
		b.doc = doc
		b.source = SourceConfigured
		b.loadedAt = time.Now().UTC()
		metrics.BoardRefreshes.WithLabelValues(string(SourceConfigured)).Inc()
		replaced = SourceConfigured

	case b.doc != nil:
		// Keep serving what we have; the failure is already counted and
		// logged by the loader.
		b.logger.Warn("refresh failed, keeping current document", map[string]interface{}{
			"source": string(b.source),
			"kind":   string(loadErr.Kind),
		})

	default:
		b.doc = catalog.Default()
		b.source = SourceFallback
		b.loadedAt = time.Now().UTC()
		metrics.BoardRefreshes.WithLabelValues(string(SourceFallback)).Inc()
		b.logger.Warn("serving fallback catalog", map[string]interface{}{
			"kind": string(loadErr.Kind),
		})
		replaced = SourceFallback
	}
	b.mu.Unlock()

	if replaced != "" && b.onRefresh != nil {
		b.onRefresh(replaced)
	}
}

// Source returns where the currently served document came from.
func (b *Board) Source() Source {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.source
}

// Snapshot renders the current document into a consistent view. It never
// fails: with no document loaded yet it returns an empty Loading snapshot.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	doc := b.doc
	source := b.source
	loadedAt := b.loadedAt
	b.mu.RUnlock()

	if doc == nil {
		return Snapshot{Source: SourceLoading}
	}

	snap := Snapshot{
		Source:    source,
		LoadedAt:  loadedAt,
		Metadata:  doc.Metadata,
		KPIHeader: doc.KPIHeader,
		Cards:     make([]RenderedCard, len(doc.Cards)),
	}

	for i := range doc.Cards {
		snap.Cards[i] = b.renderCard(&doc.Cards[i])
	}

	return snap
}

func (b *Board) renderCard(card *insights.Card) RenderedCard {
	rc := RenderedCard{
		Card:            *card,
		Colors:          presentation.ColorForType(card.Type),
		ResolvedIcon:    presentation.IconFor(card.Icon),
		PriorityBadge:   presentation.ColorForPriority(card.Priority),
		RenderedActions: make([]RenderedAction, len(card.Actions)),
	}

	for i, a := range card.Actions {
		completed := b.registry.IsCompleted(card.ID, a.Key)
		rc.RenderedActions[i] = RenderedAction{
			Action:      a,
			StatusLabel: presentation.StatusLabelFor(b.registry, card.ID, a),
			Completed:   completed,
		}
	}

	if primary, ok := card.PrimaryAction(); ok {
		rc.PrimaryCompleted = b.registry.IsCompleted(card.ID, primary.Key)
	}

	return rc
}

// ExecuteAction marks the (card, action) pair completed and records an
// operation derived from the card. Repeated execution of a completed pair is
// accepted and changes nothing; the returned operation is the zero value and
// created is false.
func (b *Board) ExecuteAction(cardID int, actionKey string) (insights.Operation, bool, error) {
	b.mu.RLock()
	doc := b.doc
	b.mu.RUnlock()

	if doc == nil {
		return insights.Operation{}, false, errors.NewCardNotFoundError(cardID)
	}

	card, ok := doc.Card(cardID)
	if !ok {
		metrics.ActionExecutions.WithLabelValues("card_not_found").Inc()
		return insights.Operation{}, false, errors.NewCardNotFoundError(cardID)
	}
	if _, ok := card.Action(actionKey); !ok {
		metrics.ActionExecutions.WithLabelValues("action_not_found").Inc()
		return insights.Operation{}, false, errors.NewActionNotFoundError(cardID, actionKey)
	}

	impact := card.Impact
	if impact == "" {
		impact = placeholderImpact
	}
	completion := card.Timeframe
	if completion == "" {
		completion = placeholderCompletion
	}

	op, created := b.registry.Complete(cardID, actionKey, insights.OperationTemplate{
		Name:               card.Title,
		Type:               card.Type,
		Impact:             impact,
		ExpectedCompletion: completion,
	})

	if !created {
		metrics.ActionExecutions.WithLabelValues("repeat").Inc()
		return insights.Operation{}, false, nil
	}

	metrics.ActionExecutions.WithLabelValues("created").Inc()
	b.logger.Info("action executed", map[string]interface{}{
		"cardId":      cardID,
		"actionKey":   actionKey,
		"operationId": op.ID,
	})

	if b.onOperation != nil {
		b.onOperation(op)
	}

	return op, true, nil
}

// Rationale is the read-only detail view for a card action: the card's own
// finding fields side by side with the remediation detail text.
type Rationale struct {
	CardID         int            `json:"cardId"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Metric         string         `json:"metric,omitempty"`
	MetricLabel    string         `json:"metricLabel,omitempty"`
	ActualValue    string         `json:"actualValue,omitempty"`
	PlannedValue   string         `json:"plannedValue,omitempty"`
	Variance       string         `json:"variance,omitempty"`
	Recommendation string         `json:"recommendation,omitempty"`
	Impact         string         `json:"impact,omitempty"`
	Timeframe      string         `json:"timeframe,omitempty"`
	DataSource     string         `json:"dataSource,omitempty"`
	Detail         catalog.Detail `json:"detail"`
}

// Rationale assembles the detail view for an action on a card from the card's
// own fields. The card and action must exist in the current document; the
// remediation detail lookup itself is total and falls back to a generic
// explanation for unknown keys.
func (b *Board) Rationale(cardID int, actionKey string) (Rationale, error) {
	b.mu.RLock()
	doc := b.doc
	b.mu.RUnlock()

	if doc == nil {
		return Rationale{}, errors.NewCardNotFoundError(cardID)
	}

	card, ok := doc.Card(cardID)
	if !ok {
		return Rationale{}, errors.NewCardNotFoundError(cardID)
	}
	if _, ok := card.Action(actionKey); !ok {
		return Rationale{}, errors.NewActionNotFoundError(cardID, actionKey)
	}

	return Rationale{
		CardID:         card.ID,
		Title:          card.Title,
		Description:    card.Description,
		Metric:         card.Metric,
		MetricLabel:    card.MetricLabel,
		ActualValue:    card.ActualValue,
		PlannedValue:   card.PlannedValue,
		Variance:       card.Variance,
		Recommendation: card.Recommendation,
		Impact:         card.Impact,
		Timeframe:      card.Timeframe,
		DataSource:     card.DataSource,
		Detail:         catalog.ActionDetail(actionKey),
	}, nil
}

// Operations returns the session's recorded operations in creation order.
func (b *Board) Operations() []insights.Operation {
	return b.registry.Operations()
}
