// cmd/tools/config-validator/main.go
//
// Validates an insight configuration document before it is published to the
// location the dashboard loads from. Exit code 0 means the dashboard would
// serve the document; anything else means it would fall back to the embedded
// catalog.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"pnl-insights/internal/insights"
	"pnl-insights/internal/insights/loader"
)

func main() {
	path := flag.String("path", "configs/insights_config.json", "Path to the insight configuration document")
	verbose := flag.Bool("v", false, "Print per-card summary")
	flag.Parse()

	raw, err := os.ReadFile(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read %s: %v\n", *path, err)
		os.Exit(1)
	}

	if !json.Valid(raw) {
		fmt.Fprintf(os.Stderr, "Error: %s is not well-formed JSON\n", *path)
		os.Exit(1)
	}

	if err := loader.ValidateShape(raw); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var doc insights.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		fmt.Fprintf(os.Stderr, "Error: document has incompatible field types: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("OK: %s (%d cards)\n", *path, len(doc.Cards))

	warnings := lintDocument(&doc)
	for _, w := range warnings {
		fmt.Printf("Warning: %s\n", w)
	}

	if *verbose {
		for _, card := range doc.Cards {
			fmt.Printf("  card %d [%s/%s] %q, %d actions\n",
				card.ID, card.Type, card.Priority, card.Title, len(card.Actions))
		}
	}
}

// lintDocument reports conditions the dashboard tolerates at render time but
// an author probably did not intend.
func lintDocument(doc *insights.Document) []string {
	var warnings []string

	knownTypes := map[insights.CardType]bool{
		insights.TypeCritical: true, insights.TypeAlert: true,
		insights.TypeOpportunity: true, insights.TypeInsight: true,
		insights.TypePerformance: true,
	}
	knownPriorities := map[insights.Priority]bool{
		insights.PriorityUrgent: true, insights.PriorityHigh: true,
		insights.PriorityMedium: true, insights.PriorityLow: true,
	}

	seen := make(map[int]bool)
	for _, card := range doc.Cards {
		if seen[card.ID] {
			warnings = append(warnings, fmt.Sprintf("card id %d appears more than once; lookups resolve to the first occurrence", card.ID))
		}
		seen[card.ID] = true

		if !knownTypes[card.Type] {
			warnings = append(warnings, fmt.Sprintf("card %d: type %q is outside the known set and renders with neutral styling", card.ID, card.Type))
		}
		if !knownPriorities[card.Priority] {
			warnings = append(warnings, fmt.Sprintf("card %d: priority %q is outside the known set and renders with the neutral badge", card.ID, card.Priority))
		}
		if len(card.Actions) == 0 {
			warnings = append(warnings, fmt.Sprintf("card %d: no actions; the card renders without an execute affordance", card.ID))
		}

		keys := make(map[string]bool)
		for _, a := range card.Actions {
			if keys[a.Key] {
				warnings = append(warnings, fmt.Sprintf("card %d: duplicate action key %q", card.ID, a.Key))
			}
			keys[a.Key] = true
		}
	}

	return warnings
}
