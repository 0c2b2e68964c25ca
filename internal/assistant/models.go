// Package assistant integrates the natural-language query assistant the
// dashboard exposes for ad-hoc P&L questions. The assistant itself is an
// external service; this package handles transport, answer post-processing,
// and response caching.
package assistant

// Query is the inbound question payload. Context is optional free text the
// caller can supply to steer the answer (e.g. the store or period in view).
type Query struct {
	Question string `json:"question"`
	Context  string `json:"context,omitempty"`
}

// Table is tabular data recovered from an assistant answer.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Answer is the structured result of one assistant query. SQL and Data are
// best-effort extractions from the answer text and may be absent.
type Answer struct {
	Answer string `json:"answer"`
	SQL    string `json:"sql,omitempty"`
	Data   *Table `json:"data,omitempty"`
}

// HealthStatus reports assistant reachability for the health endpoint.
type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
