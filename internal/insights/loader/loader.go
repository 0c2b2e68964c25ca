// Package loader fetches the externally authored insight configuration
// document from its well-known location and validates its shape. Every
// failure is absorbed into a typed LoadError; nothing escapes the boundary.
// The loader never retries on its own - periodic re-invocation belongs to the
// board's refresh cycle.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"pnl-insights/internal/common/errors"
	commonhttp "pnl-insights/internal/common/http"
	"pnl-insights/internal/common/logger"
	"pnl-insights/internal/common/metrics"
	"pnl-insights/internal/insights"
)

// Kind classifies a load failure. All kinds are recoverable locally: the
// caller always has the fallback catalog.
type Kind string

const (
	// KindTransport covers an unreachable resource, a non-success HTTP
	// status, or an unreadable file.
	KindTransport Kind = "transport"
	// KindParse covers content that is not well-formed JSON.
	KindParse Kind = "parse"
	// KindShape covers well-formed JSON missing the required top-level
	// structure.
	KindShape Kind = "shape"
)

// LoadError is the typed failure outcome of a load attempt. Err is always a
// *errors.StandardError carrying the matching configuration error code, so
// callers can route it with errors.IsCode.
type LoadError struct {
	Kind Kind
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("insight config load failed (%s): %v", e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// DocumentSchema is the structural contract a configuration document must
// meet: insight_cards present and an array (possibly empty). Everything else,
// metadata included, passes through unvalidated.
const DocumentSchema = `{
	"type": "object",
	"required": ["insight_cards"],
	"properties": {
		"insight_cards": {
			"type": "array",
			"items": {"type": "object"}
		}
	}
}`

// Loader fetches and validates the insight configuration document.
type Loader struct {
	source  string
	timeout time.Duration
	client  *commonhttp.Client
	schema  *gojsonschema.Schema
	logger  logger.Logger
}

// New creates a Loader for the given source: an http(s) URL or a local file
// path.
func New(source string, timeout time.Duration, log logger.Logger) *Loader {
	// The schema literal is constant and known-valid.
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(DocumentSchema))
	if err != nil {
		panic(fmt.Sprintf("loader: invalid document schema: %v", err))
	}

	return &Loader{
		source:  source,
		timeout: timeout,
		client:  commonhttp.NewClient(timeout),
		schema:  schema,
		logger:  log.WithFields(map[string]interface{}{"component": "config-loader"}),
	}
}

// Load fetches, parses, and shape-checks the document. On success it returns
// the document; on failure a LoadError with the failure kind. Exactly one of
// the results is non-nil.
func (l *Loader) Load(ctx context.Context) (*insights.Document, *LoadError) {
	raw, err := l.fetch(ctx)
	if err != nil {
		return nil, l.fail(KindTransport, err)
	}

	if !json.Valid(raw) {
		return nil, l.fail(KindParse, fmt.Errorf("content is not valid JSON"))
	}

	if err := l.validateShape(raw); err != nil {
		return nil, l.fail(KindShape, err)
	}

	var doc insights.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		// Parsed and shaped at the top level, but a field has an
		// incompatible type deeper down.
		return nil, l.fail(KindShape, err)
	}

	metrics.ConfigLoads.WithLabelValues("success").Inc()
	l.logger.Info("insight configuration loaded", map[string]interface{}{
		"source": l.source,
		"cards":  len(doc.Cards),
	})

	return &doc, nil
}

// ValidateShape checks raw against DocumentSchema. Exposed for the
// config-validator tool.
func ValidateShape(raw []byte) error {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(DocumentSchema))
	if err != nil {
		return err
	}
	return validateAgainst(schema, raw)
}

func (l *Loader) validateShape(raw []byte) error {
	return validateAgainst(l.schema, raw)
}

func validateAgainst(schema *gojsonschema.Schema, raw []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("shape validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("document shape invalid: %v", errs)
	}

	return nil
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	if strings.HasPrefix(l.source, "http://") || strings.HasPrefix(l.source, "https://") {
		return l.fetchHTTP(ctx)
	}

	raw, err := os.ReadFile(l.source)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", l.source, err)
	}
	return raw, nil
}

func (l *Loader) fetchHTTP(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	return l.client.Get(ctx, l.source)
}

// fail records the diagnostic for a load failure and builds the LoadError.
func (l *Loader) fail(kind Kind, err error) *LoadError {
	metrics.ConfigLoads.WithLabelValues("failure").Inc()
	metrics.ConfigLoadFailures.WithLabelValues(string(kind)).Inc()

	l.logger.Warn("insight configuration load failed", map[string]interface{}{
		"source": l.source,
		"kind":   string(kind),
		"error":  err.Error(),
	})

	var std error
	switch kind {
	case KindTransport:
		std = errors.NewConfigTransportError(err)
	case KindParse:
		std = errors.NewConfigParseError(err)
	default:
		std = errors.NewConfigShapeError(err.Error())
	}

	return &LoadError{Kind: kind, Err: std}
}
