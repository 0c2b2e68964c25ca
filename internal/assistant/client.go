package assistant

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"pnl-insights/internal/common/config"
	"pnl-insights/internal/common/errors"
	commonhttp "pnl-insights/internal/common/http"
	"pnl-insights/internal/common/logger"
)

// Client talks to the assistant service over HTTP. Transient failures are
// retried with exponential backoff up to the configured attempt limit.
type Client struct {
	http       *commonhttp.Client
	baseURL    string
	apiKey     string
	spaceID    string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	logger     logger.Logger
}

// NewClient builds an assistant client from configuration.
func NewClient(cfg config.AssistantConfig, log logger.Logger) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	return &Client{
		http:       commonhttp.NewClient(timeout),
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		spaceID:    cfg.SpaceID,
		timeout:    timeout,
		maxRetries: cfg.MaxRetries,
		retryDelay: 500 * time.Millisecond,
		logger:     log.WithFields(map[string]interface{}{"component": "assistant-client"}),
	}
}

// Ask sends a natural-language question and returns the structured answer.
// When the service answers in prose only, SQL and tabular data are recovered
// from the answer text.
func (c *Client) Ask(ctx context.Context, q Query) (*Answer, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/api/2.0/assistant/spaces/%s/ask", c.baseURL, c.spaceID)
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}

	var answer Answer
	var lastErr error
	delay := c.retryDelay

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		lastErr = c.http.PostJSON(ctx, url, headers, q, &answer)
		if lastErr == nil {
			break
		}

		if ctx.Err() != nil {
			return nil, errors.NewAssistantTimeoutError(ctx.Err())
		}

		if attempt < c.maxRetries {
			c.logger.Warn("assistant query failed, retrying", map[string]interface{}{
				"attempt":     attempt + 1,
				"maxRetries":  c.maxRetries,
				"nextRetryIn": delay.String(),
				"error":       lastErr.Error(),
			})
			select {
			case <-ctx.Done():
				return nil, errors.NewAssistantTimeoutError(ctx.Err())
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	if lastErr != nil {
		if stderrors.Is(lastErr, context.DeadlineExceeded) {
			return nil, errors.NewAssistantTimeoutError(lastErr)
		}
		return nil, errors.NewAssistantQueryFailedError(lastErr)
	}

	if answer.SQL == "" {
		answer.SQL = ExtractSQL(answer.Answer)
	}
	if answer.Data == nil {
		answer.Data = ExtractTable(answer.Answer)
	}

	return &answer, nil
}

// Health checks assistant reachability.
func (c *Client) Health(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var status HealthStatus
	err := c.http.GetJSON(ctx, c.baseURL+"/api/2.0/assistant/health", &status)
	if err != nil {
		return HealthStatus{Status: "unhealthy", Message: err.Error()}
	}
	if status.Status == "" {
		status.Status = "healthy"
	}
	return status
}
