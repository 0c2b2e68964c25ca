package assistant

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"pnl-insights/internal/common/logger"
	"pnl-insights/internal/common/metrics"
)

// Cache is the slice of the redis client the service needs. A nil Cache
// disables caching entirely.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// Service fronts the assistant client with response caching. Identical
// questions within the TTL are served from redis without a round trip to the
// assistant.
type Service struct {
	client *Client
	cache  Cache
	ttl    time.Duration
	logger logger.Logger
}

// NewService wraps client with caching. cache may be nil and ttl zero, in
// which case every question goes to the assistant.
func NewService(client *Client, cache Cache, ttl time.Duration, log logger.Logger) *Service {
	return &Service{
		client: client,
		cache:  cache,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "assistant-service"}),
	}
}

// Ask answers a question, preferring a cached answer when available. Cache
// failures are logged and ignored; the assistant is the source of truth.
func (s *Service) Ask(ctx context.Context, q Query) (*Answer, error) {
	key := cacheKey(q)

	if s.cacheEnabled() {
		if raw, err := s.cache.Get(ctx, key); err == nil && raw != "" {
			var answer Answer
			if err := json.Unmarshal([]byte(raw), &answer); err == nil {
				metrics.AssistantQueries.WithLabelValues("cached").Inc()
				return &answer, nil
			}
			s.logger.Warn("discarding undecodable cached answer", map[string]interface{}{"key": key})
		}
	}

	start := time.Now()
	answer, err := s.client.Ask(ctx, q)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.AssistantQueries.WithLabelValues(status).Inc()
	metrics.AssistantQueryDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, err
	}

	if s.cacheEnabled() {
		raw, merr := json.Marshal(answer)
		if merr == nil {
			if cerr := s.cache.Set(ctx, key, string(raw), s.ttl); cerr != nil {
				s.logger.Warn("failed to cache assistant answer", map[string]interface{}{
					"key":   key,
					"error": cerr.Error(),
				})
			}
		}
	}

	return answer, nil
}

// Health reports assistant reachability.
func (s *Service) Health(ctx context.Context) HealthStatus {
	return s.client.Health(ctx)
}

func (s *Service) cacheEnabled() bool {
	return s.cache != nil && s.ttl > 0
}

func cacheKey(q Query) string {
	sum := sha256.Sum256([]byte(q.Question + "\x00" + q.Context))
	return "assistant:answer:" + hex.EncodeToString(sum[:])
}
