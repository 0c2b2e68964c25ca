package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pnl-insights/internal/common/config"
	"pnl-insights/internal/common/database"
	"pnl-insights/internal/common/logger"
)

func newCachedService(t *testing.T, srv *httptest.Server, ttl time.Duration) (*Service, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	client := newTestClient(t, srv)
	return NewService(client, rdb, ttl, logger.NewNoOpLogger()), mr
}

func TestService_AskCachesAnswer(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(Answer{Answer: "labor is over budget"})
	}))
	defer srv.Close()

	svc, _ := newCachedService(t, srv, time.Minute)

	first, err := svc.Ask(context.Background(), Query{Question: "how is labor tracking"})
	require.NoError(t, err)

	second, err := svc.Ask(context.Background(), Query{Question: "how is labor tracking"})
	require.NoError(t, err)

	assert.Equal(t, first.Answer, second.Answer)
	// The second ask was served from cache.
	assert.Equal(t, int32(1), calls.Load())
}

func TestService_DistinctQuestionsMiss(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(Answer{Answer: "answer"})
	}))
	defer srv.Close()

	svc, _ := newCachedService(t, srv, time.Minute)

	_, err := svc.Ask(context.Background(), Query{Question: "question one"})
	require.NoError(t, err)
	_, err = svc.Ask(context.Background(), Query{Question: "question two"})
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
}

func TestService_ContextChangesCacheKey(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(Answer{Answer: "answer"})
	}))
	defer srv.Close()

	svc, _ := newCachedService(t, srv, time.Minute)

	_, err := svc.Ask(context.Background(), Query{Question: "q", Context: "store 142"})
	require.NoError(t, err)
	_, err = svc.Ask(context.Background(), Query{Question: "q", Context: "district 5"})
	require.NoError(t, err)
	_, err = svc.Ask(context.Background(), Query{Question: "q", Context: "store 142"})
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
}

func TestService_CacheExpiry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(Answer{Answer: "answer"})
	}))
	defer srv.Close()

	svc, mr := newCachedService(t, srv, time.Minute)

	_, err := svc.Ask(context.Background(), Query{Question: "q"})
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = svc.Ask(context.Background(), Query{Question: "q"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestService_NilCachePassesThrough(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(Answer{Answer: "answer"})
	}))
	defer srv.Close()

	svc := NewService(newTestClient(t, srv), nil, 0, logger.NewNoOpLogger())

	_, err := svc.Ask(context.Background(), Query{Question: "q"})
	require.NoError(t, err)
	_, err = svc.Ask(context.Background(), Query{Question: "q"})
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
}

func TestService_ErrorsAreNotCached(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 3 { // first ask exhausts its retries
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(Answer{Answer: "recovered"})
	}))
	defer srv.Close()

	svc, _ := newCachedService(t, srv, time.Minute)

	_, err := svc.Ask(context.Background(), Query{Question: "q"})
	require.Error(t, err)

	answer, err := svc.Ask(context.Background(), Query{Question: "q"})
	require.NoError(t, err)
	assert.Equal(t, "recovered", answer.Answer)
}
