package database

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisClient_GetSetDel(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &RedisClient{Client: db}
	ctx := context.Background()

	mock.ExpectSet("assistant:answer:abc", "cached", time.Minute).SetVal("OK")
	require.NoError(t, client.Set(ctx, "assistant:answer:abc", "cached", time.Minute))

	mock.ExpectGet("assistant:answer:abc").SetVal("cached")
	val, err := client.Get(ctx, "assistant:answer:abc")
	require.NoError(t, err)
	assert.Equal(t, "cached", val)

	mock.ExpectDel("assistant:answer:abc").SetVal(1)
	require.NoError(t, client.Del(ctx, "assistant:answer:abc"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisClient_GetMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &RedisClient{Client: db}

	mock.ExpectGet("absent").RedisNil()

	_, err := client.Get(context.Background(), "absent")
	assert.Error(t, err)
}
