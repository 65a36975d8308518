package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruiting-platform/internal/common/database"
	"recruiting-platform/internal/common/logger"
)

// Cache errors must never break the dashboard; the numbers come from the
// database instead.
func TestGetStats_CacheUnavailable(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &database.RedisClient{Client: db}
	stats := &fakeStats{}
	svc := NewService(stats, client, logger.NewTestLogger(t))

	expected, err := svc.loadStats(context.Background())
	require.NoError(t, err)
	payload, err := json.Marshal(expected)
	require.NoError(t, err)

	mock.ExpectGet(cacheKey).SetErr(errors.New("connection refused"))
	mock.ExpectSet(cacheKey, string(payload), cacheTTL).SetErr(errors.New("connection refused"))

	got, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, expected.OpenJobs, got.OpenJobs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStats_CorruptCacheFallsThrough(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &database.RedisClient{Client: db}
	svc := NewService(&fakeStats{}, client, logger.NewTestLogger(t))

	mock.ExpectGet(cacheKey).SetVal("{not json")
	mock.Regexp().ExpectSet(cacheKey, `.*`, cacheTTL).SetVal("OK")

	got, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, got.OpenJobs)
}
