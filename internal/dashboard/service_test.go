package dashboard

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruiting-platform/internal/common/database"
	"recruiting-platform/internal/common/logger"
	"recruiting-platform/internal/store/postgres"
)

type fakeStats struct {
	calls int
}

func (f *fakeStats) CountOpenJobs(context.Context) (int, error) {
	f.calls++
	return 7, nil
}

func (f *fakeStats) CountCandidates(context.Context) (int, error) { return 42, nil }

func (f *fakeStats) CountApplications(context.Context) (int, error) { return 99, nil }

func (f *fakeStats) OpenJobsByCategory(context.Context) ([]postgres.CategoryCount, error) {
	return []postgres.CategoryCount{{Category: "Tecnologia", Count: 5}}, nil
}

func newTestService(t *testing.T) (*Service, *fakeStats) {
	mr := miniredis.RunT(t)
	client := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	stats := &fakeStats{}
	return NewService(stats, client, logger.NewTestLogger(t)), stats
}

func TestGetStats(t *testing.T) {
	svc, _ := newTestService(t)

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 7, stats.OpenJobs)
	assert.Equal(t, 42, stats.Candidates)
	assert.Equal(t, 99, stats.Applications)
	require.Len(t, stats.OpenJobsByCategory, 1)
	assert.Equal(t, "Tecnologia", stats.OpenJobsByCategory[0].Category)
}

func TestGetStats_SecondCallHitsCache(t *testing.T) {
	svc, stats := newTestService(t)

	_, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	_, err = svc.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.calls)
}

func TestInvalidate_ForcesReload(t *testing.T) {
	svc, stats := newTestService(t)

	_, err := svc.GetStats(context.Background())
	require.NoError(t, err)

	svc.Invalidate(context.Background())

	_, err = svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.calls)
}
