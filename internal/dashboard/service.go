// Package dashboard aggregates the admin overview numbers with a short lived
// Redis cache in front of the database.
package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"recruiting-platform/internal/common/database"
	"recruiting-platform/internal/common/logger"
	"recruiting-platform/internal/store/postgres"
)

const (
	cacheKey = "dashboard:stats"
	cacheTTL = 60 * time.Second
)

// Stats is the admin overview payload.
type Stats struct {
	OpenJobs           int                      `json:"openJobs"`
	Candidates         int                      `json:"candidates"`
	Applications       int                      `json:"applications"`
	OpenJobsByCategory []postgres.CategoryCount `json:"openJobsByCategory"`
}

// StatsProvider is the aggregate query surface behind the dashboard.
type StatsProvider interface {
	CountOpenJobs(ctx context.Context) (int, error)
	CountCandidates(ctx context.Context) (int, error)
	CountApplications(ctx context.Context) (int, error)
	OpenJobsByCategory(ctx context.Context) ([]postgres.CategoryCount, error)
}

// Service serves dashboard stats.
type Service struct {
	stats  StatsProvider
	redis  *database.RedisClient
	logger logger.Logger
}

// NewService creates a dashboard service.
func NewService(stats StatsProvider, redisClient *database.RedisClient, log logger.Logger) *Service {
	return &Service{stats: stats, redis: redisClient, logger: log}
}

// GetStats returns the overview numbers, served from cache when fresh. Cache
// failures fall through to the database.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	if cached, err := s.redis.Get(ctx, cacheKey); err == nil {
		var stats Stats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			s.logger.Debug("Dashboard stats served from cache")
			return &stats, nil
		}
	}

	stats, err := s.loadStats(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(stats); err == nil {
		if err := s.redis.Set(ctx, cacheKey, string(payload), cacheTTL); err != nil {
			s.logger.WithError(err).Warn("Failed to cache dashboard stats")
		}
	}

	return stats, nil
}

// Invalidate drops the cached stats. Called after writes that change them.
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.redis.Del(ctx, cacheKey); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate dashboard cache")
	}
}

func (s *Service) loadStats(ctx context.Context) (*Stats, error) {
	openJobs, err := s.stats.CountOpenJobs(ctx)
	if err != nil {
		return nil, err
	}
	candidates, err := s.stats.CountCandidates(ctx)
	if err != nil {
		return nil, err
	}
	applications, err := s.stats.CountApplications(ctx)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.stats.OpenJobsByCategory(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		OpenJobs:           openJobs,
		Candidates:         candidates,
		Applications:       applications,
		OpenJobsByCategory: byCategory,
	}, nil
}
