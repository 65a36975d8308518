package postgres

import (
	"context"

	"recruiting-platform/internal/common/database"
	apperrors "recruiting-platform/internal/common/errors"
	"recruiting-platform/internal/common/logger"
)

// CategoryCount pairs a category name with its number of open postings.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// StatsStore runs the aggregate queries behind the admin dashboard.
type StatsStore struct {
	client *database.PostgresClient
	logger logger.Logger
}

// NewStatsStore creates a stats store on the given client.
func NewStatsStore(client *database.PostgresClient, log logger.Logger) *StatsStore {
	return &StatsStore{client: client, logger: log}
}

// CountOpenJobs returns the number of postings currently open.
func (s *StatsStore) CountOpenJobs(ctx context.Context) (int, error) {
	return s.countQuery(ctx, `SELECT COUNT(*) FROM jobs WHERE status = 'OPEN'`, "count_open_jobs")
}

// CountCandidates returns the number of candidate accounts.
func (s *StatsStore) CountCandidates(ctx context.Context) (int, error) {
	return s.countQuery(ctx, `SELECT COUNT(*) FROM profiles WHERE role = 'CANDIDATE'`, "count_candidates")
}

// CountApplications returns the total number of applications.
func (s *StatsStore) CountApplications(ctx context.Context) (int, error) {
	return s.countQuery(ctx, `SELECT COUNT(*) FROM applications`, "count_applications")
}

// OpenJobsByCategory returns open posting counts grouped by category name.
func (s *StatsStore) OpenJobsByCategory(ctx context.Context) ([]CategoryCount, error) {
	query := `
		SELECT COALESCE(c.name, 'Sem categoria'), COUNT(*)
		FROM jobs j
		LEFT JOIN categories c ON c.id = j.category_id
		WHERE j.status = 'OPEN'
		GROUP BY c.name
		ORDER BY COUNT(*) DESC`

	rows, err := s.client.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("open_jobs_by_category", err)
	}
	defer rows.Close()

	var counts []CategoryCount
	for rows.Next() {
		var cc CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("scan_category_count", err)
		}
		counts = append(counts, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("iterate_category_counts", err)
	}
	return counts, nil
}

func (s *StatsStore) countQuery(ctx context.Context, query, queryType string) (int, error) {
	var count int
	if err := s.client.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, apperrors.NewQueryExecutionFailedError(queryType, err)
	}
	return count, nil
}
