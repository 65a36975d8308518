package postgres

import (
	"context"

	"recruiting-platform/internal/common/database"
	apperrors "recruiting-platform/internal/common/errors"
	"recruiting-platform/internal/common/logger"
	"recruiting-platform/internal/models"
)

// CategoryStore persists job categories.
type CategoryStore struct {
	client *database.PostgresClient
	logger logger.Logger
}

// NewCategoryStore creates a category store on the given client.
func NewCategoryStore(client *database.PostgresClient, log logger.Logger) *CategoryStore {
	return &CategoryStore{client: client, logger: log}
}

// List returns all categories ordered by name.
func (s *CategoryStore) List(ctx context.Context) ([]*models.Category, error) {
	rows, err := s.client.Query(ctx, `SELECT id, name FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list_categories", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("scan_category", err)
		}
		categories = append(categories, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("iterate_categories", err)
	}
	return categories, nil
}

// Create inserts a new category.
func (s *CategoryStore) Create(ctx context.Context, category *models.Category) error {
	_, err := s.client.Exec(ctx,
		`INSERT INTO categories (id, name) VALUES ($1, $2)`, category.ID, category.Name)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("insert_category", err)
	}
	return nil
}
