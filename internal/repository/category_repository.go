package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpaulosky/blogsite/internal/domain"
)

// PostgresCategoryRepository implements CategoryRepository using PostgreSQL.
type PostgresCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCategoryRepository creates a new PostgresCategoryRepository.
func NewPostgresCategoryRepository(pool *pgxpool.Pool) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{pool: pool}
}

// GetCategory returns the category with the given id, or nil when missing.
func (r *PostgresCategoryRepository) GetCategory(ctx context.Context, id int) (*domain.Category, error) {
	var c domain.Category
	err := r.pool.QueryRow(ctx, `
		SELECT id, category_name, created_on, modified_on, is_archived
		FROM categories
		WHERE id = $1
	`, id).Scan(&c.ID, &c.CategoryName, &c.CreatedOn, &c.ModifiedOn, &c.IsArchived)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query category: %w", err)
	}
	return &c, nil
}

// GetCategories returns all categories in store-native order.
func (r *PostgresCategoryRepository) GetCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, category_name, created_on, modified_on, is_archived
		FROM categories
	`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.CategoryName, &c.CreatedOn, &c.ModifiedOn, &c.IsArchived); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read categories: %w", err)
	}
	return categories, nil
}

// GetCategoriesWhere returns all categories satisfying the caller-supplied
// predicate, evaluated in-process after retrieval.
func (r *PostgresCategoryRepository) GetCategoriesWhere(ctx context.Context, pred func(domain.Category) bool) ([]domain.Category, error) {
	all, err := r.GetCategories(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.Category, 0, len(all))
	for _, c := range all {
		if pred(c) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

// AddCategory persists a new category and returns it with the
// store-generated identifier.
func (r *PostgresCategoryRepository) AddCategory(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	if c.CreatedOn.IsZero() {
		c.CreatedOn = time.Now().UTC()
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO categories (category_name, created_on, modified_on, is_archived)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, c.CategoryName, c.CreatedOn, c.ModifiedOn, c.IsArchived).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}

	return c, nil
}

// UpdateCategory replaces the mutable fields of a category and refreshes
// ModifiedOn.
func (r *PostgresCategoryRepository) UpdateCategory(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	now := time.Now().UTC()
	c.ModifiedOn = &now

	tag, err := r.pool.Exec(ctx, `
		UPDATE categories
		SET category_name = $2, modified_on = $3, is_archived = $4
		WHERE id = $1
	`, c.ID, c.CategoryName, c.ModifiedOn, c.IsArchived)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}

	return c, nil
}

// ArchiveCategory marks the category archived and refreshes ModifiedOn. A
// missing id is a no-op. Archiving never cascades to articles.
func (r *PostgresCategoryRepository) ArchiveCategory(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE categories
		SET is_archived = TRUE, modified_on = $2
		WHERE id = $1
	`, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("archive category: %w", err)
	}
	return nil
}
