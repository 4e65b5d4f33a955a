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

const articleColumns = `slug, title, introduction, content, cover_image_url,
	created_on, is_published, published_on, modified_on, is_archived,
	author_id, category_id`

// ErrInvalidDate marks a published date string that does not parse as
// yyyyMMdd. Callers can use errors.Is to tell it apart from store failures.
var ErrInvalidDate = errors.New("invalid published date")

// PostgresArticleRepository implements ArticleRepository using PostgreSQL.
type PostgresArticleRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresArticleRepository creates a new PostgresArticleRepository.
func NewPostgresArticleRepository(pool *pgxpool.Pool) *PostgresArticleRepository {
	return &PostgresArticleRepository{pool: pool}
}

// GetArticle returns the article matching the slug whose published date
// (UTC, date only) equals dateString. Empty inputs return nil without an
// error; a malformed date string returns an error wrapping ErrInvalidDate.
func (r *PostgresArticleRepository) GetArticle(ctx context.Context, dateString, slug string) (*domain.Article, error) {
	if dateString == "" || slug == "" {
		return nil, nil
	}

	theDate, err := time.ParseInLocation(domain.PublishedDateFormat, dateString, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidDate, dateString, err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+articleColumns+`
		FROM articles
		WHERE slug = $1
	`, slug)
	if err != nil {
		return nil, fmt.Errorf("query article: %w", err)
	}
	defer rows.Close()

	candidates, err := scanArticles(rows)
	if err != nil {
		return nil, err
	}

	wantY, wantM, wantD := theDate.Date()
	for i := range candidates {
		a := candidates[i]
		if a.PublishedOn == nil {
			continue
		}
		y, m, d := a.PublishedOn.UTC().Date()
		if y == wantY && m == wantM && d == wantD {
			return &a, nil
		}
	}

	return nil, nil
}

// GetArticles returns all articles in store-native order.
func (r *PostgresArticleRepository) GetArticles(ctx context.Context) ([]domain.Article, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+articleColumns+` FROM articles`)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

// GetArticlesWhere returns all articles satisfying the caller-supplied
// predicate, evaluated in-process after retrieval.
func (r *PostgresArticleRepository) GetArticlesWhere(ctx context.Context, pred func(domain.Article) bool) ([]domain.Article, error) {
	all, err := r.GetArticles(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.Article, 0, len(all))
	for _, a := range all {
		if pred(a) {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

// AddArticle persists a new article. CreatedOn, PublishedOn and ModifiedOn
// are set to the current time, overwriting caller-supplied values.
func (r *PostgresArticleRepository) AddArticle(ctx context.Context, a *domain.Article) (*domain.Article, error) {
	now := time.Now().UTC()
	a.CreatedOn = now
	a.PublishedOn = &now
	a.ModifiedOn = &now

	_, err := r.pool.Exec(ctx, `
		INSERT INTO articles (`+articleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, a.Slug, a.Title, a.Introduction, a.Content, a.CoverImageURL,
		a.CreatedOn, a.IsPublished, a.PublishedOn, a.ModifiedOn, a.IsArchived,
		a.AuthorID, a.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("insert article: %w", err)
	}

	return a, nil
}

// UpdateArticle replaces the mutable fields of an article and refreshes
// ModifiedOn. The slug and creation time are immutable.
func (r *PostgresArticleRepository) UpdateArticle(ctx context.Context, a *domain.Article) (*domain.Article, error) {
	now := time.Now().UTC()
	a.ModifiedOn = &now

	tag, err := r.pool.Exec(ctx, `
		UPDATE articles
		SET title = $2, introduction = $3, content = $4, cover_image_url = $5,
		    is_published = $6, published_on = $7, modified_on = $8,
		    is_archived = $9, author_id = $10, category_id = $11
		WHERE slug = $1
	`, a.Slug, a.Title, a.Introduction, a.Content, a.CoverImageURL,
		a.IsPublished, a.PublishedOn, a.ModifiedOn, a.IsArchived,
		a.AuthorID, a.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}

	return a, nil
}

// ArchiveArticle marks the article archived and refreshes ModifiedOn. A
// missing slug is a no-op; repeated calls leave the same end state.
func (r *PostgresArticleRepository) ArchiveArticle(ctx context.Context, slug string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE articles
		SET is_archived = TRUE, modified_on = $2
		WHERE slug = $1
	`, slug, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("archive article: %w", err)
	}
	return nil
}

func scanArticles(rows pgx.Rows) ([]domain.Article, error) {
	var articles []domain.Article
	for rows.Next() {
		var a domain.Article
		if err := rows.Scan(&a.Slug, &a.Title, &a.Introduction, &a.Content,
			&a.CoverImageURL, &a.CreatedOn, &a.IsPublished, &a.PublishedOn,
			&a.ModifiedOn, &a.IsArchived, &a.AuthorID, &a.CategoryID); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("read articles: %w", err)
	}
	return articles, nil
}
