package repository

import (
	"context"

	"github.com/mpaulosky/blogsite/internal/auth"
	"github.com/mpaulosky/blogsite/internal/domain"
)

// ArticleRepository defines the data access contract for articles. It is the
// sole component authorized to read or write articles against the store.
type ArticleRepository interface {
	// GetArticle returns the article whose slug matches exactly and whose
	// published date (UTC, date only) equals dateString in yyyyMMdd form.
	// Empty inputs yield a nil article; a malformed date yields an error
	// wrapping ErrInvalidDate.
	GetArticle(ctx context.Context, dateString, slug string) (*domain.Article, error)
	GetArticles(ctx context.Context) ([]domain.Article, error)
	// GetArticlesWhere returns all articles satisfying the caller-supplied
	// predicate, evaluated in-process after retrieval.
	GetArticlesWhere(ctx context.Context, pred func(domain.Article) bool) ([]domain.Article, error)
	AddArticle(ctx context.Context, a *domain.Article) (*domain.Article, error)
	UpdateArticle(ctx context.Context, a *domain.Article) (*domain.Article, error)
	// ArchiveArticle is a no-op when the slug is unknown.
	ArchiveArticle(ctx context.Context, slug string) error
}

// CategoryRepository defines the data access contract for categories.
type CategoryRepository interface {
	GetCategory(ctx context.Context, id int) (*domain.Category, error)
	GetCategories(ctx context.Context) ([]domain.Category, error)
	GetCategoriesWhere(ctx context.Context, pred func(domain.Category) bool) ([]domain.Category, error)
	AddCategory(ctx context.Context, c *domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, c *domain.Category) (*domain.Category, error)
	// ArchiveCategory is a no-op when the id is unknown.
	ArchiveCategory(ctx context.Context, id int) error
}

// UserRepository defines the data access contract for users and their roles.
// Implementations cache the resolved principal for their own lifetime and
// must therefore be scoped to a single request.
type UserRepository interface {
	GetUser(ctx context.Context, principal *auth.Principal) (*domain.User, error)
	// GetAllUsers returns every user with at most one role name each; users
	// without a role carry the no-role sentinel.
	GetAllUsers(ctx context.Context) ([]domain.User, error)
	// UpdateRoleForUser replaces the user's single role with u.Role. Nil or
	// unknown users are a no-op.
	UpdateRoleForUser(ctx context.Context, u *domain.User) error
}
