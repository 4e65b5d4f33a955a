package handler_test

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mpaulosky/blogsite/internal/auth"
	"github.com/mpaulosky/blogsite/internal/cache"
	"github.com/mpaulosky/blogsite/internal/domain"
	"github.com/mpaulosky/blogsite/internal/middleware"
	"github.com/mpaulosky/blogsite/internal/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubArticleRepo is an in-memory ArticleRepository for handler tests.
type stubArticleRepo struct {
	articles []domain.Article
	err      error
}

func (s *stubArticleRepo) GetArticle(_ context.Context, dateString, slug string) (*domain.Article, error) {
	if s.err != nil {
		return nil, s.err
	}
	if dateString == "" || slug == "" {
		return nil, nil
	}
	theDate, err := time.ParseInLocation(domain.PublishedDateFormat, dateString, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", repository.ErrInvalidDate, dateString, err)
	}
	for i := range s.articles {
		a := s.articles[i]
		if a.Slug != slug || a.PublishedOn == nil {
			continue
		}
		if a.PublishedOn.UTC().Truncate(24*time.Hour).Equal(theDate) {
			return &a, nil
		}
	}
	return nil, nil
}

func (s *stubArticleRepo) GetArticles(context.Context) ([]domain.Article, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.articles, nil
}

func (s *stubArticleRepo) GetArticlesWhere(ctx context.Context, pred func(domain.Article) bool) ([]domain.Article, error) {
	all, err := s.GetArticles(ctx)
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

func (s *stubArticleRepo) AddArticle(_ context.Context, a *domain.Article) (*domain.Article, error) {
	if s.err != nil {
		return nil, s.err
	}
	now := time.Now().UTC()
	a.CreatedOn = now
	a.PublishedOn = &now
	a.ModifiedOn = &now
	s.articles = append(s.articles, *a)
	return a, nil
}

func (s *stubArticleRepo) UpdateArticle(_ context.Context, a *domain.Article) (*domain.Article, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.articles {
		if s.articles[i].Slug == a.Slug {
			now := time.Now().UTC()
			a.ModifiedOn = &now
			s.articles[i] = *a
			return a, nil
		}
	}
	return nil, nil
}

func (s *stubArticleRepo) ArchiveArticle(_ context.Context, slug string) error {
	if s.err != nil {
		return s.err
	}
	for i := range s.articles {
		if s.articles[i].Slug == slug {
			s.articles[i].IsArchived = true
		}
	}
	return nil
}

// stubCategoryRepo is an in-memory CategoryRepository for handler tests.
type stubCategoryRepo struct {
	categories []domain.Category
	nextID     int
	err        error
}

func (s *stubCategoryRepo) GetCategory(_ context.Context, id int) (*domain.Category, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.categories {
		if s.categories[i].ID == id {
			c := s.categories[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (s *stubCategoryRepo) GetCategories(context.Context) ([]domain.Category, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.categories, nil
}

func (s *stubCategoryRepo) GetCategoriesWhere(ctx context.Context, pred func(domain.Category) bool) ([]domain.Category, error) {
	all, err := s.GetCategories(ctx)
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

func (s *stubCategoryRepo) AddCategory(_ context.Context, c *domain.Category) (*domain.Category, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.nextID++
	c.ID = s.nextID
	c.CreatedOn = time.Now().UTC()
	s.categories = append(s.categories, *c)
	return c, nil
}

func (s *stubCategoryRepo) UpdateCategory(_ context.Context, c *domain.Category) (*domain.Category, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.categories {
		if s.categories[i].ID == c.ID {
			now := time.Now().UTC()
			c.ModifiedOn = &now
			s.categories[i] = *c
			return c, nil
		}
	}
	return nil, nil
}

func (s *stubCategoryRepo) ArchiveCategory(_ context.Context, id int) error {
	if s.err != nil {
		return s.err
	}
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories[i].IsArchived = true
		}
	}
	return nil
}

// stubUserRepo is an in-memory UserRepository for handler tests. Role updates
// are recorded for assertion.
type stubUserRepo struct {
	users       []domain.User
	roleUpdates []domain.User
	err         error
}

func (s *stubUserRepo) GetUser(_ context.Context, principal *auth.Principal) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if principal == nil {
		return nil, nil
	}
	for i := range s.users {
		if s.users[i].ID == principal.UserID {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (s *stubUserRepo) GetAllUsers(context.Context) ([]domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.users, nil
}

func (s *stubUserRepo) UpdateRoleForUser(_ context.Context, u *domain.User) error {
	if s.err != nil {
		return s.err
	}
	s.roleUpdates = append(s.roleUpdates, *u)
	return nil
}

func userRepoFactory(s *stubUserRepo) func() repository.UserRepository {
	return func() repository.UserRepository { return s }
}

func disabledCache() *cache.Client {
	return cache.New("", "", 0)
}

// asPrincipal injects a principal the way the auth middleware would.
func asPrincipal(p *auth.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p != nil {
			c.Set(middleware.PrincipalKey, p)
		}
		c.Next()
	}
}
