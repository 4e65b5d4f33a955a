package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mpaulosky/blogsite/internal/domain"
	"github.com/mpaulosky/blogsite/internal/dto"
)

func TestFromArticleFillsDefaultsForMissingAssociations(t *testing.T) {
	published := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	a := domain.Article{
		Slug:        "hello-world",
		Title:       "Hello World",
		PublishedOn: &published,
		AuthorID:    "author-1",
		CategoryID:  1,
	}

	d := dto.FromArticle(a, nil, nil)

	assert.Equal(t, dto.EmptyCategory, d.Category)
	assert.Equal(t, "Unknown Author", d.AuthorName)
	assert.Equal(t, "/articles/20250101/hello-world", d.UrlPath)
}

func TestFromArticleResolvesAssociations(t *testing.T) {
	a := domain.Article{Slug: "hello-world", AuthorID: "author-1", CategoryID: 7}
	cat := domain.Category{ID: 7, CategoryName: "Tech"}
	author := domain.User{ID: "author-1", DisplayName: "Jamie"}

	d := dto.FromArticle(a, &cat, &author)

	assert.Equal(t, 7, d.Category.ID)
	assert.Equal(t, "Tech", d.Category.CategoryName)
	assert.Equal(t, "Jamie", d.AuthorName)
	assert.Empty(t, d.UrlPath, "unpublished article has no canonical path")
}

func TestFromUserSubstitutesNoRoleSentinel(t *testing.T) {
	u := domain.User{ID: "u1", UserName: "jamie", Email: "jamie@example.com"}

	d := dto.FromUser(u)
	assert.Equal(t, domain.NoRoleAssigned, d.Role)

	u.Role = domain.RoleAuthor
	assert.Equal(t, domain.RoleAuthor, dto.FromUser(u).Role)
}
