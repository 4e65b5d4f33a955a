// Package dto holds transport-safe view models and mapping from persisted
// entities. Missing associations map to defaults, never to nils.
package dto

import (
	"time"

	"github.com/mpaulosky/blogsite/internal/domain"
)

// CategoryDTO is the transport representation of a category.
type CategoryDTO struct {
	ID           int        `json:"id"`
	CategoryName string     `json:"category_name"`
	CreatedOn    time.Time  `json:"created_on"`
	ModifiedOn   *time.Time `json:"modified_on,omitempty"`
	IsArchived   bool       `json:"is_archived"`
}

// EmptyCategory is the default used when an article's category cannot be
// resolved.
var EmptyCategory = CategoryDTO{CategoryName: "Uncategorized"}

// FromCategory maps a category entity to its DTO.
func FromCategory(c domain.Category) CategoryDTO {
	return CategoryDTO{
		ID:           c.ID,
		CategoryName: c.CategoryName,
		CreatedOn:    c.CreatedOn,
		ModifiedOn:   c.ModifiedOn,
		IsArchived:   c.IsArchived,
	}
}

// ArticleDTO is the transport representation of an article with its
// associations resolved.
type ArticleDTO struct {
	Slug          string      `json:"slug"`
	Title         string      `json:"title"`
	Introduction  string      `json:"introduction"`
	Content       string      `json:"content"`
	CoverImageURL string      `json:"cover_image_url,omitempty"`
	UrlPath       string      `json:"url_path,omitempty"`
	CreatedOn     time.Time   `json:"created_on"`
	IsPublished   bool        `json:"is_published"`
	PublishedOn   *time.Time  `json:"published_on,omitempty"`
	ModifiedOn    *time.Time  `json:"modified_on,omitempty"`
	IsArchived    bool        `json:"is_archived"`
	AuthorID      string      `json:"author_id"`
	AuthorName    string      `json:"author_name"`
	Category      CategoryDTO `json:"category"`
}

// FromArticle maps an article entity to its DTO. The category and author may
// be nil when the association could not be resolved; defaults are filled in.
func FromArticle(a domain.Article, category *domain.Category, author *domain.User) ArticleDTO {
	d := ArticleDTO{
		Slug:         a.Slug,
		Title:        a.Title,
		Introduction: a.Introduction,
		Content:      a.Content,
		UrlPath:      a.CanonicalPath(),
		CreatedOn:    a.CreatedOn,
		IsPublished:  a.IsPublished,
		PublishedOn:  a.PublishedOn,
		ModifiedOn:   a.ModifiedOn,
		IsArchived:   a.IsArchived,
		AuthorID:     a.AuthorID,
		AuthorName:   "Unknown Author",
		Category:     EmptyCategory,
	}
	if a.CoverImageURL != nil {
		d.CoverImageURL = *a.CoverImageURL
	}
	if category != nil {
		d.Category = FromCategory(*category)
	}
	if author != nil {
		d.AuthorName = author.DisplayName
	}
	return d
}

// UserDTO is the transport representation of a user. Password material never
// appears here.
type UserDTO struct {
	ID             string `json:"id"`
	UserName       string `json:"user_name"`
	Email          string `json:"email"`
	DisplayName    string `json:"display_name"`
	EmailConfirmed bool   `json:"email_confirmed"`
	Role           string `json:"role"`
}

// FromUser maps a user entity to its DTO, substituting the no-role sentinel
// when the user has no role assigned.
func FromUser(u domain.User) UserDTO {
	role := u.Role
	if role == "" {
		role = domain.NoRoleAssigned
	}
	return UserDTO{
		ID:             u.ID,
		UserName:       u.UserName,
		Email:          u.Email,
		DisplayName:    u.DisplayName,
		EmailConfirmed: u.EmailConfirmed,
		Role:           role,
	}
}
