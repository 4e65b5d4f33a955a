package domain

import (
	"regexp"
	"strings"
	"time"
)

// Article represents an article entity in the system. Articles are keyed by
// slug and are never physically deleted; archiving is the deletion substitute.
type Article struct {
	Slug          string     `json:"slug"`
	Title         string     `json:"title"`
	Introduction  string     `json:"introduction"`
	Content       string     `json:"content"`
	CoverImageURL *string    `json:"cover_image_url,omitempty"`
	CreatedOn     time.Time  `json:"created_on"`
	IsPublished   bool       `json:"is_published"`
	PublishedOn   *time.Time `json:"published_on,omitempty"`
	ModifiedOn    *time.Time `json:"modified_on,omitempty"`
	IsArchived    bool       `json:"is_archived"`
	AuthorID      string     `json:"author_id"`
	CategoryID    int        `json:"category_id"`
}

// PublishedDateFormat is the date layout used in article URLs.
const PublishedDateFormat = "20060102"

// CanonicalPath returns the canonical URL path for the article, built from
// the published date and slug. Empty when the article has not been published.
func (a Article) CanonicalPath() string {
	if a.PublishedOn == nil {
		return ""
	}
	return "/articles/" + a.PublishedOn.UTC().Format(PublishedDateFormat) + "/" + a.Slug
}

var (
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSeparator = regexp.MustCompile(`[\s-]+`)
)

// Slugify derives a URL-safe slug from an article title.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = nonSlugChars.ReplaceAllString(s, "")
	s = slugSeparator.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
