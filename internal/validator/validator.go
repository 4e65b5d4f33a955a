// Package validator provides explicit validation for domain entities,
// invoked before persistence. Errors are keyed by field name.
package validator

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/mpaulosky/blogsite/internal/domain"
)

var (
	slugRegex  = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	validRoles = []interface{}{domain.RoleAdmin, domain.RoleAuthor, domain.RoleUser}
)

// Validator provides validation methods for domain entities.
type Validator struct{}

// NewValidator creates a new Validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateArticle validates an Article entity.
func (v *Validator) ValidateArticle(a *domain.Article) error {
	err := validation.ValidateStruct(a,
		validation.Field(&a.Slug,
			validation.Required.Error("slug_required"),
			validation.Length(1, 300).Error("slug_too_long"),
			validation.Match(slugRegex).Error("invalid_slug_format"),
		),
		validation.Field(&a.Title,
			validation.Required.Error("title_required"),
			validation.Length(1, 200).Error("title_too_long"),
		),
		validation.Field(&a.Introduction,
			validation.Required.Error("introduction_required"),
			validation.Length(1, 200).Error("introduction_too_long"),
		),
		validation.Field(&a.Content,
			validation.Required.Error("content_required"),
		),
		validation.Field(&a.AuthorID,
			validation.Required.Error("author_id_required"),
		),
		validation.Field(&a.CategoryID,
			validation.Min(1).Error("category_id_required"),
		),
	)
	if err != nil {
		return err
	}

	if a.CoverImageURL != nil && *a.CoverImageURL != "" {
		if err := validation.Validate(*a.CoverImageURL, is.URL.Error("invalid_cover_image_url")); err != nil {
			return validation.Errors{"cover_image_url": err}
		}
	}

	return nil
}

// ValidateCategory validates a Category entity.
func (v *Validator) ValidateCategory(c *domain.Category) error {
	return validation.ValidateStruct(c,
		validation.Field(&c.CategoryName,
			validation.Required.Error("category_name_required"),
			validation.Length(1, 80).Error("category_name_too_long"),
		),
	)
}

// ValidateUser validates a User entity.
func (v *Validator) ValidateUser(u *domain.User) error {
	err := validation.ValidateStruct(u,
		validation.Field(&u.Email,
			validation.Required.Error("email_required"),
			is.Email.Error("invalid_email_format"),
		),
		validation.Field(&u.UserName,
			validation.Required.Error("user_name_required"),
		),
		validation.Field(&u.DisplayName,
			validation.Required.Error("display_name_required"),
		),
	)
	if err != nil {
		return err
	}

	// Role is optional; when present it must be one of the fixed set.
	if u.Role != "" {
		if err := validation.Validate(u.Role, validation.In(validRoles...).Error("invalid_role")); err != nil {
			return validation.Errors{"role": err}
		}
	}

	return nil
}
