package domain

import "time"

// Category represents an article category. The identifier is assigned by the
// store on creation.
type Category struct {
	ID           int        `json:"id"`
	CategoryName string     `json:"category_name"`
	CreatedOn    time.Time  `json:"created_on"`
	ModifiedOn   *time.Time `json:"modified_on,omitempty"`
	IsArchived   bool       `json:"is_archived"`
}
