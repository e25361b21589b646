package models

// Category represents a book category. Names are free text and not
// guaranteed unique; the catalog filter matches them by substring.
type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
