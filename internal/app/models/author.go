package models

// Author represents a book author, linked to books through the
// author_book association table.
type Author struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
