package models

import "time"

// Book represents a book in the catalog. Quantity is the number of copies
// currently available on the shelf; it only moves through the borrow and
// return operations.
type Book struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Quantity    int       `json:"quantity" db:"quantity"`
	PublishYear *int      `json:"publish_year,omitempty" db:"publish_year"`
	CategoryID  int64     `json:"category_id" db:"category_id"`
	File        *string   `json:"file,omitempty" db:"file"`
	QRCode      string    `json:"qr_code" db:"qr_code"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
	// Relational fields
	Category *Category `json:"category,omitempty"`
	Authors  []*Author `json:"authors,omitempty"`
}
