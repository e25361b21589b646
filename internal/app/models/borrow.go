package models

import "time"

// BorrowStatus is the lifecycle state of a borrow record
type BorrowStatus string

const (
	BorrowStatusBorrowed BorrowStatus = "borrowed"
	BorrowStatusReturned BorrowStatus = "returned"
)

// BorrowRecord is one row of the borrow ledger: a student holding (or
// having held) one copy of a book. A record with a nil ReturnDate is an
// active borrow; at most one active record may exist per (book, student).
// Returning never deletes a record; settled records are removed only when
// their book is deleted from the catalog.
type BorrowRecord struct {
	ID         int64        `json:"id" db:"id"`
	BookID     int64        `json:"book_id" db:"book_id"`
	StudentID  int64        `json:"student_id" db:"student_id"`
	BorrowDate time.Time    `json:"borrow_date" db:"borrow_date"`
	ReturnDate *time.Time   `json:"return_date,omitempty" db:"return_date"`
	Status     BorrowStatus `json:"status" db:"borrow_status"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at" db:"updated_at"`
	// Relational fields
	BookTitle string `json:"book_title,omitempty"`
}
