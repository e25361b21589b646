package models

import "time"

// SearchHistoryEntry records a title search a student ran against the
// catalog. Written as a side effect of the book list endpoint.
type SearchHistoryEntry struct {
	ID         int64     `json:"id" db:"id"`
	StudentID  int64     `json:"student_id" db:"student_id"`
	SearchTerm string    `json:"search_term" db:"search_term"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
