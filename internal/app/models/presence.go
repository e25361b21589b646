package models

import "time"

// PresenceLogEntry records a student scanning in and out of the library.
// An entry with a nil CheckOut means the student is currently present,
// which is the precondition for borrowing and returning books.
type PresenceLogEntry struct {
	ID        int64      `json:"id" db:"id"`
	StudentID int64      `json:"student_id" db:"student_id"`
	CheckIn   time.Time  `json:"check_in" db:"check_in"`
	CheckOut  *time.Time `json:"check_out,omitempty" db:"check_out"`
}
