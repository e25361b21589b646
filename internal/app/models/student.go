package models

import "time"

// Student represents a library patron. Accounts and sessions are managed
// by the campus auth service; this backend only resolves the id carried
// in the session token.
type Student struct {
	ID        int64     `json:"id" db:"id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
