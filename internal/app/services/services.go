// Package services holds the business logic between the HTTP controllers
// and the repositories. Services accept small store interfaces rather than
// concrete repositories so the workflow rules can be tested without a
// database; the bootstrap package wires in the pgx-backed implementations.
package services
