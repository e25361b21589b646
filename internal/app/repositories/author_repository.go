package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oussamab/maktaba/internal/app/models"
	"github.com/oussamab/maktaba/internal/pkg/apperrors"
	"github.com/oussamab/maktaba/internal/pkg/dberrors"
)

// AuthorRepository handles database operations for authors and the
// author_book association table.
type AuthorRepository struct {
	db *pgxpool.Pool
}

// NewAuthorRepository creates a new author repository
func NewAuthorRepository(db *pgxpool.Pool) *AuthorRepository {
	return &AuthorRepository{db: db}
}

// GetAll retrieves all authors
func (r *AuthorRepository) GetAll(ctx context.Context) ([]*models.Author, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM authors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error retrieving authors: %w", err)
	}
	defer rows.Close()

	var authors []*models.Author
	for rows.Next() {
		var author models.Author
		if err := rows.Scan(&author.ID, &author.Name); err != nil {
			return nil, err
		}
		authors = append(authors, &author)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return authors, nil
}

// GetByID retrieves an author by ID
func (r *AuthorRepository) GetByID(ctx context.Context, id int64) (*models.Author, error) {
	var author models.Author
	err := r.db.QueryRow(ctx, `SELECT id, name FROM authors WHERE id = $1`, id).
		Scan(&author.ID, &author.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("error retrieving author: %w", err)
	}

	return &author, nil
}

// Create inserts a new author
func (r *AuthorRepository) Create(ctx context.Context, author *models.Author) error {
	err := r.db.QueryRow(ctx, `INSERT INTO authors (name) VALUES ($1) RETURNING id`, author.Name).
		Scan(&author.ID)
	if err != nil {
		return fmt.Errorf("error creating author: %w", err)
	}

	return nil
}

// GetByBookIDs retrieves the authors of every listed book in one query,
// keyed by book id. The catalog listing uses this to attach authors
// without a per-book round trip.
func (r *AuthorRepository) GetByBookIDs(ctx context.Context, bookIDs []int64) (map[int64][]*models.Author, error) {
	result := make(map[int64][]*models.Author, len(bookIDs))
	if len(bookIDs) == 0 {
		return result, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT ab.book_id, a.id, a.name
		FROM author_book ab
		JOIN authors a ON ab.author_id = a.id
		WHERE ab.book_id = ANY($1)
		ORDER BY a.id`, bookIDs)
	if err != nil {
		return nil, fmt.Errorf("error retrieving book authors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bookID int64
		var author models.Author
		if err := rows.Scan(&bookID, &author.ID, &author.Name); err != nil {
			return nil, err
		}
		result[bookID] = append(result[bookID], &author)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// AttachToBook links an author to a book. Attaching twice is a no-op.
func (r *AuthorRepository) AttachToBook(ctx context.Context, bookID, authorID int64) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO author_book (book_id, author_id) VALUES ($1, $2)`, bookID, authorID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "author_book_pkey") {
			return nil
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrResourceNotFound
		}
		return fmt.Errorf("error attaching author to book: %w", err)
	}

	return nil
}

// DetachFromBook unlinks an author from a book
func (r *AuthorRepository) DetachFromBook(ctx context.Context, bookID, authorID int64) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM author_book WHERE book_id = $1 AND author_id = $2`, bookID, authorID)
	if err != nil {
		return fmt.Errorf("error detaching author from book: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	return nil
}
