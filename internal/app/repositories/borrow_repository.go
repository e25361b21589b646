package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/oussamab/maktaba/internal/app/models"
	"github.com/oussamab/maktaba/internal/db"
	"github.com/oussamab/maktaba/internal/pkg/apperrors"
	"github.com/oussamab/maktaba/internal/pkg/logger"
)

// BorrowRepository owns the borrow ledger. The two state transitions
// (borrow, return) each pair a ledger write with a quantity change on the
// book row, so both run inside a single transaction with the book row
// locked and every precondition re-checked under the lock.
type BorrowRepository struct {
	db *db.PostgresDB
}

// NewBorrowRepository creates a new borrow repository
func NewBorrowRepository(database *db.PostgresDB) *BorrowRepository {
	return &BorrowRepository{db: database}
}

// FindActive retrieves the active borrow record for a (book, student)
// pair, or nil when the student does not currently hold the book.
func (r *BorrowRepository) FindActive(ctx context.Context, bookID, studentID int64) (*models.BorrowRecord, error) {
	sql, args, err := squirrel.Select("id", "book_id", "student_id", "borrow_date", "return_date", "borrow_status", "created_at", "updated_at").
		From("borrows").
		Where("book_id = ?", bookID).
		Where("student_id = ?", studentID).
		Where("return_date IS NULL").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var record models.BorrowRecord
	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(
		&record.ID, &record.BookID, &record.StudentID, &record.BorrowDate,
		&record.ReturnDate, &record.Status, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving active borrow: %w", err)
	}

	return &record, nil
}

// HasActiveForBook reports whether any copy of a book is currently on
// loan. The delete guard in the catalog depends on this.
func (r *BorrowRepository) HasActiveForBook(ctx context.Context, bookID int64) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM borrows WHERE book_id = $1 AND return_date IS NULL)`,
		bookID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking active borrows: %w", err)
	}

	return exists, nil
}

// Borrow atomically inserts a borrow record and decrements the book's
// quantity. The availability and duplicate checks run again inside the
// transaction: two concurrent borrowers may both have passed the
// service-level check before either commits.
func (r *BorrowRepository) Borrow(ctx context.Context, bookID, studentID int64) (*models.BorrowRecord, error) {
	var record models.BorrowRecord

	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var quantity int
		err := tx.QueryRow(ctx, `SELECT quantity FROM books WHERE id = $1 FOR UPDATE`, bookID).Scan(&quantity)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrBookNotFound
			}
			return fmt.Errorf("error locking book row: %w", err)
		}

		if quantity <= 0 {
			return apperrors.ErrBookNotAvailable
		}

		var hasActive bool
		err = tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM borrows WHERE book_id = $1 AND student_id = $2 AND return_date IS NULL)`,
			bookID, studentID).Scan(&hasActive)
		if err != nil {
			return fmt.Errorf("error checking existing borrow: %w", err)
		}

		if hasActive {
			return apperrors.ErrAlreadyBorrowed
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO borrows (book_id, student_id, borrow_date, borrow_status)
			VALUES ($1, $2, CURRENT_TIMESTAMP, $3)
			RETURNING id, book_id, student_id, borrow_date, return_date, borrow_status, created_at, updated_at`,
			bookID, studentID, models.BorrowStatusBorrowed).Scan(
			&record.ID, &record.BookID, &record.StudentID, &record.BorrowDate,
			&record.ReturnDate, &record.Status, &record.CreatedAt, &record.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("error inserting borrow record: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE books SET quantity = quantity - 1, updated_at = CURRENT_TIMESTAMP WHERE id = $1`,
			bookID); err != nil {
			return fmt.Errorf("error decrementing book quantity: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("bookId", bookID).Int64("studentId", studentID).Msg("Book borrowed")
	return &record, nil
}

// Return atomically closes the active borrow record and increments the
// book's quantity.
func (r *BorrowRepository) Return(ctx context.Context, bookID, studentID int64) (*models.BorrowRecord, error) {
	var record models.BorrowRecord

	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var borrowID int64
		err := tx.QueryRow(ctx, `
			SELECT id FROM borrows
			WHERE book_id = $1 AND student_id = $2 AND return_date IS NULL
			FOR UPDATE`,
			bookID, studentID).Scan(&borrowID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNoActiveBorrow
			}
			return fmt.Errorf("error locking borrow record: %w", err)
		}

		err = tx.QueryRow(ctx, `
			UPDATE borrows
			SET return_date = CURRENT_TIMESTAMP, borrow_status = $1, updated_at = CURRENT_TIMESTAMP
			WHERE id = $2
			RETURNING id, book_id, student_id, borrow_date, return_date, borrow_status, created_at, updated_at`,
			models.BorrowStatusReturned, borrowID).Scan(
			&record.ID, &record.BookID, &record.StudentID, &record.BorrowDate,
			&record.ReturnDate, &record.Status, &record.CreatedAt, &record.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("error closing borrow record: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE books SET quantity = quantity + 1, updated_at = CURRENT_TIMESTAMP WHERE id = $1`,
			bookID); err != nil {
			return fmt.Errorf("error incrementing book quantity: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("bookId", bookID).Int64("studentId", studentID).Msg("Book returned")
	return &record, nil
}

// HistoryForStudent retrieves every borrow record of a student, newest
// borrow first, with the book title joined in.
func (r *BorrowRepository) HistoryForStudent(ctx context.Context, studentID int64) ([]*models.BorrowRecord, error) {
	sql, args, err := squirrel.Select(
		"br.id", "br.book_id", "br.student_id", "br.borrow_date", "br.return_date",
		"br.borrow_status", "br.created_at", "br.updated_at", "b.title",
	).From("borrows br").
		Join("books b ON br.book_id = b.id").
		Where("br.student_id = ?", studentID).
		OrderBy("br.borrow_date DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var records []*models.BorrowRecord
	for rows.Next() {
		var record models.BorrowRecord
		if err := rows.Scan(
			&record.ID, &record.BookID, &record.StudentID, &record.BorrowDate,
			&record.ReturnDate, &record.Status, &record.CreatedAt, &record.UpdatedAt,
			&record.BookTitle,
		); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
