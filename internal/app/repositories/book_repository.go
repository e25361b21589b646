package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oussamab/maktaba/internal/app/models"
	"github.com/oussamab/maktaba/internal/db"
	"github.com/oussamab/maktaba/internal/pkg/apperrors"
	"github.com/oussamab/maktaba/internal/pkg/helpers"
	"github.com/oussamab/maktaba/internal/pkg/logger"
	"github.com/oussamab/maktaba/internal/pkg/qrtoken"
)

// GetAllBooksParams holds filtering and pagination parameters for the catalog listing.
type GetAllBooksParams struct {
	// CategoryName filters by substring match against category names.
	CategoryName *string
	// Search filters by substring match against book titles.
	Search *string
	Page   int
	Size   int
}

// BookRepository handles database operations for books
type BookRepository struct {
	db *db.PostgresDB
}

// NewBookRepository creates a new book repository
func NewBookRepository(database *db.PostgresDB) *BookRepository {
	return &BookRepository{db: database}
}

func (r *BookRepository) pool() *pgxpool.Pool {
	return r.db.Pool
}

// Common select query builder for books with their category joined
func selectBookQuery() squirrel.SelectBuilder {
	return squirrel.Select(
		"b.id", "b.title", "b.quantity", "b.publish_year", "b.category_id",
		"b.file", "b.qr_code", "b.created_at", "b.updated_at",
		"c.id", "c.name",
	).From("books b").
		Join("categories c ON b.category_id = c.id").
		PlaceholderFormat(squirrel.Dollar)
}

func scanBook(row pgx.Row) (*models.Book, error) {
	var book models.Book
	var category models.Category
	err := row.Scan(
		&book.ID, &book.Title, &book.Quantity, &book.PublishYear, &book.CategoryID,
		&book.File, &book.QRCode, &book.CreatedAt, &book.UpdatedAt,
		&category.ID, &category.Name,
	)
	if err != nil {
		return nil, err
	}
	book.Category = &category
	return &book, nil
}

// GetAll retrieves books with optional category/title filtering and pagination.
// The category filter matches every category whose name contains the given
// substring, so filtering by "Admin" returns books from both "Admin" and
// "Administration".
func (r *BookRepository) GetAll(ctx context.Context, params GetAllBooksParams) ([]*models.Book, int64, error) {
	query := selectBookQuery().Column("COUNT(*) OVER()")

	if params.CategoryName != nil {
		query = query.Where("c.name ILIKE ?", "%"+*params.CategoryName+"%")
	}
	if params.Search != nil {
		query = query.Where("b.title ILIKE ?", "%"+*params.Search+"%")
	}

	offset, limit := helpers.CalculateOffsetLimit(params.Page, params.Size)
	query = query.OrderBy("b.id").Limit(uint64(limit)).Offset(offset)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.pool().Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var books []*models.Book
	var total int64
	for rows.Next() {
		var book models.Book
		var category models.Category
		if err := rows.Scan(
			&book.ID, &book.Title, &book.Quantity, &book.PublishYear, &book.CategoryID,
			&book.File, &book.QRCode, &book.CreatedAt, &book.UpdatedAt,
			&category.ID, &category.Name,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		book.Category = &category
		books = append(books, &book)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

// GetAllUnpaged retrieves the complete catalog with categories joined.
func (r *BookRepository) GetAllUnpaged(ctx context.Context) ([]*models.Book, error) {
	sql, args, err := selectBookQuery().OrderBy("b.id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.pool().Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var books []*models.Book
	for rows.Next() {
		var book models.Book
		var category models.Category
		if err := rows.Scan(
			&book.ID, &book.Title, &book.Quantity, &book.PublishYear, &book.CategoryID,
			&book.File, &book.QRCode, &book.CreatedAt, &book.UpdatedAt,
			&category.ID, &category.Name,
		); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		book.Category = &category
		books = append(books, &book)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return books, nil
}

// GetByCategoryID retrieves every book of one category
func (r *BookRepository) GetByCategoryID(ctx context.Context, categoryID int64) ([]*models.Book, error) {
	sql, args, err := selectBookQuery().Where("b.category_id = ?", categoryID).OrderBy("b.id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.pool().Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var books []*models.Book
	for rows.Next() {
		var book models.Book
		var category models.Category
		if err := rows.Scan(
			&book.ID, &book.Title, &book.Quantity, &book.PublishYear, &book.CategoryID,
			&book.File, &book.QRCode, &book.CreatedAt, &book.UpdatedAt,
			&category.ID, &category.Name,
		); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		book.Category = &category
		books = append(books, &book)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return books, nil
}

// GetByID retrieves a book by ID with its category joined
func (r *BookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	sql, args, err := selectBookQuery().Where("b.id = ?", id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	book, err := scanBook(r.pool().QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBookNotFound
		}
		return nil, fmt.Errorf("error retrieving book: %w", err)
	}

	return book, nil
}

// GetByQRCodeLike retrieves the first book whose stored qr_code contains
// the given token. The return flow depends on this containment match; see
// the borrow service for why it is not exact equality.
func (r *BookRepository) GetByQRCodeLike(ctx context.Context, token string) (*models.Book, error) {
	sql, args, err := selectBookQuery().
		Where("b.qr_code LIKE ?", "%"+token+"%").
		OrderBy("b.id").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	book, err := scanBook(r.pool().QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBookNotFound
		}
		return nil, fmt.Errorf("error retrieving book by qr code: %w", err)
	}

	return book, nil
}

// Create inserts a new book and assigns its QR token. The token embeds the
// generated id, so the insert and the token assignment run in one
// transaction.
func (r *BookRepository) Create(ctx context.Context, book *models.Book) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		insertSQL, args, err := squirrel.Insert("books").
			Columns("title", "quantity", "publish_year", "category_id", "file", "qr_code").
			Values(book.Title, book.Quantity, book.PublishYear, book.CategoryID, book.File, "").
			Suffix("RETURNING id, created_at, updated_at").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}

		if err := tx.QueryRow(ctx, insertSQL, args...).Scan(&book.ID, &book.CreatedAt, &book.UpdatedAt); err != nil {
			return fmt.Errorf("error inserting book: %w", err)
		}

		book.QRCode = qrtoken.Generate(book.ID)
		if _, err := tx.Exec(ctx, `UPDATE books SET qr_code = $1 WHERE id = $2`, book.QRCode, book.ID); err != nil {
			return fmt.Errorf("error assigning qr code: %w", err)
		}

		return nil
	})
}

// Update updates an existing book. The qr_code column is deliberately left
// out: tokens printed on physical copies must stay valid.
func (r *BookRepository) Update(ctx context.Context, book *models.Book) error {
	sql, args, err := squirrel.Update("books").
		Set("title", book.Title).
		Set("quantity", book.Quantity).
		Set("publish_year", book.PublishYear).
		Set("category_id", book.CategoryID).
		Set("file", book.File).
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where("id = ?", book.ID).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	cmdTag, err := r.pool().Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating book: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrBookNotFound
	}

	return nil
}

// UpdateFile sets the stored file reference of a book
func (r *BookRepository) UpdateFile(ctx context.Context, id int64, filePath string) error {
	cmdTag, err := r.pool().Exec(ctx,
		`UPDATE books SET file = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`, filePath, id)
	if err != nil {
		return fmt.Errorf("error updating book file: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrBookNotFound
	}

	return nil
}

// Delete removes a book. Association rows in author_book and settled rows
// in borrows go with it; the service rejects the delete while any borrow is
// still active.
func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM author_book WHERE book_id = $1`, id); err != nil {
			return fmt.Errorf("error deleting book authors: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM borrows WHERE book_id = $1`, id); err != nil {
			return fmt.Errorf("error deleting book borrow records: %w", err)
		}

		cmdTag, err := tx.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("error deleting book: %w", err)
		}

		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrBookNotFound
		}

		logger.Debug().Int64("bookId", id).Msg("Book deleted")
		return nil
	})
}
