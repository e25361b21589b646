package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/oussamab/maktaba/internal/app/models"
	"github.com/oussamab/maktaba/internal/app/models/dto"
	"github.com/oussamab/maktaba/internal/app/repositories"
	"github.com/oussamab/maktaba/internal/pkg/apperrors"
	"github.com/oussamab/maktaba/internal/pkg/logger"
)

// BookStore is the catalog persistence surface the book service needs
type BookStore interface {
	GetAll(ctx context.Context, params repositories.GetAllBooksParams) ([]*models.Book, int64, error)
	GetAllUnpaged(ctx context.Context) ([]*models.Book, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, book *models.Book) error
	Update(ctx context.Context, book *models.Book) error
	UpdateFile(ctx context.Context, id int64, filePath string) error
	Delete(ctx context.Context, id int64) error
}

// CategoryChecker validates category references for book writes
type CategoryChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// AuthorLoader attaches authors to listed books
type AuthorLoader interface {
	GetByBookIDs(ctx context.Context, bookIDs []int64) (map[int64][]*models.Author, error)
}

// ActiveLoanChecker guards book deletion against copies still on loan
type ActiveLoanChecker interface {
	HasActiveForBook(ctx context.Context, bookID int64) (bool, error)
}

// SearchRecorder stores catalog search terms per student
type SearchRecorder interface {
	Record(ctx context.Context, studentID int64, term string) error
	RecentForStudent(ctx context.Context, studentID int64, limit int) ([]*models.SearchHistoryEntry, error)
}

// ListBooksParams are the caller-facing filters of the catalog listing
type ListBooksParams struct {
	CategoryName *string
	Search       *string
	Page         int
	Size         int
}

// BookService handles catalog management
type BookService struct {
	books      BookStore
	categories CategoryChecker
	authors    AuthorLoader
	loans      ActiveLoanChecker
	searches   SearchRecorder
}

// NewBookService creates a new book service instance
func NewBookService(books BookStore, categories CategoryChecker, authors AuthorLoader, loans ActiveLoanChecker, searches SearchRecorder) *BookService {
	return &BookService{
		books:      books,
		categories: categories,
		authors:    authors,
		loans:      loans,
		searches:   searches,
	}
}

// validateBook checks the required fields of a create/update request
func (s *BookService) validateBook(ctx context.Context, title string, quantity int, categoryID int64) error {
	if strings.TrimSpace(title) == "" {
		return apperrors.NewValidationError("title cannot be empty")
	}

	if quantity < 0 {
		return apperrors.NewValidationError("quantity cannot be negative")
	}

	if categoryID <= 0 {
		return apperrors.NewValidationError("category_id must be positive")
	}

	exists, err := s.categories.Exists(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("error checking category: %w", err)
	}
	if !exists {
		return apperrors.NewValidationError("category does not exist")
	}

	return nil
}

// attachAuthors loads and attaches the authors of the given books
func (s *BookService) attachAuthors(ctx context.Context, books []*models.Book) error {
	ids := make([]int64, 0, len(books))
	for _, book := range books {
		ids = append(ids, book.ID)
	}

	byBook, err := s.authors.GetByBookIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("error loading authors: %w", err)
	}

	for _, book := range books {
		book.Authors = byBook[book.ID]
	}

	return nil
}

// ListBooks retrieves a catalog page with category and author associations.
// When a search term is present the term is recorded in the acting
// student's search history; a failure there only logs, the listing itself
// must not break.
func (s *BookService) ListBooks(ctx context.Context, studentID int64, params ListBooksParams) ([]*models.Book, int64, error) {
	books, total, err := s.books.GetAll(ctx, repositories.GetAllBooksParams{
		CategoryName: params.CategoryName,
		Search:       params.Search,
		Page:         params.Page,
		Size:         params.Size,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("error retrieving books: %w", err)
	}

	if err := s.attachAuthors(ctx, books); err != nil {
		return nil, 0, err
	}

	if params.Search != nil && strings.TrimSpace(*params.Search) != "" && studentID > 0 {
		if err := s.searches.Record(ctx, studentID, strings.TrimSpace(*params.Search)); err != nil {
			logger.Warn().Err(err).Int64("studentId", studentID).Msg("Failed to record search term")
		}
	}

	return books, total, nil
}

// ListAllBooks retrieves the complete catalog with associations
func (s *BookService) ListAllBooks(ctx context.Context) ([]*models.Book, error) {
	books, err := s.books.GetAllUnpaged(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving books: %w", err)
	}

	if len(books) == 0 {
		return nil, apperrors.NewResourceNotFoundError("no books available")
	}

	if err := s.attachAuthors(ctx, books); err != nil {
		return nil, err
	}

	return books, nil
}

// GetBookByID retrieves one book with its category and authors
func (s *BookService) GetBookByID(ctx context.Context, id int64) (*models.Book, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.attachAuthors(ctx, []*models.Book{book}); err != nil {
		return nil, err
	}

	return book, nil
}

// CreateBook validates and inserts a new catalog entry. The QR token is
// assigned during the insert and returned on the created record.
func (s *BookService) CreateBook(ctx context.Context, req *dto.CreateBookRequest) (*models.Book, error) {
	if err := s.validateBook(ctx, req.Title, *req.Quantity, req.CategoryID); err != nil {
		return nil, err
	}

	book := &models.Book{
		Title:       strings.TrimSpace(req.Title),
		Quantity:    *req.Quantity,
		PublishYear: req.PublishYear,
		CategoryID:  req.CategoryID,
		File:        req.File,
	}

	if err := s.books.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("error creating book: %w", err)
	}

	logger.Info().Int64("bookId", book.ID).Str("title", book.Title).Msg("Book created")
	return book, nil
}

// UpdateBook validates and updates an existing catalog entry. The stored
// qr_code is never touched.
func (s *BookService) UpdateBook(ctx context.Context, id int64, req *dto.UpdateBookRequest) (*models.Book, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validateBook(ctx, req.Title, *req.Quantity, req.CategoryID); err != nil {
		return nil, err
	}

	book.Title = strings.TrimSpace(req.Title)
	book.Quantity = *req.Quantity
	book.PublishYear = req.PublishYear
	book.CategoryID = req.CategoryID
	book.File = req.File
	book.Category = nil

	if err := s.books.Update(ctx, book); err != nil {
		return nil, err
	}

	return s.GetBookByID(ctx, id)
}

// DeleteBook removes a book unless a copy is still on loan
func (s *BookService) DeleteBook(ctx context.Context, id int64) error {
	if _, err := s.books.GetByID(ctx, id); err != nil {
		return err
	}

	onLoan, err := s.loans.HasActiveForBook(ctx, id)
	if err != nil {
		return fmt.Errorf("error checking active borrows: %w", err)
	}
	if onLoan {
		return apperrors.NewConflictError("cannot delete: copies on loan")
	}

	return s.books.Delete(ctx, id)
}

// AttachBookFile stores the uploaded file reference on a book
func (s *BookService) AttachBookFile(ctx context.Context, id int64, filePath string) (*models.Book, error) {
	if _, err := s.books.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.books.UpdateFile(ctx, id, filePath); err != nil {
		return nil, err
	}

	return s.GetBookByID(ctx, id)
}

// RecentSearches retrieves the acting student's recent catalog searches
func (s *BookService) RecentSearches(ctx context.Context, studentID int64) ([]*models.SearchHistoryEntry, error) {
	return s.searches.RecentForStudent(ctx, studentID, 20)
}
