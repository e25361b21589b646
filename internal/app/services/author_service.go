package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/oussamab/maktaba/internal/app/models"
	"github.com/oussamab/maktaba/internal/pkg/apperrors"
)

// AuthorStore is the persistence surface the author service needs
type AuthorStore interface {
	GetAll(ctx context.Context) ([]*models.Author, error)
	GetByID(ctx context.Context, id int64) (*models.Author, error)
	Create(ctx context.Context, author *models.Author) error
	AttachToBook(ctx context.Context, bookID, authorID int64) error
	DetachFromBook(ctx context.Context, bookID, authorID int64) error
}

// BookFinder resolves a book id to a catalog entry
type BookFinder interface {
	GetByID(ctx context.Context, id int64) (*models.Book, error)
}

// AuthorService handles author management and book associations
type AuthorService struct {
	authors AuthorStore
	books   BookFinder
}

// NewAuthorService creates a new author service instance
func NewAuthorService(authors AuthorStore, books BookFinder) *AuthorService {
	return &AuthorService{
		authors: authors,
		books:   books,
	}
}

// ListAuthors retrieves all authors
func (s *AuthorService) ListAuthors(ctx context.Context) ([]*models.Author, error) {
	authors, err := s.authors.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving authors: %w", err)
	}

	return authors, nil
}

// CreateAuthor registers a new author
func (s *AuthorService) CreateAuthor(ctx context.Context, name string) (*models.Author, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name cannot be empty")
	}

	author := &models.Author{Name: name}
	if err := s.authors.Create(ctx, author); err != nil {
		return nil, err
	}

	return author, nil
}

// AttachAuthor links an author to a book
func (s *AuthorService) AttachAuthor(ctx context.Context, bookID, authorID int64) error {
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		return err
	}

	if _, err := s.authors.GetByID(ctx, authorID); err != nil {
		return err
	}

	return s.authors.AttachToBook(ctx, bookID, authorID)
}

// DetachAuthor unlinks an author from a book
func (s *AuthorService) DetachAuthor(ctx context.Context, bookID, authorID int64) error {
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		return err
	}

	return s.authors.DetachFromBook(ctx, bookID, authorID)
}
