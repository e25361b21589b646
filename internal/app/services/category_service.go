package services

import (
	"context"
	"fmt"

	"github.com/oussamab/maktaba/internal/app/models"
)

// CategoryStore is the persistence surface the category service needs
type CategoryStore interface {
	GetAll(ctx context.Context) ([]*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
}

// CategoryBookLister lists the books of one category
type CategoryBookLister interface {
	GetByCategoryID(ctx context.Context, categoryID int64) ([]*models.Book, error)
}

// CategoryService handles category browsing
type CategoryService struct {
	categories CategoryStore
	books      CategoryBookLister
	authors    AuthorLoader
}

// NewCategoryService creates a new category service instance
func NewCategoryService(categories CategoryStore, books CategoryBookLister, authors AuthorLoader) *CategoryService {
	return &CategoryService{
		categories: categories,
		books:      books,
		authors:    authors,
	}
}

// ListCategories retrieves all categories
func (s *CategoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.categories.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving categories: %w", err)
	}

	return categories, nil
}

// BooksByCategory retrieves the books of the category with exactly the
// given name. Unlike the listing filter this match is exact: the route
// addresses one category, not a family of them.
func (s *CategoryService) BooksByCategory(ctx context.Context, name string) ([]*models.Book, error) {
	category, err := s.categories.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	books, err := s.books.GetByCategoryID(ctx, category.ID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving category books: %w", err)
	}

	ids := make([]int64, 0, len(books))
	for _, book := range books {
		ids = append(ids, book.ID)
	}

	byBook, err := s.authors.GetByBookIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("error loading authors: %w", err)
	}

	for _, book := range books {
		book.Authors = byBook[book.ID]
	}

	return books, nil
}
