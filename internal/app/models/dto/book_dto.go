package dto

import "github.com/oussamab/maktaba/internal/app/models"

// CreateBookRequest is the payload for adding a book to the catalog
type CreateBookRequest struct {
	Title       string  `json:"title" binding:"required"`
	Quantity    *int    `json:"quantity" binding:"required,min=0"`
	PublishYear *int    `json:"publish_year"`
	CategoryID  int64   `json:"category_id" binding:"required"`
	File        *string `json:"file"`
}

// UpdateBookRequest is the payload for updating a book. The qr_code is
// assigned at creation and cannot be changed here.
type UpdateBookRequest struct {
	Title       string  `json:"title" binding:"required"`
	Quantity    *int    `json:"quantity" binding:"required,min=0"`
	PublishYear *int    `json:"publish_year"`
	CategoryID  int64   `json:"category_id" binding:"required"`
	File        *string `json:"file"`
}

// BookResponse wraps a mutated book with a confirmation message
type BookResponse struct {
	Message string       `json:"message"`
	Book    *models.Book `json:"book"`
}

// BookListResponse is the paginated catalog listing
type BookListResponse struct {
	Data       []*models.Book `json:"data"`
	Pagination PaginationInfo `json:"pagination"`
}

// AllBooksResponse is the unpaginated catalog listing
type AllBooksResponse struct {
	Books []*models.Book `json:"books"`
}

// CategoryListResponse lists the available categories
type CategoryListResponse struct {
	Status string             `json:"status"`
	Data   []*models.Category `json:"data"`
}

// CategoryBooksResponse lists the books of one category
type CategoryBooksResponse struct {
	Status string         `json:"status"`
	Data   []*models.Book `json:"data"`
}

// CreateAuthorRequest is the payload for registering an author
type CreateAuthorRequest struct {
	Name string `json:"name" binding:"required"`
}

// AuthorListResponse lists the registered authors
type AuthorListResponse struct {
	Status string           `json:"status"`
	Data   []*models.Author `json:"data"`
}

// SearchHistoryResponse lists a student's recent catalog searches
type SearchHistoryResponse struct {
	Data []*models.SearchHistoryEntry `json:"data"`
}
