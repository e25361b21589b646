package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oussamab/maktaba/internal/app/models/dto"
	"github.com/oussamab/maktaba/internal/app/services"
	"github.com/oussamab/maktaba/internal/middleware"
	"github.com/oussamab/maktaba/internal/pkg/filestorage"
	"github.com/oussamab/maktaba/internal/pkg/helpers"
)

// BookController handles catalog management endpoints
type BookController struct {
	bookService *services.BookService
	fileStorage filestorage.FileStorage
}

// NewBookController creates a new BookController
func NewBookController(bookService *services.BookService, fileStorage filestorage.FileStorage) *BookController {
	return &BookController{
		bookService: bookService,
		fileStorage: fileStorage,
	}
}

// studentID resolves the acting student from the auth context, aborting
// with 401 when the middleware did not run or the claim is missing.
func studentID(c *gin.Context) (int64, bool) {
	id, ok := middleware.StudentIDFromContext(c)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// parseIDParam parses a numeric path parameter, answering 400 when malformed
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name).
			WithDetails(name + " must be a valid number")
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// ListBooks lists the catalog with optional filters
// @Summary List books
// @Description Lists books with optional category-name and title filters, paginated
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param category query string false "Category name filter (substring match)"
// @Param search query string false "Title filter (substring match)"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.BookListResponse "Books retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /books [get]
func (ctrl *BookController) ListBooks(c *gin.Context) {
	id, ok := studentID(c)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(c)

	params := services.ListBooksParams{Page: page, Size: size}
	if category, exists := c.GetQuery("category"); exists {
		params.CategoryName = &category
	}
	if search, exists := c.GetQuery("search"); exists {
		params.Search = &search
	}

	books, total, err := ctrl.bookService.ListBooks(c, id, params)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BookListResponse{
		Data:       books,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	})
}

// ListAllBooks lists the complete catalog
// @Summary List all books
// @Description Lists every book in the catalog with category and authors
// @Tags books
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AllBooksResponse "Books retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "No books available"
// @Router /books/all [get]
func (ctrl *BookController) ListAllBooks(c *gin.Context) {
	books, err := ctrl.bookService.ListAllBooks(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AllBooksResponse{Books: books})
}

// GetBookByID retrieves a single book
// @Summary Get book by ID
// @Description Retrieves a specific book with its category and authors
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} models.Book "Book retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid book ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Router /books/{id} [get]
func (ctrl *BookController) GetBookByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := ctrl.bookService.GetBookByID(c, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, book)
}

// CreateBook adds a book to the catalog
// @Summary Add a new book
// @Description Adds a book and assigns it a fresh QR token
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBookRequest true "Book information"
// @Success 201 {object} dto.BookResponse "Book added successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid book data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /books [post]
func (ctrl *BookController) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid book data").
			WithDetails(err.Error())
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	book, err := ctrl.bookService.CreateBook(c, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.BookResponse{
		Message: "Book added successfully",
		Book:    book,
	})
}

// UpdateBook updates an existing book
// @Summary Update a book
// @Description Updates a book's catalog data; the QR token is immutable
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param request body dto.UpdateBookRequest true "Updated book information"
// @Success 200 {object} dto.BookResponse "Book updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid book data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Router /books/{id} [put]
func (ctrl *BookController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid book data").
			WithDetails(err.Error())
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	book, err := ctrl.bookService.UpdateBook(c, id, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BookResponse{
		Message: "Book updated successfully",
		Book:    book,
	})
}

// DeleteBook removes a book from the catalog
// @Summary Delete a book
// @Description Deletes a book unless a copy is still on loan
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} dto.SuccessResponse "Book deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Copies on loan"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Router /books/{id} [delete]
func (ctrl *BookController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.bookService.DeleteBook(c, id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Book deleted successfully"})
}

// UploadBookFile attaches a file to a book
// @Summary Upload a book file
// @Description Stores an uploaded file (scan, QR image) and links it to the book
// @Tags books
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param file formData file true "File to attach"
// @Success 200 {object} dto.BookResponse "File attached successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid upload"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Router /books/{id}/file [post]
func (ctrl *BookController) UploadBookFile(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid upload").
			WithDetails("A 'file' form field is required")
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	filePath, err := ctrl.fileStorage.SaveFileWithPath(fileHeader, "books")
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	book, err := ctrl.bookService.AttachBookFile(c, id, filePath)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BookResponse{
		Message: "File attached successfully",
		Book:    book,
	})
}

// SearchHistory lists the student's recent catalog searches
// @Summary Recent searches
// @Description Lists the acting student's recent catalog search terms
// @Tags books
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SearchHistoryResponse "Search history retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /books/search-history [get]
func (ctrl *BookController) SearchHistory(c *gin.Context) {
	id, ok := studentID(c)
	if !ok {
		return
	}

	entries, err := ctrl.bookService.RecentSearches(c, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SearchHistoryResponse{Data: entries})
}
