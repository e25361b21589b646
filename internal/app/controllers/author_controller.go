package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oussamab/maktaba/internal/app/models/dto"
	"github.com/oussamab/maktaba/internal/app/services"
	"github.com/oussamab/maktaba/internal/middleware"
)

// AuthorController handles author management endpoints
type AuthorController struct {
	authorService *services.AuthorService
}

// NewAuthorController creates a new AuthorController
func NewAuthorController(authorService *services.AuthorService) *AuthorController {
	return &AuthorController{authorService: authorService}
}

// ListAuthors lists all authors
// @Summary List authors
// @Description Lists every registered author
// @Tags authors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AuthorListResponse "Authors retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /authors [get]
func (ctrl *AuthorController) ListAuthors(c *gin.Context) {
	authors, err := ctrl.authorService.ListAuthors(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthorListResponse{
		Status: "success",
		Data:   authors,
	})
}

// CreateAuthor registers a new author
// @Summary Add an author
// @Description Registers a new author
// @Tags authors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAuthorRequest true "Author information"
// @Success 201 {object} models.Author "Author added successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid author data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /authors [post]
func (ctrl *AuthorController) CreateAuthor(c *gin.Context) {
	var req dto.CreateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid author data").
			WithDetails(err.Error())
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	author, err := ctrl.authorService.CreateAuthor(c, req.Name)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, author)
}

// AttachAuthor links an author to a book
// @Summary Attach an author to a book
// @Description Links an existing author to an existing book; attaching twice is a no-op
// @Tags authors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param authorId path int true "Author ID"
// @Success 200 {object} dto.SuccessResponse "Author attached successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid IDs"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Book or author not found"
// @Router /books/{id}/authors/{authorId} [post]
func (ctrl *AuthorController) AttachAuthor(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	authorID, ok := parseIDParam(c, "authorId")
	if !ok {
		return
	}

	if err := ctrl.authorService.AttachAuthor(c, bookID, authorID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Author attached successfully"})
}

// DetachAuthor unlinks an author from a book
// @Summary Detach an author from a book
// @Description Removes the link between an author and a book
// @Tags authors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param authorId path int true "Author ID"
// @Success 200 {object} dto.SuccessResponse "Author detached successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid IDs"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Router /books/{id}/authors/{authorId} [delete]
func (ctrl *AuthorController) DetachAuthor(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	authorID, ok := parseIDParam(c, "authorId")
	if !ok {
		return
	}

	if err := ctrl.authorService.DetachAuthor(c, bookID, authorID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Author detached successfully"})
}
