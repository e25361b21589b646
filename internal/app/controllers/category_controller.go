package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oussamab/maktaba/internal/app/models/dto"
	"github.com/oussamab/maktaba/internal/app/services"
	"github.com/oussamab/maktaba/internal/middleware"
)

// CategoryController handles category browsing endpoints
type CategoryController struct {
	categoryService *services.CategoryService
}

// NewCategoryController creates a new CategoryController
func NewCategoryController(categoryService *services.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

// ListCategories lists all categories
// @Summary List categories
// @Description Lists every category in the catalog
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CategoryListResponse "Categories retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /categories [get]
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	categories, err := ctrl.categoryService.ListCategories(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CategoryListResponse{
		Status: "success",
		Data:   categories,
	})
}

// BooksByCategory lists the books of one category
// @Summary Books in a category
// @Description Lists the books of the category with exactly the given name
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param name path string true "Category name"
// @Success 200 {object} dto.CategoryBooksResponse "Books retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Category not found"
// @Router /categories/{name}/books [get]
func (ctrl *CategoryController) BooksByCategory(c *gin.Context) {
	name := c.Param("name")

	books, err := ctrl.categoryService.BooksByCategory(c, name)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CategoryBooksResponse{
		Status: "success",
		Data:   books,
	})
}
