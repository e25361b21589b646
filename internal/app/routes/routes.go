package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/oussamab/maktaba/internal/app/controllers"
	"github.com/oussamab/maktaba/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	bookController *controllers.BookController,
	borrowController *controllers.BorrowController,
	categoryController *controllers.CategoryController,
	authorController *controllers.AuthorController,
	presenceController *controllers.PresenceController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// Every library route requires a valid session token issued by the
	// campus auth service; this backend only validates it.
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	// Book routes. The static paths (all, borrow, return, history,
	// search-history) are registered before /:id so gin does not try to
	// parse them as book ids.
	books := authenticated.Group("/books")
	{
		books.GET("", bookController.ListBooks)
		books.GET("/all", bookController.ListAllBooks)
		books.GET("/history", borrowController.History)
		books.GET("/search-history", bookController.SearchHistory)
		books.POST("", bookController.CreateBook)
		books.POST("/borrow", borrowController.Borrow)
		books.POST("/return", borrowController.Return)

		books.GET("/:id", bookController.GetBookByID)
		books.PUT("/:id", bookController.UpdateBook)
		books.DELETE("/:id", bookController.DeleteBook)
		books.POST("/:id/file", bookController.UploadBookFile)

		// Author associations
		books.POST("/:id/authors/:authorId", authorController.AttachAuthor)
		books.DELETE("/:id/authors/:authorId", authorController.DetachAuthor)
	}

	// Category routes
	categories := authenticated.Group("/categories")
	{
		categories.GET("", categoryController.ListCategories)
		categories.GET("/:name/books", categoryController.BooksByCategory)
	}

	// Author routes
	authors := authenticated.Group("/authors")
	{
		authors.GET("", authorController.ListAuthors)
		authors.POST("", authorController.CreateAuthor)
	}

	// Presence routes
	presence := authenticated.Group("/presence")
	{
		presence.POST("/check-in", presenceController.CheckIn)
		presence.POST("/check-out", presenceController.CheckOut)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger routes are set up in bootstrap.go already
}
