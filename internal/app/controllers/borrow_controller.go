package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oussamab/maktaba/internal/app/models/dto"
	"github.com/oussamab/maktaba/internal/app/services"
	"github.com/oussamab/maktaba/internal/middleware"
	"github.com/oussamab/maktaba/internal/pkg/logger"
)

// BorrowController handles the QR-driven borrow/return workflow
type BorrowController struct {
	borrowService *services.BorrowService
}

// NewBorrowController creates a new BorrowController
func NewBorrowController(borrowService *services.BorrowService) *BorrowController {
	return &BorrowController{borrowService: borrowService}
}

// Borrow lends a book to the acting student
// @Summary Borrow a book
// @Description Lends one copy of the book identified by the scanned QR token. The student must be checked in to the library.
// @Tags borrows
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BorrowRequest true "Scanned QR token"
// @Success 200 {object} dto.BorrowResponse "Book borrowed successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid QR code, book unavailable, already borrowed, or not checked in"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Router /books/borrow [post]
func (ctrl *BorrowController) Borrow(c *gin.Context) {
	id, ok := studentID(c)
	if !ok {
		return
	}

	var req dto.BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request").
			WithDetails("qr_code is required")
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	record, book, err := ctrl.borrowService.Borrow(c, id, req.QRCode)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BorrowResponse{
		Message: "Book borrowed successfully",
		Borrow: dto.BorrowInfo{
			BookTitle:  book.Title,
			BorrowDate: record.BorrowDate,
		},
	})
}

// Return takes back a borrowed book
// @Summary Return a book
// @Description Closes the student's active borrow of the book identified by the scanned QR token and restores its quantity. The student must be checked in to the library.
// @Tags borrows
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BorrowRequest true "Scanned QR token"
// @Success 200 {object} dto.ReturnResponse "Book returned successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid QR code or not checked in"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Book or active borrow not found"
// @Router /books/return [post]
func (ctrl *BorrowController) Return(c *gin.Context) {
	id, ok := studentID(c)
	if !ok {
		return
	}

	var req dto.BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request").
			WithDetails("qr_code is required")
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	_, book, err := ctrl.borrowService.Return(c, id, req.QRCode)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ReturnResponse{
		Message:   "Book returned successfully",
		BookTitle: book.Title,
	})
}

// History lists the student's borrowing history
// @Summary Borrowing history
// @Description Lists every borrow of the acting student, newest first, with book titles
// @Tags borrows
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.HistoryResponse "History retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /books/history [get]
func (ctrl *BorrowController) History(c *gin.Context) {
	id, ok := studentID(c)
	if !ok {
		return
	}

	records, err := ctrl.borrowService.History(c, id)
	if err != nil {
		// Unlike other endpoints the history error surfaces its cause so a
		// client can show which part of the lookup failed.
		logger.Error().Err(err).Int64("studentId", id).Msg("Failed to load borrowing history")
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "An error occurred while retrieving borrowing history").
			WithDetails(err.Error())
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
		return
	}

	history := make([]dto.HistoryEntry, 0, len(records))
	for _, record := range records {
		history = append(history, dto.HistoryEntry{
			BookTitle:  record.BookTitle,
			BorrowDate: record.BorrowDate,
			ReturnDate: record.ReturnDate,
			Status:     string(record.Status),
		})
	}

	message := "borrowing history found"
	if len(history) == 0 {
		message = "no borrowing history"
	}

	c.JSON(http.StatusOK, dto.HistoryResponse{
		TotalBorrowed: len(history),
		History:       history,
		Message:       message,
	})
}
