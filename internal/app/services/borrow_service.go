package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/oussamab/maktaba/internal/app/models"
	"github.com/oussamab/maktaba/internal/pkg/apperrors"
	"github.com/oussamab/maktaba/internal/pkg/logger"
	"github.com/oussamab/maktaba/internal/pkg/qrtoken"
)

// PresenceLog reports whether a student is currently inside the library
type PresenceLog interface {
	LatestOpen(ctx context.Context, studentID int64) (*models.PresenceLogEntry, error)
}

// BookResolver resolves a scanned token to a catalog entry
type BookResolver interface {
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	GetByQRCodeLike(ctx context.Context, token string) (*models.Book, error)
}

// BorrowLedger owns the borrow records and their paired quantity changes
type BorrowLedger interface {
	FindActive(ctx context.Context, bookID, studentID int64) (*models.BorrowRecord, error)
	Borrow(ctx context.Context, bookID, studentID int64) (*models.BorrowRecord, error)
	Return(ctx context.Context, bookID, studentID int64) (*models.BorrowRecord, error)
	HistoryForStudent(ctx context.Context, studentID int64) ([]*models.BorrowRecord, error)
}

// BorrowService implements the QR-driven borrow/return workflow. Every
// operation re-reads current state from the store; the service itself
// keeps nothing between requests.
type BorrowService struct {
	presence PresenceLog
	books    BookResolver
	ledger   BorrowLedger
}

// NewBorrowService creates a new borrow service instance
func NewBorrowService(presence PresenceLog, books BookResolver, ledger BorrowLedger) *BorrowService {
	return &BorrowService{
		presence: presence,
		books:    books,
		ledger:   ledger,
	}
}

// requirePresence fails unless the student has an open library check-in
func (s *BorrowService) requirePresence(ctx context.Context, studentID int64) error {
	entry, err := s.presence.LatestOpen(ctx, studentID)
	if err != nil {
		return fmt.Errorf("error checking presence: %w", err)
	}

	if entry == nil {
		return apperrors.NewPreconditionFailedError("must check in to the library first")
	}

	return nil
}

// Borrow lends one copy of the book identified by the scanned QR token to
// the acting student. The availability and duplicate checks here give
// early, friendly failures; the ledger re-validates both inside its
// transaction before committing.
func (s *BorrowService) Borrow(ctx context.Context, studentID int64, qrCode string) (*models.BorrowRecord, *models.Book, error) {
	if err := s.requirePresence(ctx, studentID); err != nil {
		logger.Warn().Int64("studentId", studentID).Msg("Borrow rejected: student not in library")
		return nil, nil, err
	}

	bookID, ok := qrtoken.ParseBookID(qrCode)
	if !ok {
		logger.Warn().Str("qrCode", qrCode).Msg("Borrow rejected: invalid QR code format")
		return nil, nil, apperrors.NewValidationError("invalid QR code")
	}

	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, nil, err
	}

	if book.Quantity <= 0 {
		return nil, nil, apperrors.NewConflictError("book is not available")
	}

	existing, err := s.ledger.FindActive(ctx, book.ID, studentID)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, apperrors.NewConflictError("you already borrowed a copy of this book")
	}

	record, err := s.ledger.Borrow(ctx, book.ID, studentID)
	if err != nil {
		return nil, nil, err
	}

	return record, book, nil
}

// Return takes back the student's borrowed copy of the book identified by
// the scanned QR token. Clients often submit the QR image filename, so the
// token is matched by containment against stored qr codes after stripping
// a file extension. Two tokens where one contains the other would collide
// here; kept for compatibility with tokens already in circulation.
func (s *BorrowService) Return(ctx context.Context, studentID int64, qrCode string) (*models.BorrowRecord, *models.Book, error) {
	if err := s.requirePresence(ctx, studentID); err != nil {
		return nil, nil, err
	}

	token := qrtoken.NormalizeScanned(qrCode)
	if token == "" {
		return nil, nil, apperrors.NewValidationError("invalid QR code")
	}

	book, err := s.books.GetByQRCodeLike(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	record, err := s.ledger.Return(ctx, book.ID, studentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoActiveBorrow) {
			return nil, nil, apperrors.NewResourceNotFoundError("no active borrow for this book")
		}
		return nil, nil, err
	}

	return record, book, nil
}

// History retrieves every borrow record of a student, newest first, with
// book titles attached.
func (s *BorrowService) History(ctx context.Context, studentID int64) ([]*models.BorrowRecord, error) {
	records, err := s.ledger.HistoryForStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving borrowing history: %w", err)
	}

	return records, nil
}
