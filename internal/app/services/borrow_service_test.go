package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oussamab/maktaba/internal/app/models"
	"github.com/oussamab/maktaba/internal/app/services"
	"github.com/oussamab/maktaba/internal/pkg/apperrors"
)

type fakePresenceLog struct {
	checkedIn map[int64]bool
}

func (f *fakePresenceLog) LatestOpen(_ context.Context, studentID int64) (*models.PresenceLogEntry, error) {
	if !f.checkedIn[studentID] {
		return nil, nil
	}
	return &models.PresenceLogEntry{ID: 1, StudentID: studentID, CheckIn: time.Now()}, nil
}

type fakeBookResolver struct {
	books map[int64]*models.Book
}

func (f *fakeBookResolver) GetByID(_ context.Context, id int64) (*models.Book, error) {
	book, ok := f.books[id]
	if !ok {
		return nil, apperrors.ErrBookNotFound
	}
	return book, nil
}

func (f *fakeBookResolver) GetByQRCodeLike(_ context.Context, token string) (*models.Book, error) {
	for _, book := range f.books {
		if strings.Contains(book.QRCode, token) {
			return book, nil
		}
	}
	return nil, apperrors.ErrBookNotFound
}

type fakeBorrowLedger struct {
	active      map[int64]int64 // bookID -> studentID holding it
	history     []*models.BorrowRecord
	borrowCalls int
	returnCalls int
}

func (f *fakeBorrowLedger) FindActive(_ context.Context, bookID, studentID int64) (*models.BorrowRecord, error) {
	if holder, ok := f.active[bookID]; ok && holder == studentID {
		return &models.BorrowRecord{BookID: bookID, StudentID: studentID, Status: models.BorrowStatusBorrowed}, nil
	}
	return nil, nil
}

func (f *fakeBorrowLedger) Borrow(_ context.Context, bookID, studentID int64) (*models.BorrowRecord, error) {
	f.borrowCalls++
	if f.active == nil {
		f.active = make(map[int64]int64)
	}
	f.active[bookID] = studentID
	return &models.BorrowRecord{
		ID:         int64(f.borrowCalls),
		BookID:     bookID,
		StudentID:  studentID,
		BorrowDate: time.Now(),
		Status:     models.BorrowStatusBorrowed,
	}, nil
}

func (f *fakeBorrowLedger) Return(_ context.Context, bookID, studentID int64) (*models.BorrowRecord, error) {
	f.returnCalls++
	if holder, ok := f.active[bookID]; !ok || holder != studentID {
		return nil, apperrors.ErrNoActiveBorrow
	}
	delete(f.active, bookID)
	now := time.Now()
	return &models.BorrowRecord{
		BookID:     bookID,
		StudentID:  studentID,
		ReturnDate: &now,
		Status:     models.BorrowStatusReturned,
	}, nil
}

func (f *fakeBorrowLedger) HistoryForStudent(_ context.Context, _ int64) ([]*models.BorrowRecord, error) {
	return f.history, nil
}

func newBorrowFixture(checkedIn bool, books ...*models.Book) (*services.BorrowService, *fakeBorrowLedger) {
	presence := &fakePresenceLog{checkedIn: map[int64]bool{1: checkedIn}}
	resolver := &fakeBookResolver{books: make(map[int64]*models.Book)}
	for _, book := range books {
		resolver.books[book.ID] = book
	}
	ledger := &fakeBorrowLedger{}
	return services.NewBorrowService(presence, resolver, ledger), ledger
}

func Test_Borrow_Succeeds(t *testing.T) {
	svc, ledger := newBorrowFixture(true, &models.Book{ID: 7, Title: "Dune", Quantity: 3, QRCode: "book_7f3a9c1e"})

	record, book, err := svc.Borrow(context.Background(), 1, "book_7f3a9c1e")

	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, int64(7), record.BookID)
	assert.Equal(t, models.BorrowStatusBorrowed, record.Status)
	assert.Equal(t, 1, ledger.borrowCalls)
}

func Test_Borrow_RequiresCheckIn(t *testing.T) {
	svc, ledger := newBorrowFixture(false, &models.Book{ID: 7, Quantity: 3, QRCode: "book_7f3a9c1e"})

	_, _, err := svc.Borrow(context.Background(), 1, "book_7f3a9c1e")

	assert.ErrorIs(t, err, apperrors.ErrPreconditionFailed)
	assert.Zero(t, ledger.borrowCalls)
}

func Test_Borrow_RejectsMalformedToken(t *testing.T) {
	svc, ledger := newBorrowFixture(true)

	_, _, err := svc.Borrow(context.Background(), 1, "not-a-token")

	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Zero(t, ledger.borrowCalls)
}

func Test_Borrow_UnknownBook(t *testing.T) {
	svc, _ := newBorrowFixture(true)

	_, _, err := svc.Borrow(context.Background(), 1, "book_99")

	assert.ErrorIs(t, err, apperrors.ErrBookNotFound)
}

func Test_Borrow_RejectsUnavailableBook(t *testing.T) {
	svc, ledger := newBorrowFixture(true, &models.Book{ID: 7, Quantity: 0, QRCode: "book_7f3a9c1e"})

	_, _, err := svc.Borrow(context.Background(), 1, "book_7f3a9c1e")

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Zero(t, ledger.borrowCalls, "an unavailable book must not reach the ledger")
}

func Test_Borrow_RejectsDuplicateBorrow(t *testing.T) {
	svc, ledger := newBorrowFixture(true, &models.Book{ID: 7, Quantity: 3, QRCode: "book_7f3a9c1e"})

	_, _, err := svc.Borrow(context.Background(), 1, "book_7f3a9c1e")
	require.NoError(t, err)

	_, _, err = svc.Borrow(context.Background(), 1, "book_7f3a9c1e")

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, 1, ledger.borrowCalls)
}

func Test_Return_Succeeds(t *testing.T) {
	svc, _ := newBorrowFixture(true, &models.Book{ID: 7, Title: "Dune", Quantity: 3, QRCode: "book_7f3a9c1e"})

	_, _, err := svc.Borrow(context.Background(), 1, "book_7f3a9c1e")
	require.NoError(t, err)

	record, book, err := svc.Return(context.Background(), 1, "book_7f3a9c1e")

	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, models.BorrowStatusReturned, record.Status)
	require.NotNil(t, record.ReturnDate)
}

func Test_Return_MatchesTokenFromFilename(t *testing.T) {
	// Clients sometimes submit the QR image filename instead of the token
	svc, _ := newBorrowFixture(true, &models.Book{ID: 7, Title: "Dune", Quantity: 3, QRCode: "book_7f3a9c1e"})

	_, _, err := svc.Borrow(context.Background(), 1, "book_7f3a9c1e")
	require.NoError(t, err)

	_, book, err := svc.Return(context.Background(), 1, "qr_codes/book_7f3a9c1e.png")

	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)
}

func Test_Return_RequiresCheckIn(t *testing.T) {
	svc, ledger := newBorrowFixture(false, &models.Book{ID: 7, Quantity: 3, QRCode: "book_7f3a9c1e"})

	_, _, err := svc.Return(context.Background(), 1, "book_7f3a9c1e")

	assert.ErrorIs(t, err, apperrors.ErrPreconditionFailed)
	assert.Zero(t, ledger.returnCalls)
}

func Test_Return_NoActiveBorrow(t *testing.T) {
	svc, _ := newBorrowFixture(true, &models.Book{ID: 7, Quantity: 3, QRCode: "book_7f3a9c1e"})

	_, _, err := svc.Return(context.Background(), 1, "book_7f3a9c1e")

	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func Test_History_ReturnsLedgerRecords(t *testing.T) {
	svc, ledger := newBorrowFixture(true)
	now := time.Now()
	ledger.history = []*models.BorrowRecord{
		{BookID: 7, StudentID: 1, BookTitle: "Dune", BorrowDate: now, Status: models.BorrowStatusBorrowed},
		{BookID: 3, StudentID: 1, BookTitle: "Foundation", BorrowDate: now.Add(-time.Hour), ReturnDate: &now, Status: models.BorrowStatusReturned},
	}

	records, err := svc.History(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Dune", records[0].BookTitle)
}
