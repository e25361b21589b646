package services_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oussamab/maktaba/internal/app/models"
	"github.com/oussamab/maktaba/internal/app/models/dto"
	"github.com/oussamab/maktaba/internal/app/repositories"
	"github.com/oussamab/maktaba/internal/app/services"
	"github.com/oussamab/maktaba/internal/pkg/apperrors"
)

type fakeBookStore struct {
	books  map[int64]*models.Book
	nextID int64
}

func newFakeBookStore(books ...*models.Book) *fakeBookStore {
	store := &fakeBookStore{books: make(map[int64]*models.Book)}
	for _, book := range books {
		store.books[book.ID] = book
		if book.ID > store.nextID {
			store.nextID = book.ID
		}
	}
	return store
}

func (f *fakeBookStore) GetAll(_ context.Context, _ repositories.GetAllBooksParams) ([]*models.Book, int64, error) {
	books := f.all()
	return books, int64(len(books)), nil
}

func (f *fakeBookStore) GetAllUnpaged(_ context.Context) ([]*models.Book, error) {
	return f.all(), nil
}

func (f *fakeBookStore) all() []*models.Book {
	var books []*models.Book
	for _, book := range f.books {
		books = append(books, book)
	}
	return books
}

func (f *fakeBookStore) GetByID(_ context.Context, id int64) (*models.Book, error) {
	book, ok := f.books[id]
	if !ok {
		return nil, apperrors.ErrBookNotFound
	}
	return book, nil
}

func (f *fakeBookStore) Create(_ context.Context, book *models.Book) error {
	f.nextID++
	book.ID = f.nextID
	book.QRCode = "book_" + strconv.FormatInt(f.nextID, 10) + "abc"
	f.books[book.ID] = book
	return nil
}

func (f *fakeBookStore) Update(_ context.Context, book *models.Book) error {
	if _, ok := f.books[book.ID]; !ok {
		return apperrors.ErrBookNotFound
	}
	f.books[book.ID] = book
	return nil
}

func (f *fakeBookStore) UpdateFile(_ context.Context, id int64, filePath string) error {
	book, ok := f.books[id]
	if !ok {
		return apperrors.ErrBookNotFound
	}
	book.File = &filePath
	return nil
}

func (f *fakeBookStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.books[id]; !ok {
		return apperrors.ErrBookNotFound
	}
	delete(f.books, id)
	return nil
}

type fakeCategoryChecker struct {
	existing map[int64]bool
}

func (f *fakeCategoryChecker) Exists(_ context.Context, id int64) (bool, error) {
	return f.existing[id], nil
}

type fakeAuthorLoader struct{}

func (f *fakeAuthorLoader) GetByBookIDs(_ context.Context, _ []int64) (map[int64][]*models.Author, error) {
	return map[int64][]*models.Author{}, nil
}

type fakeLoanChecker struct {
	records []*models.BorrowRecord
}

func (f *fakeLoanChecker) HasActiveForBook(_ context.Context, bookID int64) (bool, error) {
	for _, rec := range f.records {
		if rec.BookID == bookID && rec.ReturnDate == nil {
			return true, nil
		}
	}
	return false, nil
}

type fakeSearchRecorder struct {
	recorded  []string
	recordErr error
}

func (f *fakeSearchRecorder) Record(_ context.Context, _ int64, term string) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.recorded = append(f.recorded, term)
	return nil
}

func (f *fakeSearchRecorder) RecentForStudent(_ context.Context, _ int64, _ int) ([]*models.SearchHistoryEntry, error) {
	var entries []*models.SearchHistoryEntry
	for _, term := range f.recorded {
		entries = append(entries, &models.SearchHistoryEntry{SearchTerm: term})
	}
	return entries, nil
}

type bookFixture struct {
	svc      *services.BookService
	store    *fakeBookStore
	searches *fakeSearchRecorder
	loans    *fakeLoanChecker
}

func newBookFixture(books ...*models.Book) *bookFixture {
	store := newFakeBookStore(books...)
	searches := &fakeSearchRecorder{}
	loans := &fakeLoanChecker{}
	svc := services.NewBookService(
		store,
		&fakeCategoryChecker{existing: map[int64]bool{1: true}},
		&fakeAuthorLoader{},
		loans,
		searches,
	)
	return &bookFixture{svc: svc, store: store, searches: searches, loans: loans}
}

func intPtr(v int) *int { return &v }

func Test_CreateBook_Succeeds(t *testing.T) {
	fix := newBookFixture()

	book, err := fix.svc.CreateBook(context.Background(), &dto.CreateBookRequest{
		Title:      "  Dune  ",
		Quantity:   intPtr(3),
		CategoryID: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title, "title must be trimmed")
	assert.NotEmpty(t, book.QRCode, "a fresh token must be assigned")
	assert.NotZero(t, book.ID)
}

func Test_CreateBook_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  *dto.CreateBookRequest
	}{
		{
			name: "blank_title",
			req:  &dto.CreateBookRequest{Title: "   ", Quantity: intPtr(3), CategoryID: 1},
		},
		{
			name: "negative_quantity",
			req:  &dto.CreateBookRequest{Title: "Dune", Quantity: intPtr(-1), CategoryID: 1},
		},
		{
			name: "unknown_category",
			req:  &dto.CreateBookRequest{Title: "Dune", Quantity: intPtr(3), CategoryID: 99},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fix := newBookFixture()

			_, err := fix.svc.CreateBook(context.Background(), tt.req)

			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}
}

func Test_UpdateBook_KeepsQRCode(t *testing.T) {
	fix := newBookFixture(&models.Book{ID: 7, Title: "Dune", Quantity: 3, CategoryID: 1, QRCode: "book_7f3a9c1e"})

	book, err := fix.svc.UpdateBook(context.Background(), 7, &dto.UpdateBookRequest{
		Title:      "Dune Messiah",
		Quantity:   intPtr(5),
		CategoryID: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", book.Title)
	assert.Equal(t, 5, book.Quantity)
	assert.Equal(t, "book_7f3a9c1e", book.QRCode)
}

func Test_UpdateBook_NotFound(t *testing.T) {
	fix := newBookFixture()

	_, err := fix.svc.UpdateBook(context.Background(), 99, &dto.UpdateBookRequest{
		Title:      "Dune",
		Quantity:   intPtr(1),
		CategoryID: 1,
	})

	assert.ErrorIs(t, err, apperrors.ErrBookNotFound)
}

func Test_DeleteBook_Succeeds(t *testing.T) {
	fix := newBookFixture(&models.Book{ID: 7, Title: "Dune", Quantity: 3, CategoryID: 1})

	err := fix.svc.DeleteBook(context.Background(), 7)

	require.NoError(t, err)
	_, err = fix.store.GetByID(context.Background(), 7)
	assert.ErrorIs(t, err, apperrors.ErrBookNotFound)
}

func Test_DeleteBook_RejectedWhileOnLoan(t *testing.T) {
	fix := newBookFixture(&models.Book{ID: 7, Title: "Dune", Quantity: 2, CategoryID: 1})
	fix.loans.records = append(fix.loans.records, &models.BorrowRecord{BookID: 7, StudentID: 1})

	err := fix.svc.DeleteBook(context.Background(), 7)

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	_, getErr := fix.store.GetByID(context.Background(), 7)
	assert.NoError(t, getErr, "the book must survive a rejected delete")
}

func Test_DeleteBook_SucceedsWithReturnedHistory(t *testing.T) {
	fix := newBookFixture(&models.Book{ID: 7, Title: "Dune", Quantity: 3, CategoryID: 1})
	returned := time.Now()
	fix.loans.records = append(fix.loans.records, &models.BorrowRecord{BookID: 7, StudentID: 1, ReturnDate: &returned})

	err := fix.svc.DeleteBook(context.Background(), 7)

	require.NoError(t, err, "settled borrow history must not block deletion")
	_, err = fix.store.GetByID(context.Background(), 7)
	assert.ErrorIs(t, err, apperrors.ErrBookNotFound)
}

func Test_ListAllBooks_EmptyCatalog(t *testing.T) {
	fix := newBookFixture()

	_, err := fix.svc.ListAllBooks(context.Background())

	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func Test_ListBooks_RecordsSearchTerm(t *testing.T) {
	fix := newBookFixture(&models.Book{ID: 7, Title: "Dune", Quantity: 3, CategoryID: 1})
	term := "  dune  "

	_, _, err := fix.svc.ListBooks(context.Background(), 1, services.ListBooksParams{Search: &term, Page: 1, Size: 10})

	require.NoError(t, err)
	require.Len(t, fix.searches.recorded, 1)
	assert.Equal(t, "dune", fix.searches.recorded[0], "recorded term must be trimmed")
}

func Test_ListBooks_SearchRecordingFailureDoesNotBreakListing(t *testing.T) {
	fix := newBookFixture(&models.Book{ID: 7, Title: "Dune", Quantity: 3, CategoryID: 1})
	fix.searches.recordErr = errors.New("history table unavailable")
	term := "dune"

	books, total, err := fix.svc.ListBooks(context.Background(), 1, services.ListBooksParams{Search: &term, Page: 1, Size: 10})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, books, 1)
}

func Test_ListBooks_BlankSearchNotRecorded(t *testing.T) {
	fix := newBookFixture(&models.Book{ID: 7, Title: "Dune", Quantity: 3, CategoryID: 1})
	term := "   "

	_, _, err := fix.svc.ListBooks(context.Background(), 1, services.ListBooksParams{Search: &term, Page: 1, Size: 10})

	require.NoError(t, err)
	assert.Empty(t, fix.searches.recorded)
}
