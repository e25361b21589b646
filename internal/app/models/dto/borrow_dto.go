package dto

import "time"

// BorrowRequest carries the scanned QR token for a borrow or return
type BorrowRequest struct {
	QRCode string `json:"qr_code" binding:"required"`
}

// BorrowInfo is the confirmation payload of a successful borrow
type BorrowInfo struct {
	BookTitle  string    `json:"book_title"`
	BorrowDate time.Time `json:"borrow_date"`
}

// BorrowResponse is returned by the borrow endpoint
type BorrowResponse struct {
	Message string     `json:"message"`
	Borrow  BorrowInfo `json:"borrow"`
}

// ReturnResponse is returned by the return endpoint
type ReturnResponse struct {
	Message   string `json:"message"`
	BookTitle string `json:"book_title"`
}

// HistoryEntry is one row of a student's borrowing history
type HistoryEntry struct {
	BookTitle  string     `json:"book_title"`
	BorrowDate time.Time  `json:"borrow_date"`
	ReturnDate *time.Time `json:"return_date"`
	Status     string     `json:"status"`
}

// HistoryResponse is the full borrowing history of a student
type HistoryResponse struct {
	TotalBorrowed int            `json:"total_borrowed"`
	History       []HistoryEntry `json:"history"`
	Message       string         `json:"message"`
}
