package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oussamab/maktaba/internal/app/models"
)

// SearchHistoryRepository handles database operations for catalog search history
type SearchHistoryRepository struct {
	db *pgxpool.Pool
}

// NewSearchHistoryRepository creates a new search history repository
func NewSearchHistoryRepository(db *pgxpool.Pool) *SearchHistoryRepository {
	return &SearchHistoryRepository{db: db}
}

// Record stores a search term for a student
func (r *SearchHistoryRepository) Record(ctx context.Context, studentID int64, term string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO search_history (student_id, search_term) VALUES ($1, $2)`, studentID, term)
	if err != nil {
		return fmt.Errorf("error recording search term: %w", err)
	}

	return nil
}

// RecentForStudent retrieves a student's most recent search terms
func (r *SearchHistoryRepository) RecentForStudent(ctx context.Context, studentID int64, limit int) ([]*models.SearchHistoryEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, student_id, search_term, created_at
		FROM search_history
		WHERE student_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, studentID, limit)
	if err != nil {
		return nil, fmt.Errorf("error retrieving search history: %w", err)
	}
	defer rows.Close()

	var entries []*models.SearchHistoryEntry
	for rows.Next() {
		var entry models.SearchHistoryEntry
		if err := rows.Scan(&entry.ID, &entry.StudentID, &entry.SearchTerm, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
