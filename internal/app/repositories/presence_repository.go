package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oussamab/maktaba/internal/app/models"
	"github.com/oussamab/maktaba/internal/pkg/apperrors"
)

// PresenceRepository handles database operations for the library
// check-in log (qr_logs).
type PresenceRepository struct {
	db *pgxpool.Pool
}

// NewPresenceRepository creates a new presence repository
func NewPresenceRepository(db *pgxpool.Pool) *PresenceRepository {
	return &PresenceRepository{db: db}
}

// LatestOpen retrieves the student's most recent open check-in entry, or
// nil when the student is not in the library.
func (r *PresenceRepository) LatestOpen(ctx context.Context, studentID int64) (*models.PresenceLogEntry, error) {
	var entry models.PresenceLogEntry
	err := r.db.QueryRow(ctx, `
		SELECT id, student_id, check_in, check_out
		FROM qr_logs
		WHERE student_id = $1 AND check_out IS NULL
		ORDER BY check_in DESC
		LIMIT 1`, studentID).Scan(&entry.ID, &entry.StudentID, &entry.CheckIn, &entry.CheckOut)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving open check-in: %w", err)
	}

	return &entry, nil
}

// CheckIn opens a new presence entry for a student. A student with an
// open entry cannot check in again.
func (r *PresenceRepository) CheckIn(ctx context.Context, studentID int64) (*models.PresenceLogEntry, error) {
	open, err := r.LatestOpen(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, apperrors.ErrAlreadyCheckedIn
	}

	var entry models.PresenceLogEntry
	err = r.db.QueryRow(ctx, `
		INSERT INTO qr_logs (student_id, check_in)
		VALUES ($1, CURRENT_TIMESTAMP)
		RETURNING id, student_id, check_in, check_out`,
		studentID).Scan(&entry.ID, &entry.StudentID, &entry.CheckIn, &entry.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("error creating check-in: %w", err)
	}

	return &entry, nil
}

// CheckOut closes the student's latest open presence entry
func (r *PresenceRepository) CheckOut(ctx context.Context, studentID int64) (*models.PresenceLogEntry, error) {
	var entry models.PresenceLogEntry
	err := r.db.QueryRow(ctx, `
		UPDATE qr_logs
		SET check_out = CURRENT_TIMESTAMP
		WHERE id = (
			SELECT id FROM qr_logs
			WHERE student_id = $1 AND check_out IS NULL
			ORDER BY check_in DESC
			LIMIT 1
		)
		RETURNING id, student_id, check_in, check_out`,
		studentID).Scan(&entry.ID, &entry.StudentID, &entry.CheckIn, &entry.CheckOut)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoOpenCheckIn
		}
		return nil, fmt.Errorf("error closing check-in: %w", err)
	}

	return &entry, nil
}
