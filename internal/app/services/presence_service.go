package services

import (
	"context"

	"github.com/oussamab/maktaba/internal/app/models"
	"github.com/oussamab/maktaba/internal/pkg/logger"
)

// PresenceStore is the persistence surface of the library check-in log
type PresenceStore interface {
	CheckIn(ctx context.Context, studentID int64) (*models.PresenceLogEntry, error)
	CheckOut(ctx context.Context, studentID int64) (*models.PresenceLogEntry, error)
}

// PresenceService records students entering and leaving the library
type PresenceService struct {
	presence PresenceStore
}

// NewPresenceService creates a new presence service instance
func NewPresenceService(presence PresenceStore) *PresenceService {
	return &PresenceService{presence: presence}
}

// CheckIn opens a presence entry for the acting student
func (s *PresenceService) CheckIn(ctx context.Context, studentID int64) (*models.PresenceLogEntry, error) {
	entry, err := s.presence.CheckIn(ctx, studentID)
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("studentId", studentID).Msg("Student checked in")
	return entry, nil
}

// CheckOut closes the acting student's open presence entry
func (s *PresenceService) CheckOut(ctx context.Context, studentID int64) (*models.PresenceLogEntry, error) {
	entry, err := s.presence.CheckOut(ctx, studentID)
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("studentId", studentID).Msg("Student checked out")
	return entry, nil
}
