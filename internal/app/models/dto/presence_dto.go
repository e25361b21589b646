package dto

import "github.com/oussamab/maktaba/internal/app/models"

// PresenceResponse confirms a check-in or check-out
type PresenceResponse struct {
	Message string                   `json:"message"`
	Entry   *models.PresenceLogEntry `json:"entry"`
}
