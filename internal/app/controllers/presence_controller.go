package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oussamab/maktaba/internal/app/models/dto"
	"github.com/oussamab/maktaba/internal/app/services"
	"github.com/oussamab/maktaba/internal/middleware"
)

// PresenceController handles library check-in and check-out endpoints
type PresenceController struct {
	presenceService *services.PresenceService
}

// NewPresenceController creates a new PresenceController
func NewPresenceController(presenceService *services.PresenceService) *PresenceController {
	return &PresenceController{presenceService: presenceService}
}

// CheckIn records the student entering the library
// @Summary Check in to the library
// @Description Opens a presence entry for the acting student. Borrowing and returning require an open entry.
// @Tags presence
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.PresenceResponse "Checked in successfully"
// @Failure 400 {object} dto.ErrorResponse "Already checked in"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /presence/check-in [post]
func (ctrl *PresenceController) CheckIn(c *gin.Context) {
	id, ok := studentID(c)
	if !ok {
		return
	}

	entry, err := ctrl.presenceService.CheckIn(c, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PresenceResponse{
		Message: "Checked in successfully",
		Entry:   entry,
	})
}

// CheckOut records the student leaving the library
// @Summary Check out of the library
// @Description Closes the acting student's open presence entry
// @Tags presence
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.PresenceResponse "Checked out successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "No open check-in"
// @Router /presence/check-out [post]
func (ctrl *PresenceController) CheckOut(c *gin.Context) {
	id, ok := studentID(c)
	if !ok {
		return
	}

	entry, err := ctrl.presenceService.CheckOut(c, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PresenceResponse{
		Message: "Checked out successfully",
		Entry:   entry,
	})
}
