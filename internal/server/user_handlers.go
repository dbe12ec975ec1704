package server

import (
	"codelens/internal/models"
	"codelens/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /auth/profile
func (s *Server) GetProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userService.GetUserByID(c.Context(), userID)
	if err != nil {
		// The token verified but its subject no longer resolves (deleted
		// account with a still-live token).
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	// Last 10 entries in stored order; the history endpoint does the
	// re-sorted, longer view.
	recent := user.ReviewHistory
	if len(recent) > service.ProfileHistoryLimit {
		recent = recent[len(recent)-service.ProfileHistoryLimit:]
	}

	return c.JSON(fiber.Map{
		"id":            user.ID,
		"name":          user.Name,
		"email":         user.Email,
		"lastCode":      user.LastCode,
		"reviewHistory": recent,
	})
}

// UpdateProfile handles PUT /auth/profile
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		LastCode string `json:"lastCode"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:   userID,
		Name:     req.Name,
		Email:    req.Email,
		LastCode: req.LastCode,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(user.ToProfile())
}
