package server

import (
	"codelens/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetHistory handles GET /auth/history
func (s *Server) GetHistory(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	history, err := s.userService.History(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(history)
}

// AddHistory handles POST /auth/history
func (s *Server) AddHistory(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Code   string `json:"code"`
		Review string `json:"review"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Code == "" || req.Review == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Code and review are required"))
	}

	if _, err := s.userService.AddReview(c.Context(), userID, req.Code, req.Review); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Review added to history"})
}

// SaveCode handles POST /auth/save-code
func (s *Server) SaveCode(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Code   string `json:"code"`
		Review string `json:"review"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.SaveCode(c.Context(), userID, req.Code, req.Review)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"message":  "Code saved successfully",
		"lastCode": user.LastCode,
	})
}
