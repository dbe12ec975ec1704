package server

import (
	"codelens/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetReview handles POST|GET /ai/get-response.
// Auth is optional: an authenticated caller additionally gets the result
// recorded in their history, an anonymous caller just gets the review.
func (s *Server) GetReview(c *fiber.Ctx) error {
	prompt := reviewPrompt(c)
	if prompt == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Prompt is required"))
	}

	userID, authenticated := s.resolveIdentity(c)

	review, err := s.reviewService.GenerateReview(c.Context(), prompt, userID, authenticated)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{"review": review})
}

// reviewPrompt extracts the prompt from the JSON body, falling back to the
// query string (the GET form of the endpoint).
func reviewPrompt(c *fiber.Ctx) string {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := c.BodyParser(&req); err == nil && req.Prompt != "" {
		return req.Prompt
	}
	return c.Query("prompt")
}
