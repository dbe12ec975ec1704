package service

import (
	"context"
	"log/slog"

	"codelens/internal/middleware"
	"codelens/internal/models"
	"codelens/internal/observability"
	"codelens/internal/repository"
)

// TextGenerator produces review text for a prompt. Satisfied by ai.GeminiClient.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ReviewService orchestrates review generation and the best-effort history
// write for authenticated callers.
type ReviewService struct {
	gen      TextGenerator
	userRepo repository.UserRepository
}

func NewReviewService(gen TextGenerator, userRepo repository.UserRepository) *ReviewService {
	return &ReviewService{gen: gen, userRepo: userRepo}
}

// GenerateReview calls the AI service and, when a user identity is present,
// records the result in that user's history. A history-save failure is
// logged and suppressed: the caller still gets their review.
func (s *ReviewService) GenerateReview(ctx context.Context, prompt string, userID uint, authenticated bool) (string, error) {
	review, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		return "", err
	}

	if authenticated {
		if _, err := s.userRepo.AppendReview(ctx, userID, models.ReviewRecord{
			Code:   prompt,
			Review: review,
		}); err != nil {
			observability.HistoryAppendFailures.Inc()
			middleware.Logger.WarnContext(ctx, "failed to save review to history",
				slog.Any("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
	}

	return review, nil
}
