// Package service contains the application's business logic.
package service

import (
	"context"
	"sort"

	"codelens/internal/models"
	"codelens/internal/repository"
	"codelens/internal/validation"
)

// HistoryReadLimit caps how many records the history endpoint returns.
const HistoryReadLimit = 50

// ProfileHistoryLimit caps how many recent records ride along with the profile.
const ProfileHistoryLimit = 10

type UserService struct {
	userRepo repository.UserRepository
}

type UpdateProfileInput struct {
	UserID   uint
	Name     string
	Email    string
	LastCode string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateProfile applies the provided fields, falling back to the existing
// value for any field left empty.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		if err := validation.ValidateName(in.Name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Name = in.Name
	}
	if in.Email != "" {
		if err := validation.ValidateEmail(in.Email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Email = in.Email
	}
	if in.LastCode != "" {
		user.LastCode = in.LastCode
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// History returns the user's review records sorted by createdAt descending,
// truncated to HistoryReadLimit.
func (s *UserService) History(ctx context.Context, userID uint) ([]models.ReviewRecord, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	history := make([]models.ReviewRecord, len(user.ReviewHistory))
	copy(history, user.ReviewHistory)

	sort.SliceStable(history, func(i, j int) bool {
		return history[i].CreatedAt.After(history[j].CreatedAt)
	})

	if len(history) > HistoryReadLimit {
		history = history[:HistoryReadLimit]
	}
	return history, nil
}

// AddReview appends a review record to the user's history. The repository
// enforces the cap and updates lastCode atomically.
func (s *UserService) AddReview(ctx context.Context, userID uint, code, review string) (*models.User, error) {
	return s.userRepo.AppendReview(ctx, userID, models.ReviewRecord{Code: code, Review: review})
}

// SaveCode persists the in-progress snippet. When a review is supplied the
// save also records a history entry through the same capped append path.
func (s *UserService) SaveCode(ctx context.Context, userID uint, code, review string) (*models.User, error) {
	if review != "" {
		return s.userRepo.AppendReview(ctx, userID, models.ReviewRecord{Code: code, Review: review})
	}
	return s.userRepo.SetLastCode(ctx, userID, code)
}
