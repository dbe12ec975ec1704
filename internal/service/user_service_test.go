package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"codelens/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfile_FallsBackToExistingValues(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	existing := &models.User{ID: 1, Name: "Alice", Email: "a@x.com", LastCode: "old code"}
	repo.On("GetByID", mock.Anything, uint(1)).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	updated, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID: 1,
		Name:   "Alice Cooper",
		// Email and LastCode omitted
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", updated.Name)
	assert.Equal(t, "a@x.com", updated.Email)
	assert.Equal(t, "old code", updated.LastCode)
}

func TestUpdateProfile_RejectsBadEmail(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	repo.On("GetByID", mock.Anything, uint(1)).Return(&models.User{ID: 1}, nil)

	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Email: "not-an-email"})
	assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestHistory_SortedDescendingAndTruncated(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var stored models.ReviewHistory
	for i := 0; i < 80; i++ {
		stored = append(stored, models.ReviewRecord{
			Code:      fmt.Sprintf("c%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	repo.On("GetByID", mock.Anything, uint(1)).Return(&models.User{ID: 1, ReviewHistory: stored}, nil)

	history, err := svc.History(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, history, HistoryReadLimit)

	// Newest first.
	assert.Equal(t, "c79", history[0].Code)
	for i := 1; i < len(history); i++ {
		assert.False(t, history[i].CreatedAt.After(history[i-1].CreatedAt))
	}

	// The stored order on the user document is untouched.
	assert.Equal(t, "c0", stored[0].Code)
}

func TestSaveCode_WithAndWithoutReview(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	repo.On("SetLastCode", mock.Anything, uint(1), "just code").
		Return(&models.User{ID: 1, LastCode: "just code"}, nil)
	repo.On("AppendReview", mock.Anything, uint(1), mock.MatchedBy(func(rec models.ReviewRecord) bool {
		return rec.Code == "code" && rec.Review == "review"
	})).Return(&models.User{ID: 1, LastCode: "code"}, nil)

	_, err := svc.SaveCode(context.Background(), 1, "just code", "")
	require.NoError(t, err)

	_, err = svc.SaveCode(context.Background(), 1, "code", "review")
	require.NoError(t, err)

	repo.AssertExpectations(t)
}
