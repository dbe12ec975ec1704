// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"codelens/internal/cache"
	"codelens/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error

	// Update writes only the profile columns (name, email, lastCode). The
	// password hash and review history have their own write paths and must
	// never be clobbered by a profile save built from a possibly stale read.
	Update(ctx context.Context, user *models.User) error

	// AppendReview is the single operation every history writer goes
	// through. It appends the record, enforces the history cap, and sets
	// lastCode to the reviewed snippet, all within one locked transaction.
	AppendReview(ctx context.Context, userID uint, rec models.ReviewRecord) (*models.User, error)

	// SetLastCode updates only the autosaved snippet, using the same locked
	// row access as AppendReview so concurrent saves serialize.
	SetLastCode(ctx context.Context, userID uint, code string) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// cachedUser is the Redis envelope for a user row. models.User hides the
// password hash from JSON output, so marshaling it directly would round-trip
// cache hits with an empty hash.
type cachedUser struct {
	ID            uint                 `json:"id"`
	Name          string               `json:"name"`
	Email         string               `json:"email"`
	Password      string               `json:"password"`
	LastCode      string               `json:"lastCode"`
	ReviewHistory models.ReviewHistory `json:"reviewHistory"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

func toCachedUser(u *models.User) cachedUser {
	return cachedUser{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Password:      u.Password,
		LastCode:      u.LastCode,
		ReviewHistory: u.ReviewHistory,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (c cachedUser) toUser() *models.User {
	history := c.ReviewHistory
	if history == nil {
		history = models.ReviewHistory{}
	}
	return &models.User{
		ID:            c.ID,
		Name:          c.Name,
		Email:         c.Email,
		Password:      c.Password,
		LastCode:      c.LastCode,
		ReviewHistory: history,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var cu cachedUser
	key := cache.UserKey(id)

	err := cache.Aside(ctx, key, &cu, cache.UserTTL, func() error {
		var user models.User
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		cu = toCachedUser(&user)
		return nil
	})

	if err != nil {
		return nil, err
	}
	return cu.toUser(), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.ReviewHistory == nil {
		user.ReviewHistory = models.ReviewHistory{}
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("User already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	res := r.db.WithContext(ctx).Model(user).Updates(map[string]any{
		"name":      user.Name,
		"email":     user.Email,
		"last_code": user.LastCode,
	})
	if res.Error != nil {
		if isUniqueConstraintError(res.Error) {
			return models.NewConflictError("Email already in use")
		}
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", user.ID)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

func (r *userRepository) AppendReview(ctx context.Context, userID uint, rec models.ReviewRecord) (*models.User, error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockedFirst(tx, &user, userID); err != nil {
			return err
		}

		user.ReviewHistory = user.ReviewHistory.Append(rec)
		user.LastCode = rec.Code

		if err := tx.Save(&user).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateUser(ctx, userID)
	return &user, nil
}

func (r *userRepository) SetLastCode(ctx context.Context, userID uint, code string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockedFirst(tx, &user, userID); err != nil {
			return err
		}

		user.LastCode = code
		if err := tx.Save(&user).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateUser(ctx, userID)
	return &user, nil
}

// lockedFirst loads the user row with a FOR UPDATE lock where the dialect
// supports it. sqlite (tests) serializes writers on its own.
func lockedFirst(tx *gorm.DB, user *models.User, id uint) error {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("User", id)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505; sqlite says "UNIQUE constraint failed"
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
