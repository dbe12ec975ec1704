package seed

import (
	"testing"

	"codelens/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:seedtest?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM users")
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestRun(t *testing.T) {
	db := newSeedDB(t)

	require.NoError(t, Run(db, Options{NumUsers: 4, MaxReviews: 5, Clean: true}))

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 4)

	for _, u := range users {
		assert.NotEmpty(t, u.Name)
		assert.NotEmpty(t, u.Email)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(DemoPassword)))
		assert.LessOrEqual(t, len(u.ReviewHistory), 5)
		if len(u.ReviewHistory) > 0 {
			assert.Equal(t, u.ReviewHistory[len(u.ReviewHistory)-1].Code, u.LastCode)
		}
	}
}

func TestRun_CleanReplacesExisting(t *testing.T) {
	db := newSeedDB(t)

	require.NoError(t, Run(db, Options{NumUsers: 2, Clean: true}))
	require.NoError(t, Run(db, Options{NumUsers: 3, Clean: true}))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}
