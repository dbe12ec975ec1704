// Package seed creates demo data for development databases: accounts with
// plausible review histories and in-progress snippets.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"codelens/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the login password for every seeded account.
const DemoPassword = "password123"

// Options control how much demo data is created.
type Options struct {
	NumUsers   int
	MaxReviews int // per-user history size is random up to this
	Clean      bool
}

// Run seeds demo users. Existing rows survive unless Clean is set.
func Run(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 5
	}
	if opts.MaxReviews <= 0 {
		opts.MaxReviews = 8
	}

	if opts.Clean {
		if err := db.Exec("DELETE FROM users").Error; err != nil {
			return fmt.Errorf("cleaning users: %w", err)
		}
	}

	gofakeit.Seed(time.Now().UnixNano())
	hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing demo password: %w", err)
	}

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := 0; i < opts.NumUsers; i++ {
		user := buildUser(r, string(hashed), r.Intn(opts.MaxReviews+1))
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("seeding user %s: %w", user.Email, err)
		}
	}

	log.Printf("seeded %d demo users (password %q)", opts.NumUsers, DemoPassword)
	return nil
}

func buildUser(r *rand.Rand, hashedPassword string, reviews int) *models.User {
	user := &models.User{
		Name:     gofakeit.Name(),
		Email:    gofakeit.Email(),
		Password: hashedPassword,
	}

	for i := 0; i < reviews; i++ {
		rec := models.ReviewRecord{
			Code:   demoSnippet(r),
			Review: demoReview(),
			// spread the history over the past month, oldest first
			CreatedAt: time.Now().
				Add(-time.Duration(reviews-i) * 24 * time.Hour).
				Add(-time.Duration(r.Intn(600)) * time.Minute),
		}
		user.ReviewHistory = user.ReviewHistory.Append(rec)
	}
	if n := len(user.ReviewHistory); n > 0 {
		user.LastCode = user.ReviewHistory[n-1].Code
	}
	return user
}

var snippetTemplates = []string{
	"function %s(items) {\n  return items.filter(Boolean).length\n}",
	"def %s(values):\n    return sum(v * v for v in values)\n",
	"func %s(xs []int) int {\n\ttotal := 0\n\tfor _, x := range xs {\n\t\ttotal += x\n\t}\n\treturn total\n}",
	"const %s = async (url) => {\n  const res = await fetch(url)\n  return res.json()\n}",
}

func demoSnippet(r *rand.Rand) string {
	tmpl := snippetTemplates[r.Intn(len(snippetTemplates))]
	return fmt.Sprintf(tmpl, gofakeit.Word())
}

func demoReview() string {
	return fmt.Sprintf("**Summary**: %s\n\n- %s\n- %s\n",
		gofakeit.Sentence(8), gofakeit.Sentence(10), gofakeit.Sentence(9))
}
