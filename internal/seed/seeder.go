// Package seed generates realistic demo data for development environments.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"platefeed/internal/models"
)

// Seeder creates demo users, scored meals, and friendships. Seeded data keeps
// the aggregate invariants: a user's health average always equals the mean of
// their posts, and challenge counters match the seeded meal outcomes.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder returns a Seeder for the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// ClearAll removes all seeded rows. Challenge catalog rows are kept.
func (s *Seeder) ClearAll() error {
	for _, table := range []string{"friendships", "posts", "users"} {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	log.Println("Cleared users, posts, and friendships")
	return nil
}

var mealNames = []string{
	"Grilled chicken salad", "Veggie stir fry", "Overnight oats",
	"Salmon poke bowl", "Lentil curry", "Fish and chips",
	"Quinoa buddha bowl", "Cheeseburger and fries", "Tofu ramen",
	"Greek yogurt parfait", "Chicken burrito", "Avocado toast",
}

// SeedUsers creates n users with a known password for local login.
func (s *Seeder) SeedUsers(n int) ([]models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("Demo-password-123!"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		user := models.User{
			Email:    fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			Username: gofakeit.Username(),
			Password: string(hashed),
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to seed user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("Seeded %d users", len(users))
	return users, nil
}

// SeedPosts creates n scored meal posts spread across the given users and
// folds each generated judgement into the author's aggregates.
func (s *Seeder) SeedPosts(users []models.User, n int) error {
	if len(users) == 0 {
		return fmt.Errorf("no users to attach posts to")
	}

	for i := 0; i < n; i++ {
		author := users[rand.Intn(len(users))]

		ingredients := make([]string, 0, 4)
		for j := 0; j < 2+rand.Intn(3); j++ {
			ingredients = append(ingredients, strings.ToLower(gofakeit.Vegetable()))
		}

		flags := [models.ChallengeCount]bool{}
		total := 0.0
		for j := range flags {
			if rand.Intn(2) == 1 {
				flags[j] = true
				total++
			}
		}

		visibility := models.VisibilityPublic
		if rand.Intn(4) == 0 {
			visibility = models.VisibilityFriends
		}

		post := models.Post{
			UserID:      author.ID,
			FrontImage:  gofakeit.ImageURL(640, 480),
			BackImage:   gofakeit.ImageURL(640, 480),
			Ingredients: models.IngredientList(ingredients),
			Calories:    200 + rand.Intn(900),
			HealthScore: float64(rand.Intn(101)) / 10,
			Visibility:  visibility,
		}

		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&post).Error; err != nil {
				return err
			}
			if err := tx.Exec(
				`UPDATE users SET health_score_avg = (
					SELECT COALESCE(AVG(health_score), 0) FROM posts WHERE user_id = ?
				) WHERE id = ?`,
				post.UserID, post.UserID,
			).Error; err != nil {
				return err
			}

			updates := map[string]any{
				"total_chals_sum": gorm.Expr("total_chals_sum + ?", total),
			}
			for j, hit := range flags {
				if hit {
					col := fmt.Sprintf("chal%d_count", j+1)
					updates[col] = gorm.Expr(col + " + 1")
				}
			}
			return tx.Model(&models.User{}).Where("id = ?", post.UserID).Updates(updates).Error
		})
		if err != nil {
			return fmt.Errorf("failed to seed post: %w", err)
		}
	}
	log.Printf("Seeded %d posts", n)
	return nil
}

// SeedFriendships links users into a random mesh of roughly n edges.
func (s *Seeder) SeedFriendships(users []models.User, n int) error {
	if len(users) < 2 {
		return nil
	}

	created := 0
	for i := 0; i < n; i++ {
		u := users[rand.Intn(len(users))]
		v := users[rand.Intn(len(users))]
		if u.ID == v.ID {
			continue
		}

		a, b := models.NormalizeFriendPair(u.ID, v.ID)
		edge := models.Friendship{UserAID: a, UserBID: b}
		res := s.db.Where("user_a_id = ? AND user_b_id = ?", a, b).FirstOrCreate(&edge)
		if res.Error != nil {
			return fmt.Errorf("failed to seed friendship: %w", res.Error)
		}
		created++
	}
	log.Printf("Seeded up to %d friendships", created)
	return nil
}

// Run seeds users, posts, and friendships in one pass.
func (s *Seeder) Run(numUsers, numPosts int) error {
	users, err := s.SeedUsers(numUsers)
	if err != nil {
		return err
	}
	if err := s.SeedPosts(users, numPosts); err != nil {
		return err
	}
	return s.SeedFriendships(users, numUsers*2)
}
