// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"platefeed/internal/cache"
	"platefeed/internal/models"
	"platefeed/internal/observability"
)

// RankedUser is one leaderboard row: the user and the points they are ranked by.
type RankedUser struct {
	UserID   uint    `json:"userId"`
	Username string  `json:"username"`
	Points   float64 `json:"points"`
}

// UserRepository defines persistence operations for users and their aggregates.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByIDWithPosts(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	IncrementChallengeProgress(ctx context.Context, userID uint, flags [models.ChallengeCount]bool, total float64) error
	ChallengeLeaderboard(ctx context.Context, challengeNo, limit int) ([]RankedUser, error)
	HealthLeaderboard(ctx context.Context, limit int) ([]RankedUser, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("insert", "users")()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Email already registered")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// cachedUser mirrors every User column with explicit JSON names. models.User
// hides its counters and password hash from API responses, so marshaling it
// straight into Redis would drop them on the round trip and cache hits would
// come back with zeroed aggregates.
type cachedUser struct {
	ID             uint      `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	Password       string    `json:"password"`
	HealthScoreAvg float64   `json:"health_score_avg"`
	Chal1Count     float64   `json:"chal1_count"`
	Chal2Count     float64   `json:"chal2_count"`
	Chal3Count     float64   `json:"chal3_count"`
	Chal4Count     float64   `json:"chal4_count"`
	TotalChalsSum  float64   `json:"total_chals_sum"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func newCachedUser(u *models.User) cachedUser {
	return cachedUser{
		ID:             u.ID,
		Email:          u.Email,
		Username:       u.Username,
		Password:       u.Password,
		HealthScoreAvg: u.HealthScoreAvg,
		Chal1Count:     u.Chal1Count,
		Chal2Count:     u.Chal2Count,
		Chal3Count:     u.Chal3Count,
		Chal4Count:     u.Chal4Count,
		TotalChalsSum:  u.TotalChalsSum,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (c *cachedUser) toModel() *models.User {
	return &models.User{
		ID:             c.ID,
		Email:          c.Email,
		Username:       c.Username,
		Password:       c.Password,
		HealthScoreAvg: c.HealthScoreAvg,
		Chal1Count:     c.Chal1Count,
		Chal2Count:     c.Chal2Count,
		Chal3Count:     c.Chal3Count,
		Chal4Count:     c.Chal4Count,
		TotalChalsSum:  c.TotalChalsSum,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var entry cachedUser

	err := cache.Aside(ctx, cache.UserKey(id), &entry, cache.UserTTL, func() error {
		defer observability.TrackQuery("select", "users")()
		var user models.User
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		entry = newCachedUser(&user)
		return nil
	})

	if err != nil {
		return nil, err
	}
	return entry.toModel(), nil
}

func (r *userRepository) GetByIDWithPosts(ctx context.Context, id uint) (*models.User, error) {
	defer observability.TrackQuery("select", "users")()
	var user models.User
	if err := r.db.WithContext(ctx).
		Preload("Posts", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	defer observability.TrackQuery("select", "users")()
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	defer observability.TrackQuery("select", "users")()
	var users []models.User
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// IncrementChallengeProgress applies one judgement's challenge outcome to the
// user's counters in a single atomic UPDATE. Returns NotFound when the user
// does not exist.
func (r *userRepository) IncrementChallengeProgress(ctx context.Context, userID uint, flags [models.ChallengeCount]bool, total float64) error {
	updates := map[string]any{
		"total_chals_sum": gorm.Expr("total_chals_sum + ?", total),
	}
	for i, hit := range flags {
		if hit {
			col := fmt.Sprintf("chal%d_count", i+1)
			updates[col] = gorm.Expr(col + " + 1")
		}
	}

	defer observability.TrackQuery("update", "users")()
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(updates)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", userID)
	}

	cache.InvalidateUser(ctx, userID)
	return nil
}

// challengeColumns maps a 1-based challenge index to its counter column. Closed
// mapping; leaderboard queries never interpolate caller input into SQL.
var challengeColumns = map[int]string{
	1: "chal1_count",
	2: "chal2_count",
	3: "chal3_count",
	4: "chal4_count",
}

// ChallengeLeaderboard returns the top users for one challenge, ranked by that
// challenge's counter. The result is a flat projection rather than
// models.User so the cached JSON carries the points.
func (r *userRepository) ChallengeLeaderboard(ctx context.Context, challengeNo, limit int) ([]RankedUser, error) {
	col, ok := challengeColumns[challengeNo]
	if !ok {
		return nil, models.NewValidationError("Challenge number must be between 1 and 4")
	}
	limit = clampLeaderboardLimit(limit)

	var rows []RankedUser
	err := cache.Aside(ctx, cache.LeaderboardKey("chal", challengeNo, limit), &rows, cache.LeaderboardTTL, func() error {
		defer observability.TrackQuery("select", "users")()
		if err := r.db.WithContext(ctx).
			Model(&models.User{}).
			Select("id AS user_id, username, " + col + " AS points").
			Order(col + " DESC").
			Limit(limit).
			Scan(&rows).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *userRepository) HealthLeaderboard(ctx context.Context, limit int) ([]RankedUser, error) {
	limit = clampLeaderboardLimit(limit)

	var rows []RankedUser
	err := cache.Aside(ctx, cache.LeaderboardKey("health", 0, limit), &rows, cache.LeaderboardTTL, func() error {
		defer observability.TrackQuery("select", "users")()
		if err := r.db.WithContext(ctx).
			Model(&models.User{}).
			Select("id AS user_id, username, health_score_avg AS points").
			Order("health_score_avg DESC").
			Limit(limit).
			Scan(&rows).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func clampLeaderboardLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	if limit > 100 {
		return 100
	}
	return limit
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
