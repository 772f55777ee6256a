package repository

import (
	"context"

	"gorm.io/gorm"

	"platefeed/internal/cache"
	"platefeed/internal/models"
	"platefeed/internal/observability"
)

// ChallengeRepository provides read access to the static challenge catalog.
type ChallengeRepository interface {
	List(ctx context.Context) ([]models.Challenge, error)
}

type challengeRepository struct {
	db *gorm.DB
}

// NewChallengeRepository returns a new ChallengeRepository implementation.
func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

func (r *challengeRepository) List(ctx context.Context) ([]models.Challenge, error) {
	var challenges []models.Challenge
	err := cache.Aside(ctx, cache.ChallengesKey, &challenges, cache.ChallengeTTL, func() error {
		defer observability.TrackQuery("select", "challenges")()
		if err := r.db.WithContext(ctx).Order("id ASC").Find(&challenges).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return challenges, nil
}
