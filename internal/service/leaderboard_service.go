package service

import (
	"context"

	"platefeed/internal/models"
	"platefeed/internal/repository"
)

// LeaderboardEntry is one ranked row returned to clients.
type LeaderboardEntry struct {
	UserID   uint    `json:"userId"`
	Username string  `json:"username"`
	Score    float64 `json:"score"`
}

// LeaderboardService ranks users by challenge progress or health average.
type LeaderboardService struct {
	userRepo      repository.UserRepository
	challengeRepo repository.ChallengeRepository
}

// NewLeaderboardService returns a new LeaderboardService.
func NewLeaderboardService(userRepo repository.UserRepository, challengeRepo repository.ChallengeRepository) *LeaderboardService {
	return &LeaderboardService{
		userRepo:      userRepo,
		challengeRepo: challengeRepo,
	}
}

// ChallengeLeaderboard returns the top users for one challenge index (1..4).
func (s *LeaderboardService) ChallengeLeaderboard(ctx context.Context, challengeNo, limit int) ([]LeaderboardEntry, error) {
	rows, err := s.userRepo.ChallengeLeaderboard(ctx, challengeNo, limit)
	if err != nil {
		return nil, err
	}
	return rankedEntries(rows), nil
}

// HealthLeaderboard returns the top users by average health score.
func (s *LeaderboardService) HealthLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	rows, err := s.userRepo.HealthLeaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}
	return rankedEntries(rows), nil
}

func rankedEntries(rows []repository.RankedUser) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, LeaderboardEntry{
			UserID:   row.UserID,
			Username: row.Username,
			Score:    row.Points,
		})
	}
	return entries
}

// Challenges returns the static challenge catalog.
func (s *LeaderboardService) Challenges(ctx context.Context) ([]models.Challenge, error) {
	return s.challengeRepo.List(ctx)
}
