package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platefeed/internal/models"
	"platefeed/internal/repository"
)

// rankedUserRepo returns canned leaderboard rows.
type rankedUserRepo struct {
	stubUserRepo
	ranked []repository.RankedUser
}

func (s *rankedUserRepo) ChallengeLeaderboard(_ context.Context, challengeNo, _ int) ([]repository.RankedUser, error) {
	if challengeNo < 1 || challengeNo > models.ChallengeCount {
		return nil, models.NewValidationError("Challenge number must be between 1 and 4")
	}
	return s.ranked, nil
}

func (s *rankedUserRepo) HealthLeaderboard(_ context.Context, _ int) ([]repository.RankedUser, error) {
	return s.ranked, nil
}

type stubChallengeRepo struct{}

func (stubChallengeRepo) List(_ context.Context) ([]models.Challenge, error) {
	return models.ChallengeCatalog(), nil
}

func TestLeaderboardService_ChallengeLeaderboard(t *testing.T) {
	repo := &rankedUserRepo{ranked: []repository.RankedUser{
		{UserID: 2, Username: "high", Points: 7},
		{UserID: 1, Username: "low", Points: 3},
	}}
	svc := NewLeaderboardService(repo, stubChallengeRepo{})

	entries, err := svc.ChallengeLeaderboard(context.Background(), 2, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "high", entries[0].Username)
	assert.InDelta(t, 7.0, entries[0].Score, 0.0001)
	assert.InDelta(t, 3.0, entries[1].Score, 0.0001)
}

func TestLeaderboardService_ChallengeLeaderboardBadIndex(t *testing.T) {
	svc := NewLeaderboardService(&rankedUserRepo{}, stubChallengeRepo{})

	_, err := svc.ChallengeLeaderboard(context.Background(), 0, 10)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestLeaderboardService_HealthLeaderboard(t *testing.T) {
	repo := &rankedUserRepo{ranked: []repository.RankedUser{
		{UserID: 1, Username: "top", Points: 9.1},
	}}
	svc := NewLeaderboardService(repo, stubChallengeRepo{})

	entries, err := svc.HealthLeaderboard(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.InDelta(t, 9.1, entries[0].Score, 0.0001)
}

func TestLeaderboardService_Challenges(t *testing.T) {
	svc := NewLeaderboardService(&rankedUserRepo{}, stubChallengeRepo{})

	challenges, err := svc.Challenges(context.Background())
	require.NoError(t, err)
	assert.Len(t, challenges, models.ChallengeCount)
}
