package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"platefeed/internal/models"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Friendship{},
		&models.Challenge{},
	))
	return db
}

func TestSeederPreservesAggregateInvariants(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Run(5, 30))

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 5)

	for _, u := range users {
		var posts []models.Post
		require.NoError(t, db.Where("user_id = ?", u.ID).Find(&posts).Error)

		// Health average matches the mean of the user's posts.
		want := 0.0
		for _, p := range posts {
			want += p.HealthScore
		}
		if len(posts) > 0 {
			want /= float64(len(posts))
		}
		assert.InDelta(t, want, u.HealthScoreAvg, 0.0001, "user %d", u.ID)

		// Total challenge sum never exceeds the per-post maximum.
		assert.LessOrEqual(t, u.TotalChalsSum, float64(len(posts)*models.ChallengeCount))
		perChallenge := u.Chal1Count + u.Chal2Count + u.Chal3Count + u.Chal4Count
		assert.InDelta(t, u.TotalChalsSum, perChallenge, 0.0001, "user %d", u.ID)
	}
}

func TestSeederFriendshipsNormalized(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db)

	users, err := s.SeedUsers(6)
	require.NoError(t, err)
	require.NoError(t, s.SeedFriendships(users, 20))

	var edges []models.Friendship
	require.NoError(t, db.Find(&edges).Error)
	seen := map[[2]uint]bool{}
	for _, e := range edges {
		assert.Less(t, e.UserAID, e.UserBID)
		pair := [2]uint{e.UserAID, e.UserBID}
		assert.False(t, seen[pair], "duplicate edge %v", pair)
		seen[pair] = true
	}
}

func TestSeederClearAll(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Run(3, 5))
	require.NoError(t, s.ClearAll())

	var userCount, postCount, edgeCount int64
	db.Model(&models.User{}).Count(&userCount)
	db.Model(&models.Post{}).Count(&postCount)
	db.Model(&models.Friendship{}).Count(&edgeCount)
	assert.Zero(t, userCount)
	assert.Zero(t, postCount)
	assert.Zero(t, edgeCount)
}
