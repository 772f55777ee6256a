package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platefeed/internal/cache"
	"platefeed/internal/models"
)

// stubFriendRepo serves a fixed adjacency map.
type stubFriendRepo struct {
	friends map[uint][]uint
	added   [][2]uint
}

func (s *stubFriendRepo) AddFriend(_ context.Context, userID, friendID uint) error {
	s.added = append(s.added, [2]uint{userID, friendID})
	return nil
}

func (s *stubFriendRepo) FriendIDs(_ context.Context, userID uint) ([]uint, error) {
	return s.friends[userID], nil
}

func TestFeedService_FriendsFeedEmptyGraph(t *testing.T) {
	postRepo := newStubPostRepo()
	require.NoError(t, postRepo.Create(context.Background(), &models.Post{UserID: 2}))

	svc := NewFeedService(postRepo, &stubFriendRepo{friends: map[uint][]uint{}})
	posts, err := svc.FriendsFeed(context.Background(), 1, "upvotes")
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestFeedService_FriendsFeedRequiresUser(t *testing.T) {
	svc := NewFeedService(newStubPostRepo(), &stubFriendRepo{})
	_, err := svc.FriendsFeed(context.Background(), 0, "upvotes")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestFeedService_CommunityFeed(t *testing.T) {
	postRepo := newStubPostRepo()
	require.NoError(t, postRepo.Create(context.Background(), &models.Post{UserID: 1, Visibility: models.VisibilityPublic}))

	svc := NewFeedService(postRepo, &stubFriendRepo{})
	posts, err := svc.CommunityFeed(context.Background(), "recency")
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestFeedService_CommunityFeedCached(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.Client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Client = nil })

	postRepo := newStubPostRepo()
	require.NoError(t, postRepo.Create(context.Background(), &models.Post{
		UserID: 1, HealthScore: 7, Visibility: models.VisibilityPublic,
		Ingredients: models.IngredientList{"rice"},
	}))

	svc := NewFeedService(postRepo, &stubFriendRepo{})
	for i := 0; i < 2; i++ {
		posts, err := svc.CommunityFeed(context.Background(), "upvotes")
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, models.IngredientList{"rice"}, posts[0].Ingredients)
	}
	// Second read came out of the cache, not the store.
	assert.Equal(t, 1, postRepo.feedCalls)
}

func TestFriendService_AddFriendChecksBothUsers(t *testing.T) {
	alice := &models.User{ID: 1}
	userRepo := newStubUserRepo(alice)
	friendRepo := &stubFriendRepo{friends: map[uint][]uint{}}
	svc := NewFriendService(userRepo, friendRepo)

	err := svc.AddFriend(context.Background(), 1, 2)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
	assert.Empty(t, friendRepo.added)
}

func TestFriendService_AddFriend(t *testing.T) {
	userRepo := newStubUserRepo(&models.User{ID: 1}, &models.User{ID: 2, Email: "b@e.com"})
	friendRepo := &stubFriendRepo{friends: map[uint][]uint{}}
	svc := NewFriendService(userRepo, friendRepo)

	require.NoError(t, svc.AddFriend(context.Background(), 1, 2))
	assert.Equal(t, [][2]uint{{1, 2}}, friendRepo.added)
}
