package service

import (
	"context"

	"platefeed/internal/cache"
	"platefeed/internal/models"
	"platefeed/internal/observability"
	"platefeed/internal/repository"
)

// FeedService answers feed queries over the post store. Results are cached
// per scope and sort for a short TTL; feeds tolerate the same staleness
// window as leaderboards.
type FeedService struct {
	postRepo   repository.PostRepository
	friendRepo repository.FriendRepository
}

// NewFeedService returns a new FeedService.
func NewFeedService(postRepo repository.PostRepository, friendRepo repository.FriendRepository) *FeedService {
	return &FeedService{
		postRepo:   postRepo,
		friendRepo: friendRepo,
	}
}

// FriendsFeed returns posts authored by the user's friends. A user with no
// friends gets an empty feed, not an error.
func (s *FeedService) FriendsFeed(ctx context.Context, userID uint, sort string) ([]models.Post, error) {
	if userID == 0 {
		return nil, models.NewValidationError("User ID is required")
	}

	observability.FeedRequestsTotal.WithLabelValues("friends", sort).Inc()

	var posts []models.Post
	err := cache.Aside(ctx, cache.FeedKey("friends", userID, sort), &posts, cache.FeedTTL, func() error {
		friendIDs, err := s.friendRepo.FriendIDs(ctx, userID)
		if err != nil {
			return err
		}
		posts, err = s.postRepo.Feed(ctx, repository.ScopeFriends, friendIDs, repository.SortMethod(sort))
		return err
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// CommunityFeed returns every public post.
func (s *FeedService) CommunityFeed(ctx context.Context, sort string) ([]models.Post, error) {
	observability.FeedRequestsTotal.WithLabelValues("community", sort).Inc()
	return s.cachedFeed(ctx, "community", repository.ScopeCommunity, sort)
}

// HealthyFeed returns public posts with a health score above 8.0.
func (s *FeedService) HealthyFeed(ctx context.Context, sort string) ([]models.Post, error) {
	observability.FeedRequestsTotal.WithLabelValues("healthy", sort).Inc()
	return s.cachedFeed(ctx, "healthy", repository.ScopeHealthy, sort)
}

func (s *FeedService) cachedFeed(ctx context.Context, name string, scope repository.FeedScope, sort string) ([]models.Post, error) {
	var posts []models.Post
	err := cache.Aside(ctx, cache.FeedKey(name, 0, sort), &posts, cache.FeedTTL, func() error {
		var err error
		posts, err = s.postRepo.Feed(ctx, scope, nil, repository.SortMethod(sort))
		return err
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}
