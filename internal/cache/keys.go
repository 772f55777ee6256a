package cache

import (
	"context"
	"fmt"
	"time"
)

// Key inventory. Feeds and leaderboards are recomputed often enough that a
// short TTL keeps them fresh without hammering the database; user profiles
// are invalidated explicitly on writes.
const (
	UserTTL        = 5 * time.Minute
	PostTTL        = 5 * time.Minute
	FeedTTL        = 30 * time.Second
	LeaderboardTTL = 30 * time.Second
	ChallengeTTL   = 1 * time.Hour
)

// UserKey returns the cache key for a user profile.
func UserKey(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// PostKey returns the cache key for a single post.
func PostKey(postID uint) string {
	return fmt.Sprintf("post:%d", postID)
}

// FeedKey returns the cache key for a feed query.
func FeedKey(scope string, userID uint, sort string) string {
	return fmt.Sprintf("feed:%s:%d:%s", scope, userID, sort)
}

// LeaderboardKey returns the cache key for a leaderboard query.
func LeaderboardKey(kind string, arg, limit int) string {
	return fmt.Sprintf("lb:%s:%d:%d", kind, arg, limit)
}

// ChallengesKey is the cache key for the static challenge catalog.
const ChallengesKey = "challenges:all"

// InvalidateUser drops the cached profile for a user.
func InvalidateUser(ctx context.Context, userID uint) {
	Delete(ctx, UserKey(userID))
}

// InvalidatePost drops the cached copy of a post.
func InvalidatePost(ctx context.Context, postID uint) {
	Delete(ctx, PostKey(postID))
}
