package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"platefeed/internal/cache"
	"platefeed/internal/models"
	"platefeed/internal/observability"
)

// FeedScope selects which slice of posts a feed query returns.
type FeedScope int

const (
	// ScopeFriends returns posts authored by the given user's friends.
	ScopeFriends FeedScope = iota
	// ScopeCommunity returns all public posts.
	ScopeCommunity
	// ScopeHealthy returns public posts with a health score above 8.0.
	ScopeHealthy
)

// SortMethod selects the ordering of a feed query.
type SortMethod string

const (
	SortRecency SortMethod = "recency"
	SortUpvotes SortMethod = "upvotes"
	SortHealth  SortMethod = "health"
)

// sortClauses is the closed mapping from sort method to ORDER BY clause.
// Unknown methods fall back to upvotes. Caller input never reaches SQL text.
var sortClauses = map[SortMethod]string{
	SortRecency: "created_at ASC",
	SortUpvotes: "upvotes DESC",
	SortHealth:  "health_score DESC",
}

func orderClause(sort SortMethod) string {
	if clause, ok := sortClauses[sort]; ok {
		return clause
	}
	return sortClauses[SortUpvotes]
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Upvote(ctx context.Context, id uint) (int64, error)
	Feed(ctx context.Context, scope FeedScope, friendIDs []uint, sort SortMethod) ([]models.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts the post and recomputes the author's running health average
// from persisted rows, both inside one transaction. The average is derived
// from the posts table rather than incrementally adjusted, so a crash between
// the two statements can never leave a drifted aggregate.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("insert", "posts")()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return tx.Exec(
			`UPDATE users SET health_score_avg = (
				SELECT COALESCE(AVG(health_score), 0) FROM posts WHERE user_id = ?
			) WHERE id = ?`,
			post.UserID, post.UserID,
		).Error
	})
	if err != nil {
		if isForeignKeyError(err) {
			return models.NewNotFoundError("User", post.UserID)
		}
		return models.NewInternalError(err)
	}

	cache.InvalidateUser(ctx, post.UserID)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	key := cache.PostKey(id)

	err := cache.Aside(ctx, key, &post, cache.PostTTL, func() error {
		defer observability.TrackQuery("select", "posts")()
		if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Upvote increments the post's upvote counter server-side and returns the new
// count. Two concurrent upvotes both land; the read-modify-write stays in the
// database.
func (r *postRepository) Upvote(ctx context.Context, id uint) (int64, error) {
	defer observability.TrackQuery("update", "posts")()
	var upvotes int64
	res := r.db.WithContext(ctx).
		Raw("UPDATE posts SET upvotes = upvotes + 1 WHERE id = ? RETURNING upvotes", id).
		Scan(&upvotes)
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, models.NewNotFoundError("Post", id)
	}

	cache.InvalidatePost(ctx, id)
	return upvotes, nil
}

func (r *postRepository) Feed(ctx context.Context, scope FeedScope, friendIDs []uint, sort SortMethod) ([]models.Post, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{})

	switch scope {
	case ScopeFriends:
		if len(friendIDs) == 0 {
			return []models.Post{}, nil
		}
		q = q.Where("user_id IN ?", friendIDs)
	case ScopeCommunity:
		q = q.Where("visibility = ?", models.VisibilityPublic)
	case ScopeHealthy:
		q = q.Where("visibility = ? AND health_score > ?", models.VisibilityPublic, 8.0)
	default:
		return nil, models.NewValidationError("Unknown feed scope")
	}

	defer observability.TrackQuery("select", "posts")()
	var posts []models.Post
	if err := q.Order(orderClause(sort)).Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// isForeignKeyError checks if a DB error is a foreign key violation.
func isForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	// PostgreSQL FK violation SQLSTATE 23503, sqlite "FOREIGN KEY constraint failed"
	return containsFold(msg, "foreign key") || containsFold(msg, "23503")
}
