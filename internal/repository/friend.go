package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"platefeed/internal/models"
	"platefeed/internal/observability"
)

// FriendRepository defines persistence operations for the friendship graph.
type FriendRepository interface {
	AddFriend(ctx context.Context, userID, friendID uint) error
	FriendIDs(ctx context.Context, userID uint) ([]uint, error)
}

type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository returns a new FriendRepository implementation.
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

// AddFriend records a symmetric friendship edge. The pair is normalized before
// insert and the write ignores conflicts, so the operation is idempotent: a
// repeat add leaves exactly one row and a concurrent pair of adds cannot
// create a half-link.
func (r *friendRepository) AddFriend(ctx context.Context, userID, friendID uint) error {
	if userID == friendID {
		return models.NewValidationError("Cannot add yourself as a friend")
	}

	a, b := models.NormalizeFriendPair(userID, friendID)
	edge := models.Friendship{UserAID: a, UserBID: b}

	defer observability.TrackQuery("insert", "friendships")()
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&edge).Error
	if err != nil {
		if isForeignKeyError(err) {
			// The constraint violation does not say which side was absent.
			return models.NewNotFoundError("User", fmt.Sprintf("%d or %d", userID, friendID))
		}
		return models.NewInternalError(err)
	}
	return nil
}

// FriendIDs returns the ids of every user linked to userID, in either
// direction of the normalized edge.
func (r *friendRepository) FriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	defer observability.TrackQuery("select", "friendships")()
	var edges []models.Friendship
	if err := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Find(&edges).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	ids := make([]uint, 0, len(edges))
	for _, e := range edges {
		if e.UserAID == userID {
			ids = append(ids, e.UserBID)
		} else {
			ids = append(ids, e.UserAID)
		}
	}
	return ids, nil
}
