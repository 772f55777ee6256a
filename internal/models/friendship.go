package models

import "time"

// Friendship is a single symmetric edge between two users. The pair is stored
// normalized (UserAID < UserBID) under a uniqueness constraint, so one row
// represents the whole relationship and re-adding a friend cannot produce a
// duplicate or a half-link.
type Friendship struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserAID   uint      `gorm:"not null;uniqueIndex:idx_friend_pair" json:"user_a_id"`
	UserBID   uint      `gorm:"not null;uniqueIndex:idx_friend_pair" json:"user_b_id"`
	CreatedAt time.Time `json:"created_at"`

	UserA User `gorm:"foreignKey:UserAID" json:"-"`
	UserB User `gorm:"foreignKey:UserBID" json:"-"`
}

// TableName specifies the table name for GORM
func (Friendship) TableName() string {
	return "friendships"
}

// NormalizeFriendPair orders two user ids so the smaller one comes first.
func NormalizeFriendPair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}
