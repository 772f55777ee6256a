// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// ChallengeCount is the number of fixed meal-quality challenges.
const ChallengeCount = 4

// User represents a registered account together with its derived aggregate
// state. HealthScoreAvg is always the exact mean of the user's post scores;
// it is recomputed inside the same transaction as each post insert, never
// tracked incrementally, so it cannot drift.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Username string `gorm:"not null" json:"username"`
	Password string `gorm:"not null" json:"-"`

	HealthScoreAvg float64 `gorm:"not null;default:0" json:"health_score_avg"`

	// Per-challenge cumulative counters. Stored as typed columns rather than a
	// serialized array so increments are single server-side UPDATEs and
	// leaderboards are plain ORDER BY clauses.
	Chal1Count    float64 `gorm:"not null;default:0" json:"-"`
	Chal2Count    float64 `gorm:"not null;default:0" json:"-"`
	Chal3Count    float64 `gorm:"not null;default:0" json:"-"`
	Chal4Count    float64 `gorm:"not null;default:0" json:"-"`
	TotalChalsSum float64 `gorm:"not null;default:0" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Posts []Post `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// ChallengeProgress returns the counters as the ordered 5-element sequence
// [chal1, chal2, chal3, chal4, total] exposed by the API.
func (u *User) ChallengeProgress() [5]float64 {
	return [5]float64{u.Chal1Count, u.Chal2Count, u.Chal3Count, u.Chal4Count, u.TotalChalsSum}
}
