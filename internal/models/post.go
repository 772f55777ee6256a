package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Visibility controls who may see a post in feeds.
type Visibility string

const (
	// VisibilityPublic makes the post visible in community feeds.
	VisibilityPublic Visibility = "public"
	// VisibilityFriends restricts the post to the owner's friends.
	VisibilityFriends Visibility = "friends"
)

// Valid reports whether v is a known visibility value.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityFriends
}

// IngredientList is an ordered list of ingredient names, persisted as JSON.
type IngredientList []string

// Value implements driver.Valuer.
func (l IngredientList) Value() (driver.Value, error) {
	if l == nil {
		l = IngredientList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *IngredientList) Scan(value interface{}) error {
	if value == nil {
		*l = IngredientList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported ingredient list type %T", value)
	}
}

// Post is an immutable judgement snapshot of one uploaded meal. Only Upvotes
// changes after creation, and only via the store's atomic increment; posts are
// never deleted.
type Post struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	User        User           `gorm:"foreignKey:UserID" json:"-"`
	FrontImage  string         `gorm:"type:text" json:"front_image"`
	BackImage   string         `gorm:"type:text" json:"back_image"`
	Ingredients IngredientList `gorm:"type:text" json:"ingredients"`
	Calories    int            `gorm:"not null" json:"calories"`
	HealthScore float64        `gorm:"not null;index" json:"health_score"`
	Visibility  Visibility     `gorm:"type:varchar(16);not null;index" json:"visibility"`
	Upvotes     int64          `gorm:"not null;default:0" json:"upvotes"`
	CreatedAt   time.Time      `json:"timestamp"`
}
