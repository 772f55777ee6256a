package models

import (
	"errors"
	"strings"
)

// Judgement is the structured output of the vision-model oracle for one meal
// image. The oracle is an opaque external collaborator; this is the fixed
// shape the scoring pipeline consumes.
type Judgement struct {
	FoodName    string  `json:"food_name"`
	Calories    int     `json:"calories"`
	HealthScore float64 `json:"health_score"`
	Ingredients string  `json:"ingredients"`
	Chal1       bool    `json:"chal1"`
	Chal2       bool    `json:"chal2"`
	Chal3       bool    `json:"chal3"`
	Chal4       bool    `json:"chal4"`
	TotalChals  float64 `json:"total_chals"`
}

// ChallengeFlags returns the four challenge booleans in order.
func (j *Judgement) ChallengeFlags() [ChallengeCount]bool {
	return [ChallengeCount]bool{j.Chal1, j.Chal2, j.Chal3, j.Chal4}
}

// IngredientList splits the oracle's comma-separated ingredient string into
// the ordered list persisted on the post.
func (j *Judgement) IngredientList() IngredientList {
	if j.Ingredients == "" {
		return IngredientList{}
	}
	return IngredientList(strings.Split(j.Ingredients, ", "))
}

// Validate rejects judgements outside the oracle's documented output shape.
// A judgement failing validation is treated as malformed oracle output.
func (j *Judgement) Validate() error {
	if j.Ingredients == "" {
		return errors.New("judgement missing ingredients")
	}
	if j.Calories < 0 {
		return errors.New("judgement has negative calories")
	}
	if j.HealthScore < 0 || j.HealthScore > 10 {
		return errors.New("judgement health score out of range")
	}
	if j.TotalChals < 0 || j.TotalChals > ChallengeCount {
		return errors.New("judgement total challenges out of range")
	}
	return nil
}
