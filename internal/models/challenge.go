package models

// Challenge is a static catalog entry describing one of the four fixed
// meal-quality criteria. Read-only reference data.
type Challenge struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text;not null" json:"description"`
}

// ChallengeCatalog returns the fixed set of challenges seeded at startup.
func ChallengeCatalog() []Challenge {
	return []Challenge{
		{ID: 1, Name: "Veggie Boost", Description: "The meal includes vegetables"},
		{ID: 2, Name: "Wholegrain Hero", Description: "The meal contains wholegrains"},
		{ID: 3, Name: "Protein Power", Description: "The meal contains some form of protein"},
		{ID: 4, Name: "Fry-Free", Description: "The meal does not contain fried foods"},
	}
}
