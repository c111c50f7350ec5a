package models

import (
	"gorm.io/gorm"
)

// Diet types a user can declare on their profile. The conflict checker keys
// its disallowed-ingredient table on these values.
const (
	DietNone        = "none"
	DietVegetarian  = "vegetarian"
	DietVegan       = "vegan"
	DietPescatarian = "pescatarian"
	DietKeto        = "keto"
	DietPaleo       = "paleo"
)

type User struct {
	gorm.Model
	Email       string `gorm:"uniqueIndex;not null"`
	Password    string `gorm:"not null"`
	DisplayName string

	// Profile context consumed by the insight pipeline. Allergies and
	// Restrictions are free text, comma or newline separated.
	DietType         string `gorm:"size:20;default:none"`
	Allergies        string `gorm:"type:text"`
	Restrictions     string `gorm:"type:text"`
	HealthConditions string `gorm:"type:text"`
	PhotoURL         string

	Disabled bool `gorm:"default:false"`
}
