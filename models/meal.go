package models

import (
	"time"

	"gorm.io/gorm"
)

// Meal is one logged entry: a name, when it was eaten, and its nutrient
// snapshot. Nutrients are stored denormalized so progress aggregation never
// needs a join.
type Meal struct {
	gorm.Model
	UserID uint      `gorm:"index;not null"`
	Name   string    `gorm:"not null"`
	AteAt  time.Time `gorm:"index;not null"`

	Calories float64
	Protein  float64 // grams
	Carbs    float64 // grams
	Fat      float64 // grams

	Notes string `gorm:"type:text"`
}
