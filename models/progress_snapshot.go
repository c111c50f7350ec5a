package models

import (
	"time"

	"gorm.io/gorm"
)

// ProgressSnapshot is the denormalized per-day nutrient total, upserted every
// time progress is recomputed. History, weekly overviews, streaks and trends
// all read from these rows instead of re-summing raw meals.
type ProgressSnapshot struct {
	gorm.Model
	UserID uint      `gorm:"index;not null"`
	Date   time.Time `gorm:"index;not null"` // truncated to YYYY-MM-DD

	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
}
