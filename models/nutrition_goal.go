package models

import (
	"gorm.io/gorm"
)

const (
	GoalMaintain = "maintain"
	GoalLose     = "lose"
	GoalGain     = "gain"
)

// NutritionGoal holds a user's targets. At most one row per user; saves
// replace the record wholesale.
//
// Target fields are pointers: nil means "unset" and is distinct from an
// explicit zero. A target only participates in progress computation when it
// is non-nil, non-NaN and >= 0 (see services.GoalValue).
type NutritionGoal struct {
	gorm.Model
	UserID uint `gorm:"uniqueIndex;not null"`

	TargetCalories *float64 // kcal/day
	ProteinGoal    *float64 // g/day
	CarbsGoal      *float64 // g/day
	FatGoal        *float64 // g/day

	GoalType   string   `gorm:"size:16;default:maintain"` // maintain | lose | gain
	WeightGoal *float64 // kg, optional
	WeeklyGoal float64  // kg/week, sign indicates direction
}
