package utils

import (
	"errors"
	"math"
)

// Roughly 7700 kcal per kg of body weight.
const kcalPerKg = 7700.0

// MacroTargets is a suggested daily target split derived from a calorie
// budget: 30% protein, 40% carbs, 30% fat.
type MacroTargets struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein_g"`
	Carbs    float64 `json:"carbs_g"`
	Fat      float64 `json:"fat_g"`
}

// AdjustedCalorieTarget shifts a maintenance calorie estimate by the weekly
// weight-change rate. weeklyKg is signed: negative means losing weight.
func AdjustedCalorieTarget(maintenanceKcal, weeklyKg float64) (float64, error) {
	if maintenanceKcal <= 0 {
		return 0, errors.New("maintenance calories must be positive")
	}
	// Cap at ±1 kg/week; faster rates produce unsafe daily deficits.
	if math.Abs(weeklyKg) > 1.0 {
		return 0, errors.New("weekly goal out of supported range (max 1 kg/week)")
	}
	daily := maintenanceKcal + weeklyKg*kcalPerKg/7.0
	if daily < 1200 {
		daily = 1200 // floor against starvation-level targets
	}
	return math.Round(daily), nil
}

// SuggestMacroTargets derives a macro split from a daily calorie budget.
func SuggestMacroTargets(dailyKcal float64) (MacroTargets, error) {
	if dailyKcal <= 0 {
		return MacroTargets{}, errors.New("daily calories must be positive")
	}
	return MacroTargets{
		Calories: math.Round(dailyKcal),
		Protein:  math.Round(dailyKcal * 0.30 / 4.0),
		Carbs:    math.Round(dailyKcal * 0.40 / 4.0),
		Fat:      math.Round(dailyKcal * 0.30 / 9.0),
	}, nil
}
