package services

import (
	"testing"
	"time"

	"github.com/MangalNathYadav/mealmatrixx-sub000/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt_MealAnalysisEmbedsSchemaVerbatim(t *testing.T) {
	prompt, err := BuildPrompt(PromptMealAnalysis, MealAnalysisPayload{Description: "2 eggs and toast"})
	require.NoError(t, err)

	assert.Contains(t, prompt, "MEAL: 2 eggs and toast")
	assert.Contains(t, prompt, MealAnalysisSchema)
	assert.NotContains(t, prompt, "DIETARY CONTEXT", "empty context must be omitted, not rendered as a placeholder")
}

func TestBuildPrompt_DietaryContextRendered(t *testing.T) {
	prompt, err := BuildPrompt(PromptMealAnalysis, MealAnalysisPayload{
		Description: "pad thai",
		Context: DietaryContext{
			DietType:  models.DietVegetarian,
			Allergies: "peanuts",
		},
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "DIETARY CONTEXT:")
	assert.Contains(t, prompt, "- Diet type: vegetarian")
	assert.Contains(t, prompt, "- Allergies: peanuts")
	assert.NotContains(t, prompt, "- Restrictions:", "unset fields get no line")
}

func TestDietaryContextFromUser_NoneDietIsEmpty(t *testing.T) {
	ctx := DietaryContextFromUser(&models.User{DietType: models.DietNone})
	assert.True(t, ctx.isEmpty())

	assert.True(t, DietaryContextFromUser(nil).isEmpty())
}

func TestBuildPrompt_WeeklySummaryEmbedsStatistics(t *testing.T) {
	ate := time.Date(2026, 8, 24, 13, 0, 0, 0, time.UTC)
	prompt, err := BuildPrompt(PromptWeeklySummary, WeeklySummaryPayload{
		Meals: []models.Meal{
			{Name: "oatmeal", AteAt: ate, Calories: 14000, Protein: 70, Carbs: 140, Fat: 35},
		},
		Totals: Totals{Calories: 14000, Protein: 70, Carbs: 140, Fat: 35},
		Days:   7,
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "- Total calories: 14000 kcal")
	assert.Contains(t, prompt, "- Daily average: 2000 kcal")
	assert.Contains(t, prompt, "oatmeal")
	assert.Contains(t, prompt, WeeklySummarySchema)
}

func TestBuildPrompt_WeeklySummaryEmptyWeek(t *testing.T) {
	prompt, err := BuildPrompt(PromptWeeklySummary, WeeklySummaryPayload{Days: 7})
	require.NoError(t, err)
	assert.Contains(t, prompt, "(no meals logged)")
}

func TestBuildPrompt_TipCategory(t *testing.T) {
	prompt, err := BuildPrompt(PromptTip, TipPayload{Category: "hydration"})
	require.NoError(t, err)
	assert.Contains(t, prompt, "about hydration")
	assert.Contains(t, prompt, TipSchema)
}

func TestBuildPrompt_MismatchedPayloadFailsLoudly(t *testing.T) {
	_, err := BuildPrompt(PromptMealAnalysis, TipPayload{})
	require.Error(t, err)

	_, err = BuildPrompt(PromptKind("nonsense"), MealAnalysisPayload{})
	require.Error(t, err)
}
