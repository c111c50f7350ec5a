package services

import (
	"fmt"
	"strings"

	"github.com/MangalNathYadav/mealmatrixx-sub000/models"
)

// PromptKind selects which insight request is being built. Each kind has a
// fixed response schema embedded verbatim in the prompt so the normalizer
// can validate against it.
type PromptKind string

const (
	PromptMealAnalysis   PromptKind = "mealAnalysis"
	PromptWeeklySummary  PromptKind = "weeklySummary"
	PromptMealSuggestion PromptKind = "betterMealSuggestion"
	PromptTip            PromptKind = "tip"
)

// Response schemas, one per prompt kind. Field names and types here are the
// contract the normalizer parses against: change one and you change both.
const (
	MealAnalysisSchema = `{
  "calories": number,
  "protein": number,
  "carbs": number,
  "fat": number,
  "items": [string],
  "notes": string
}`

	WeeklySummarySchema = `{
  "summary": string,
  "average_calories": number,
  "best_day": string,
  "recommendations": [string]
}`

	MealSuggestionSchema = `{
  "suggestion": string,
  "reason": string,
  "calories": number
}`

	TipSchema = `{
  "tip": string,
  "category": string
}`
)

// DietaryContext is the profile slice embedded in prompts. An all-empty
// context is omitted from the prompt entirely, no placeholder block.
type DietaryContext struct {
	DietType         string
	Allergies        string
	Restrictions     string
	HealthConditions string
}

func DietaryContextFromUser(u *models.User) DietaryContext {
	if u == nil {
		return DietaryContext{}
	}
	dt := u.DietType
	if dt == models.DietNone {
		dt = ""
	}
	return DietaryContext{
		DietType:         dt,
		Allergies:        u.Allergies,
		Restrictions:     u.Restrictions,
		HealthConditions: u.HealthConditions,
	}
}

func (d DietaryContext) isEmpty() bool {
	return d.DietType == "" && d.Allergies == "" && d.Restrictions == "" && d.HealthConditions == ""
}

func (d DietaryContext) block() string {
	if d.isEmpty() {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("DIETARY CONTEXT:\n")
	if d.DietType != "" {
		fmt.Fprintf(&sb, "- Diet type: %s\n", d.DietType)
	}
	if d.Allergies != "" {
		fmt.Fprintf(&sb, "- Allergies: %s\n", d.Allergies)
	}
	if d.Restrictions != "" {
		fmt.Fprintf(&sb, "- Restrictions: %s\n", d.Restrictions)
	}
	if d.HealthConditions != "" {
		fmt.Fprintf(&sb, "- Health conditions: %s\n", d.HealthConditions)
	}
	sb.WriteString("\n")
	return sb.String()
}

type MealAnalysisPayload struct {
	Description string
	Context     DietaryContext
}

type WeeklySummaryPayload struct {
	Meals   []models.Meal
	Totals  Totals
	Days    int // window length for the daily average, usually 7
	Context DietaryContext
}

type MealSuggestionPayload struct {
	Description string
	Context     DietaryContext
}

type TipPayload struct {
	Category string
}

// BuildPrompt constructs the natural-language request for a kind. Pure
// string construction; unknown kind/payload pairings return an error so a
// miswired call site fails loudly instead of sending a garbled prompt.
func BuildPrompt(kind PromptKind, payload any) (string, error) {
	switch kind {
	case PromptMealAnalysis:
		p, ok := payload.(MealAnalysisPayload)
		if !ok {
			return "", fmt.Errorf("prompt kind %s requires MealAnalysisPayload", kind)
		}
		return buildMealAnalysisPrompt(p), nil
	case PromptWeeklySummary:
		p, ok := payload.(WeeklySummaryPayload)
		if !ok {
			return "", fmt.Errorf("prompt kind %s requires WeeklySummaryPayload", kind)
		}
		return buildWeeklySummaryPrompt(p), nil
	case PromptMealSuggestion:
		p, ok := payload.(MealSuggestionPayload)
		if !ok {
			return "", fmt.Errorf("prompt kind %s requires MealSuggestionPayload", kind)
		}
		return buildMealSuggestionPrompt(p), nil
	case PromptTip:
		p, ok := payload.(TipPayload)
		if !ok {
			return "", fmt.Errorf("prompt kind %s requires TipPayload", kind)
		}
		return buildTipPrompt(p), nil
	default:
		return "", fmt.Errorf("unknown prompt kind %q", kind)
	}
}

func buildMealAnalysisPrompt(p MealAnalysisPayload) string {
	var sb strings.Builder
	sb.WriteString("You are a nutrition assistant. Analyze the following meal and estimate its nutrition.\n\n")
	fmt.Fprintf(&sb, "MEAL: %s\n\n", p.Description)
	sb.WriteString(p.Context.block())
	sb.WriteString("Respond with ONLY a JSON object matching this schema exactly:\n")
	sb.WriteString(MealAnalysisSchema)
	sb.WriteString("\n\nList each identified food in \"items\". No text outside the JSON.")
	return sb.String()
}

func buildWeeklySummaryPrompt(p WeeklySummaryPayload) string {
	days := p.Days
	if days <= 0 {
		days = 7
	}
	avg := p.Totals.Calories / float64(days)

	var sb strings.Builder
	sb.WriteString("You are a nutrition assistant. Summarize this week of logged meals.\n\n")
	sb.WriteString("WEEK STATISTICS:\n")
	fmt.Fprintf(&sb, "- Total calories: %.0f kcal\n", p.Totals.Calories)
	fmt.Fprintf(&sb, "- Daily average: %.0f kcal\n", avg)
	fmt.Fprintf(&sb, "- Total protein: %.0fg, carbs: %.0fg, fat: %.0fg\n\n", p.Totals.Protein, p.Totals.Carbs, p.Totals.Fat)

	sb.WriteString("MEALS:\n")
	if len(p.Meals) == 0 {
		sb.WriteString("- (no meals logged)\n")
	}
	for _, m := range p.Meals {
		fmt.Fprintf(&sb, "- %s %s: %.0f kcal, %.0fg protein, %.0fg carbs, %.0fg fat\n",
			m.AteAt.Format("Mon 15:04"), m.Name, m.Calories, m.Protein, m.Carbs, m.Fat)
	}
	sb.WriteString("\n")
	sb.WriteString(p.Context.block())
	sb.WriteString("Respond with ONLY a JSON object matching this schema exactly:\n")
	sb.WriteString(WeeklySummarySchema)
	sb.WriteString("\n\nNo text outside the JSON.")
	return sb.String()
}

func buildMealSuggestionPrompt(p MealSuggestionPayload) string {
	var sb strings.Builder
	sb.WriteString("You are a nutrition assistant. Suggest a healthier alternative to this meal.\n\n")
	fmt.Fprintf(&sb, "MEAL: %s\n\n", p.Description)
	sb.WriteString(p.Context.block())
	sb.WriteString("Respond with ONLY a JSON object matching this schema exactly:\n")
	sb.WriteString(MealSuggestionSchema)
	sb.WriteString("\n\nNo text outside the JSON.")
	return sb.String()
}

func buildTipPrompt(p TipPayload) string {
	var sb strings.Builder
	sb.WriteString("You are a nutrition assistant. Give one short, practical health tip")
	if p.Category != "" {
		fmt.Fprintf(&sb, " about %s", p.Category)
	}
	sb.WriteString(".\n\nRespond with ONLY a JSON object matching this schema exactly:\n")
	sb.WriteString(TipSchema)
	sb.WriteString("\n\nNo text outside the JSON.")
	return sb.String()
}
