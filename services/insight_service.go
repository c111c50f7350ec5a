package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/MangalNathYadav/mealmatrixx-sub000/logger"
	"github.com/MangalNathYadav/mealmatrixx-sub000/models"
	"github.com/MangalNathYadav/mealmatrixx-sub000/utils"
)

// InsightService orchestrates the insight pipeline: build prompt, call the
// generative service, normalize the response, cross-check conflicts.
type InsightService struct {
	gen     TextGenerator
	limiter *UserRateLimiter
	alerts  *AlertBus // optional; nil disables alert emission
}

func NewInsightService(gen TextGenerator, limiter *UserRateLimiter, alerts *AlertBus) *InsightService {
	return &InsightService{gen: gen, limiter: limiter, alerts: alerts}
}

// MealAnalysis is the normalized result of analyzing a free-text meal
// description. Kind distinguishes a structured parse from the degraded
// text-only fallback; both are successes.
type MealAnalysis struct {
	Kind     ResultKind `json:"kind"`
	Calories float64    `json:"calories"`
	Protein  float64    `json:"protein"`
	Carbs    float64    `json:"carbs"`
	Fat      float64    `json:"fat"`
	Items    []string   `json:"items"`
	Notes    string     `json:"notes"`
	Text     string     `json:"text,omitempty"`
	Warnings []string   `json:"warnings,omitempty"`
}

// WeeklySummaryInsight mirrors WeeklySummarySchema field for field.
type WeeklySummaryInsight struct {
	Kind            ResultKind `json:"kind"`
	Summary         string     `json:"summary"`
	AverageCalories float64    `json:"average_calories"`
	BestDay         string     `json:"best_day"`
	Recommendations []string   `json:"recommendations"`
	Text            string     `json:"text,omitempty"`
}

// MealSuggestion mirrors MealSuggestionSchema.
type MealSuggestion struct {
	Kind       ResultKind `json:"kind"`
	Suggestion string     `json:"suggestion"`
	Reason     string     `json:"reason"`
	Calories   float64    `json:"calories"`
	Text       string     `json:"text,omitempty"`
	Warnings   []string   `json:"warnings,omitempty"`
}

// Tip is one tip card. Fallback marks deterministic canned content
// substituted when the generative call failed.
type Tip struct {
	Tip      string `json:"tip"`
	Category string `json:"category"`
	Fallback bool   `json:"fallback,omitempty"`
}

// decodeInto unmarshals a structured payload into v. A structured result
// whose fields don't fit the schema degrades the same way a non-JSON
// response does.
func decodeInto(res GenResult, v any) bool {
	if res.Kind != ResultStructured {
		return false
	}
	return json.Unmarshal(res.JSON, v) == nil
}

func conflictProfile(u *models.User) utils.ConflictProfile {
	if u == nil {
		return utils.ConflictProfile{}
	}
	return utils.ConflictProfile{
		DietType:     u.DietType,
		Allergies:    u.Allergies,
		Restrictions: u.Restrictions,
	}
}

// annotateConflicts runs the conflict checker over the given foods and
// emits a persisted alert for high-severity (allergy) hits. The checker is
// independent of the AI call: it runs even when the AI result was a
// text-only fallback.
func (s *InsightService) annotateConflicts(userID uint, foods []string, u *models.User) []string {
	conflicts := utils.CheckConflicts(foods, conflictProfile(u))
	if s.alerts != nil {
		for _, c := range conflicts {
			if c.Severity == utils.ConflictHigh {
				s.alerts.Emit(userID, "warning", c.Message)
			}
		}
	}
	return utils.ConflictMessages(conflicts)
}

// AnalyzeMeal sends a free-text meal description through the pipeline.
// A non-JSON response yields a text-only result, not an error; AI transport
// failures propagate as AIServiceError for the caller to handle.
func (s *InsightService) AnalyzeMeal(ctx context.Context, user *models.User, description string) (*MealAnalysis, error) {
	prompt, err := BuildPrompt(PromptMealAnalysis, MealAnalysisPayload{
		Description: description,
		Context:     DietaryContextFromUser(user),
	})
	if err != nil {
		return nil, err
	}

	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	res := ExtractStructured(text)
	out := &MealAnalysis{Kind: res.Kind}
	if !decodeInto(res, out) {
		out = &MealAnalysis{Kind: ResultText, Text: res.Text}
	}

	var userID uint
	if user != nil {
		userID = user.ID
	}
	foods := out.Items
	if len(foods) == 0 {
		foods = []string{description}
	}
	out.Warnings = s.annotateConflicts(userID, foods, user)
	return out, nil
}

// WeeklySummary summarizes the last seven days of meals. Aggregate
// statistics are precomputed and embedded in the prompt; the service
// responds better to pre-digested numbers than a raw list.
func (s *InsightService) WeeklySummary(ctx context.Context, user *models.User, meals []models.Meal, now time.Time) (*WeeklySummaryInsight, error) {
	totals := AggregateMeals(meals, LastSevenDays(now))
	prompt, err := BuildPrompt(PromptWeeklySummary, WeeklySummaryPayload{
		Meals:   meals,
		Totals:  totals,
		Days:    7,
		Context: DietaryContextFromUser(user),
	})
	if err != nil {
		return nil, err
	}

	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	res := ExtractStructured(text)
	out := &WeeklySummaryInsight{Kind: res.Kind}
	if !decodeInto(res, out) {
		out = &WeeklySummaryInsight{Kind: ResultText, Text: res.Text}
	}
	return out, nil
}

// SuggestBetterMeal is rate-limited client-side (advisory, 5/min/user by
// default) before any network call is made.
func (s *InsightService) SuggestBetterMeal(ctx context.Context, user *models.User, description string) (*MealSuggestion, error) {
	var userID uint
	if user != nil {
		userID = user.ID
	}
	if s.limiter != nil && !s.limiter.Allow(userID) {
		return nil, ErrRateLimited
	}

	prompt, err := BuildPrompt(PromptMealSuggestion, MealSuggestionPayload{
		Description: description,
		Context:     DietaryContextFromUser(user),
	})
	if err != nil {
		return nil, err
	}

	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	res := ExtractStructured(text)
	out := &MealSuggestion{Kind: res.Kind}
	if !decodeInto(res, out) {
		out = &MealSuggestion{Kind: ResultText, Text: res.Text}
	}
	if out.Suggestion != "" {
		out.Warnings = s.annotateConflicts(userID, []string{out.Suggestion}, user)
	}
	return out, nil
}

// EstimateNutrients is the strict-structured path used to prefill a meal
// entry: a text fallback is not usable here, so it escalates to
// ErrAIResponseMalformed instead of degrading.
func (s *InsightService) EstimateNutrients(ctx context.Context, description string) (Totals, error) {
	prompt, err := BuildPrompt(PromptMealAnalysis, MealAnalysisPayload{Description: description})
	if err != nil {
		return Totals{}, err
	}

	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return Totals{}, err
	}

	res := ExtractStructured(text)
	var ma MealAnalysis
	if !decodeInto(res, &ma) {
		return Totals{}, ErrAIResponseMalformed
	}
	return Totals{Calories: nz(ma.Calories), Protein: nz(ma.Protein), Carbs: nz(ma.Carbs), Fat: nz(ma.Fat)}, nil
}

// Tip categories fetched for the dashboard, and the deterministic canned
// content substituted per category when the generative call fails. The
// feature degrades, it never breaks the page.
var tipCategories = []string{"hydration", "balanced macros", "healthy habits"}

var cannedTips = map[string][]string{
	"hydration": {
		"Keep a water bottle at your desk; sips add up faster than glasses you forget to pour.",
		"Drink a glass of water before each meal to support digestion and portion awareness.",
	},
	"balanced macros": {
		"Build plates around a palm of protein, a fist of carbs and a thumb of fats.",
		"Pair carbohydrates with protein or fat to smooth out energy dips.",
	},
	"healthy habits": {
		"Log meals right after eating; end-of-day recall consistently undercounts.",
		"A ten-minute walk after meals helps regulate blood sugar.",
	},
}

// CannedTip returns the deterministic fallback tip for a category, rotated
// by calendar day.
func CannedTip(category string, day time.Time) Tip {
	tips := cannedTips[category]
	if len(tips) == 0 {
		return Tip{Tip: "Aim for regular meals and plenty of water today.", Category: category, Fallback: true}
	}
	return Tip{Tip: tips[day.YearDay()%len(tips)], Category: category, Fallback: true}
}

// DailyTips fetches one tip per category concurrently. Completions are
// independent and unordered; each slot is written exactly once, so
// interleaving doesn't matter. Failed or unparseable calls get the canned
// tip for their category; this method never fails.
func (s *InsightService) DailyTips(ctx context.Context) []Tip {
	out := make([]Tip, len(tipCategories))
	var wg sync.WaitGroup
	for i, cat := range tipCategories {
		wg.Add(1)
		go func(i int, cat string) {
			defer wg.Done()
			out[i] = s.fetchTip(ctx, cat)
		}(i, cat)
	}
	wg.Wait()
	return out
}

func (s *InsightService) fetchTip(ctx context.Context, category string) Tip {
	prompt, err := BuildPrompt(PromptTip, TipPayload{Category: category})
	if err != nil {
		return CannedTip(category, time.Now())
	}

	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		logger.Warn("tip generation failed, using canned tip", "category", category, "error", err)
		return CannedTip(category, time.Now())
	}

	res := ExtractStructured(text)
	var tip Tip
	if decodeInto(res, &tip) && tip.Tip != "" {
		if tip.Category == "" {
			tip.Category = category
		}
		return tip
	}
	if res.Text != "" {
		return Tip{Tip: res.Text, Category: category}
	}
	return CannedTip(category, time.Now())
}
