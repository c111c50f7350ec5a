package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MangalNathYadav/mealmatrixx-sub000/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeGenerator returns queued responses in order, then repeats the last.
// Safe for concurrent use; DailyTips fans out.
type fakeGenerator struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     int
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", errors.New("no queued response")
	}
	i := f.calls - 1
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	return f.responses[i], nil
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestInsightService(gen TextGenerator) *InsightService {
	return NewInsightService(gen, nil, nil)
}

func TestAnalyzeMeal_StructuredResult(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		"```json\n{\"calories\": 540, \"protein\": 25, \"carbs\": 60, \"fat\": 20, \"items\": [\"rice\", \"chicken\"], \"notes\": \"balanced\"}\n```",
	}}
	svc := newTestInsightService(gen)

	out, err := svc.AnalyzeMeal(context.Background(), &models.User{}, "chicken and rice")
	require.NoError(t, err)

	assert.Equal(t, ResultStructured, out.Kind)
	assert.Equal(t, 540.0, out.Calories)
	assert.Equal(t, []string{"rice", "chicken"}, out.Items)
	assert.Empty(t, out.Warnings)
}

func TestAnalyzeMeal_TextFallbackIsSuccess(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"That looks like roughly 500 kcal."}}
	svc := newTestInsightService(gen)

	out, err := svc.AnalyzeMeal(context.Background(), nil, "mystery stew")
	require.NoError(t, err, "a non-JSON response degrades, it does not fail")

	assert.Equal(t, ResultText, out.Kind)
	assert.Equal(t, "That looks like roughly 500 kcal.", out.Text)
	assert.Zero(t, out.Calories)
}

func TestAnalyzeMeal_ConflictWarnings(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		"```json\n{\"calories\": 400, \"items\": [\"peanut butter toast\"]}\n```",
	}}
	svc := newTestInsightService(gen)

	user := &models.User{Allergies: "peanut"}
	out, err := svc.AnalyzeMeal(context.Background(), user, "toast")
	require.NoError(t, err)

	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0], "peanut")
}

func TestAnalyzeMeal_ConflictsRunOnTextFallback(t *testing.T) {
	// The checker is independent of the AI result: even a text-only
	// response gets the description itself screened.
	gen := &fakeGenerator{responses: []string{"sounds tasty"}}
	svc := newTestInsightService(gen)

	user := &models.User{Allergies: "shrimp"}
	out, err := svc.AnalyzeMeal(context.Background(), user, "shrimp fried rice")
	require.NoError(t, err)
	require.Len(t, out.Warnings, 1)
}

func TestAnalyzeMeal_AIErrorPropagates(t *testing.T) {
	gen := &fakeGenerator{err: &AIServiceError{Status: 500, Message: "boom"}}
	svc := newTestInsightService(gen)

	_, err := svc.AnalyzeMeal(context.Background(), nil, "anything")
	var aiErr *AIServiceError
	require.ErrorAs(t, err, &aiErr)
}

func TestWeeklySummary_RoundTrip(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		`{"summary": "a solid week", "average_calories": 1980, "best_day": "Tuesday", "recommendations": ["more fiber"]}`,
	}}
	svc := newTestInsightService(gen)

	out, err := svc.WeeklySummary(context.Background(), nil, nil, time.Now())
	require.NoError(t, err)

	assert.Equal(t, ResultStructured, out.Kind)
	assert.Equal(t, "a solid week", out.Summary)
	assert.Equal(t, 1980.0, out.AverageCalories)
	assert.Equal(t, "Tuesday", out.BestDay)
	assert.Equal(t, []string{"more fiber"}, out.Recommendations)
}

func TestSuggestBetterMeal_RateLimited(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		`{"suggestion": "grilled fish", "reason": "less fat", "calories": 420}`,
	}}
	limiter := NewUserRateLimiter(2, time.Minute)
	svc := NewInsightService(gen, limiter, nil)

	user := &models.User{Model: gorm.Model{ID: 7}}
	ctx := context.Background()

	_, err := svc.SuggestBetterMeal(ctx, user, "fried chicken")
	require.NoError(t, err)
	_, err = svc.SuggestBetterMeal(ctx, user, "fried chicken")
	require.NoError(t, err)

	_, err = svc.SuggestBetterMeal(ctx, user, "fried chicken")
	require.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 2, gen.callCount(), "the limiter must fire before any network call")
}

func TestEstimateNutrients_StrictStructured(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"no numbers here, sorry"}}
	svc := newTestInsightService(gen)

	_, err := svc.EstimateNutrients(context.Background(), "mystery stew")
	require.ErrorIs(t, err, ErrAIResponseMalformed)
}

func TestEstimateNutrients_Success(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		`{"calories": 620, "protein": 30, "carbs": 70, "fat": 22}`,
	}}
	svc := newTestInsightService(gen)

	totals, err := svc.EstimateNutrients(context.Background(), "burrito")
	require.NoError(t, err)
	assert.Equal(t, Totals{Calories: 620, Protein: 30, Carbs: 70, Fat: 22}, totals)
}

func TestDailyTips_NeverFails(t *testing.T) {
	gen := &fakeGenerator{err: &AIServiceError{Status: 503, Message: "down"}}
	svc := newTestInsightService(gen)

	tips := svc.DailyTips(context.Background())
	require.Len(t, tips, len(tipCategories))
	for i, tip := range tips {
		assert.NotEmpty(t, tip.Tip)
		assert.Equal(t, tipCategories[i], tip.Category)
		assert.True(t, tip.Fallback, "failed generations substitute canned content")
	}
}

func TestDailyTips_GeneratedContent(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		`{"tip": "drink more water", "category": "hydration"}`,
	}}
	svc := newTestInsightService(gen)

	tips := svc.DailyTips(context.Background())
	require.Len(t, tips, len(tipCategories))
	for _, tip := range tips {
		assert.Equal(t, "drink more water", tip.Tip)
		assert.False(t, tip.Fallback)
	}
}

func TestCannedTip_DeterministicRotation(t *testing.T) {
	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)

	first := CannedTip("hydration", day)
	second := CannedTip("hydration", day)
	assert.Equal(t, first, second)
	assert.True(t, first.Fallback)

	next := CannedTip("hydration", day.AddDate(0, 0, 1))
	assert.NotEqual(t, first.Tip, next.Tip, "tips rotate by calendar day")
}

func TestCannedTip_UnknownCategory(t *testing.T) {
	tip := CannedTip("unknown", time.Now())
	assert.NotEmpty(t, tip.Tip)
	assert.True(t, tip.Fallback)
}
