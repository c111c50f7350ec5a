package services

import (
	"math"
	"time"

	"github.com/MangalNathYadav/mealmatrixx-sub000/models"
)

const dayKey = "2006-01-02"

// Totals is the per-window nutrient sum produced by the aggregator.
type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// MealFilter selects which meals fall inside an aggregation window.
// Two policies exist deliberately: "today" compares calendar-day strings,
// "last 7 days" compares raw timestamps. They are not interchangeable:
// a meal at 23:59 yesterday is outside today's window but inside a
// rolling 7-day one.
type MealFilter interface {
	Includes(t time.Time) bool
}

// CalendarDayFilter matches meals whose AteAt falls on the same calendar
// day as Day, in Day's location.
type CalendarDayFilter struct {
	Day time.Time
}

func (f CalendarDayFilter) Includes(t time.Time) bool {
	return t.In(f.Day.Location()).Format(dayKey) == f.Day.Format(dayKey)
}

// RangeFilter matches meals inside the inclusive [Start, End] window.
type RangeFilter struct {
	Start, End time.Time
}

func (f RangeFilter) Includes(t time.Time) bool {
	return !t.Before(f.Start) && !t.After(f.End)
}

// LastSevenDays is the weekly window: cutoff seven days back, inclusive
// of now.
func LastSevenDays(now time.Time) RangeFilter {
	return RangeFilter{Start: now.AddDate(0, 0, -7), End: now}
}

// nz sanitizes a nutrient value: NaN and negatives count as zero so bad
// rows can never poison a sum.
func nz(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

// AggregateMeals reduces an unordered meal list to per-nutrient totals over
// the window. Pure; absence of data yields all-zero totals, not an error.
func AggregateMeals(meals []models.Meal, filter MealFilter) Totals {
	var t Totals
	for _, m := range meals {
		if !filter.Includes(m.AteAt) {
			continue
		}
		t.Calories += nz(m.Calories)
		t.Protein += nz(m.Protein)
		t.Carbs += nz(m.Carbs)
		t.Fat += nz(m.Fat)
	}
	return t
}

// GroupByDay buckets meals into calendar-day totals, keyed YYYY-MM-DD.
func GroupByDay(meals []models.Meal, loc *time.Location) map[string]Totals {
	out := make(map[string]Totals)
	for _, m := range meals {
		key := m.AteAt.In(loc).Format(dayKey)
		t := out[key]
		t.Calories += nz(m.Calories)
		t.Protein += nz(m.Protein)
		t.Carbs += nz(m.Carbs)
		t.Fat += nz(m.Fat)
		out[key] = t
	}
	return out
}

// GoalValue reports whether a goal field participates in progress
// computation: it must be set, numeric and non-negative.
func GoalValue(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) || *v < 0 {
		return 0, false
	}
	return *v, true
}

// RawPercent is the unclamped progress percentage used for severity
// classification, where over-100 is a distinct state. Zero or missing
// targets never divide: the result is 0.
func RawPercent(current, target float64) int {
	if target <= 0 || current <= 0 || math.IsNaN(current) || math.IsNaN(target) {
		return 0
	}
	return int(math.Round(current / target * 100))
}

// Percentage is the display percentage, clamped to [0, 100].
func Percentage(current, target float64) int {
	p := RawPercent(current, target)
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

// Severity is the categorical band a progress percentage falls into.
type Severity string

const (
	SeverityGood    Severity = "good"
	SeverityWarning Severity = "warning"
	SeverityOver    Severity = "over"
	SeverityNeutral Severity = "default"
)

// SeverityBand labels percentages up to and including UpTo.
type SeverityBand struct {
	UpTo  int
	Label Severity
}

// SeverityScale is an ordered band table. Different UI flows use different
// thresholds, so the scale is chosen at the call site rather than
// hardcoded.
type SeverityScale []SeverityBand

// Classify maps an unclamped percentage onto the scale. The last band acts
// as the catch-all.
func (s SeverityScale) Classify(rawPct int) Severity {
	for _, b := range s {
		if rawPct <= b.UpTo {
			return b.Label
		}
	}
	if len(s) > 0 {
		return s[len(s)-1].Label
	}
	return SeverityNeutral
}

// ProgressScale drives the daily progress bars: on/under target up to 90%
// is fine, 91–100 is a warning, past the target is its own state.
var ProgressScale = SeverityScale{
	{UpTo: 90, Label: SeverityGood},
	{UpTo: 100, Label: SeverityWarning},
	{UpTo: math.MaxInt, Label: SeverityOver},
}

// TipScale drives the tip cards, which read low progress as the problem:
// under 50% warns, 80% and up is good.
var TipScale = SeverityScale{
	{UpTo: 49, Label: SeverityWarning},
	{UpTo: 79, Label: SeverityNeutral},
	{UpTo: math.MaxInt, Label: SeverityGood},
}

// MetricProgress is one progress-bar worth of data. RawPercent carries the
// unclamped value for severity classification.
type MetricProgress struct {
	Current    float64  `json:"current"`
	Target     float64  `json:"target"`
	Percentage int      `json:"percentage"`
	RawPercent int      `json:"raw_percent"`
	Severity   Severity `json:"severity"`
}

type MacroProgress struct {
	Protein MetricProgress `json:"protein"`
	Carbs   MetricProgress `json:"carbs"`
	Fat     MetricProgress `json:"fat"`
}

// DailyProgress is derived, never persisted as-is; it is recomputed on
// every meal or goal change.
type DailyProgress struct {
	Calories MetricProgress `json:"calories"`
	Macros   MacroProgress  `json:"macros"`
}

func metricProgress(current float64, goal *float64) MetricProgress {
	target, ok := GoalValue(goal)
	mp := MetricProgress{Current: current, Target: target}
	if ok {
		mp.Percentage = Percentage(current, target)
		mp.RawPercent = RawPercent(current, target)
	}
	mp.Severity = ProgressScale.Classify(mp.RawPercent)
	return mp
}

// ComputeDailyProgress classifies aggregated totals against goals. Unset
// goal fields yield zero percentages rather than dividing.
func ComputeDailyProgress(totals Totals, goal *models.NutritionGoal) DailyProgress {
	if goal == nil {
		goal = &models.NutritionGoal{}
	}
	return DailyProgress{
		Calories: metricProgress(totals.Calories, goal.TargetCalories),
		Macros: MacroProgress{
			Protein: metricProgress(totals.Protein, goal.ProteinGoal),
			Carbs:   metricProgress(totals.Carbs, goal.CarbsGoal),
			Fat:     metricProgress(totals.Fat, goal.FatGoal),
		},
	}
}

// StreakResult reports consecutive days within the calorie goal band.
type StreakResult struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// CalorieStreak walks backward from today counting consecutive days whose
// calorie total falls inside target ± 10%. The current streak stops at the
// first non-qualifying or missing day; the longest streak is the best
// consecutive run anywhere in the lookback window.
func CalorieStreak(days map[string]Totals, target float64, today time.Time, lookbackDays int) StreakResult {
	if target <= 0 || lookbackDays <= 0 {
		return StreakResult{}
	}
	lo, hi := target*0.9, target*1.1

	qualifies := func(offset int) bool {
		key := today.AddDate(0, 0, -offset).Format(dayKey)
		t, ok := days[key]
		return ok && t.Calories >= lo && t.Calories <= hi
	}

	var res StreakResult
	run := 0
	currentBroken := false
	for i := 0; i < lookbackDays; i++ {
		if qualifies(i) {
			run++
			if run > res.Longest {
				res.Longest = run
			}
			if !currentBroken {
				res.Current = run
			}
		} else {
			run = 0
			currentBroken = true
		}
	}
	return res
}

// Trend labels a time-ordered series of daily values by comparing the mean
// of its first half against its second half. Requires at least two points;
// fewer yields "neutral".
func Trend(series []float64) string {
	if len(series) < 2 {
		return "neutral"
	}
	half := len(series) / 2
	firstMean := mean(series[:half])
	secondMean := mean(series[half:])

	if firstMean == 0 {
		if secondMean > 0 {
			return "increasing"
		}
		return "stable"
	}

	diff := (secondMean - firstMean) / firstMean
	switch {
	case diff > 0.05:
		return "increasing"
	case diff < -0.05:
		return "decreasing"
	default:
		return "stable"
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += nz(x)
	}
	return sum / float64(len(xs))
}
