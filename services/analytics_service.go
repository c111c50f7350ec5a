package services

import (
	"context"
	"fmt"
	"time"

	"github.com/MangalNathYadav/mealmatrixx-sub000/models"

	"gorm.io/gorm"
)

// AnalyticsService answers history questions (weekly overview, streaks,
// trends) from the persisted daily snapshots rather than raw meals.
type AnalyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayEnd(t time.Time) time.Time {
	return dayStart(t).Add(24*time.Hour - time.Nanosecond)
}

// DayOverview is one day of the weekly chart: display percentages plus the
// severity band driving the bar color.
type DayOverview struct {
	Date        string              `json:"date"`
	Totals      Totals              `json:"totals"`
	Percentages map[string]int      `json:"percentages"`
	Severity    map[string]Severity `json:"severity"`
}

type WeeklyOverview struct {
	WeekStart string        `json:"week_start"`
	Days      []DayOverview `json:"days"`
	Trend     string        `json:"calorie_trend"`
	Streak    StreakResult  `json:"streak"`
}

func (s *AnalyticsService) loadSnapshots(ctx context.Context, userID uint, from, to time.Time) (map[string]models.ProgressSnapshot, error) {
	var rows []models.ProgressSnapshot
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, dayStart(from), dayEnd(to)).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	idx := make(map[string]models.ProgressSnapshot, len(rows))
	for _, r := range rows {
		idx[r.Date.Format(dayKey)] = r
	}
	return idx, nil
}

// WeeklyOverview builds the seven-day dashboard ending at weekStart+6.
// Missing days appear as zero rows so charts always have seven columns.
func (s *AnalyticsService) WeeklyOverview(ctx context.Context, userID uint, weekStart time.Time, goal *models.NutritionGoal) (*WeeklyOverview, error) {
	if userID == 0 {
		return nil, ErrAuthRequired
	}
	from := dayStart(weekStart)
	to := from.AddDate(0, 0, 6)

	idx, err := s.loadSnapshots(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	if goal == nil {
		goal = &models.NutritionGoal{}
	}

	calTarget, _ := GoalValue(goal.TargetCalories)
	protTarget, _ := GoalValue(goal.ProteinGoal)
	carbTarget, _ := GoalValue(goal.CarbsGoal)
	fatTarget, _ := GoalValue(goal.FatGoal)

	out := &WeeklyOverview{WeekStart: from.Format(dayKey)}
	var calorieSeries []float64
	days := make(map[string]Totals, 7)

	for i := 0; i < 7; i++ {
		d := from.AddDate(0, 0, i)
		key := d.Format(dayKey)
		snap := idx[key] // zero value when missing

		totals := Totals{Calories: snap.Calories, Protein: snap.Protein, Carbs: snap.Carbs, Fat: snap.Fat}
		if _, ok := idx[key]; ok {
			days[key] = totals
			calorieSeries = append(calorieSeries, totals.Calories)
		}

		raw := map[string]int{
			"calories": RawPercent(totals.Calories, calTarget),
			"protein":  RawPercent(totals.Protein, protTarget),
			"carbs":    RawPercent(totals.Carbs, carbTarget),
			"fat":      RawPercent(totals.Fat, fatTarget),
		}
		pct := make(map[string]int, len(raw))
		sev := make(map[string]Severity, len(raw))
		for k, v := range raw {
			if v > 100 {
				pct[k] = 100
			} else {
				pct[k] = v
			}
			sev[k] = ProgressScale.Classify(v)
		}

		out.Days = append(out.Days, DayOverview{
			Date:        key,
			Totals:      totals,
			Percentages: pct,
			Severity:    sev,
		})
	}

	out.Trend = Trend(calorieSeries)
	out.Streak = CalorieStreak(days, calTarget, to, 7)
	return out, nil
}

// Streak computes the calorie streak over the lookback window ending today.
func (s *AnalyticsService) Streak(ctx context.Context, userID uint, goal *models.NutritionGoal, today time.Time, lookbackDays int) (StreakResult, error) {
	if userID == 0 {
		return StreakResult{}, ErrAuthRequired
	}
	target := 0.0
	if goal != nil {
		target, _ = GoalValue(goal.TargetCalories)
	}
	if target <= 0 {
		return StreakResult{}, nil
	}

	from := dayStart(today).AddDate(0, 0, -(lookbackDays - 1))
	idx, err := s.loadSnapshots(ctx, userID, from, today)
	if err != nil {
		return StreakResult{}, err
	}

	days := make(map[string]Totals, len(idx))
	for k, snap := range idx {
		days[k] = Totals{Calories: snap.Calories, Protein: snap.Protein, Carbs: snap.Carbs, Fat: snap.Fat}
	}
	return CalorieStreak(days, target, today, lookbackDays), nil
}

// CalorieTrend labels the last `days` days of calorie totals.
func (s *AnalyticsService) CalorieTrend(ctx context.Context, userID uint, today time.Time, days int) (string, error) {
	if userID == 0 {
		return "", ErrAuthRequired
	}
	from := dayStart(today).AddDate(0, 0, -(days - 1))
	idx, err := s.loadSnapshots(ctx, userID, from, today)
	if err != nil {
		return "", err
	}

	var series []float64
	for i := 0; i < days; i++ {
		key := from.AddDate(0, 0, i).Format(dayKey)
		if snap, ok := idx[key]; ok {
			series = append(series, snap.Calories)
		}
	}
	return Trend(series), nil
}
