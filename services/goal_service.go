package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/MangalNathYadav/mealmatrixx-sub000/models"

	"gorm.io/gorm"
)

type GoalService struct {
	db    *gorm.DB
	meals *MealService
	hub   *RealtimeHub // optional; nil disables broadcasts
}

func NewGoalService(db *gorm.DB, meals *MealService, hub *RealtimeHub) *GoalService {
	return &GoalService{db: db, meals: meals, hub: hub}
}

// GoalInput replaces the goal record wholesale. Pointer fields distinguish
// "unset" from zero, which the progress computation relies on.
type GoalInput struct {
	TargetCalories *float64 `json:"target_calories" binding:"omitempty,gte=0"`
	ProteinGoal    *float64 `json:"protein_goal" binding:"omitempty,gte=0"`
	CarbsGoal      *float64 `json:"carbs_goal" binding:"omitempty,gte=0"`
	FatGoal        *float64 `json:"fat_goal" binding:"omitempty,gte=0"`
	GoalType       string   `json:"goal_type" binding:"omitempty,oneof=maintain lose gain"`
	WeightGoal     *float64 `json:"weight_goal" binding:"omitempty,gte=0"`
	WeeklyGoal     float64  `json:"weekly_goal"`
}

// GetGoal returns the user's goal record, or nil when none has been saved
// yet; a missing goal is normal state, not an error.
func (s *GoalService) GetGoal(userID uint) (*models.NutritionGoal, error) {
	var goal models.NutritionGoal
	err := s.db.Where("user_id = ?", userID).First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &goal, nil
}

// UpsertGoal saves the goal record wholesale: every field is replaced by
// the input, including fields the input leaves unset. Last write wins.
func (s *GoalService) UpsertGoal(userID uint, in GoalInput) (*models.NutritionGoal, error) {
	if userID == 0 {
		return nil, ErrAuthRequired
	}

	goalType := in.GoalType
	if goalType == "" {
		goalType = models.GoalMaintain
	}

	var goal models.NutritionGoal
	err := s.db.Where("user_id = ?", userID).First(&goal).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	goal.UserID = userID
	goal.TargetCalories = in.TargetCalories
	goal.ProteinGoal = in.ProteinGoal
	goal.CarbsGoal = in.CarbsGoal
	goal.FatGoal = in.FatGoal
	goal.GoalType = goalType
	goal.WeightGoal = in.WeightGoal
	goal.WeeklyGoal = in.WeeklyGoal

	if err := s.db.Save(&goal).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.broadcastProgress(userID, time.Now())
	return &goal, nil
}

// GetGoalsAndProgress computes today's progress: fetch the day's meals,
// aggregate with the calendar-day policy, classify against the goal, then
// upsert the denormalized snapshot for history queries.
func (s *GoalService) GetGoalsAndProgress(userID uint) (*models.NutritionGoal, *DailyProgress, error) {
	return s.GetGoalsAndProgressByDate(userID, time.Now())
}

func (s *GoalService) GetGoalsAndProgressByDate(userID uint, date time.Time) (*models.NutritionGoal, *DailyProgress, error) {
	if userID == 0 {
		return nil, nil, ErrAuthRequired
	}

	goal, err := s.GetGoal(userID)
	if err != nil {
		return nil, nil, err
	}

	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.Add(24 * time.Hour)

	meals, err := s.meals.ListMealsByDateRange(userID, start, end)
	if err != nil {
		return goal, nil, err
	}

	totals := AggregateMeals(meals, CalendarDayFilter{Day: date})
	progress := ComputeDailyProgress(totals, goal)

	s.upsertSnapshot(userID, start, totals)

	return goal, &progress, nil
}

// RecomputeAndBroadcast refreshes progress after a meal change and pushes
// it to any subscribed clients. UI updates are last-write-wins per region,
// so out-of-order delivery is harmless.
func (s *GoalService) RecomputeAndBroadcast(userID uint) {
	s.broadcastProgress(userID, time.Now())
}

func (s *GoalService) broadcastProgress(userID uint, date time.Time) {
	if s.hub == nil {
		return
	}
	_, progress, err := s.GetGoalsAndProgressByDate(userID, date)
	if err != nil || progress == nil {
		return
	}
	s.hub.Broadcast(userID, map[string]any{
		"kind":     "progress.updated",
		"progress": progress,
	})
}

func (s *GoalService) upsertSnapshot(userID uint, day time.Time, totals Totals) {
	snap := models.ProgressSnapshot{
		UserID:   userID,
		Date:     day,
		Calories: totals.Calories,
		Protein:  totals.Protein,
		Carbs:    totals.Carbs,
		Fat:      totals.Fat,
	}
	s.db.
		Where("user_id = ? AND date = ?", userID, day).
		Assign(snap).
		FirstOrCreate(&snap)
}

// GetProgressHistory returns the persisted daily snapshots, newest first.
func (s *GoalService) GetProgressHistory(userID uint) ([]models.ProgressSnapshot, error) {
	var rows []models.ProgressSnapshot
	err := s.db.
		Where("user_id = ?", userID).
		Order("date desc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return rows, nil
}
