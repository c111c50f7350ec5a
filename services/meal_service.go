package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/MangalNathYadav/mealmatrixx-sub000/models"

	"gorm.io/gorm"
)

type MealService struct {
	db *gorm.DB
}

func NewMealService(db *gorm.DB) *MealService {
	return &MealService{db: db}
}

// MealInput is the user-submitted entry. Nutrients default to 0 when
// omitted; negative values are rejected at the controller's binding layer.
type MealInput struct {
	Name     string    `json:"name" binding:"required"`
	AteAt    time.Time `json:"ate_at" binding:"required"`
	Calories float64   `json:"calories" binding:"gte=0"`
	Protein  float64   `json:"protein" binding:"gte=0"`
	Carbs    float64   `json:"carbs" binding:"gte=0"`
	Fat      float64   `json:"fat" binding:"gte=0"`
	Notes    string    `json:"notes"`
}

func (s *MealService) AddMeal(userID uint, in MealInput) (*models.Meal, error) {
	if userID == 0 {
		return nil, ErrAuthRequired
	}
	meal := &models.Meal{
		UserID:   userID,
		Name:     in.Name,
		AteAt:    in.AteAt,
		Calories: nz(in.Calories),
		Protein:  nz(in.Protein),
		Carbs:    nz(in.Carbs),
		Fat:      nz(in.Fat),
		Notes:    in.Notes,
	}
	if err := s.db.Create(meal).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return meal, nil
}

func (s *MealService) GetMeal(userID, mealID uint) (*models.Meal, error) {
	var meal models.Meal
	err := s.db.
		Where("id = ? AND user_id = ?", mealID, userID).
		First(&meal).Error
	if err != nil {
		return nil, err // could be ErrRecordNotFound
	}
	return &meal, nil
}

func (s *MealService) ListMeals(userID uint) ([]models.Meal, error) {
	var meals []models.Meal
	err := s.db.
		Where("user_id = ?", userID).
		Order("ate_at DESC").
		Find(&meals).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return meals, nil
}

// ListMealsByDateRange fetches the candidate rows for an aggregation
// window. The SQL window is deliberately wider than strict: the pure
// filters in progress.go apply the exact day/range policy afterward.
func (s *MealService) ListMealsByDateRange(userID uint, from, to time.Time) ([]models.Meal, error) {
	var meals []models.Meal
	err := s.db.
		Where("user_id = ? AND ate_at >= ? AND ate_at <= ?", userID, from, to).
		Order("ate_at DESC").
		Find(&meals).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return meals, nil
}

func (s *MealService) UpdateMeal(userID, mealID uint, in MealInput) (*models.Meal, error) {
	var meal models.Meal
	if err := s.db.
		Where("id = ? AND user_id = ?", mealID, userID).
		First(&meal).Error; err != nil {
		return nil, err
	}

	meal.Name = in.Name
	meal.AteAt = in.AteAt
	meal.Calories = nz(in.Calories)
	meal.Protein = nz(in.Protein)
	meal.Carbs = nz(in.Carbs)
	meal.Fat = nz(in.Fat)
	meal.Notes = in.Notes

	if err := s.db.Save(&meal).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &meal, nil
}

func (s *MealService) DeleteMeal(userID, mealID uint) error {
	res := s.db.
		Where("id = ? AND user_id = ?", mealID, userID).
		Delete(&models.Meal{})
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *MealService) ListRecentMeals(userID uint, limit int) ([]models.Meal, error) {
	if limit <= 0 {
		limit = 3
	}
	var meals []models.Meal
	err := s.db.
		Where("user_id = ?", userID).
		Order("ate_at DESC").
		Limit(limit).
		Find(&meals).Error
	return meals, err
}

// IsNotFound reports whether err is the store's record-not-found.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
