package services

import (
	"errors"
	"fmt"

	"github.com/MangalNathYadav/mealmatrixx-sub000/models"
	"github.com/MangalNathYadav/mealmatrixx-sub000/utils"

	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// ProfileInput carries profile edits. Photo is a base64 data URL; the
// stored value is the uploaded blob's URL.
type ProfileInput struct {
	DisplayName      string `json:"display_name"`
	DietType         string `json:"diet_type" binding:"omitempty,oneof=none vegetarian vegan pescatarian keto paleo"`
	Allergies        string `json:"allergies"`
	Restrictions     string `json:"restrictions"`
	HealthConditions string `json:"health_conditions"`
	Photo            string `json:"photo"`
}

func (s *UserService) GetUser(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ? AND disabled = ?", userID, false).First(&user).Error; err != nil {
		return nil, errors.New("user not found or disabled")
	}
	return &user, nil
}

func (s *UserService) GetProfile(userID uint) (map[string]any, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"id":                user.ID,
		"email":             user.Email,
		"display_name":      user.DisplayName,
		"diet_type":         user.DietType,
		"allergies":         user.Allergies,
		"restrictions":      user.Restrictions,
		"health_conditions": user.HealthConditions,
		"photo_url":         user.PhotoURL,
	}, nil
}

func (s *UserService) UpdateProfile(userID uint, input ProfileInput) error {
	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}

	if input.DisplayName != "" {
		user.DisplayName = input.DisplayName
	}
	if input.DietType != "" {
		user.DietType = input.DietType
	}
	// Allergies/restrictions/conditions may legitimately be cleared, so
	// empty strings are written through.
	user.Allergies = input.Allergies
	user.Restrictions = input.Restrictions
	user.HealthConditions = input.HealthConditions

	if input.Photo != "" {
		url, err := utils.UploadProfilePhoto(input.Photo, user.Email)
		if err != nil {
			return fmt.Errorf("failed to upload photo: %v", err)
		}
		user.PhotoURL = url
	}

	return s.db.Save(user).Error
}
