package controllers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/MangalNathYadav/mealmatrixx-sub000/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MealController struct {
	meals   *services.MealService
	goals   *services.GoalService
	insight *services.InsightService
}

func NewMealController(meals *services.MealService, goals *services.GoalService, insight *services.InsightService) *MealController {
	return &MealController{meals: meals, goals: goals, insight: insight}
}

func (ctl *MealController) AddMeal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var in services.MealInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meal, err := ctl.meals.AddMeal(userID, in)
	if err != nil {
		renderError(c, err)
		return
	}

	ctl.goals.RecomputeAndBroadcast(userID)
	c.JSON(http.StatusCreated, meal)
}

// QuickAdd accepts a free-text description, estimates nutrients through
// the generative service and saves the entry in one round trip. The strict
// structured path applies: an unparseable estimate fails the request.
func (ctl *MealController) QuickAdd(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var in struct {
		Description string `json:"description" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	totals, err := ctl.insight.EstimateNutrients(c.Request.Context(), in.Description)
	if err != nil {
		renderError(c, err)
		return
	}

	meal, err := ctl.meals.AddMeal(userID, services.MealInput{
		Name:     in.Description,
		AteAt:    time.Now(),
		Calories: totals.Calories,
		Protein:  totals.Protein,
		Carbs:    totals.Carbs,
		Fat:      totals.Fat,
		Notes:    "quick add",
	})
	if err != nil {
		renderError(c, err)
		return
	}

	ctl.goals.RecomputeAndBroadcast(userID)
	c.JSON(http.StatusCreated, meal)
}

func (ctl *MealController) ListMeals(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr != "" && toStr != "" {
		from, err1 := time.Parse(time.RFC3339, fromStr)
		to, err2 := time.Parse(time.RFC3339, toStr)
		if err1 != nil || err2 != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from/to must be RFC3339 timestamps"})
			return
		}
		meals, err := ctl.meals.ListMealsByDateRange(userID, from, to)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"meals": meals})
		return
	}

	meals, err := ctl.meals.ListMeals(userID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meals": meals})
}

func (ctl *MealController) GetMeal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	mealID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal id"})
		return
	}

	meal, err := ctl.meals.GetMeal(userID, uint(mealID))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (ctl *MealController) UpdateMeal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	mealID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal id"})
		return
	}

	var in services.MealInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meal, err := ctl.meals.UpdateMeal(userID, uint(mealID), in)
	if err != nil {
		renderError(c, err)
		return
	}

	ctl.goals.RecomputeAndBroadcast(userID)
	c.JSON(http.StatusOK, meal)
}

func (ctl *MealController) DeleteMeal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	mealID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal id"})
		return
	}

	if err := ctl.meals.DeleteMeal(userID, uint(mealID)); err != nil {
		renderError(c, err)
		return
	}

	ctl.goals.RecomputeAndBroadcast(userID)
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// ExportCSV streams the user's full meal log as a CSV download.
func (ctl *MealController) ExportCSV(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	meals, err := ctl.meals.ListMeals(userID)
	if err != nil {
		renderError(c, err)
		return
	}

	filename := fmt.Sprintf("meals-%s.csv", uuid.New().String())
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"name", "ate_at", "calories", "protein_g", "carbs_g", "fat_g", "notes"})
	for _, m := range meals {
		_ = w.Write([]string{
			m.Name,
			m.AteAt.Format(time.RFC3339),
			strconv.FormatFloat(m.Calories, 'f', 1, 64),
			strconv.FormatFloat(m.Protein, 'f', 1, 64),
			strconv.FormatFloat(m.Carbs, 'f', 1, 64),
			strconv.FormatFloat(m.Fat, 'f', 1, 64),
			m.Notes,
		})
	}
	w.Flush()
}
