package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/MangalNathYadav/mealmatrixx-sub000/services"
	"github.com/MangalNathYadav/mealmatrixx-sub000/utils"

	"github.com/gin-gonic/gin"
)

type GoalController struct {
	goals *services.GoalService
}

func NewGoalController(goals *services.GoalService) *GoalController {
	return &GoalController{goals: goals}
}

// GetGoalsAndProgress returns the saved goal alongside today's computed
// progress. A user without a goal still gets progress rows with zero
// percentages.
func (ctl *GoalController) GetGoalsAndProgress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	goal, progress, err := ctl.goals.GetGoalsAndProgress(userID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": goal, "progress": progress})
}

// GetGoalsAndProgressByDate recomputes progress for an arbitrary calendar
// day (?date=2026-08-20).
func (ctl *GoalController) GetGoalsAndProgressByDate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	dateStr := c.Query("date")
	date, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	goal, progress, err := ctl.goals.GetGoalsAndProgressByDate(userID, date)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": goal, "progress": progress})
}

func (ctl *GoalController) UpdateGoals(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var in services.GoalInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal, err := ctl.goals.UpsertGoal(userID, in)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

func (ctl *GoalController) GetProgressHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	rows, err := ctl.goals.GetProgressHistory(userID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": rows})
}

// RecommendedTargets suggests a calorie target and macro split from a
// maintenance estimate and the weekly weight goal
// (?maintenance=2400&weekly_kg=-0.5).
func (ctl *GoalController) RecommendedTargets(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	maintenance, err := strconv.ParseFloat(c.Query("maintenance"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "maintenance must be a number"})
		return
	}
	weeklyKg := 0.0
	if v := c.Query("weekly_kg"); v != "" {
		weeklyKg, err = strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "weekly_kg must be a number"})
			return
		}
	}

	daily, err := utils.AdjustedCalorieTarget(maintenance, weeklyKg)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	targets, err := utils.SuggestMacroTargets(daily)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, targets)
}
