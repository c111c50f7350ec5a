package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/MangalNathYadav/mealmatrixx-sub000/services"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	analytics *services.AnalyticsService
	goals     *services.GoalService
}

func NewAnalyticsController(analytics *services.AnalyticsService, goals *services.GoalService) *AnalyticsController {
	return &AnalyticsController{analytics: analytics, goals: goals}
}

// WeeklyOverview returns the seven-day dashboard starting at ?week_start
// (YYYY-MM-DD, defaults to six days ago so the window ends today).
func (ctl *AnalyticsController) WeeklyOverview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	weekStart := time.Now().AddDate(0, 0, -6)
	if v := c.Query("week_start"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "week_start must be YYYY-MM-DD"})
			return
		}
		weekStart = parsed
	}

	goal, err := ctl.goals.GetGoal(userID)
	if err != nil {
		renderError(c, err)
		return
	}

	overview, err := ctl.analytics.WeeklyOverview(c.Request.Context(), userID, weekStart, goal)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (ctl *AnalyticsController) Streak(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	lookback := 30
	if v := c.Query("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			lookback = n
		}
	}

	goal, err := ctl.goals.GetGoal(userID)
	if err != nil {
		renderError(c, err)
		return
	}

	streak, err := ctl.analytics.Streak(c.Request.Context(), userID, goal, time.Now(), lookback)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, streak)
}

func (ctl *AnalyticsController) CalorieTrend(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	days := 7
	if v := c.Query("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			days = n
		}
	}

	trend, err := ctl.analytics.CalorieTrend(c.Request.Context(), userID, time.Now(), days)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trend": trend, "days": days})
}
