package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/MangalNathYadav/mealmatrixx-sub000/services"

	"github.com/gin-gonic/gin"
)

type InsightController struct {
	insight *services.InsightService
	users   *services.UserService
	meals   *services.MealService
	alerts  *services.AlertBus
}

func NewInsightController(insight *services.InsightService, users *services.UserService, meals *services.MealService, alerts *services.AlertBus) *InsightController {
	return &InsightController{insight: insight, users: users, meals: meals, alerts: alerts}
}

// AnalyzeMeal runs a free-text description through the insight pipeline.
// A text-only degraded result is still a 200; only transport-level AI
// failures surface as errors.
func (ctl *InsightController) AnalyzeMeal(c *gin.Context) {
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

	user, err := ctl.users.GetUser(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	analysis, err := ctl.insight.AnalyzeMeal(c.Request.Context(), user, in.Description)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// WeeklySummary summarizes the rolling last seven days of the user's log.
func (ctl *InsightController) WeeklySummary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := ctl.users.GetUser(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	meals, err := ctl.meals.ListMealsByDateRange(userID, now.AddDate(0, 0, -7), now)
	if err != nil {
		renderError(c, err)
		return
	}

	summary, err := ctl.insight.WeeklySummary(c.Request.Context(), user, meals, now)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// SuggestMeal asks for a healthier alternative to a described meal. The
// per-user advisory limit applies; over-limit requests get a 429 without
// touching the upstream service.
func (ctl *InsightController) SuggestMeal(c *gin.Context) {
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

	user, err := ctl.users.GetUser(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	suggestion, err := ctl.insight.SuggestBetterMeal(c.Request.Context(), user, in.Description)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestion)
}

// DailyTips always returns a full set of tips; failed generations are
// silently replaced with canned content.
func (ctl *InsightController) DailyTips(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tips": ctl.insight.DailyTips(c.Request.Context())})
}

func (ctl *InsightController) RecentAlerts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	alerts, err := ctl.alerts.Recent(userID, limit)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}
