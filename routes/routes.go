package routes

import (
	"net/http"

	"github.com/MangalNathYadav/mealmatrixx-sub000/controllers"
	"github.com/MangalNathYadav/mealmatrixx-sub000/middlewares"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Controllers bundles the handler set SetupRoutes wires up.
type Controllers struct {
	Auth      *controllers.AuthController
	User      *controllers.UserController
	Meal      *controllers.MealController
	Goal      *controllers.GoalController
	Insight   *controllers.InsightController
	Analytics *controllers.AnalyticsController
	Realtime  *controllers.RealtimeController
}

func SetupRoutes(r *gin.Engine, db *gorm.DB, ctl Controllers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/register", ctl.Auth.Register)
		auth.POST("/login", ctl.Auth.Login)
	}

	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware(db))
	{
		user := api.Group("/user")
		{
			user.GET("/profile", ctl.User.GetProfile)
			user.PATCH("/profile", ctl.User.UpdateProfile)
		}

		meals := api.Group("/meals")
		{
			meals.POST("", ctl.Meal.AddMeal)
			meals.POST("/quick", ctl.Meal.QuickAdd)
			meals.GET("", ctl.Meal.ListMeals)
			meals.GET("/export", ctl.Meal.ExportCSV)
			meals.GET("/:id", ctl.Meal.GetMeal)
			meals.PUT("/:id", ctl.Meal.UpdateMeal)
			meals.DELETE("/:id", ctl.Meal.DeleteMeal)
		}

		goals := api.Group("/goals")
		{
			goals.GET("", ctl.Goal.GetGoalsAndProgress)
			goals.GET("/by-date", ctl.Goal.GetGoalsAndProgressByDate)
			goals.PUT("", ctl.Goal.UpdateGoals)
			goals.GET("/history", ctl.Goal.GetProgressHistory)
			goals.GET("/recommended", ctl.Goal.RecommendedTargets)
		}

		insights := api.Group("/insights")
		{
			insights.POST("/analyze-meal", ctl.Insight.AnalyzeMeal)
			insights.GET("/weekly-summary", ctl.Insight.WeeklySummary)
			insights.POST("/suggest-meal", ctl.Insight.SuggestMeal)
			insights.GET("/tips", ctl.Insight.DailyTips)
			insights.GET("/alerts", ctl.Insight.RecentAlerts)
		}

		analytics := api.Group("/analytics")
		{
			analytics.GET("/weekly", ctl.Analytics.WeeklyOverview)
			analytics.GET("/streak", ctl.Analytics.Streak)
			analytics.GET("/trend", ctl.Analytics.CalorieTrend)
		}

		api.GET("/ws/progress", ctl.Realtime.ProgressWS)
	}
}
