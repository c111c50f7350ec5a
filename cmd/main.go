package main

import (
	"time"

	"github.com/MangalNathYadav/mealmatrixx-sub000/config"
	"github.com/MangalNathYadav/mealmatrixx-sub000/controllers"
	"github.com/MangalNathYadav/mealmatrixx-sub000/logger"
	"github.com/MangalNathYadav/mealmatrixx-sub000/routes"
	"github.com/MangalNathYadav/mealmatrixx-sub000/services"
	"github.com/MangalNathYadav/mealmatrixx-sub000/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.Load()
	logger.Init()

	db := config.InitDB()
	utils.InitS3()

	hub := services.NewRealtimeHub()
	alerts := services.NewAlertBus(db, hub)

	mealService := services.NewMealService(db)
	goalService := services.NewGoalService(db, mealService, hub)
	userService := services.NewUserService(db)
	authService := services.NewAuthService(db)
	analyticsService := services.NewAnalyticsService(db)

	aiClient := services.NewAIClient(services.AIConfigFromEnv())
	limiter := services.NewUserRateLimiter(
		config.GetEnvInt("SUGGESTION_RATE_LIMIT", 5),
		config.GetEnvDuration("SUGGESTION_RATE_WINDOW", 60*time.Second),
	)
	insightService := services.NewInsightService(aiClient, limiter, alerts)

	r := gin.Default()
	routes.SetupRoutes(r, db, routes.Controllers{
		Auth:      controllers.NewAuthController(authService),
		User:      controllers.NewUserController(userService),
		Meal:      controllers.NewMealController(mealService, goalService, insightService),
		Goal:      controllers.NewGoalController(goalService),
		Insight:   controllers.NewInsightController(insightService, userService, mealService, alerts),
		Analytics: controllers.NewAnalyticsController(analyticsService, goalService),
		Realtime:  controllers.NewRealtimeController(hub),
	})

	addr := ":" + config.GetEnv("PORT", "8080")
	logger.Info("server starting", "addr", addr)
	if err := r.Run(addr); err != nil {
		logger.Error("server exited", "error", err)
	}
}
