package main

import (
	"github.com/gin-gonic/gin"

	"github.com/PrayerPraise/controllers"
	"github.com/PrayerPraise/initializers"
	"github.com/PrayerPraise/middlewares"
)

// SetupRouter registers every route of the journal API.
func SetupRouter() *gin.Engine {
	router := gin.New()
	router.Use(middlewares.RequestLogger(initializers.Logger.Named("http")))
	router.Use(gin.Recovery())

	getKey := func(c *gin.Context) string {
		if gin.Mode() == gin.DebugMode {
			return c.FullPath()
		}
		return middlewares.ClientIPKey(c)
	}

	router.POST("/unlock", middlewares.RateLimitMiddleware(2, 2, getKey), controllers.Unlock)
	router.GET("/ping", middlewares.RateLimitMiddleware(2, 2, getKey), controllers.Ping)

	auth := router.Group("/")
	auth.Use(middlewares.CheckAuth)
	auth.Use(middlewares.RateLimitMiddleware(10, 10, getKey))
	{
		// prayer routes
		auth.GET("/prayers", controllers.GetPrayers)
		auth.POST("/prayers", controllers.CreatePrayer)
		auth.GET("/prayers/:prayer_id", controllers.GetPrayer)
		auth.PUT("/prayers/:prayer_id", controllers.UpdatePrayer)
		auth.DELETE("/prayers/:prayer_id", controllers.DeletePrayer)
		auth.PATCH("/prayers/:prayer_id/answered", controllers.TogglePrayerAnswered)
		auth.PATCH("/prayers/:prayer_id/archived", controllers.TogglePrayerArchived)

		// follow-up routes
		auth.GET("/prayers/:prayer_id/followups", controllers.GetFollowups)
		auth.POST("/prayers/:prayer_id/followups", controllers.AddFollowup)
		auth.PATCH("/prayers/:prayer_id/followups/:followup", controllers.ToggleFollowup)

		// praise routes
		auth.GET("/praises", controllers.GetPraises)
		auth.POST("/praises", controllers.CreatePraise)
		auth.PUT("/praises/:praise_id", controllers.UpdatePraise)
		auth.DELETE("/praises/:praise_id", controllers.DeletePraise)
		auth.PATCH("/praises/:praise_id/archived", controllers.TogglePraiseArchived)

		auth.GET("/settings", controllers.GetSettings)
		auth.PATCH("/settings", controllers.UpdateSettings)
		auth.GET("/reminders", controllers.GetReminders)

		// data routes
		auth.GET("/export", controllers.ExportJournal)
		auth.POST("/import", controllers.ImportJournal)
		auth.POST("/reset", controllers.ResetJournal)

		auth.POST("/summary/test", middlewares.RateLimitMiddleware(0.1, 1, getKey), controllers.SendTestSummary)
	}

	return router
}
