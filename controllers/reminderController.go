package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PrayerPraise/initializers"
	"github.com/PrayerPraise/services"
)

// GetReminders lists the reminders planned for the coming week.
func GetReminders(c *gin.Context) {
	scheduler := services.GetReminderScheduler()
	if scheduler == nil {
		scheduler = services.NewReminderScheduler(initializers.Collections, getCalendar(), nil, nil, initializers.Logger)
	}

	reminders, err := scheduler.Upcoming(c)
	if err != nil {
		respondError(c, err, "Failed to fetch reminders")
		return
	}
	c.JSON(http.StatusOK, reminders)
}
