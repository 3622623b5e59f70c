package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PrayerPraise/initializers"
	"github.com/PrayerPraise/services"
)

func getCalendar() services.Calendar {
	return services.NewCalendar(initializers.Location, initializers.Logger.Named("calendar"))
}

func prayerService() *services.PrayerService {
	return services.NewPrayerService(initializers.Collections, getCalendar())
}

func praiseService() *services.PraiseService {
	return services.NewPraiseService(initializers.Collections, getCalendar())
}

func dataService() *services.DataService {
	return services.NewDataService(initializers.Collections, getCalendar())
}

// rescheduleReminders tells the scheduler, when one is running, that the
// journal changed.
func rescheduleReminders() {
	if scheduler := services.GetReminderScheduler(); scheduler != nil {
		scheduler.Reschedule()
	}
}

// respondError maps service errors onto a status code. Anything unexpected
// is logged and reported as a 500 with the given message.
func respondError(c *gin.Context, err error, message string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrPrayerNotFound),
		errors.Is(err, services.ErrPraiseNotFound),
		errors.Is(err, services.ErrFollowupNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrFollowupPending),
		errors.Is(err, services.ErrFollowupLocked):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInvalidPrayer),
		errors.Is(err, services.ErrInvalidPraise),
		errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrInvalidView),
		errors.Is(err, services.ErrInvalidImport):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		initializers.Logger.Error(message, zap.Error(err))
		c.JSON(status, gin.H{"error": message, "details": err.Error()})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
