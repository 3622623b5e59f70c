package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PrayerPraise/models"
)

func GetPrayers(c *gin.Context) {
	prayers, err := prayerService().List(c, c.Query("view"))
	if err != nil {
		respondError(c, err, "Failed to fetch prayers")
		return
	}
	c.JSON(http.StatusOK, prayers)
}

func GetPrayer(c *gin.Context) {
	prayer, err := prayerService().Get(c, models.RecordID(c.Param("prayer_id")))
	if err != nil {
		respondError(c, err, "Failed to fetch prayer")
		return
	}
	c.JSON(http.StatusOK, prayer)
}

func CreatePrayer(c *gin.Context) {
	var newPrayer models.PrayerCreate
	if err := c.BindJSON(&newPrayer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	prayer, err := prayerService().Create(c, newPrayer)
	if err != nil {
		respondError(c, err, "Failed to create prayer")
		return
	}

	rescheduleReminders()
	c.JSON(http.StatusCreated, prayer)
}

func UpdatePrayer(c *gin.Context) {
	var update models.PrayerUpdate
	if err := c.BindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	prayer, err := prayerService().Update(c, models.RecordID(c.Param("prayer_id")), update)
	if err != nil {
		respondError(c, err, "Failed to update prayer")
		return
	}

	rescheduleReminders()
	c.JSON(http.StatusOK, prayer)
}

func TogglePrayerAnswered(c *gin.Context) {
	prayer, err := prayerService().ToggleAnswered(c, models.RecordID(c.Param("prayer_id")))
	if err != nil {
		respondError(c, err, "Failed to update prayer")
		return
	}

	rescheduleReminders()
	c.JSON(http.StatusOK, prayer)
}

func TogglePrayerArchived(c *gin.Context) {
	prayer, err := prayerService().ToggleArchived(c, models.RecordID(c.Param("prayer_id")))
	if err != nil {
		respondError(c, err, "Failed to update prayer")
		return
	}

	rescheduleReminders()
	c.JSON(http.StatusOK, prayer)
}

func DeletePrayer(c *gin.Context) {
	if err := prayerService().Remove(c, models.RecordID(c.Param("prayer_id"))); err != nil {
		respondError(c, err, "Failed to delete prayer")
		return
	}

	rescheduleReminders()
	c.JSON(http.StatusOK, gin.H{"message": "Prayer removed successfully."})
}

// GetFollowups returns the follow-up history, latest date first.
func GetFollowups(c *gin.Context) {
	history, err := prayerService().History(c, models.RecordID(c.Param("prayer_id")))
	if err != nil {
		respondError(c, err, "Failed to fetch follow-ups")
		return
	}
	c.JSON(http.StatusOK, history)
}

func AddFollowup(c *gin.Context) {
	var followup models.FollowupCreate
	// an empty body schedules the default follow-up
	if c.Request.ContentLength != 0 {
		if err := c.BindJSON(&followup); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}
	}

	prayer, err := prayerService().AddFollowup(c, models.RecordID(c.Param("prayer_id")), followup)
	if err != nil {
		respondError(c, err, "Failed to schedule follow-up")
		return
	}

	rescheduleReminders()
	c.JSON(http.StatusCreated, prayer)
}

// ToggleFollowup completes or reopens a follow-up. The :followup parameter
// is its index or its date.
func ToggleFollowup(c *gin.Context) {
	prayer, err := prayerService().ToggleFollowup(c, models.RecordID(c.Param("prayer_id")), c.Param("followup"))
	if err != nil {
		respondError(c, err, "Failed to update follow-up")
		return
	}

	rescheduleReminders()
	c.JSON(http.StatusOK, prayer)
}
