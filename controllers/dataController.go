package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PrayerPraise/models"
)

func GetSettings(c *gin.Context) {
	settings, err := dataService().Settings(c)
	if err != nil {
		respondError(c, err, "Failed to fetch settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings applies a partial update; fields left out keep their
// current value.
func UpdateSettings(c *gin.Context) {
	var update models.SettingsUpdate
	if err := c.BindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	settings, err := dataService().UpdateSettings(c, update)
	if err != nil {
		respondError(c, err, "Failed to update settings")
		return
	}

	rescheduleReminders()
	c.JSON(http.StatusOK, settings)
}

func ExportJournal(c *gin.Context) {
	service := dataService()
	doc, err := service.Export(c)
	if err != nil {
		respondError(c, err, "Failed to export journal")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", service.BackupFileName()))
	c.JSON(http.StatusOK, doc)
}

func ImportJournal(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	result, err := dataService().Import(c, body)
	if err != nil {
		respondError(c, err, "Failed to import journal")
		return
	}

	rescheduleReminders()
	c.JSON(http.StatusOK, result)
}

// ResetJournal erases every prayer, praise and setting. The caller has to
// pass confirm=true.
func ResetJournal(c *gin.Context) {
	if c.Query("confirm") != "true" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reset requires confirm=true"})
		return
	}

	if err := dataService().Reset(c); err != nil {
		respondError(c, err, "Failed to reset journal")
		return
	}

	rescheduleReminders()
	c.JSON(http.StatusOK, gin.H{"message": "Journal reset successfully."})
}
