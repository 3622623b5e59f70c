package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PrayerPraise/initializers"
	"github.com/PrayerPraise/services"
)

// SendTestSummary builds this week's summary and emails it right away, to
// the address in the body or else the configured summaryEmail.
func SendTestSummary(c *gin.Context) {
	type TestSummaryRequest struct {
		Email string `json:"email"`
	}

	var req TestSummaryRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}
	}

	emailService := services.GetEmailService()
	if emailService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Email service is not initialized. Check RESEND_API_KEY in .env",
		})
		return
	}

	prayers, err := initializers.Collections.LoadPrayers(c)
	if err != nil {
		respondError(c, err, "Failed to load prayers")
		return
	}
	praises, err := initializers.Collections.LoadPraises(c)
	if err != nil {
		respondError(c, err, "Failed to load praises")
		return
	}
	settings, err := initializers.Collections.LoadSettings(c)
	if err != nil {
		respondError(c, err, "Failed to load settings")
		return
	}

	to := strings.TrimSpace(req.Email)
	if to == "" {
		to = settings.Notifications.Summary_Email
	}
	if to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No email given and no summaryEmail configured"})
		return
	}

	summary := getCalendar().BuildWeeklySummary(prayers, praises, settings.Notifications)
	if err := emailService.SendWeeklySummary(c, to, summary); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to send summary email",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Summary email sent successfully!",
		"email":   to,
		"summary": summary,
	})
}
