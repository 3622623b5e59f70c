package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PrayerPraise/models"
)

func GetPraises(c *gin.Context) {
	praises, err := praiseService().List(c, c.Query("view"))
	if err != nil {
		respondError(c, err, "Failed to fetch praises")
		return
	}
	c.JSON(http.StatusOK, praises)
}

func CreatePraise(c *gin.Context) {
	var newPraise models.PraiseCreate
	if err := c.BindJSON(&newPraise); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	praise, err := praiseService().Create(c, newPraise)
	if err != nil {
		respondError(c, err, "Failed to create praise")
		return
	}
	c.JSON(http.StatusCreated, praise)
}

func UpdatePraise(c *gin.Context) {
	var update models.PraiseUpdate
	if err := c.BindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	praise, err := praiseService().Update(c, models.RecordID(c.Param("praise_id")), update)
	if err != nil {
		respondError(c, err, "Failed to update praise")
		return
	}
	c.JSON(http.StatusOK, praise)
}

func TogglePraiseArchived(c *gin.Context) {
	praise, err := praiseService().ToggleArchived(c, models.RecordID(c.Param("praise_id")))
	if err != nil {
		respondError(c, err, "Failed to update praise")
		return
	}
	c.JSON(http.StatusOK, praise)
}

func DeletePraise(c *gin.Context) {
	if err := praiseService().Remove(c, models.RecordID(c.Param("praise_id"))); err != nil {
		respondError(c, err, "Failed to delete praise")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Praise removed successfully."})
}
