package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/PrayerPraise/initializers"
	"github.com/PrayerPraise/middlewares"
)

const tokenLifetime = 24 * time.Hour

type unlockRequest struct {
	Passphrase string `json:"passphrase"`
}

// Unlock exchanges the journal passphrase for a bearer token.
func Unlock(c *gin.Context) {
	if !initializers.Config.Locked() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Journal is not locked"})
		return
	}

	var body unlockRequest
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(initializers.Config.PassphraseHash), []byte(body.Passphrase)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid passphrase"})
		return
	}

	now := time.Now()
	expiresAt := now.Add(tokenLifetime)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   middlewares.JournalSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})

	tokenString, err := token.SignedString([]byte(initializers.Config.AppSecret))
	if err != nil {
		initializers.Logger.Error("failed to sign token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": tokenString, "expires_at": expiresAt.UTC()})
}

func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
