package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"

	"github.com/PrayerPraise/initializers"
)

const testSecret = "test-secret-key"

func generateToken(secret, subject string, expiresIn time.Duration) string {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(secret))
	return tokenString
}

func setupAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/prayers", CheckAuth, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestCheckAuth(t *testing.T) {
	tests := []struct {
		name           string
		locked         bool
		authHeader     string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "unlocked journal needs no token",
			locked:         false,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "valid token",
			locked:         true,
			authHeader:     "Bearer " + generateToken(testSecret, JournalSubject, time.Hour),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing header",
			locked:         true,
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Authorization header is missing",
		},
		{
			name:           "wrong scheme",
			locked:         true,
			authHeader:     "Token abc",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid token format",
		},
		{
			name:           "expired token",
			locked:         true,
			authHeader:     "Bearer " + generateToken(testSecret, JournalSubject, -time.Hour),
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid or expired token",
		},
		{
			name:           "wrong secret",
			locked:         true,
			authHeader:     "Bearer " + generateToken("wrong-secret-key", JournalSubject, time.Hour),
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid or expired token",
		},
		{
			name:           "wrong subject",
			locked:         true,
			authHeader:     "Bearer " + generateToken(testSecret, "someone-else", time.Hour),
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := initializers.Config
			t.Cleanup(func() { initializers.Config = original })

			initializers.Config.AppSecret = testSecret
			initializers.Config.PassphraseHash = ""
			if tt.locked {
				initializers.Config.PassphraseHash = "$2a$10$hash"
			}

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/prayers", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			setupAuthRouter().ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
		})
	}
}
