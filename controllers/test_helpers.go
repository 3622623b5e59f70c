package controllers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PrayerPraise/initializers"
	"github.com/PrayerPraise/models"
	"github.com/PrayerPraise/storage"
)

// SetupTestStore swaps the global collections for an in-memory store seeded
// with the given records.
func SetupTestStore(t *testing.T, prayers []models.Prayer, praises []models.Praise) *storage.Collections {
	t.Helper()

	originalCollections := initializers.Collections
	originalLocation := initializers.Location

	collections := storage.NewCollections(storage.NewMemoryAdapter(), zap.NewNop())
	ctx := context.Background()
	if err := collections.SavePrayers(ctx, prayers); err != nil {
		t.Fatalf("Failed to seed prayers: %v", err)
	}
	if err := collections.SavePraises(ctx, praises); err != nil {
		t.Fatalf("Failed to seed praises: %v", err)
	}

	initializers.Collections = collections
	initializers.Location = time.UTC

	t.Cleanup(func() {
		initializers.Collections = originalCollections
		initializers.Location = originalLocation
	})
	return collections
}

// SetupTestDB backs the global collections with a mock database so tests
// can exercise storage failures.
func SetupTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}

	goquDB := goqu.New("postgres", db)

	originalDB := initializers.DB
	originalCollections := initializers.Collections
	initializers.DB = goquDB
	initializers.Collections = storage.NewCollections(storage.NewSQLAdapter(goquDB), zap.NewNop())

	cleanup := func() {
		db.Close()
		initializers.DB = originalDB
		initializers.Collections = originalCollections
	}

	return db, mock, cleanup
}

// SetupTestContext creates a test Gin context with a response recorder
func SetupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

// SetJSONBody attaches body as the request's JSON payload.
func SetJSONBody(c *gin.Context, method, target string, body interface{}) {
	var reader *bytes.Reader
	if raw, ok := body.([]byte); ok {
		reader = bytes.NewReader(raw)
	} else {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
}

// SetRequest attaches an empty request.
func SetRequest(c *gin.Context, method, target string) {
	c.Request = httptest.NewRequest(method, target, nil)
}
