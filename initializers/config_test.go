package initializers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvDefaults(t *testing.T) {
	for _, key := range []string{"HOST", "PORT", "STORAGE_DRIVER", "STORAGE_PATH", "APP_TIMEZONE", "CORS_ALLOWED_ORIGINS", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	LoadEnv()

	assert.Equal(t, "127.0.0.1", Config.Host)
	assert.Equal(t, "8080", Config.Port)
	assert.Equal(t, DriverSQLite, Config.StorageDriver)
	assert.Equal(t, "prayerpraise.db", Config.StoragePath)
	assert.Equal(t, []string{"http://localhost:3000"}, Config.AllowedOrigins)
	assert.Equal(t, "info", Config.LogLevel)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, app://journal ,")
	t.Setenv("APP_PASSPHRASE_HASH", "$2a$10$abc")
	t.Setenv("APP_TIMEZONE", "America/New_York")

	LoadEnv()

	assert.Equal(t, DriverMemory, Config.StorageDriver)
	assert.Equal(t, []string{"http://localhost:3000", "app://journal"}, Config.AllowedOrigins)
	assert.True(t, Config.Locked())
}

func TestResolveLocation(t *testing.T) {
	loc, err := AppConfig{}.ResolveLocation()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	_, err = AppConfig{Timezone: "Not/AZone"}.ResolveLocation()
	assert.Error(t, err)
}

func TestConnectStoreMemory(t *testing.T) {
	Config = AppConfig{StorageDriver: DriverMemory}
	t.Cleanup(func() { Collections = nil })

	require.NoError(t, ConnectStore(context.Background()))
	require.NotNil(t, Collections)
	assert.Nil(t, DB)

	prayers, err := Collections.LoadPrayers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, prayers)
}

func TestConnectDBRejectsUnknownDriver(t *testing.T) {
	Config = AppConfig{StorageDriver: "mongo"}
	assert.ErrorContains(t, ConnectDB(), "unknown STORAGE_DRIVER")

	Config = AppConfig{StorageDriver: DriverPostgres}
	assert.ErrorContains(t, ConnectDB(), "DB_URL is required")
}

func TestInitLogger(t *testing.T) {
	Config = AppConfig{LogLevel: "warn"}
	require.NoError(t, InitLogger(false))
	assert.False(t, Logger.Core().Enabled(-1))

	require.NoError(t, InitLogger(true))
	assert.True(t, Logger.Core().Enabled(-1))
}
