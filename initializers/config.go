package initializers

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type AppConfig struct {
	Host           string
	Port           string
	StorageDriver  string
	StoragePath    string
	DatabaseURL    string
	Timezone       string
	AppSecret      string
	PassphraseHash string
	ResendAPIKey   string
	EmailFrom      string
	AllowedOrigins []string
	LogLevel       string
}

var Config AppConfig

// LoadEnv reads .env when present and fills Config from the environment.
func LoadEnv() {
	// a missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	Config = AppConfig{
		Host:           getenv("HOST", "127.0.0.1"),
		Port:           getenv("PORT", "8080"),
		StorageDriver:  strings.ToLower(getenv("STORAGE_DRIVER", DriverSQLite)),
		StoragePath:    getenv("STORAGE_PATH", "prayerpraise.db"),
		DatabaseURL:    os.Getenv("DB_URL"),
		Timezone:       os.Getenv("APP_TIMEZONE"),
		AppSecret:      os.Getenv("APP_SECRET"),
		PassphraseHash: os.Getenv("APP_PASSPHRASE_HASH"),
		ResendAPIKey:   os.Getenv("RESEND_API_KEY"),
		EmailFrom:      getenv("EMAIL_FROM", "Prayer & Praise <journal@prayerpraise.app>"),
		AllowedOrigins: splitList(getenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		LogLevel:       getenv("LOG_LEVEL", "info"),
	}
}

// Locked reports whether the journal requires the passphrase.
func (c AppConfig) Locked() bool {
	return c.PassphraseHash != ""
}

// ResolveLocation loads APP_TIMEZONE, falling back to the host zone.
func (c AppConfig) ResolveLocation() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func splitList(value string) []string {
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
