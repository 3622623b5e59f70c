package initializers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/PrayerPraise/storage"
)

var (
	sqlDB       *sql.DB
	DB          *goqu.Database
	Collections *storage.Collections
	Location    = time.Local
)

// ConnectDB opens the SQL database for the configured driver. The memory
// driver needs none and leaves DB nil.
func ConnectDB() error {
	var (
		db      *sql.DB
		dialect string
		err     error
	)

	switch Config.StorageDriver {
	case DriverPostgres:
		if Config.DatabaseURL == "" {
			return fmt.Errorf("DB_URL is required for the postgres driver")
		}
		db, err = sql.Open("postgres", Config.DatabaseURL)
		dialect = "postgres"
	case DriverSQLite:
		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", Config.StoragePath)
		db, err = sql.Open("sqlite", dsn)
		dialect = "sqlite3"
	case DriverMemory:
		DB = nil
		return nil
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", Config.StorageDriver)
	}
	if err != nil {
		return err
	}

	if dialect == "sqlite3" {
		// one writer at a time
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return err
	}

	sqlDB = db
	DB = goqu.New(dialect, db)
	Logger.Info("database connected", zap.String("driver", Config.StorageDriver))
	return nil
}

// ConnectStore wires Collections to the configured storage.
func ConnectStore(ctx context.Context) error {
	location, err := Config.ResolveLocation()
	if err != nil {
		return fmt.Errorf("APP_TIMEZONE: %w", err)
	}
	Location = location

	if err := ConnectDB(); err != nil {
		return err
	}

	var adapter storage.Adapter
	if DB == nil {
		Logger.Warn("using in-memory storage, nothing will be persisted")
		adapter = storage.NewMemoryAdapter()
	} else {
		sqlAdapter := storage.NewSQLAdapter(DB)
		if err := sqlAdapter.EnsureSchema(ctx); err != nil {
			return err
		}
		adapter = sqlAdapter
	}

	Collections = storage.NewCollections(adapter, Logger.Named("storage"))
	return nil
}

func CloseDB() {
	if sqlDB == nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		Logger.Warn("closing database", zap.Error(err))
	}
	sqlDB, DB = nil, nil
}
