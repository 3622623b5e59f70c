package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
)

const storageTable = "app_storage"

const createStorageTable = `CREATE TABLE IF NOT EXISTS app_storage (
	storage_key TEXT PRIMARY KEY,
	storage_value TEXT NOT NULL,
	datetime_update TIMESTAMP NOT NULL
)`

// SQLAdapter keeps every key as one row of app_storage. It works with the
// sqlite3 and postgres goqu dialects.
type SQLAdapter struct {
	db  *goqu.Database
	now func() time.Time
}

func NewSQLAdapter(db *goqu.Database) *SQLAdapter {
	return &SQLAdapter{db: db, now: time.Now}
}

func (a *SQLAdapter) EnsureSchema(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, createStorageTable); err != nil {
		return fmt.Errorf("create %s table: %w", storageTable, err)
	}
	return nil
}

func (a *SQLAdapter) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	found, err := a.db.From(storageTable).
		Select("storage_value").
		Where(goqu.C("storage_key").Eq(key)).
		ScanValContext(ctx, &value)
	if err != nil {
		return "", false, fmt.Errorf("read %q: %w", key, err)
	}
	return value, found, nil
}

func (a *SQLAdapter) SetItem(ctx context.Context, key string, value string) error {
	insert := a.db.Insert(storageTable).
		Rows(goqu.Record{
			"storage_key":     key,
			"storage_value":   value,
			"datetime_update": a.now().UTC(),
		}).
		OnConflict(goqu.DoUpdate("storage_key", goqu.Record{
			"storage_value":   goqu.I("excluded.storage_value"),
			"datetime_update": goqu.I("excluded.datetime_update"),
		}))

	if _, err := insert.Executor().ExecContext(ctx); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

func (a *SQLAdapter) RemoveItem(ctx context.Context, key string) error {
	deleteStmt := a.db.Delete(storageTable).Where(goqu.C("storage_key").Eq(key))
	if _, err := deleteStmt.Executor().ExecContext(ctx); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}
