package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB wraps a sqlmock connection in a postgres goqu database.
func setupTestDB(t *testing.T) (*SQLAdapter, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	adapter := NewSQLAdapter(goqu.New("postgres", db))
	adapter.now = func() time.Time { return time.Date(2025, 9, 5, 8, 0, 0, 0, time.UTC) }
	return adapter, mock
}

func TestSQLAdapterGetItem(t *testing.T) {
	tests := []struct {
		name        string
		rows        *sqlmock.Rows
		queryErr    error
		expectValue string
		expectFound bool
		expectError bool
	}{
		{
			name:        "stored value",
			rows:        sqlmock.NewRows([]string{"storage_value"}).AddRow(`[{"id":"a"}]`),
			expectValue: `[{"id":"a"}]`,
			expectFound: true,
		},
		{
			name:        "missing key",
			rows:        sqlmock.NewRows([]string{"storage_value"}),
			expectFound: false,
		},
		{
			name:        "query failure",
			queryErr:    errors.New("database is locked"),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter, mock := setupTestDB(t)

			expect := mock.ExpectQuery(`SELECT "storage_value" FROM "app_storage"`)
			if tt.queryErr != nil {
				expect.WillReturnError(tt.queryErr)
			} else {
				expect.WillReturnRows(tt.rows)
			}

			value, found, err := adapter.GetItem(context.Background(), KeyPrayers)

			if tt.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.queryErr)
				assert.Contains(t, err.Error(), `read "prayers"`)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectValue, value)
				assert.Equal(t, tt.expectFound, found)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLAdapterSetItemUpserts(t *testing.T) {
	adapter, mock := setupTestDB(t)

	mock.ExpectExec(`INSERT INTO "app_storage" .* ON CONFLICT \(storage_key\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := adapter.SetItem(context.Background(), KeyPraises, "[]")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLAdapterSetItemFailure(t *testing.T) {
	adapter, mock := setupTestDB(t)

	diskFull := errors.New("disk full")
	mock.ExpectExec(`INSERT INTO "app_storage"`).WillReturnError(diskFull)

	err := adapter.SetItem(context.Background(), KeyPraises, "[]")
	assert.ErrorIs(t, err, diskFull)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLAdapterRemoveItem(t *testing.T) {
	adapter, mock := setupTestDB(t)

	mock.ExpectExec(`DELETE FROM "app_storage" WHERE \("storage_key" = 'settings'\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, adapter.RemoveItem(context.Background(), KeySettings))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLAdapterEnsureSchema(t *testing.T) {
	adapter, mock := setupTestDB(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS app_storage").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, adapter.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
