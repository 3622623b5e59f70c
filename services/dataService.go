package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/PrayerPraise/models"
)

type SettingsStore interface {
	LoadSettings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, settings models.Settings) error
}

// JournalStore is everything persisted for one journal.
type JournalStore interface {
	PrayerStore
	PraiseStore
	SettingsStore
	Reset(ctx context.Context) error
}

// DataService moves the whole journal in and out: backups, restores and the
// destructive reset.
type DataService struct {
	store    JournalStore
	calendar Calendar
}

func NewDataService(store JournalStore, calendar Calendar) *DataService {
	return &DataService{store: store, calendar: calendar}
}

func (s *DataService) Export(ctx context.Context) (models.ExportDocument, error) {
	prayers, err := s.store.LoadPrayers(ctx)
	if err != nil {
		return models.ExportDocument{}, err
	}
	praises, err := s.store.LoadPraises(ctx)
	if err != nil {
		return models.ExportDocument{}, err
	}
	settings, err := s.store.LoadSettings(ctx)
	if err != nil {
		return models.ExportDocument{}, err
	}

	return models.ExportDocument{
		Prayers:     prayers,
		Praises:     praises,
		Settings:    &settings,
		Export_Date: s.calendar.CurrentTime().UTC(),
		Version:     models.ExportVersion,
	}, nil
}

// BackupFileName names an export after the current local day.
func (s *DataService) BackupFileName() string {
	return fmt.Sprintf("prayer-praise-backup-%s.json", s.calendar.CurrentTime().Format(models.DateInputLayout))
}

// Import replaces both collections, and the settings when the document has
// them. Nothing is written unless the whole document decodes.
func (s *DataService) Import(ctx context.Context, data []byte) (models.ImportResult, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.ImportResult{}, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}

	prayers, err := decodeImportArray[models.Prayer](doc, "prayers")
	if err != nil {
		return models.ImportResult{}, err
	}
	praises, err := decodeImportArray[models.Praise](doc, "praises")
	if err != nil {
		return models.ImportResult{}, err
	}
	for i := range prayers {
		if prayers[i].Followups == nil {
			prayers[i].Followups = []models.Followup{}
		}
	}

	var settings *models.Settings
	if raw, ok := doc["settings"]; ok && !isJSONNull(raw) {
		merged := models.DefaultSettings()
		if err := json.Unmarshal(raw, &merged); err != nil {
			return models.ImportResult{}, fmt.Errorf("%w: settings: %v", ErrInvalidImport, err)
		}
		settings = &merged
	}

	if err := s.store.SavePrayers(ctx, prayers); err != nil {
		return models.ImportResult{}, err
	}
	if err := s.store.SavePraises(ctx, praises); err != nil {
		return models.ImportResult{}, err
	}
	if settings != nil {
		if err := s.store.SaveSettings(ctx, *settings); err != nil {
			return models.ImportResult{}, err
		}
	}

	return models.ImportResult{
		Prayers:          len(prayers),
		Praises:          len(praises),
		Settings_Applied: settings != nil,
	}, nil
}

func (s *DataService) Reset(ctx context.Context) error {
	return s.store.Reset(ctx)
}

func (s *DataService) Settings(ctx context.Context) (models.Settings, error) {
	return s.store.LoadSettings(ctx)
}

func (s *DataService) UpdateSettings(ctx context.Context, update models.SettingsUpdate) (models.Settings, error) {
	current, err := s.store.LoadSettings(ctx)
	if err != nil {
		return models.Settings{}, err
	}
	updated := current.Apply(update)
	if err := s.store.SaveSettings(ctx, updated); err != nil {
		return models.Settings{}, err
	}
	return updated, nil
}

func decodeImportArray[T any](doc map[string]json.RawMessage, key string) ([]T, error) {
	raw, ok := doc[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s is missing", ErrInvalidImport, key)
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: %s is not an array", ErrInvalidImport, key)
	}

	items := []T{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidImport, key, err)
	}
	return items, nil
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
