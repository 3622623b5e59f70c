package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/PrayerPraise/models"
)

// Persisted keys
const (
	KeyPrayers  = "prayers"
	KeyPraises  = "praises"
	KeySettings = "settings"

	// written by older builds, cleared on reset
	KeyLegacyNotifications = "notifications"
)

const emptyArray = "[]"

// Collections maps the persisted keys to typed collections. Reads fail soft:
// a value that cannot be used is logged, replaced and read as empty. Only
// adapter errors reach the caller.
type Collections struct {
	adapter Adapter
	logger  *zap.Logger
}

func NewCollections(adapter Adapter, logger *zap.Logger) *Collections {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collections{adapter: adapter, logger: logger}
}

func (c *Collections) LoadPrayers(ctx context.Context) ([]models.Prayer, error) {
	prayers, err := loadArray[models.Prayer](ctx, c, KeyPrayers)
	if err != nil {
		return nil, err
	}
	for i := range prayers {
		if prayers[i].Followups == nil {
			prayers[i].Followups = []models.Followup{}
		}
		if n := prayers[i].UndatedFollowups(); n > 0 {
			c.logger.Warn("follow-up date unreadable, kept without a date",
				zap.String("prayer_id", prayers[i].Prayer_ID.String()),
				zap.Int("followups", n),
			)
		}
	}
	return prayers, nil
}

func (c *Collections) SavePrayers(ctx context.Context, prayers []models.Prayer) error {
	return saveArray(ctx, c, KeyPrayers, prayers)
}

func (c *Collections) LoadPraises(ctx context.Context) ([]models.Praise, error) {
	praises, err := loadArray[models.Praise](ctx, c, KeyPraises)
	if err != nil {
		return nil, err
	}
	for _, p := range praises {
		if p.Date.IsZero() {
			c.logger.Warn("praise date unreadable, kept without a date",
				zap.String("praise_id", p.Praise_ID.String()))
		}
	}
	return praises, nil
}

func (c *Collections) SavePraises(ctx context.Context, praises []models.Praise) error {
	return saveArray(ctx, c, KeyPraises, praises)
}

// LoadSettings merges the stored object onto the defaults. A missing or
// unreadable value is replaced by the defaults.
func (c *Collections) LoadSettings(ctx context.Context) (models.Settings, error) {
	settings := models.DefaultSettings()

	raw, ok, err := c.adapter.GetItem(ctx, KeySettings)
	if err != nil {
		return settings, fmt.Errorf("load settings: %w", err)
	}
	if !ok {
		return settings, c.SaveSettings(ctx, settings)
	}

	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		c.logger.Warn("stored settings are unreadable, restoring defaults",
			zap.String("key", KeySettings),
			zap.Error(err),
		)
		settings = models.DefaultSettings()
		return settings, c.SaveSettings(ctx, settings)
	}
	return settings, nil
}

func (c *Collections) SaveSettings(ctx context.Context, settings models.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := c.adapter.SetItem(ctx, KeySettings, string(data)); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Reset empties both collections and forgets the settings.
func (c *Collections) Reset(ctx context.Context) error {
	for _, key := range []string{KeyPrayers, KeyPraises} {
		if err := c.resetKey(ctx, key); err != nil {
			return err
		}
	}
	for _, key := range []string{KeySettings, KeyLegacyNotifications} {
		if err := c.adapter.RemoveItem(ctx, key); err != nil {
			return fmt.Errorf("reset %s: %w", key, err)
		}
	}
	c.logger.Info("journal reset")
	return nil
}

func loadArray[T any](ctx context.Context, c *Collections, key string) ([]T, error) {
	raw, ok, err := c.adapter.GetItem(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		c.logger.Warn("collection missing, initializing", zap.String("key", key))
		if err := c.resetKey(ctx, key); err != nil {
			return nil, err
		}
		return []T{}, nil
	}

	trimmed := bytes.TrimSpace([]byte(raw))
	var elements []json.RawMessage
	if err := json.Unmarshal(trimmed, &elements); err != nil || elements == nil {
		if err == nil {
			err = fmt.Errorf("value is %q, not an array", string(trimmed))
		}
		c.logger.Warn("collection is not a JSON array, resetting",
			zap.String("key", key),
			zap.Error(err),
		)
		if err := c.resetKey(ctx, key); err != nil {
			return nil, err
		}
		return []T{}, nil
	}

	items := make([]T, 0, len(elements))
	for i, element := range elements {
		var item T
		if err := json.Unmarshal(element, &item); err != nil {
			c.logger.Warn("skipping malformed record",
				zap.String("key", key),
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (c *Collections) resetKey(ctx context.Context, key string) error {
	if err := c.adapter.SetItem(ctx, key, emptyArray); err != nil {
		return fmt.Errorf("reset %s: %w", key, err)
	}
	return nil
}

func saveArray[T any](ctx context.Context, c *Collections, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := c.adapter.SetItem(ctx, key, string(data)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
