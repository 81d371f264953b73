package query

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"main/entity"
)

const settingsKey = "appSettings"

// GetSettings returns the saved application settings, or the defaults when
// none have been saved yet.
func (db *Database) GetSettings() (entity.Settings, error) {
	var raw string
	err := db.Get(&raw, `SELECT value FROM settings WHERE key = ?`, settingsKey)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.DefaultSettings(), nil
	}
	if err != nil {
		return entity.Settings{}, fmt.Errorf("GetSettings: %w", err)
	}
	var s entity.Settings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return entity.Settings{}, fmt.Errorf("GetSettings: %w", err)
	}
	return s, nil
}

func (db *Database) SaveSettings(s entity.Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("SaveSettings: %w", err)
	}
	_, err = db.Exec(`INSERT INTO settings (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value=excluded.value`, settingsKey, string(raw))
	if err != nil {
		return fmt.Errorf("SaveSettings: %w", err)
	}
	return nil
}
