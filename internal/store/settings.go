package store

import (
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/mgeller/clipvault/internal/errors"
	"github.com/mgeller/clipvault/internal/item"
)

// GetSettings returns the persisted settings with defaults applied for any
// absent key.
func (s *Store) GetSettings() (item.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settingsLocked()
}

func (s *Store) settingsLocked() (item.Settings, error) {
	settings := item.DefaultSettings()

	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return settings, errors.NewStorageFailure(err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return settings, errors.NewStorageFailure(err)
		}
		switch key {
		case "retention_days":
			settings.RetentionDays = parseIntOr(value, settings.RetentionDays)
		case "max_items":
			settings.MaxItems = parseIntOr(value, settings.MaxItems)
		case "keyboard_shortcut":
			settings.KeyboardShortcut = value
		case "auto_exclude_sensitive":
			settings.AutoExcludeSensitive = value == "true"
		case "max_image_size_mb":
			settings.MaxImageSizeMB = parseIntOr(value, settings.MaxImageSizeMB)
		}
	}
	if err := rows.Err(); err != nil {
		return settings, errors.NewStorageFailure(err)
	}
	return settings, nil
}

// UpdateSettings persists the full settings singleton. Validation happens
// at the command surface before this is called.
func (s *Store) UpdateSettings(settings item.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pairs := []struct {
		key   string
		value string
	}{
		{"retention_days", strconv.Itoa(settings.RetentionDays)},
		{"max_items", strconv.Itoa(settings.MaxItems)},
		{"keyboard_shortcut", settings.KeyboardShortcut},
		{"auto_exclude_sensitive", strconv.FormatBool(settings.AutoExcludeSensitive)},
		{"max_image_size_mb", strconv.Itoa(settings.MaxImageSizeMB)},
	}
	for _, p := range pairs {
		_, err := s.db.Exec(
			`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`,
			p.key, p.value,
		)
		if err != nil {
			return errors.NewStorageFailure(err)
		}
	}

	log.Info("settings updated")
	return nil
}

// Exclusions returns the excluded application names, sorted.
func (s *Store) Exclusions() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT app_name FROM app_exclusions ORDER BY app_name`)
	if err != nil {
		return nil, errors.NewStorageFailure(err)
	}
	defer rows.Close()

	apps := make([]string, 0)
	for rows.Next() {
		var app string
		if err := rows.Scan(&app); err != nil {
			return nil, errors.NewStorageFailure(err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageFailure(err)
	}
	return apps, nil
}

// AddExclusion adds an application to the exclusion list. Adding an
// already-excluded app is a no-op.
func (s *Store) AddExclusion(appName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO app_exclusions (app_name) VALUES (?)`, appName,
	)
	if err != nil {
		return errors.NewStorageFailure(err)
	}
	log.Infof("added app to exclusion list: %s", appName)
	return nil
}

// RemoveExclusion removes an application from the exclusion list.
func (s *Store) RemoveExclusion(appName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`DELETE FROM app_exclusions WHERE app_name = ?`, appName,
	)
	if err != nil {
		return errors.NewStorageFailure(err)
	}
	log.Infof("removed app from exclusion list: %s", appName)
	return nil
}

func parseIntOr(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
