package ops

import "github.com/mgeller/clipvault/internal/item"

// GetSettings returns the current settings, defaults applied.
func (s *Service) GetSettings() (item.Settings, error) {
	return s.store.GetSettings()
}

// UpdateSettings validates, persists, and applies settings. Capture policy
// fields reach the running poller immediately.
func (s *Service) UpdateSettings(settings item.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateSettings(settings); err != nil {
		return err
	}
	s.capture.SetAutoExcludeSensitive(settings.AutoExcludeSensitive)
	s.capture.SetMaxImageSizeMB(settings.MaxImageSizeMB)
	return nil
}

// ListExclusions returns the excluded application names, sorted.
func (s *Service) ListExclusions() ([]string, error) {
	return s.store.Exclusions()
}

// AddExclusion excludes an application from capture and pushes the updated
// list to the running poller.
func (s *Service) AddExclusion(appName string) error {
	name, err := normalizeAppName(appName)
	if err != nil {
		return err
	}
	if err := s.store.AddExclusion(name); err != nil {
		return err
	}
	return s.pushExclusions()
}

// RemoveExclusion re-enables capture for an application.
func (s *Service) RemoveExclusion(appName string) error {
	name, err := normalizeAppName(appName)
	if err != nil {
		return err
	}
	if err := s.store.RemoveExclusion(name); err != nil {
		return err
	}
	return s.pushExclusions()
}
