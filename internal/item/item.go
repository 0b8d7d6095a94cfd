// Package item defines the data model shared across the capture pipeline:
// capture events, persisted items, settings, and search filters.
package item

import "github.com/mgeller/clipvault/internal/errors"

// Content kinds. Plain text and raster images are the only payloads the
// pipeline records.
const (
	KindText  = "text"
	KindImage = "image"
)

// CaptureEvent is the ephemeral record of one observed clipboard change,
// produced by the poller and consumed exactly once by the ingestion
// bridge.
type CaptureEvent struct {
	// EventID is a ULID used only for log correlation; it is never
	// persisted.
	EventID string `json:"event_id,omitempty"`

	Content     string `json:"content"`
	ContentKind string `json:"content_kind"`
	ImagePath   string `json:"image_path,omitempty"` // set iff ContentKind == KindImage
	Category    string `json:"category"`
	SourceApp   string `json:"source_app"`
	IsSensitive bool   `json:"is_sensitive"`
	Digest      string `json:"digest"`
	Preview     string `json:"preview"`
	CapturedAt  int64  `json:"captured_at"` // seconds since epoch
}

// Item is a persisted clipboard record. Digest is unique across all items;
// a duplicate insert resolves to the existing row.
type Item struct {
	ID          int64  `json:"id"`
	Content     string `json:"content"`
	ContentKind string `json:"content_kind"`
	ImagePath   string `json:"image_path,omitempty"`
	Category    string `json:"category"`
	SourceApp   string `json:"source_app"`
	IsFavorite  bool   `json:"is_favorite"`
	IsSensitive bool   `json:"is_sensitive"`
	Digest      string `json:"digest"`
	Preview     string `json:"preview"`
	CapturedAt  int64  `json:"captured_at"`
}

// Settings is the persisted singleton configuration mutable through the
// command surface.
type Settings struct {
	RetentionDays        int    `json:"retention_days"`
	MaxItems             int    `json:"max_items"`
	KeyboardShortcut     string `json:"keyboard_shortcut"` // opaque, not interpreted here
	AutoExcludeSensitive bool   `json:"auto_exclude_sensitive"`
	MaxImageSizeMB       int    `json:"max_image_size_mb"`
}

// DefaultSettings returns the settings applied when no value has been
// persisted yet.
func DefaultSettings() Settings {
	return Settings{
		RetentionDays:        30,
		MaxItems:             1000,
		KeyboardShortcut:     "CmdOrCtrl+Shift+V",
		AutoExcludeSensitive: true,
		MaxImageSizeMB:       5,
	}
}

// MaxRetentionDays caps the retention window at ten years so the cutoff
// timestamp arithmetic cannot underflow.
const MaxRetentionDays = 3650

// Validate checks settings bounds before they are applied.
func (s Settings) Validate() error {
	if s.RetentionDays < 1 {
		return errors.NewInvalidInput("retention_days must be at least 1")
	}
	if s.MaxItems < 10 || s.MaxItems > 100000 {
		return errors.NewInvalidInput("max_items must be between 10 and 100000")
	}
	if s.MaxImageSizeMB < 1 || s.MaxImageSizeMB > 100 {
		return errors.NewInvalidInput("max_image_size_mb must be between 1 and 100")
	}
	return nil
}

// SearchFilters narrows a full-text search. Nil fields are ignored;
// DateFrom/DateTo form an inclusive captured_at range.
type SearchFilters struct {
	Category    *string `json:"category,omitempty"`
	SourceApp   *string `json:"source_app,omitempty"`
	ContentKind *string `json:"content_kind,omitempty"`
	DateFrom    *int64  `json:"date_from,omitempty"`
	DateTo      *int64  `json:"date_to,omitempty"`
}
