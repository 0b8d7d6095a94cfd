// Package ops is the command surface shared by the CLI and the MCP
// server: every user-facing operation goes through here so validation and
// side effects (clipboard writes, live capture policy) happen in one
// place.
package ops

import (
	"strings"

	"github.com/mgeller/clipvault/internal/capture"
	"github.com/mgeller/clipvault/internal/errors"
	"github.com/mgeller/clipvault/internal/store"
)

// Pagination limits
const (
	DefaultListLimit   = 20
	MaxListLimit       = 100
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// EchoRecorder is told the digest of a payload the service just wrote to
// the clipboard, so the capture side can ignore the echo. The poller
// implements this; one-shot commands use the no-op.
type EchoRecorder interface {
	SetLastCopiedDigest(digest string)
}

// CaptureConfig receives live capture policy updates so settings and
// exclusion changes apply without a restart.
type CaptureConfig interface {
	SetExclusions(apps []string)
	SetAutoExcludeSensitive(on bool)
	SetMaxImageSizeMB(mb int)
}

type nopEcho struct{}

func (nopEcho) SetLastCopiedDigest(string) {}

type nopCaptureConfig struct{}

func (nopCaptureConfig) SetExclusions([]string)       {}
func (nopCaptureConfig) SetAutoExcludeSensitive(bool) {}
func (nopCaptureConfig) SetMaxImageSizeMB(int)        {}

// Service executes operations against the store and, where needed, the
// system clipboard.
type Service struct {
	store   *store.Store
	clip    capture.Clipboard // nil when no clipboard is reachable
	echo    EchoRecorder
	capture CaptureConfig
}

// New builds a service without live capture wiring; one-shot commands and
// the MCP server use this form. clip may be nil, in which case copy-out
// fails with CLIPBOARD_UNAVAILABLE.
func New(s *store.Store, clip capture.Clipboard) *Service {
	return &Service{
		store:   s,
		clip:    clip,
		echo:    nopEcho{},
		capture: nopCaptureConfig{},
	}
}

// WithCapture wires the running poller in so copy-out echo suppression and
// live policy updates reach it. Used by the daemon.
func (s *Service) WithCapture(echo EchoRecorder, cfg CaptureConfig) *Service {
	s.echo = echo
	s.capture = cfg
	return s
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

func normalizeAppName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.NewInvalidInput("app_name is required")
	}
	return name, nil
}

// pushExclusions mirrors the persisted exclusion list into the running
// capture policy.
func (s *Service) pushExclusions() error {
	apps, err := s.store.Exclusions()
	if err != nil {
		return err
	}
	s.capture.SetExclusions(apps)
	return nil
}
