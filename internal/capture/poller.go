package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	log "github.com/sirupsen/logrus"

	"github.com/mgeller/clipvault/internal/classify"
	"github.com/mgeller/clipvault/internal/content"
	"github.com/mgeller/clipvault/internal/item"
	"github.com/mgeller/clipvault/internal/sensitive"
)

// Poller polls the clipboard at a fixed interval and emits one capture
// event per observed change. It deduplicates against the last payload it
// observed and against the last payload the command surface copied out, so
// neither repeated polls nor copy-out echo produce events.
//
// Capture policy (exclusions, sensitive handling, image size budget) is
// pushed in through setters; the poller never reads storage.
type Poller struct {
	clip      Clipboard
	focus     func() string
	events    chan<- item.CaptureEvent
	imagesDir string
	interval  time.Duration

	mu                   sync.Mutex
	lastObservedText     string
	lastObservedImage    string
	lastCopied           string
	exclusions           map[string]struct{}
	autoExcludeSensitive bool
	maxImageBytes        int
}

// NewPoller builds a poller emitting to events. Policy starts at the
// settings defaults until the daemon pushes the persisted values.
func NewPoller(clip Clipboard, events chan<- item.CaptureEvent, imagesDir string, interval time.Duration) *Poller {
	defaults := item.DefaultSettings()
	return &Poller{
		clip:                 clip,
		focus:                FocusedApp,
		events:               events,
		imagesDir:            imagesDir,
		interval:             interval,
		exclusions:           make(map[string]struct{}),
		autoExcludeSensitive: defaults.AutoExcludeSensitive,
		maxImageBytes:        defaults.MaxImageSizeMB * 1024 * 1024,
	}
}

// SetExclusions replaces the excluded application set.
func (p *Poller) SetExclusions(apps []string) {
	set := make(map[string]struct{}, len(apps))
	for _, app := range apps {
		set[app] = struct{}{}
	}
	p.mu.Lock()
	p.exclusions = set
	p.mu.Unlock()
}

// SetAutoExcludeSensitive sets whether sensitive text is dropped before it
// reaches the pipeline.
func (p *Poller) SetAutoExcludeSensitive(on bool) {
	p.mu.Lock()
	p.autoExcludeSensitive = on
	p.mu.Unlock()
}

// SetMaxImageSizeMB sets the raw pixel budget above which images are
// skipped.
func (p *Poller) SetMaxImageSizeMB(mb int) {
	p.mu.Lock()
	p.maxImageBytes = mb * 1024 * 1024
	p.mu.Unlock()
}

// SetLastCopiedDigest records the digest of a payload the command surface
// just wrote to the clipboard, so the next poll does not capture it back.
func (p *Poller) SetLastCopiedDigest(digest string) {
	p.mu.Lock()
	p.lastCopied = digest
	p.mu.Unlock()
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	log.WithField("interval", p.interval).Info("clipboard poller started")
	for {
		select {
		case <-ctx.Done():
			log.Info("clipboard poller stopped")
			return nil
		case <-ticker.C:
			p.PollOnce(ctx)
		}
	}
}

// PollOnce performs a single poll cycle. The text and image paths run
// independently, so a tick that finds both new text and a new image
// emits two events. Digest suppression runs before the exclusion check,
// so a payload copied inside an excluded app is marked observed and
// stays uncaptured after focus moves elsewhere.
func (p *Poller) PollOnce(ctx context.Context) {
	app := p.focus()

	text, err := p.clip.ReadText()
	if err != nil {
		log.WithError(err).Warn("reading clipboard text")
	} else if strings.TrimSpace(text) != "" {
		p.handleText(ctx, app, text)
	}

	img, err := p.clip.ReadImage()
	if err != nil {
		log.WithError(err).Warn("reading clipboard image")
		return
	}
	if img != nil {
		p.handleImage(ctx, app, img)
	}
}

func (p *Poller) handleText(ctx context.Context, app, text string) {
	digest := content.DigestText(text)

	p.mu.Lock()
	if digest == p.lastObservedText || digest == p.lastCopied {
		p.lastObservedText = digest
		p.mu.Unlock()
		return
	}
	p.lastObservedText = digest
	dropSensitive := p.autoExcludeSensitive
	_, excluded := p.exclusions[app]
	p.mu.Unlock()

	if excluded {
		return
	}

	isSensitive := sensitive.IsSensitive(text)
	if isSensitive && dropSensitive {
		log.Debug("dropping sensitive clipboard text")
		return
	}

	p.emit(ctx, item.CaptureEvent{
		EventID:     ulid.Make().String(),
		Content:     text,
		ContentKind: item.KindText,
		Category:    classify.Detect(text),
		SourceApp:   app,
		IsSensitive: isSensitive,
		Digest:      digest,
		Preview:     content.Preview(text),
		CapturedAt:  time.Now().Unix(),
	})
}

func (p *Poller) handleImage(ctx context.Context, app string, img *RawImage) {
	digest := content.Digest(img.Pix)

	p.mu.Lock()
	if digest == p.lastObservedImage || digest == p.lastCopied {
		p.lastObservedImage = digest
		p.mu.Unlock()
		return
	}
	p.lastObservedImage = digest
	maxBytes := p.maxImageBytes
	_, excluded := p.exclusions[app]
	p.mu.Unlock()

	if excluded {
		return
	}
	if len(img.Pix) > maxBytes {
		log.WithFields(log.Fields{
			"bytes": len(img.Pix),
			"max":   maxBytes,
		}).Debug("skipping oversized clipboard image")
		return
	}

	now := time.Now()
	data, err := content.EncodeRGBA(img.Pix, img.Width, img.Height)
	if err != nil {
		log.WithError(err).Warn("encoding clipboard image")
		return
	}
	path := filepath.Join(p.imagesDir, content.ImageFilename(now.UnixNano(), digest))
	if err := os.WriteFile(path, data, 0600); err != nil {
		log.WithError(err).Warn("writing clipboard image file")
		return
	}

	label := fmt.Sprintf("Image %dx%d", img.Width, img.Height)
	p.emit(ctx, item.CaptureEvent{
		EventID:     ulid.Make().String(),
		Content:     label,
		ContentKind: item.KindImage,
		ImagePath:   path,
		Category:    "misc",
		SourceApp:   app,
		Digest:      digest,
		Preview:     label,
		CapturedAt:  now.Unix(),
	})
}

func (p *Poller) emit(ctx context.Context, ev item.CaptureEvent) {
	select {
	case p.events <- ev:
		log.WithFields(log.Fields{
			"event_id": ev.EventID,
			"kind":     ev.ContentKind,
			"category": ev.Category,
			"source":   ev.SourceApp,
		}).Debug("captured clipboard change")
	case <-ctx.Done():
	}
}
