// Package janitor runs the periodic retention sweep.
package janitor

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mgeller/clipvault/internal/store"
)

// Janitor deletes expired items on a fixed schedule. Retention is read
// from settings at every sweep so updates take effect without a restart.
type Janitor struct {
	store    *store.Store
	interval time.Duration
}

func New(s *store.Store, interval time.Duration) *Janitor {
	return &Janitor{store: s, interval: interval}
}

// Run sweeps once immediately, then on every tick until ctx is cancelled.
func (j *Janitor) Run(ctx context.Context) error {
	j.Sweep()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			j.Sweep()
		}
	}
}

// Sweep deletes items older than the configured retention window.
func (j *Janitor) Sweep() {
	settings, err := j.store.GetSettings()
	if err != nil {
		log.WithError(err).Error("reading settings for retention sweep")
		return
	}
	deleted, err := j.store.CleanupExpired(settings.RetentionDays)
	if err != nil {
		log.WithError(err).Error("retention sweep failed")
		return
	}
	if deleted > 0 {
		log.WithFields(log.Fields{
			"deleted":        deleted,
			"retention_days": settings.RetentionDays,
		}).Info("retention sweep removed expired items")
	}
}
