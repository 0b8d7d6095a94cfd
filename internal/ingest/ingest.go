// Package ingest drains capture events into durable storage.
package ingest

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/mgeller/clipvault/internal/item"
	"github.com/mgeller/clipvault/internal/store"
)

// Bridge consumes capture events and persists each one. Persistence
// failures are logged and skipped so one bad event cannot stall the
// pipeline.
type Bridge struct {
	store  *store.Store
	events <-chan item.CaptureEvent
}

func NewBridge(s *store.Store, events <-chan item.CaptureEvent) *Bridge {
	return &Bridge{store: s, events: events}
}

// Run consumes events until ctx is cancelled or the channel closes.
func (b *Bridge) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-b.events:
			if !ok {
				return nil
			}
			b.persist(ev)
		}
	}
}

func (b *Bridge) persist(ev item.CaptureEvent) {
	id, err := b.store.Insert(ev)
	if err != nil {
		log.WithError(err).WithField("event_id", ev.EventID).Error("persisting capture event")
		return
	}
	log.WithFields(log.Fields{
		"event_id": ev.EventID,
		"item_id":  id,
		"kind":     ev.ContentKind,
	}).Debug("capture event persisted")
}
