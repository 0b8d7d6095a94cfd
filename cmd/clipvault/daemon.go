package main

import (
	"context"
	"os/signal"
	"sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mgeller/clipvault/internal/capture"
	"github.com/mgeller/clipvault/internal/config"
	"github.com/mgeller/clipvault/internal/errors"
	"github.com/mgeller/clipvault/internal/ingest"
	"github.com/mgeller/clipvault/internal/item"
	"github.com/mgeller/clipvault/internal/janitor"
	"github.com/mgeller/clipvault/internal/ops"
	"github.com/mgeller/clipvault/internal/store"
)

// runDaemon wires the capture pipeline and blocks until SIGINT/SIGTERM.
func runDaemon(svc *ops.Service, st *store.Store, clip capture.Clipboard, cfg *config.Config) error {
	if clip == nil {
		return errors.NewClipboardUnavailable(nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	events := make(chan item.CaptureEvent, cfg.EventBuffer)
	interval := time.Duration(cfg.PollIntervalMS) * time.Millisecond
	poller := capture.NewPoller(clip, events, st.ImagesDir(), interval)

	// Seed the poller with persisted capture policy.
	settings, err := st.GetSettings()
	if err != nil {
		return err
	}
	poller.SetAutoExcludeSensitive(settings.AutoExcludeSensitive)
	poller.SetMaxImageSizeMB(settings.MaxImageSizeMB)
	exclusions, err := st.Exclusions()
	if err != nil {
		return err
	}
	poller.SetExclusions(exclusions)

	// Settings and exclusion changes through this service now reach the
	// running poller.
	svc.WithCapture(poller, poller)

	bridge := ingest.NewBridge(st, events)
	sweeper := janitor.New(st, time.Duration(cfg.JanitorIntervalMins)*time.Minute)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		if err := poller.Run(ctx); err != nil {
			log.WithError(err).Error("poller stopped")
		}
	}()
	go func() {
		defer wg.Done()
		if err := bridge.Run(ctx); err != nil {
			log.WithError(err).Error("ingest bridge stopped")
		}
	}()
	go func() {
		defer wg.Done()
		if err := sweeper.Run(ctx); err != nil {
			log.WithError(err).Error("janitor stopped")
		}
	}()

	log.Info("clipvault daemon running")
	<-ctx.Done()
	wg.Wait()
	log.Info("clipvault daemon stopped")
	return nil
}
