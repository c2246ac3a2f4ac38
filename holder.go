// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package confj

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	xglog "github.com/ManuGH/confj/internal/log"
	"github.com/ManuGH/confj/internal/metrics"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// DefaultDebounce is how long the watcher waits after the last file event
// before reloading.
const DefaultDebounce = 500 * time.Millisecond

// Holder publishes config data to concurrent readers and swaps it atomically
// on reload. A published *Data is never mutated by the Holder; readers must
// not mutate it either.
type Holder struct {
	mu      sync.RWMutex
	current *Data

	template *Config
	source   string
	debounce time.Duration
	logger   zerolog.Logger
	group    singleflight.Group

	watchMu sync.Mutex
	watcher *fsnotify.Watcher
	done    chan struct{}

	// Reload notifications
	reloadMu        sync.RWMutex
	reloadListeners []chan<- *Data
}

// NewHolder publishes a copy of cfg's current data, so later changes to cfg
// do not reach readers. Reloads use cfg's options and source (resolved like
// Config.Load when empty).
func NewHolder(cfg *Config, source string) *Holder {
	return &Holder{
		current:  &Data{raw: cloneRaw(cfg.raw)},
		template: cfg,
		source:   source,
		debounce: DefaultDebounce,
		logger:   cfg.logger,
	}
}

// SetDebounce changes the watcher debounce. Call before StartWatcher.
func (h *Holder) SetDebounce(d time.Duration) {
	h.debounce = d
}

// Current returns the data published by the last successful load.
func (h *Holder) Current() *Data {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Reload loads the source into a fresh Config. On failure the previous data
// stays published. Concurrent calls share one load.
func (h *Holder) Reload(ctx context.Context) error {
	_, err, _ := h.group.Do("reload", func() (any, error) {
		return nil, h.reload(ctx)
	})
	return err
}

func (h *Holder) reload(ctx context.Context) error {
	ctx = xglog.ContextWithReloadID(ctx, uuid.NewString())
	logger := xglog.WithContext(ctx, h.logger)
	logger.Info().Str(xglog.FieldEvent, "config.reload_start").Msg("reloading configuration")

	next := h.template.sibling()
	if err := next.LoadContext(ctx, h.source); err != nil {
		metrics.ObserveReload(err)
		logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "config.reload_failed").
			Msg("failed to load new configuration")
		return fmt.Errorf("reload config: %w", err)
	}

	published := &Data{raw: next.raw}
	h.mu.Lock()
	old := h.current
	h.current = published
	h.mu.Unlock()

	metrics.ObserveReload(nil)
	h.notifyListeners(published)
	logChanges(logger, old, published)

	logger.Info().
		Str(xglog.FieldEvent, "config.reload_success").
		Msg("configuration reloaded successfully")
	return nil
}

// StartWatcher reloads whenever the source changes on disk. A file source is
// watched through its directory so editors that replace the file are seen.
// Only one watcher runs at a time; call Stop before starting another.
func (h *Holder) StartWatcher(ctx context.Context) error {
	h.watchMu.Lock()
	defer h.watchMu.Unlock()
	if h.done != nil {
		select {
		case <-h.done:
			// previous loop ended with its context
		default:
			return configError("watch", "config watcher is already running")
		}
	}

	source, err := h.template.ResolveSource(h.source)
	if err != nil {
		return err
	}
	info, err := os.Stat(source)
	if err != nil {
		return loadError("watch", source, err, "stat %q: %v", source, err)
	}

	target := source
	match := func(string) bool { return true }
	if !info.IsDir() {
		target = filepath.Dir(source)
		want := filepath.Clean(source)
		match = func(name string) bool { return filepath.Clean(name) == want }
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(target); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch config source: %w", err)
	}

	done := make(chan struct{})
	h.watcher = watcher
	h.done = done

	h.logger.Info().
		Str(xglog.FieldEvent, "config.watcher_started").
		Str(xglog.FieldPath, source).
		Msg("watching config source for changes")

	go h.watchLoop(ctx, watcher, match, done)
	return nil
}

func (h *Holder) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, match func(string) bool, done chan struct{}) {
	defer close(done)

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Str(xglog.FieldEvent, "config.watcher_stopped").Msg("config watcher stopped")
			_ = watcher.Close()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !match(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			h.logger.Debug().
				Str(xglog.FieldEvent, "config.file_changed").
				Str("op", event.Op.String()).
				Str(xglog.FieldPath, event.Name).
				Msg("config source changed")

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(h.debounce, func() {
				if err := h.Reload(ctx); err != nil {
					h.logger.Error().
						Err(err).
						Str(xglog.FieldEvent, "config.auto_reload_failed").
						Msg("automatic config reload failed")
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().
				Err(err).
				Str(xglog.FieldEvent, "config.watcher_error").
				Msg("config watcher error")
		}
	}
}

// Stop closes the watcher (if running) and waits for its loop to exit.
func (h *Holder) Stop() {
	h.watchMu.Lock()
	watcher, done := h.watcher, h.done
	h.watcher, h.done = nil, nil
	h.watchMu.Unlock()

	if watcher == nil {
		return
	}
	_ = watcher.Close()
	<-done
}

// RegisterListener registers a channel that receives the new data after
// every successful reload. Sends never block; a full channel misses the update.
func (h *Holder) RegisterListener(ch chan<- *Data) {
	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()
	h.reloadListeners = append(h.reloadListeners, ch)
}

func (h *Holder) notifyListeners(next *Data) {
	h.reloadMu.RLock()
	defer h.reloadMu.RUnlock()

	for _, ch := range h.reloadListeners {
		select {
		case ch <- next:
		default:
			h.logger.Warn().
				Str(xglog.FieldEvent, "config.listener_skip").
				Msg("skipped notifying listener (channel full)")
		}
	}
}

// logChanges logs top-level keys that were added, removed or changed.
func logChanges(logger zerolog.Logger, old, next *Data) {
	oldMap, _ := old.Raw().(map[string]any)
	nextMap, _ := next.Raw().(map[string]any)

	for _, k := range sortedKeys(nextMap) {
		prev, existed := oldMap[k]
		switch {
		case !existed:
			logger.Info().Str(xglog.FieldSection, k).Msg("config changed: section added")
		case !rawEqual(prev, nextMap[k]):
			logger.Info().Str(xglog.FieldSection, k).Msg("config changed: section modified")
		}
	}
	for _, k := range sortedKeys(oldMap) {
		if _, ok := nextMap[k]; !ok {
			logger.Info().Str(xglog.FieldSection, k).Msg("config changed: section removed")
		}
	}
}
