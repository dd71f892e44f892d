package main

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"focuspomo/internal/core/history"
	"focuspomo/internal/core/model"
	"focuspomo/internal/core/sampler"
	"focuspomo/internal/core/session"
	"focuspomo/internal/core/stats"
	"focuspomo/internal/platform"
	"focuspomo/internal/storage"
)

type kvStore interface {
	stats.Store
	Close() error
}

// agent wires the controller to its stores and the settings file.
type agent struct {
	paths        storage.Paths
	logger       *slog.Logger
	settingsFile *storage.SettingsFile
	store        kvStore
	accumulator  *stats.Accumulator
	controller   *session.Controller

	mu       sync.Mutex
	settings model.Settings
}

func newAgent(paths storage.Paths, probe sampler.Probe, clock clockwork.Clock, logger *slog.Logger) (*agent, error) {
	if err := os.MkdirAll(paths.Dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create config directory")
	}

	settingsFile := storage.NewSettingsFile(paths.Settings)
	settings, err := settingsFile.Load()
	if err != nil {
		logger.Warn("settings unreadable, using defaults", "path", paths.Settings, "error", err)
	}

	var store kvStore
	sqliteStore, err := storage.OpenSQLiteKV(storage.KVConfig{Path: paths.Database, Clock: clock, Logger: logger})
	if err != nil {
		logger.Error("stats database unavailable, statistics will not persist", "path", paths.Database, "error", err)
		store = storage.NewMemoryKV()
	} else {
		store = sqliteStore
	}
	accumulator := stats.New(store, stats.Config{Clock: clock, Logger: logger})

	focusSampler := sampler.New(probe, sampler.Config{
		Clock:  clock,
		Logger: logger,
		Quiet:  []error{platform.ErrNoFocusedWindow, platform.ErrFocusUnsupported},
	})
	controller := session.New(session.Config{
		Settings: settings,
		Self:     platform.SelfProcessIDs(appID),
		Sampler:  focusSampler,
		Stats:    accumulator,
		History:  history.New(history.Config{Clock: clock}),
		Clock:    clock,
		Logger:   logger,
	})

	return &agent{
		paths:        paths,
		logger:       logger,
		settingsFile: settingsFile,
		store:        store,
		accumulator:  accumulator,
		controller:   controller,
		settings:     settings,
	}, nil
}

// serve runs the controller and the settings watcher until ctx is done.
func (agent *agent) serve(ctx context.Context, onSettings func(model.Settings)) error {
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return agent.controller.Run(ctx)
	})
	group.Go(func() error {
		err := storage.WatchSettings(ctx, agent.settingsFile.Path(), storage.DefaultDebounce, agent.logger, func() {
			agent.reloadSettings(onSettings)
		})
		if err != nil {
			agent.logger.Warn("settings hot reload disabled", "error", err)
		}
		return nil
	})
	return group.Wait()
}

func (agent *agent) Settings() model.Settings {
	agent.mu.Lock()
	defer agent.mu.Unlock()
	return agent.settings
}

func (agent *agent) reloadSettings(onSettings func(model.Settings)) {
	settings, err := agent.settingsFile.Load()
	if err != nil {
		agent.logger.Warn("ignoring unreadable settings file", "error", err)
		return
	}
	agent.apply(settings)
	if onSettings != nil {
		onSettings(settings)
	}
}

// saveSettings persists and applies settings edited in the UI.
func (agent *agent) saveSettings(settings model.Settings) error {
	if err := agent.settingsFile.Save(settings); err != nil {
		return err
	}
	agent.apply(settings.Normalize())
	return nil
}

func (agent *agent) resetSettings() (model.Settings, error) {
	settings, err := agent.settingsFile.Reset()
	if err != nil {
		return settings, err
	}
	agent.apply(settings)
	return settings, nil
}

func (agent *agent) apply(settings model.Settings) {
	agent.mu.Lock()
	agent.settings = settings
	agent.mu.Unlock()
	agent.controller.ApplySettings(settings)
}

func (agent *agent) logEvents(events <-chan session.Event) {
	for event := range events {
		switch event.Type {
		case session.EventWorkTick, session.EventBreakTick:
			agent.logger.Debug("tick", "type", event.Type, "remaining", event.Remaining)
		case session.EventPermissionRequired:
			agent.logger.Warn("focus permission required", "granted", agent.controller.RequestFocusPermission())
		default:
			agent.logger.Info("session event", "type", event.Type, "state", event.State)
		}
	}
}

func (agent *agent) Close() error {
	return agent.store.Close()
}
