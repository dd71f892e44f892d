package main

import (
	"context"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"focuspomo/internal/core/model"
	"focuspomo/internal/core/session"
	"focuspomo/internal/report"
	"focuspomo/internal/ui/overlay"
	"focuspomo/internal/ui/preferences"
	"focuspomo/internal/ui/statistics"
	"focuspomo/internal/ui/tray"
	"focuspomo/resources"
)

const recentFocusLimit = 5

// trayView owns the Fyne widgets. Everything except refreshStatistics
// runs on the Fyne goroutine.
type trayView struct {
	ctx        context.Context
	agent      *agent
	app        fyne.App
	tray       *tray.Manager
	overlay    *overlay.Window
	prefs      *preferences.Window
	statistics *statistics.Window
	icon       string
}

func (agent *agent) runTray(parent context.Context) error {
	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.MustIcon(resources.IconPaused))
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		agent.logger.Warn("system tray unsupported on this platform, running headless")
		return agent.runHeadless(parent)
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	trayWindow := fyneApp.NewWindow("FocusPomo")
	trayWindow.SetContent(widget.NewLabel("FocusPomo is running in the system tray."))
	trayWindow.SetCloseIntercept(trayWindow.Hide)
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	view := &trayView{ctx: ctx, agent: agent, app: fyneApp}
	controller := agent.controller
	view.overlay = overlay.New(fyneApp, overlay.Callbacks{
		OnStartNext: func() {
			view.overlay.Hide()
			controller.StartNext()
		},
		OnStop: func() {
			view.overlay.Hide()
			controller.Stop()
		},
	})
	view.prefs = preferences.New(fyneApp, agent.Settings(), view.saveSettings, view.resetSettings)
	view.statistics = statistics.New(fyneApp, view.clearStatistics)
	view.tray = tray.New(desktopApp, tray.Callbacks{
		OnToggle: controller.Toggle,
		OnReset:  controller.Reset,
		OnStop:   controller.Stop,
		OnStatistics: func() {
			go view.refreshStatistics()
			view.statistics.Show()
		},
		OnPreferences: view.prefs.Show,
		OnQuit:        cancel,
	})
	view.setIcon(resources.IconPaused)

	events := controller.Subscribe(64)
	go func() {
		for event := range events {
			fyne.Do(func() { view.handle(event) })
		}
	}()

	served := make(chan error, 1)
	go func() {
		served <- agent.serve(ctx, func(settings model.Settings) {
			fyne.Do(func() { view.prefs.UpdateSettings(settings) })
		})
		fyne.Do(fyneApp.Quit)
	}()

	fyneApp.Run()
	cancel()
	return <-served
}

func (view *trayView) handle(event session.Event) {
	switch event.Type {
	case session.EventWorkTick:
		view.tray.SetStatus(stateLabel(event.State), report.FormatClock(event.Remaining))
	case session.EventBreakTick:
		view.tray.SetStatus(stateLabel(event.State), report.FormatClock(event.Remaining))
		view.overlay.SetRemaining(event.Remaining)
	case session.EventStateChange:
		view.stateChanged(event.State)
	case session.EventWorkComplete:
		view.notify("Pomodoro complete", "Time for a break.")
		view.overlay.ShowBreak(view.agent.controller.Status().Break.RemainingSeconds)
	case session.EventBreakComplete:
		view.notify("Break over", "Start the next session when you are ready.")
		view.overlay.ShowContinuation()
	case session.EventStatsChange:
		go view.refreshStatistics()
	case session.EventPermissionRequired:
		view.notify("Focus access needed", "Grant FocusPomo access to the focused window to start sessions automatically.")
		go view.agent.controller.RequestFocusPermission()
	}
}

func (view *trayView) stateChanged(state session.State) {
	status := view.agent.controller.Status()
	view.setIcon(iconFor(state))
	view.tray.SetRunning(status.Work.Running, state != session.StateIdle)

	remaining := status.Work.RemainingSeconds
	if state == session.StateResting {
		remaining = status.Break.RemainingSeconds
	}
	view.tray.SetStatus(stateLabel(state), report.FormatClock(remaining))

	if state == session.StateRunning && view.overlay.Mode() != overlay.ModeHidden {
		view.overlay.Hide()
	}
}

func (view *trayView) setIcon(name string) {
	if view.icon == name {
		return
	}
	view.icon = name
	view.tray.SetIcon(resources.MustIcon(name))
}

func (view *trayView) notify(title, content string) {
	view.app.SendNotification(fyne.NewNotification(title, content))
}

func (view *trayView) saveSettings(settings model.Settings) {
	if err := view.agent.saveSettings(settings); err != nil {
		view.agent.logger.Error("save settings", "error", err)
		view.notify("Settings not saved", err.Error())
	}
}

func (view *trayView) resetSettings() {
	settings, err := view.agent.resetSettings()
	if err != nil {
		view.agent.logger.Error("reset settings", "error", err)
		view.notify("Settings not reset", err.Error())
		return
	}
	view.prefs.UpdateSettings(settings)
}

func (view *trayView) clearStatistics() {
	go func() {
		if err := view.agent.accumulator.ClearAll(view.ctx); err != nil {
			view.agent.logger.Error("clear statistics", "error", err)
		}
		view.refreshStatistics()
	}()
}

// refreshStatistics reads the store off the Fyne goroutine.
func (view *trayView) refreshStatistics() {
	summary, err := report.Load(view.ctx, view.agent.accumulator)
	if err != nil {
		view.agent.logger.Warn("load statistics", "error", err)
	}
	usage, err := view.agent.controller.RecentFocus(view.ctx, recentFocusLimit)
	if err != nil {
		view.agent.logger.Debug("recent focus unavailable", "error", err)
	}
	overview := summary.Overview()
	focus := strings.Join(report.FocusLines(usage, time.Now()), "\n")
	fyne.Do(func() { view.statistics.Update(overview, focus) })
}

func stateLabel(state session.State) string {
	switch state {
	case session.StateRunning:
		return "working"
	case session.StateResting:
		return "on break"
	case session.StateCompleted:
		return "break over"
	case session.StatePaused:
		return "paused"
	default:
		return "idle"
	}
}

func iconFor(state session.State) string {
	switch state {
	case session.StateRunning:
		return resources.IconRunning
	case session.StateResting, session.StateCompleted:
		return resources.IconResting
	default:
		return resources.IconPaused
	}
}
