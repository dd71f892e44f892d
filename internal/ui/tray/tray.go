package tray

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnToggle      func()
	OnReset       func()
	OnStop        func()
	OnStatistics  func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state. Its methods must run on the Fyne
// goroutine.
type Manager struct {
	app        desktop.App
	menu       *fyne.Menu
	statusItem *fyne.MenuItem
	toggleItem *fyne.MenuItem
	stopItem   *fyne.MenuItem
	callbacks  Callbacks
}

// New creates the tray menu.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem(StatusLabel("idle", ""), nil)
	manager.statusItem.Disabled = true
	manager.toggleItem = fyne.NewMenuItem("Start", invoke(&manager.callbacks.OnToggle))
	manager.stopItem = fyne.NewMenuItem("Stop", invoke(&manager.callbacks.OnStop))
	manager.stopItem.Disabled = true

	manager.menu = fyne.NewMenu("FocusPomo",
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.toggleItem,
		manager.stopItem,
		fyne.NewMenuItem("Reset", invoke(&manager.callbacks.OnReset)),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Statistics", invoke(&manager.callbacks.OnStatistics)),
		fyne.NewMenuItem("Preferences", invoke(&manager.callbacks.OnPreferences)),
	)
	// Fyne appends its own Quit item to tray menus; route it through
	// OnQuit so pending work is flushed.
	quit := fyne.NewMenuItem("Quit", invoke(&manager.callbacks.OnQuit))
	quit.IsQuit = true
	manager.menu.Items = append(manager.menu.Items, fyne.NewMenuItemSeparator(), quit)

	app.SetSystemTrayMenu(manager.menu)
	return manager
}

// SetStatus updates the status line, e.g. "Working 12:34".
func (manager *Manager) SetStatus(state, clock string) {
	manager.statusItem.Label = StatusLabel(state, clock)
	manager.menu.Refresh()
}

// SetRunning switches the toggle between Start and Pause.
func (manager *Manager) SetRunning(workRunning, active bool) {
	if workRunning {
		manager.toggleItem.Label = "Pause"
	} else {
		manager.toggleItem.Label = "Start"
	}
	manager.stopItem.Disabled = !active
	manager.menu.Refresh()
}

// SetIcon replaces the tray icon.
func (manager *Manager) SetIcon(resource fyne.Resource) {
	manager.app.SetSystemTrayIcon(resource)
}

// StatusLabel renders the disabled status item text.
func StatusLabel(state, clock string) string {
	label := "Status: " + state
	if clock != "" {
		label += " " + clock
	}
	return label
}

func invoke(handler *func()) func() {
	return func() {
		if *handler != nil {
			(*handler)()
		}
	}
}
