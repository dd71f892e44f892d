package preferences

import (
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"focuspomo/internal/core/model"
)

// Window handles the preferences UI. Its methods must run on the Fyne
// goroutine.
type Window struct {
	window              fyne.Window
	settings            model.Settings
	onSave              func(model.Settings)
	onReset             func()
	workMinutes         *widget.Entry
	breakMinutes        *widget.Entry
	autoStart           *widget.Check
	fullscreenNonWork   *widget.Check
	fullscreenAllowlist *widget.Entry
	autoStartAllowlist  *widget.Entry
}

// New creates a preferences window. onReset restores the defaults.
func New(app fyne.App, settings model.Settings, onSave func(model.Settings), onReset func()) *Window {
	window := app.NewWindow("FocusPomo Preferences")

	prefs := &Window{
		window:              window,
		onSave:              onSave,
		onReset:             onReset,
		workMinutes:         widget.NewEntry(),
		breakMinutes:        widget.NewEntry(),
		autoStart:           widget.NewCheck("Start and pause automatically from the focused app", nil),
		fullscreenNonWork:   widget.NewCheck("Treat fullscreen apps as non-work", nil),
		fullscreenAllowlist: widget.NewMultiLineEntry(),
		autoStartAllowlist:  widget.NewMultiLineEntry(),
	}
	prefs.fullscreenAllowlist.SetPlaceHolder("One process id per line")
	prefs.autoStartAllowlist.SetPlaceHolder("Work apps: running any of them counts as work")

	form := container.NewVBox(
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewGridWithColumns(3, widget.NewLabel("Work"), prefs.workMinutes, widget.NewLabel("min")),
		container.NewGridWithColumns(3, widget.NewLabel("Break"), prefs.breakMinutes, widget.NewLabel("min")),
		widget.NewLabelWithStyle("Focus rules", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.autoStart,
		prefs.fullscreenNonWork,
		widget.NewLabel("Fullscreen apps that still count as work"),
		prefs.fullscreenAllowlist,
		widget.NewLabel("Auto-start apps"),
		prefs.autoStartAllowlist,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	saveButton.Importance = widget.HighImportance
	resetButton := widget.NewButton("Defaults", func() {
		if prefs.onReset != nil {
			prefs.onReset()
		}
	})
	cancelButton := widget.NewButton("Cancel", window.Hide)
	buttons := container.NewHBox(resetButton, layout.NewSpacer(), cancelButton, saveButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(460, 520))
	window.SetCloseIntercept(window.Hide)

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces the window values, e.g. after the file changed.
func (prefs *Window) UpdateSettings(settings model.Settings) {
	prefs.settings = settings
	prefs.workMinutes.SetText(strconv.Itoa(settings.WorkMinutes))
	prefs.breakMinutes.SetText(strconv.Itoa(settings.BreakMinutes))
	prefs.autoStart.SetChecked(settings.AutoStart)
	prefs.fullscreenNonWork.SetChecked(settings.FullscreenNonWork)
	prefs.fullscreenAllowlist.SetText(FormatIDList(settings.FullscreenAllowlist))
	prefs.autoStartAllowlist.SetText(FormatIDList(settings.AutoStartAllowlist))
}

func (prefs *Window) handleSave() {
	settings := prefs.settings
	if minutes, ok := parsePositiveInt(prefs.workMinutes.Text); ok {
		settings.WorkMinutes = minutes
	}
	if minutes, ok := parsePositiveInt(prefs.breakMinutes.Text); ok {
		settings.BreakMinutes = minutes
	}
	settings.AutoStart = prefs.autoStart.Checked
	settings.FullscreenNonWork = prefs.fullscreenNonWork.Checked
	settings.FullscreenAllowlist = ParseIDList(prefs.fullscreenAllowlist.Text)
	settings.AutoStartAllowlist = ParseIDList(prefs.autoStartAllowlist.Text)

	prefs.settings = settings.Normalize()
	if prefs.onSave != nil {
		prefs.onSave(prefs.settings)
	}
	prefs.window.Hide()
}

// ParseIDList splits on newlines and commas. Normalization happens later.
func ParseIDList(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	})
	ids := make([]string, 0, len(fields))
	for _, field := range fields {
		if field = strings.TrimSpace(field); field != "" {
			ids = append(ids, field)
		}
	}
	return ids
}

// FormatIDList renders one id per line.
func FormatIDList(ids []string) string {
	return strings.Join(ids, "\n")
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
