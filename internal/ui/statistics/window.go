// Package statistics shows the recorded work time.
package statistics

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window lists today's, total and average statistics together with the
// most focused apps. Its methods must run on the Fyne goroutine.
type Window struct {
	window  fyne.Window
	summary *widget.Label
	focus   *widget.Label
	onClear func()
}

// New creates the hidden statistics window. onClear deletes all records
// after the user confirms.
func New(app fyne.App, onClear func()) *Window {
	window := app.NewWindow("FocusPomo Statistics")
	stats := &Window{
		window:  window,
		summary: widget.NewLabel(""),
		focus:   widget.NewLabel(""),
		onClear: onClear,
	}
	stats.focus.Wrapping = fyne.TextWrapWord

	clearButton := widget.NewButton("Clear all", func() {
		dialog.ShowConfirm("Clear statistics", "Delete every recorded day?", func(confirmed bool) {
			if confirmed && stats.onClear != nil {
				stats.onClear()
			}
		}, window)
	})
	clearButton.Importance = widget.DangerImportance

	content := container.NewVBox(
		widget.NewLabelWithStyle("Work", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		stats.summary,
		widget.NewLabelWithStyle("Recently focused", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		stats.focus,
	)
	buttons := container.NewHBox(clearButton, layout.NewSpacer(), widget.NewButton("Close", window.Hide))
	window.SetContent(container.NewBorder(nil, buttons, nil, nil, container.NewVScroll(content)))
	window.Resize(fyne.NewSize(420, 380))
	window.SetCloseIntercept(window.Hide)
	return stats
}

// Update replaces the displayed text.
func (stats *Window) Update(summary, focus string) {
	if focus == "" {
		focus = "No focus observations yet."
	}
	stats.summary.SetText(summary)
	stats.focus.SetText(focus)
}

// Show displays the window.
func (stats *Window) Show() {
	stats.window.Show()
	stats.window.RequestFocus()
}
