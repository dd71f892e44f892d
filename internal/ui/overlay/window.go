package overlay

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"focuspomo/internal/report"
)

// Callbacks answer the break panel buttons.
type Callbacks struct {
	OnStartNext func()
	OnStop      func()
}

// Mode is what the panel currently shows.
type Mode int

const (
	ModeHidden Mode = iota
	ModeBreak
	ModeContinuation
)

// Window is a small undecorated panel shown during a break and, once the
// break ends, asking whether to start the next session. Its methods must
// run on the Fyne goroutine.
type Window struct {
	window        fyne.Window
	titleLabel    *canvas.Text
	subtitleLabel *canvas.Text
	timerLabel    *canvas.Text
	startButton   *widget.Button
	stopButton    *widget.Button
	callbacks     Callbacks
	mode          Mode
}

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// New creates the hidden panel.
func New(app fyne.App, callbacks Callbacks) *Window {
	window := app.NewWindow("FocusPomo")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	background := canvas.NewRectangle(color.NRGBA{R: 24, G: 28, B: 36, A: 235})

	titleLabel := canvas.NewText("", white)
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	titleLabel.TextSize = 20

	subtitleLabel := canvas.NewText("", white)
	subtitleLabel.TextSize = 14

	timerLabel := canvas.NewText("--:--", color.NRGBA{R: 232, G: 190, B: 66, A: 255})
	timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timerLabel.TextSize = 28

	overlay := &Window{
		window:        window,
		titleLabel:    titleLabel,
		subtitleLabel: subtitleLabel,
		timerLabel:    timerLabel,
		callbacks:     callbacks,
	}
	overlay.startButton = widget.NewButton("Start next session", func() {
		overlay.Hide()
		if overlay.callbacks.OnStartNext != nil {
			overlay.callbacks.OnStartNext()
		}
	})
	overlay.startButton.Importance = widget.HighImportance
	overlay.stopButton = widget.NewButton("Stop", func() {
		overlay.Hide()
		if overlay.callbacks.OnStop != nil {
			overlay.callbacks.OnStop()
		}
	})

	buttons := container.NewHBox(layout.NewSpacer(), overlay.stopButton, overlay.startButton)
	content := container.NewVBox(titleLabel, subtitleLabel, timerLabel, buttons)
	window.SetContent(container.NewStack(background, container.NewPadded(content)))
	window.SetCloseIntercept(overlay.Hide)
	return overlay
}

// Mode reports what the panel is showing.
func (overlay *Window) Mode() Mode {
	return overlay.mode
}

// ShowBreak displays the break countdown.
func (overlay *Window) ShowBreak(remaining int) {
	overlay.mode = ModeBreak
	overlay.titleLabel.Text = "Break time"
	overlay.subtitleLabel.Text = "Step away from the screen."
	overlay.startButton.SetText("Skip break")
	overlay.show()
	overlay.SetRemaining(remaining)
}

// ShowContinuation asks whether to start the next session.
func (overlay *Window) ShowContinuation() {
	overlay.mode = ModeContinuation
	overlay.titleLabel.Text = "Break is over"
	overlay.subtitleLabel.Text = "Start the next work session?"
	overlay.timerLabel.Text = "00:00"
	overlay.startButton.SetText("Start next session")
	overlay.show()
}

// SetRemaining updates the countdown while a break is shown.
func (overlay *Window) SetRemaining(remaining int) {
	if overlay.mode != ModeBreak {
		return
	}
	overlay.timerLabel.Text = report.FormatClock(remaining)
	overlay.timerLabel.Refresh()
}

// Hide closes the panel.
func (overlay *Window) Hide() {
	overlay.mode = ModeHidden
	overlay.window.Hide()
}

func (overlay *Window) show() {
	overlay.titleLabel.Refresh()
	overlay.subtitleLabel.Refresh()
	overlay.timerLabel.Refresh()
	overlay.window.Resize(overlay.window.Content().MinSize().Max(fyne.NewSize(320, 160)))
	overlay.window.CenterOnScreen()
	overlay.window.Show()
	overlay.window.RequestFocus()
}
