// Package mainwindow provides the review shell's main window.
package mainwindow

import (
	"fmt"

	"github.com/Brmanzo/clash-star-tracker/internal/app"
	"github.com/Brmanzo/clash-star-tracker/internal/config"
	"github.com/Brmanzo/clash-star-tracker/internal/score"
	"github.com/Brmanzo/clash-star-tracker/internal/version"
	"github.com/Brmanzo/clash-star-tracker/ui/dialogs"
	"github.com/Brmanzo/clash-star-tracker/ui/panels"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// ReviewWindow is the primary application window.
type ReviewWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State

	sessionPanel *panels.SessionPanel
	resultsPanel *panels.ResultsPanel
	statusBar    *widget.Label
}

// New creates the review window.
func New(fyneApp fyne.App, state *app.State) *ReviewWindow {
	win := fyneApp.NewWindow("Clash Star Tracker")

	rw := &ReviewWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
	}

	rw.setupUI()
	rw.setupMenus()
	rw.setupEventHandlers()

	return rw
}

// setupUI creates the main layout: session panel | results tabs.
func (rw *ReviewWindow) setupUI() {
	rw.resultsPanel = panels.NewResultsPanel(rw.state)
	rw.sessionPanel = panels.NewSessionPanel(rw.state, rw.resultsPanel)
	rw.sessionPanel.SetWindow(rw.Window)
	rw.resultsPanel.SetWindow(rw.Window)

	rw.statusBar = widget.NewLabel("Ready")

	split := container.NewHSplit(
		rw.sessionPanel.Container(),
		rw.resultsPanel.Container(),
	)
	split.SetOffset(0.34)

	content := container.NewBorder(
		nil,
		container.NewPadded(rw.statusBar),
		nil,
		nil,
		split,
	)

	rw.SetContent(content)
	rw.Resize(fyne.NewSize(1100, 720))
}

// setupMenus creates the application menus.
func (rw *ReviewWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Quit", func() { rw.app.Quit() }),
	)

	settingsMenu := fyne.NewMenu("Settings",
		fyne.NewMenuItem("Game Rules...", rw.onGameRules),
		fyne.NewMenuItem("Advanced Settings...", rw.onAdvancedSettings),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", rw.onAbout),
	)

	rw.SetMainMenu(fyne.NewMainMenu(fileMenu, settingsMenu, helpMenu))
}

// setupEventHandlers mirrors shell events onto the status bar.
func (rw *ReviewWindow) setupEventHandlers() {
	rw.state.On(app.EventRunStarted, func(data interface{}) {
		rw.updateStatus("Processing screenshots...")
	})

	rw.state.On(app.EventRunFinished, func(data interface{}) {
		if err, ok := data.(error); ok && err != nil {
			rw.updateStatus("Run failed: " + err.Error())
			return
		}
		rw.updateStatus(fmt.Sprintf("Run complete: %d roster lines", len(rw.state.Lines())))
	})

	rw.state.On(app.EventCommitted, func(data interface{}) {
		rw.updateStatus("History merged: " + rw.state.Paths.History)
	})

	rw.state.On(app.EventPathsChanged, func(data interface{}) {
		rw.updateStatus("Selections saved")
	})

	rw.state.On(app.EventRulesChanged, func(data interface{}) {
		rw.updateStatus("Game rules saved")
	})

	rw.state.On(app.EventSettingsChanged, func(data interface{}) {
		rw.updateStatus("Advanced settings saved")
	})
}

// updateStatus updates the status bar text.
func (rw *ReviewWindow) updateStatus(text string) {
	rw.statusBar.SetText(text)
}

func (rw *ReviewWindow) onGameRules() {
	dialogs.NewRulesDialog(rw.state.Rules, rw.Window, func(r score.Rules) {
		if err := rw.state.UpdateRules(r); err != nil {
			dialog.ShowError(err, rw.Window)
		}
	}).Show()
}

func (rw *ReviewWindow) onAdvancedSettings() {
	dialogs.NewAdvancedDialog(rw.state.Sampling, rw.state.Pre, rw.Window,
		func(smp config.Sampling, pre config.Preprocess) {
			if err := rw.state.UpdateAdvanced(smp, pre); err != nil {
				dialog.ShowError(err, rw.Window)
			}
		}).Show()
}

func (rw *ReviewWindow) onAbout() {
	dialog.ShowInformation("About Clash Star Tracker",
		fmt.Sprintf("%s\n\n"+
			"Reads clan-war screenshots, scores the roster,\n"+
			"and tracks totals across wars.",
			version.String()),
		rw.Window)
}
