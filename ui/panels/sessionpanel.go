// Package panels provides the review shell's panels.
package panels

import (
	"fmt"
	"path/filepath"

	"github.com/Brmanzo/clash-star-tracker/internal/app"
	"github.com/Brmanzo/clash-star-tracker/internal/session"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// SessionPanel drives the batch: the screenshot list, the operating-file
// selections, and the run/commit buttons.
type SessionPanel struct {
	state     *app.State
	results   *ResultsPanel
	window    fyne.Window
	container fyne.CanvasObject

	dirLabel  *widget.Label
	imageList *widget.List
	files     []string

	playersEntry *widget.Entry
	aliasesEntry *widget.Entry
	historyEntry *widget.Entry

	runButton    *widget.Button
	commitButton *widget.Button
	statusLabel  *widget.Label
}

// NewSessionPanel creates the session panel. The results panel supplies
// the edited lines at commit time.
func NewSessionPanel(state *app.State, results *ResultsPanel) *SessionPanel {
	sp := &SessionPanel{
		state:   state,
		results: results,
	}

	sp.dirLabel = widget.NewLabel("")
	sp.dirLabel.Wrapping = fyne.TextWrapWord

	sp.imageList = widget.NewList(
		func() int { return len(sp.files) },
		func() fyne.CanvasObject {
			return widget.NewLabel("screenshot.png")
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			if id < len(sp.files) {
				label.SetText(filepath.Base(sp.files[id]))
			}
		},
	)

	chooseButton := widget.NewButton("Choose Folder...", sp.onChooseFolder)
	refreshButton := widget.NewButton("Refresh", sp.refreshImages)

	sp.playersEntry = widget.NewEntry()
	sp.playersEntry.SetText(state.Paths.Players)
	sp.aliasesEntry = widget.NewEntry()
	sp.aliasesEntry.SetText(state.Paths.Aliases)
	sp.historyEntry = widget.NewEntry()
	sp.historyEntry.SetText(state.Paths.History)

	filesForm := widget.NewForm(
		widget.NewFormItem("Players (.txt)", sp.pathRow(sp.playersEntry, ".txt")),
		widget.NewFormItem("Aliases (.json)", sp.pathRow(sp.aliasesEntry, ".json")),
		widget.NewFormItem("History (.csv)", sp.pathRow(sp.historyEntry, ".csv")),
	)
	applyButton := widget.NewButton("Apply Selections", sp.applyPathEntries)

	sp.runButton = widget.NewButton("Run Analysis", sp.onRun)
	sp.runButton.Importance = widget.HighImportance
	sp.commitButton = widget.NewButton("Commit to History", sp.onCommit)
	sp.commitButton.Disable()
	sp.statusLabel = widget.NewLabel("Ready")
	sp.statusLabel.Wrapping = fyne.TextWrapWord

	top := widget.NewCard("War Screenshots", "", container.NewVBox(
		sp.dirLabel,
		container.NewHBox(chooseButton, refreshButton),
	))
	bottom := container.NewVBox(
		widget.NewCard("Operating Files", "", container.NewVBox(filesForm, applyButton)),
		widget.NewCard("Session", "", container.NewVBox(
			sp.runButton,
			sp.commitButton,
			sp.statusLabel,
		)),
	)
	sp.container = container.NewBorder(top, bottom, nil, nil, sp.imageList)

	state.On(app.EventPathsChanged, func(data interface{}) {
		sp.playersEntry.SetText(state.Paths.Players)
		sp.aliasesEntry.SetText(state.Paths.Aliases)
		sp.historyEntry.SetText(state.Paths.History)
		sp.refreshImages()
	})

	sp.refreshImages()
	return sp
}

// Container returns the panel container.
func (sp *SessionPanel) Container() fyne.CanvasObject {
	return sp.container
}

// SetWindow sets the parent window for dialogs.
func (sp *SessionPanel) SetWindow(w fyne.Window) {
	sp.window = w
}

// pathRow pairs an entry with a browse button filtered to ext.
func (sp *SessionPanel) pathRow(entry *widget.Entry, ext string) fyne.CanvasObject {
	browse := widget.NewButton("...", func() {
		fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil || reader == nil {
				return
			}
			reader.Close()
			entry.SetText(reader.URI().Path())
			sp.applyPathEntries()
		}, sp.window)
		fd.SetFilter(storage.NewExtensionFileFilter([]string{ext}))
		fd.Show()
	})
	return container.NewBorder(nil, nil, nil, browse, entry)
}

func (sp *SessionPanel) refreshImages() {
	files, err := session.ScanImages(sp.state.Paths.ImagesDir)
	if err != nil {
		sp.statusLabel.SetText(fmt.Sprintf("Images: %v", err))
		files = nil
	}
	sp.files = files
	sp.dirLabel.SetText(fmt.Sprintf("%s (%d found)", sp.state.Paths.ImagesDir, len(files)))
	sp.imageList.Refresh()
}

func (sp *SessionPanel) onChooseFolder() {
	fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		p := sp.state.Paths
		p.ImagesDir = uri.Path()
		if serr := sp.state.SavePathSelections(p); serr != nil {
			dialog.ShowError(serr, sp.window)
		}
	}, sp.window)
	fd.Show()
}

// applyPathEntries persists the operating-file selections for the next
// session.
func (sp *SessionPanel) applyPathEntries() {
	p := sp.state.Paths
	p.Players = sp.playersEntry.Text
	p.Aliases = sp.aliasesEntry.Text
	p.History = sp.historyEntry.Text
	if err := sp.state.SavePathSelections(p); err != nil {
		dialog.ShowError(err, sp.window)
	}
}

func (sp *SessionPanel) onRun() {
	sp.runButton.Disable()
	sp.commitButton.Disable()
	sp.statusLabel.SetText("Processing screenshots...")

	// Run the pipeline off the UI thread.
	go func() {
		_, err := sp.state.RunAnalysis(nil)
		if err != nil {
			sp.statusLabel.SetText("Run failed")
			dialog.ShowError(err, sp.window)
		} else {
			sp.statusLabel.SetText("Run complete. Review the grid, fix any misreads, then commit.")
		}
		// A failed rerun closes the previous session; commit stays
		// disabled until a run is actually open.
		if sp.state.HasRun() {
			sp.commitButton.Enable()
		}
		sp.runButton.Enable()
	}()
}

func (sp *SessionPanel) onCommit() {
	lines := sp.results.EditedLines()
	if len(lines) == 0 {
		sp.statusLabel.SetText("Nothing to commit")
		return
	}
	sp.commitButton.Disable()

	go func() {
		if _, err := sp.state.Commit(lines); err != nil {
			sp.statusLabel.SetText("Commit failed")
			dialog.ShowError(err, sp.window)
		} else {
			sp.statusLabel.SetText("History merged")
		}
		sp.commitButton.Enable()
	}()
}
