package panels

import (
	"fmt"
	"os"
	"strings"

	"github.com/Brmanzo/clash-star-tracker/internal/app"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// ResultsPanel shows the run output: the editable tabulated grid, the
// streamed log, the leaderboard, and raw editors for the player and
// alias files.
type ResultsPanel struct {
	state     *app.State
	window    fyne.Window
	container *container.AppTabs

	results     *widget.Entry
	logView     *widget.Label
	logScroll   *container.Scroll
	logLines    []string
	leaderboard *widget.Label

	playersText *widget.Entry
	aliasesText *widget.Entry
}

// NewResultsPanel creates the results panel.
func NewResultsPanel(state *app.State) *ResultsPanel {
	rp := &ResultsPanel{state: state}

	rp.results = widget.NewMultiLineEntry()
	rp.results.TextStyle = fyne.TextStyle{Monospace: true}
	rp.results.SetPlaceHolder("Run the analysis to fill the grid: rank, name, attacks, total per line.")

	rp.logView = widget.NewLabel("")
	rp.logView.TextStyle = fyne.TextStyle{Monospace: true}
	rp.logScroll = container.NewVScroll(rp.logView)

	rp.leaderboard = widget.NewLabel("Commit a run to refresh the leaderboard.")
	rp.leaderboard.TextStyle = fyne.TextStyle{Monospace: true}

	rp.playersText = widget.NewMultiLineEntry()
	rp.playersText.TextStyle = fyne.TextStyle{Monospace: true}
	savePlayers := widget.NewButton("Save Player List", func() {
		rp.saveFile(rp.state.Paths.Players, rp.playersText.Text)
	})

	rp.aliasesText = widget.NewMultiLineEntry()
	rp.aliasesText.TextStyle = fyne.TextStyle{Monospace: true}
	saveAliases := widget.NewButton("Save Alias Map", func() {
		rp.saveFile(rp.state.Paths.Aliases, rp.aliasesText.Text)
	})

	rp.container = container.NewAppTabs(
		container.NewTabItem("Results", rp.results),
		container.NewTabItem("Log", rp.logScroll),
		container.NewTabItem("Leaderboard", container.NewVScroll(rp.leaderboard)),
		container.NewTabItem("Players", container.NewBorder(nil, savePlayers, nil, nil, rp.playersText)),
		container.NewTabItem("Aliases", container.NewBorder(nil, saveAliases, nil, nil, rp.aliasesText)),
	)

	state.On(app.EventRunStarted, func(data interface{}) {
		rp.logLines = nil
		rp.logView.SetText("")
		rp.container.SelectIndex(1)
	})
	state.On(app.EventLogLine, func(data interface{}) {
		if line, ok := data.(string); ok {
			rp.appendLog(line)
		}
	})
	state.On(app.EventRunFinished, func(data interface{}) {
		if data == nil {
			rp.results.SetText(strings.Join(state.Lines(), "\n"))
			rp.container.SelectIndex(0)
		}
	})
	state.On(app.EventCommitted, func(data interface{}) {
		if board, ok := data.([]string); ok {
			rp.leaderboard.SetText(strings.Join(board, "\n"))
			rp.container.SelectIndex(2)
		}
	})
	state.On(app.EventPathsChanged, func(data interface{}) {
		rp.loadFileEditors()
	})

	rp.loadFileEditors()
	return rp
}

// Container returns the panel container.
func (rp *ResultsPanel) Container() fyne.CanvasObject {
	return rp.container
}

// SetWindow sets the parent window for dialogs.
func (rp *ResultsPanel) SetWindow(w fyne.Window) {
	rp.window = w
}

// EditedLines returns the results grid lines with blanks dropped, in
// display order.
func (rp *ResultsPanel) EditedLines() []string {
	var lines []string
	for _, line := range strings.Split(rp.results.Text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func (rp *ResultsPanel) appendLog(line string) {
	rp.logLines = append(rp.logLines, line)
	rp.logView.SetText(strings.Join(rp.logLines, "\n"))
	rp.logScroll.ScrollToBottom()
}

// loadFileEditors fills the raw-file tabs from the current selections.
func (rp *ResultsPanel) loadFileEditors() {
	rp.playersText.SetText(readOrEmpty(rp.state.Paths.Players))
	rp.aliasesText.SetText(readOrEmpty(rp.state.Paths.Aliases))
}

func (rp *ResultsPanel) saveFile(path, text string) {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		dialog.ShowError(err, rp.window)
		return
	}
	rp.appendLog(fmt.Sprintf("saved %s", path))
}

func readOrEmpty(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}
