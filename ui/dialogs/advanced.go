package dialogs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Brmanzo/clash-star-tracker/internal/config"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// AdvancedDialog provides a property sheet for the sampling and
// preprocessing presets.
type AdvancedDialog struct {
	sampling config.Sampling
	pre      config.Preprocess
	window   fyne.Window

	presets    []*presetRow
	thresholds []*thresholdRow

	marginEntry     *widget.Entry
	playerConfEntry *widget.Entry
	enemyConfEntry  *widget.Entry
	lowerEntry      *widget.Entry
	upperEntry      *widget.Entry
	blobEntry       *widget.Entry

	onSave func(config.Sampling, config.Preprocess)
}

// presetRow binds one sampling preset to its epsilon/scale entries.
type presetRow struct {
	preset  *config.SamplePreset
	label   string
	epsilon *widget.Entry
	scale   *widget.Entry
}

// thresholdRow binds one background band to its bound/delta entries.
type thresholdRow struct {
	th    *config.BackgroundThreshold
	label string
	bound *widget.Entry
	delta *widget.Entry
}

// NewAdvancedDialog creates an advanced settings dialog seeded with the
// current presets.
func NewAdvancedDialog(sampling config.Sampling, pre config.Preprocess, window fyne.Window,
	onSave func(config.Sampling, config.Preprocess)) *AdvancedDialog {
	return &AdvancedDialog{
		sampling: sampling,
		pre:      pre,
		window:   window,
		onSave:   onSave,
	}
}

// Show displays the dialog.
func (d *AdvancedDialog) Show() {
	content := container.NewVScroll(d.createContent())
	content.SetMinSize(fyne.NewSize(480, 560))

	dlg := dialog.NewCustomConfirm(
		"Advanced Settings",
		"Save",
		"Cancel",
		content,
		func(save bool) {
			if save {
				d.applyChanges()
				if d.onSave != nil {
					d.onSave(d.sampling, d.pre)
				}
			}
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(540, 660))
	dlg.Show()
}

func (d *AdvancedDialog) createContent() fyne.CanvasObject {
	d.presets = []*presetRow{
		{preset: &d.sampling.HCrop, label: "Horizontal crop"},
		{preset: &d.sampling.VCrop, label: "Vertical crop"},
		{preset: &d.sampling.MenuHCrop, label: "Menu horizontal"},
		{preset: &d.sampling.MenuVCrop, label: "Menu vertical"},
		{preset: &d.sampling.LocalMin, label: "Lines local floor"},
		{preset: &d.sampling.GlobalMin, label: "Lines global floor"},
		{preset: &d.sampling.ColSep, label: "Column separation"},
		{preset: &d.sampling.RankNameSep, label: "Rank/name split"},
		{preset: &d.sampling.EmptyLine, label: "Empty attack line"},
		{preset: &d.sampling.NewLine, label: "New line"},
		{preset: &d.sampling.StarNoise, label: "Old star noise"},
	}

	bold := fyne.TextStyle{Bold: true}
	presetGrid := container.NewGridWithColumns(3,
		widget.NewLabelWithStyle("Sample", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("Epsilon", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("Scale", fyne.TextAlignLeading, bold),
	)
	for _, row := range d.presets {
		row.epsilon = widget.NewEntry()
		row.epsilon.SetText(fmt.Sprintf("%g", row.preset.Epsilon))
		row.scale = widget.NewEntry()
		row.scale.SetText(fmt.Sprintf("%g", row.preset.Scale))
		presetGrid.Add(widget.NewLabel(row.label))
		presetGrid.Add(row.epsilon)
		presetGrid.Add(row.scale)
	}

	d.marginEntry = widget.NewEntry()
	d.marginEntry.SetText(fmt.Sprintf("%g", d.sampling.FallbackMargin))
	d.playerConfEntry = widget.NewEntry()
	d.playerConfEntry.SetText(strconv.Itoa(d.sampling.PlayerConfidence))
	d.enemyConfEntry = widget.NewEntry()
	d.enemyConfEntry.SetText(strconv.Itoa(d.sampling.EnemyConfidence))

	matchForm := widget.NewForm(
		widget.NewFormItem("Fallback margin", d.marginEntry),
		widget.NewFormItem("Player confidence (0-100)", d.playerConfEntry),
		widget.NewFormItem("Enemy confidence (0-100)", d.enemyConfEntry),
	)

	d.lowerEntry = widget.NewEntry()
	d.lowerEntry.SetText(strconv.Itoa(d.pre.LightnessLower))
	d.upperEntry = widget.NewEntry()
	d.upperEntry.SetText(strconv.Itoa(d.pre.LightnessUpper))
	d.blobEntry = widget.NewEntry()
	d.blobEntry.SetText(fmt.Sprintf("%g", d.pre.BlobMax))

	cleanupForm := widget.NewForm(
		widget.NewFormItem("Lightness lower", d.lowerEntry),
		widget.NewFormItem("Lightness upper", d.upperEntry),
		widget.NewFormItem("Blob max (fraction)", d.blobEntry),
	)

	d.thresholds = []*thresholdRow{
		{th: &d.pre.Thresholds[0], label: "Lower user row"},
		{th: &d.pre.Thresholds[1], label: "Upper user row"},
		{th: &d.pre.Thresholds[2], label: "Lower dark row"},
		{th: &d.pre.Thresholds[3], label: "Upper dark row"},
		{th: &d.pre.Thresholds[4], label: "Light row"},
	}
	thresholdGrid := container.NewGridWithColumns(3,
		widget.NewLabelWithStyle("Background band", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("Upper bound", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("Filter delta", fyne.TextAlignLeading, bold),
	)
	for _, row := range d.thresholds {
		row.bound = widget.NewEntry()
		row.bound.SetText(fmt.Sprintf("%g", row.th.Bound))
		row.delta = widget.NewEntry()
		row.delta.SetText(fmt.Sprintf("%g", row.th.Delta))
		thresholdGrid.Add(widget.NewLabel(row.label))
		thresholdGrid.Add(row.bound)
		thresholdGrid.Add(row.delta)
	}

	return container.NewVBox(
		widget.NewCard("Sampling Presets", "tolerance and scale per threshold sample", presetGrid),
		widget.NewCard("Matching", "", matchForm),
		widget.NewCard("Glyph Cleanup", "", cleanupForm),
		widget.NewCard("Binarization Bands", "offset added to the sampled background", thresholdGrid),
	)
}

func (d *AdvancedDialog) applyChanges() {
	for _, row := range d.presets {
		if v, err := strconv.ParseFloat(strings.TrimSpace(row.epsilon.Text), 64); err == nil {
			row.preset.Epsilon = v
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(row.scale.Text), 64); err == nil {
			row.preset.Scale = v
		}
	}
	for _, row := range d.thresholds {
		if v, err := strconv.ParseFloat(strings.TrimSpace(row.bound.Text), 64); err == nil {
			row.th.Bound = v
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(row.delta.Text), 64); err == nil {
			row.th.Delta = v
		}
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(d.marginEntry.Text), 64); err == nil {
		d.sampling.FallbackMargin = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(d.playerConfEntry.Text)); err == nil {
		d.sampling.PlayerConfidence = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(d.enemyConfEntry.Text)); err == nil {
		d.sampling.EnemyConfidence = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(d.lowerEntry.Text)); err == nil {
		d.pre.LightnessLower = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(d.upperEntry.Text)); err == nil {
		d.pre.LightnessUpper = v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(d.blobEntry.Text), 64); err == nil {
		d.pre.BlobMax = v
	}
}
