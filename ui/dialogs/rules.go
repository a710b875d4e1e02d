// Package dialogs provides the review shell's settings dialogs.
package dialogs

import (
	"strconv"
	"strings"

	"github.com/Brmanzo/clash-star-tracker/internal/score"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// RulesDialog provides a property sheet for the war scoring rules.
type RulesDialog struct {
	rules  score.Rules
	window fyne.Window

	incompleteEntry    *widget.Entry
	incompleteGapEntry *widget.Entry
	stealingEntry      *widget.Entry
	stealingGapEntry   *widget.Entry
	jumpBonusEntry     *widget.Entry
	jumpGapEntry       *widget.Entry

	onSave func(score.Rules)
}

// NewRulesDialog creates a rules dialog seeded with the current rules.
func NewRulesDialog(rules score.Rules, window fyne.Window, onSave func(score.Rules)) *RulesDialog {
	return &RulesDialog{
		rules:  rules,
		window: window,
		onSave: onSave,
	}
}

// Show displays the dialog.
func (d *RulesDialog) Show() {
	content := d.createContent()

	dlg := dialog.NewCustomConfirm(
		"Game Rules",
		"Save",
		"Cancel",
		content,
		func(save bool) {
			if save {
				d.applyChanges()
				if d.onSave != nil {
					d.onSave(d.rules)
				}
			}
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(460, 520))
	dlg.Show()
}

func (d *RulesDialog) createContent() fyne.CanvasObject {
	d.incompleteEntry = widget.NewEntry()
	d.incompleteEntry.SetText(penaltyText(d.rules.IncompleteClean))
	d.incompleteGapEntry = widget.NewEntry()
	d.incompleteGapEntry.SetText(strconv.Itoa(d.rules.IncompleteCleanGap))

	d.stealingEntry = widget.NewEntry()
	d.stealingEntry.SetText(penaltyText(d.rules.Stealing))
	d.stealingGapEntry = widget.NewEntry()
	d.stealingGapEntry.SetText(strconv.Itoa(d.rules.StealingGap))

	d.jumpBonusEntry = widget.NewEntry()
	d.jumpBonusEntry.SetText(strconv.Itoa(d.rules.JumpBonus))
	d.jumpGapEntry = widget.NewEntry()
	d.jumpGapEntry.SetText(strconv.Itoa(d.rules.JumpGap))

	incompleteForm := widget.NewForm(
		widget.NewFormItem("Penalty", d.incompleteEntry),
		widget.NewFormItem("Rank gap at or below", d.incompleteGapEntry),
	)
	stealingForm := widget.NewForm(
		widget.NewFormItem("Penalty", d.stealingEntry),
		widget.NewFormItem("Rank gap at or below", d.stealingGapEntry),
	)
	jumpForm := widget.NewForm(
		widget.NewFormItem("Bonus", d.jumpBonusEntry),
		widget.NewFormItem("Rank gap at or above", d.jumpGapEntry),
	)

	hint := widget.NewLabel("Gaps are player rank minus enemy rank. A penalty is a point " +
		"delta, or \"" + score.NegateEarnedStars + "\" to take the attack's stars back.")
	hint.Wrapping = fyne.TextWrapWord

	return container.NewVBox(
		widget.NewCard("Incomplete Clean", "dropped down and still left stars on the table", incompleteForm),
		widget.NewCard("Star Stealing", "dropped far down without earning a new star", stealingForm),
		widget.NewCard("Rank Jump", "hit upward and earned a new star", jumpForm),
		hint,
	)
}

func (d *RulesDialog) applyChanges() {
	if p, ok := parsePenalty(d.incompleteEntry.Text); ok {
		d.rules.IncompleteClean = p
	}
	if v, err := strconv.Atoi(strings.TrimSpace(d.incompleteGapEntry.Text)); err == nil {
		d.rules.IncompleteCleanGap = v
	}
	if p, ok := parsePenalty(d.stealingEntry.Text); ok {
		d.rules.Stealing = p
	}
	if v, err := strconv.Atoi(strings.TrimSpace(d.stealingGapEntry.Text)); err == nil {
		d.rules.StealingGap = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(d.jumpBonusEntry.Text)); err == nil {
		d.rules.JumpBonus = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(d.jumpGapEntry.Text)); err == nil {
		d.rules.JumpGap = v
	}
}

// parsePenalty accepts a point delta or the negate sentinel.
func parsePenalty(text string) (score.Penalty, bool) {
	text = strings.TrimSpace(text)
	if strings.EqualFold(text, score.NegateEarnedStars) {
		return score.Penalty{Negate: true}, true
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		return score.Penalty{}, false
	}
	return score.Penalty{Points: v}, true
}

func penaltyText(p score.Penalty) string {
	if p.Negate {
		return score.NegateEarnedStars
	}
	return strconv.Itoa(p.Points)
}
