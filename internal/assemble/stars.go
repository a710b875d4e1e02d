package assemble

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Brmanzo/clash-star-tracker/internal/imgutil"
	"github.com/Brmanzo/clash-star-tracker/internal/profile"
	"github.com/Brmanzo/clash-star-tracker/internal/roster"
	"github.com/Brmanzo/clash-star-tracker/internal/segment"
)

// StarMargin pads the measured star band and trims cell edges, keeping a
// neighboring star's outline out of a cell's profile.
const StarMargin = 5

// ErrScoreOrder reports star glyphs read out of their earned order. Stars
// fill left to right, so a score that puts an old star after a new one, or
// any star after an empty slot, means the cells were cut wrong.
var ErrScoreOrder = errors.New("star glyphs out of order")

// Score classifies the three star slots of one attack sub-row. stars is
// the lightness view of the sub-row's star column.
func (a *Assembler) Score(stars imgutil.Region) (string, error) {
	minP := profile.Reduce(stars, profile.ByRows, profile.Min)
	avgP := profile.Reduce(stars, profile.ByRows, profile.Mean)
	top, bottom := profile.ScanDivergence(minP, avgP, segment.BlackTh)
	if top == 0 && bottom == 0 {
		a.Log.Warn().Msg("[assemble] no star ink in sub-row")
	}
	if top-StarMargin > 0 {
		top -= StarMargin
	}
	if bottom+StarMargin < stars.H() {
		bottom += StarMargin
	}

	var sb strings.Builder
	for _, cell := range stars.CropY(top, bottom).SplitCols(3) {
		sb.WriteString(a.classify(cell))
	}
	score := sb.String()
	if err := ValidateScore(score); err != nil {
		return score, err
	}
	return score, nil
}

// classify names one star cell. A new star keeps its pure white fill, an
// old star still breaks the background with its outline, and an empty slot
// leaves the column maxima flat.
func (a *Assembler) classify(cell imgutil.Region) string {
	trimmed := cell.CropX(StarMargin, cell.W()-StarMargin)
	peak := 0.0
	for _, v := range profile.Reduce(trimmed, profile.ByCols, profile.Max) {
		if v > peak {
			peak = v
		}
	}
	if peak == 1 {
		return roster.NewStar
	}
	noise := a.sample(trimmed, a.Presets.StarNoise, profile.SampleOpts{
		Axis:     profile.ByCols,
		Stat:     profile.Max,
		Relative: true,
		Pick:     profile.PickMean,
	})
	if noise == 0 {
		return roster.NoStar
	}
	return roster.OldStar
}

// ValidateScore checks the glyph order of a score string: old stars, then
// new stars, then empty slots. The last occurrence of the stronger glyph
// must precede the first of the weaker, so a stray strong glyph after a
// weak one is caught anywhere in the string.
func ValidateScore(score string) error {
	lastOld := strings.LastIndex(score, roster.OldStar)
	lastNew := strings.LastIndex(score, roster.NewStar)
	firstNew := strings.Index(score, roster.NewStar)
	firstNone := strings.Index(score, roster.NoStar)
	switch {
	case lastOld != -1 && firstNew != -1 && lastOld > firstNew,
		lastOld != -1 && firstNone != -1 && lastOld > firstNone,
		lastNew != -1 && firstNone != -1 && lastNew > firstNone:
		return fmt.Errorf("%q: %w", score, ErrScoreOrder)
	}
	return nil
}
