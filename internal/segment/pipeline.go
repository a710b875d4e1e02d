// Package segment measures a war screenshot's geometry from its lightness
// channel: the menu margins, the six data columns of the attack lines, and
// the row band for each player. Every stored cut is validated against the
// fallback store and substituted from it when a scan goes out of range.
package segment

import (
	"errors"
	"fmt"
	"image"

	"github.com/rs/zerolog"

	"github.com/Brmanzo/clash-star-tracker/internal/config"
	"github.com/Brmanzo/clash-star-tracker/internal/imgutil"
	"github.com/Brmanzo/clash-star-tracker/internal/measure"
	"github.com/Brmanzo/clash-star-tracker/internal/profile"
)

const (
	// PxMargin skips border bleed at crop edges.
	PxMargin = 10
	// OutlierMargin trims the attack-lines edges before threshold sampling.
	OutlierMargin = 15
	// LookAheadMargin jumps past the level badge art and the gap after the
	// enemy rank digits before scanning resumes.
	LookAheadMargin = 100

	// BlackTh and WhiteTh are fixed lightness bounds for ink and star fill.
	BlackTh = 0.01
	WhiteTh = 0.99
)

// ErrNoBoundary reports a scan that found no usable crossing and had no
// stored cut to fall back on.
var ErrNoBoundary = errors.New("no boundary detected")

// DebugHook receives the scanned profile and the attempted cuts whenever a
// measurement fails validation. The name is unique per image and field.
type DebugHook func(profile []float64, cuts []int, name string)

// Pipeline segments screenshots against one preset/store pair. Store must
// be non-nil; measure.Load yields an empty store when no file exists yet.
// Per-image state lives in a Context, so a single Pipeline serves a whole
// session of images in sequence.
type Pipeline struct {
	Presets config.Sampling
	Store   *measure.Store
	Log     zerolog.Logger
	Debug   DebugHook
}

// MenuLayout locates the war menu inside the source image and the attack
// lines inside the menu.
type MenuLayout struct {
	Menu      image.Rectangle // menu bounds, source coordinates
	HeaderEnd int             // menu y where the column headers end
	LineBegin int             // attack-lines x bounds, menu coordinates
	LineEnd   int
}

// AttackLines returns the attack-lines rectangle in source coordinates.
func (m MenuLayout) AttackLines() image.Rectangle {
	return image.Rect(
		m.Menu.Min.X+m.LineBegin,
		m.Menu.Min.Y+m.HeaderEnd,
		m.Menu.Min.X+m.LineEnd,
		m.Menu.Max.Y,
	)
}

// Columns are the six data columns of the attack lines. Rank, level and
// player tile from x = 0; enemy begins past the rank-digit gap and
// percentage and stars tile on from its end.
type Columns struct {
	Rank       Column
	Level      Column
	Player     Column
	Enemy      Column
	Percentage Column
	Stars      Column
}

// Band is one roster row of the attack lines, a half-open [Top, Bottom)
// span in attack-lines y.
type Band struct {
	Top    int
	Bottom int
}

// Height returns the band height in pixels.
func (b Band) Height() int { return b.Bottom - b.Top }

// sample runs a threshold sample with the preset's tolerance and scale.
func (p *Pipeline) sample(r imgutil.Region, preset config.SamplePreset, o profile.SampleOpts) float64 {
	o.Tolerance = preset.Epsilon
	return profile.Sample(r, o) * preset.Scale
}

// checked validates a stored-field cut: a cut inside the image and inside
// the store's tolerance band is recorded and returned; anything else is
// substituted from the store, or fails with ErrNoBoundary when nothing is
// stored yet. endSide fields measure their fraction from the far edge.
func (p *Pipeline) checked(ctx *Context, f measure.Field, cut, dim int, endSide bool, prof []float64) (int, error) {
	frac := func(c int) float64 {
		if endSide {
			return float64(dim-c) / float64(dim)
		}
		return float64(c) / float64(dim)
	}
	if cut > 0 && cut < dim-1 && p.Store.Check(f, frac(cut)) {
		ctx.record(f, cut, frac(cut))
		return cut, nil
	}
	fb, ok := p.Store.Cut(f)
	if !ok {
		return 0, fmt.Errorf("%s: %w (measured %d of %d)", f, ErrNoBoundary, cut, dim)
	}
	p.Log.Warn().
		Str("image", ctx.Image).
		Str("field", string(f)).
		Int("measured", cut).
		Int("stored", fb).
		Msg("[segment] cut out of range, substituting stored measurement")
	if p.Debug != nil {
		p.Debug(prof, []int{cut, fb}, ctx.debugName(f))
	}
	ctx.record(f, fb, frac(fb))
	return fb, nil
}

// hard rejects an out-of-range cut for intermediates that have no stored
// fallback.
func hard(name string, cut, dim int) (int, error) {
	if cut <= 0 || cut >= dim-1 {
		return 0, fmt.Errorf("%s: %w (measured %d of %d)", name, ErrNoBoundary, cut, dim)
	}
	return cut, nil
}

// Menu locates the war menu in the source lightness and the attack lines
// within it. The horizontal-crop preset thresholds the row scan and the
// vertical-crop preset the column scan; the crossover is deliberate, each
// scan reacts to jumps measured along the opposite axis.
func (p *Pipeline) Menu(ctx *Context, srcL imgutil.Region) (MenuLayout, error) {
	srcW, srcH := srcL.W(), srcL.H()

	rowTH := p.sample(srcL, p.Presets.HCrop, profile.SampleOpts{Axis: profile.ByCols, Stat: profile.Mean, Relative: true})
	colTH := p.sample(srcL, p.Presets.VCrop, profile.SampleOpts{Axis: profile.ByRows, Stat: profile.Mean, Relative: true})

	edges := profile.Policy{Relative: true, First: profile.Rise, Second: profile.Fall, Last: true}

	rowProf := profile.Reduce(srcL, profile.ByRows, profile.Mean)
	top, bottom := profile.Scan(rowProf, rowTH, edges)
	top, err := p.checked(ctx, measure.MenuTopMargin, top, srcH, false, rowProf)
	if err != nil {
		return MenuLayout{}, err
	}
	bottom, err = p.checked(ctx, measure.MenuBottomMargin, bottom, srcH, true, rowProf)
	if err != nil {
		return MenuLayout{}, err
	}

	colProf := profile.Reduce(srcL, profile.ByCols, profile.Mean)
	left, right := profile.Scan(colProf, colTH, edges)
	left, err = p.checked(ctx, measure.MenuLeftMargin, left, srcW, false, colProf)
	if err != nil {
		return MenuLayout{}, err
	}
	right, err = p.checked(ctx, measure.MenuRightMargin, right, srcW, true, colProf)
	if err != nil {
		return MenuLayout{}, err
	}

	menu := image.Rect(left, top, right, bottom)
	menuL := srcL.CropRect(menu)
	menuW, menuH := menuL.W(), menuL.H()

	// The header ends at the second dark row band below the menu border.
	headTH := p.sample(menuL, p.Presets.MenuVCrop, profile.SampleOpts{Axis: profile.ByRows, Stat: profile.Min})
	headProf := profile.Reduce(menuL.CropY(PxMargin, menuH), profile.ByRows, profile.Min)
	_, headerEnd := profile.Scan(headProf, headTH, profile.Policy{First: profile.Fall, Second: profile.Fall})
	headerEnd, err = p.checked(ctx, measure.HeaderEnd, headerEnd, menuH, false, headProf)
	if err != nil {
		return MenuLayout{}, err
	}

	lineTH := p.sample(menuL, p.Presets.MenuHCrop, profile.SampleOpts{Axis: profile.ByCols, Stat: profile.Mean})
	lineProf := profile.Reduce(menuL.CropY(headerEnd, menuH), profile.ByCols, profile.Mean)
	lineBegin, lineEnd := profile.Scan(lineProf, lineTH, profile.Policy{First: profile.Fall, Second: profile.Rise, Last: true})
	lineBegin, err = p.checked(ctx, measure.LineBegin, lineBegin, menuW, false, lineProf)
	if err != nil {
		return MenuLayout{}, err
	}
	lineEnd, err = p.checked(ctx, measure.LineEnd, lineEnd, menuW, true, lineProf)
	if err != nil {
		return MenuLayout{}, err
	}

	return MenuLayout{Menu: menu, HeaderEnd: headerEnd, LineBegin: lineBegin, LineEnd: lineEnd}, nil
}

// Columns measures the six data columns of the attack lines left to right.
// Widths are what the store validates; positions follow from the tiling
// cursor in ctx.
func (p *Pipeline) Columns(ctx *Context, alL imgutil.Region) (Columns, error) {
	alW := alL.W()
	var cols Columns

	trimmed := alL.CropX(OutlierMargin, alW-OutlierMargin)
	global := p.sample(trimmed, p.Presets.GlobalMin, profile.SampleOpts{Axis: profile.ByCols, Stat: profile.Min})
	sep := p.sample(trimmed, p.Presets.ColSep, profile.SampleOpts{Axis: profile.ByCols, Stat: profile.Mean, Relative: true})

	// Rank ends at the first dark-to-light column separation.
	rankProf := profile.Reduce(alL, profile.ByCols, profile.Mean)
	_, rankEnd := profile.Scan(rankProf, sep, profile.Policy{Relative: true, First: profile.Fall, Second: profile.Rise})
	rankEnd, err := p.checked(ctx, measure.RankCol, rankEnd, alW, false, rankProf)
	if err != nil {
		return cols, err
	}
	cols.Rank = ctx.NewColumn(rankEnd, 0)

	// Level ends where black ink next drops out.
	levelProf := profile.Reduce(alL.CropX(cols.Rank.End, alW), profile.ByCols, profile.Min)
	_, levelEnd := profile.Scan(levelProf, BlackTh, profile.Policy{First: profile.Fall, Second: profile.Fall})
	levelEnd, err = p.checked(ctx, measure.LevelCol, levelEnd, alW, false, levelProf)
	if err != nil {
		return cols, err
	}
	cols.Level = ctx.NewColumn(levelEnd, 0)

	// Player names: skip the badge art, then scan to the next separation.
	playerProf := profile.Reduce(alL.CropX(cols.Level.End+LookAheadMargin, alW), profile.ByCols, profile.Mean)
	_, playerEnd := profile.Scan(playerProf, sep, profile.Policy{Relative: true, Second: profile.Fall})
	playerWidth := playerEnd + LookAheadMargin
	if playerEnd <= 0 {
		playerWidth = 0 // scan failed; force the fallback path
	}
	playerWidth, err = p.checked(ctx, measure.PlayerCol, playerWidth, alW, false, playerProf)
	if err != nil {
		return cols, err
	}
	cols.Player = ctx.NewColumn(playerWidth, 0)

	// Enemy rank digits begin at the first black after the player column.
	enemyStartProf := profile.Reduce(alL.CropX(cols.Player.End, alW), profile.ByCols, profile.Min)
	_, enemyStart := profile.Scan(enemyStartProf, BlackTh, profile.Policy{Second: profile.Rise})
	enemyStart, err = p.checked(ctx, measure.EnemyStart, enemyStart, alW, false, enemyStartProf)
	if err != nil {
		return cols, err
	}

	// Far edge of the stars column: the last separation whose column
	// minimum still clears the global floor, so separations inside star
	// art are passed over.
	starsSlice := alL.CropX(cols.Player.End+PxMargin, alW)
	starsAvg := profile.Reduce(starsSlice, profile.ByCols, profile.Mean)
	starsMin := profile.Reduce(starsSlice, profile.ByCols, profile.Min)
	guard := &profile.Guard{Min: starsMin, Limit: global * 0.95}
	_, starsRel := profile.Scan(starsAvg, sep, profile.Policy{Relative: true, Second: profile.Rise, Last: true, Guard: guard})
	starsRel, err = p.checked(ctx, measure.StarsColEnd, starsRel, alW, true, starsAvg)
	if err != nil {
		return cols, err
	}
	starsColEnd := starsRel + PxMargin + cols.Player.End

	// Local ink floor between the enemy and stars columns; the global
	// floor is excluded so it cannot mask the local one.
	localSlice := alL.CropX(enemyStart+PxMargin, starsColEnd-PxMargin)
	local := p.sample(localSlice, p.Presets.LocalMin, profile.SampleOpts{
		Axis: profile.ByCols, Stat: profile.Min,
		ExcludeBaseline: true, Baseline: global,
	})

	// Enemy names end when the minimum returns to the local floor.
	enemyEndFrom := cols.Player.End + enemyStart + LookAheadMargin
	enemyEndProf := profile.Reduce(alL.CropX(enemyEndFrom, alW), profile.ByCols, profile.Min)
	_, enemyEndRel := profile.Scan(enemyEndProf, local, profile.Policy{Second: profile.Rise})
	enemyEndRel, err = hard("enemyEnd", enemyEndRel, alW)
	if err != nil {
		return cols, err
	}
	enemyEnd := enemyEndFrom + enemyEndRel

	enemyWidth, err := p.checked(ctx, measure.EnemyCol, enemyEnd-enemyStart-cols.Player.End, alW, false, enemyEndProf)
	if err != nil {
		return cols, err
	}
	cols.Enemy = ctx.NewColumn(enemyWidth, enemyStart)

	// Percentage text begins after the gap past the enemy names.
	pctProf := profile.Reduce(alL.CropX(cols.Enemy.End, alW), profile.ByCols, profile.Min)
	_, pctBegin := profile.Scan(pctProf, local, profile.Policy{Second: profile.Fall})
	pctBegin, err = p.checked(ctx, measure.PercentageBegin, pctBegin, alW, false, pctProf)
	if err != nil {
		return cols, err
	}

	// Split the gap: the enemy column absorbs its left half so neither
	// crop clips glyph edges.
	enemyCenter := pctBegin/2 + 1
	ctx.Nudge(&cols.Enemy, enemyCenter)
	pctBeginAbs := cols.Enemy.End + (pctBegin - pctBegin/2)

	// First star is the first full-bright column.
	starProf := profile.Reduce(alL.CropX(pctBeginAbs, alW), profile.ByCols, profile.Max)
	_, firstStarRel := profile.Scan(starProf, WhiteTh, profile.Policy{Second: profile.Rise})
	firstStarRel, err = hard("firstStar", firstStarRel, alW)
	if err != nil {
		return cols, err
	}
	firstStar := pctBeginAbs + firstStarRel

	// Walk back from the first star to the end of the percentage text.
	backProf := profile.Reduce(alL.CropX(pctBeginAbs, firstStar).FlipH(), profile.ByCols, profile.Min)
	starsBeginRel, _ := profile.Scan(backProf, local, profile.Policy{First: profile.Rise, Second: profile.Fall})
	starsBeginRel, err = hard("starsBegin", starsBeginRel, alW)
	if err != nil {
		return cols, err
	}
	starsBegin := firstStar - starsBeginRel

	pctWidth, err := p.checked(ctx, measure.PercentageCol, starsBegin-pctBeginAbs+enemyCenter, alW, false, backProf)
	if err != nil {
		return cols, err
	}
	cols.Percentage = ctx.NewColumn(pctWidth, 0)

	// Walk back from the stars column edge to the last star ink.
	endProf := profile.Reduce(alL.CropX(cols.Percentage.End, starsColEnd-PxMargin).FlipH(), profile.ByCols, profile.Min)
	_, starsEndRel := profile.Scan(endProf, local, profile.Policy{Second: profile.Fall})
	starsEndRel, err = hard("starsEnd", starsEndRel, alW)
	if err != nil {
		return cols, err
	}
	realStarsEnd := starsColEnd - PxMargin - starsEndRel
	starWidth := realStarsEnd - cols.Percentage.End

	// Each star outline peaks twice; fewer than six peaks means the row
	// is missing new stars and the measured width under-counts.
	peakProf := profile.Reduce(alL.CropX(cols.Percentage.End, starsColEnd), profile.ByCols, profile.Max)
	peaks := profile.CountPeaks(peakProf, WhiteTh)
	if peaks >= 4 && peaks < 6 {
		starWidth = starWidth * 3 / 2
	} else if peaks < 3 {
		starWidth = starWidth * 3
	}
	starWidth, err = p.checked(ctx, measure.StarsCol, starWidth, alW, false, peakProf)
	if err != nil {
		return cols, err
	}
	cols.Stars = ctx.NewColumn(starWidth, 0)

	return cols, nil
}

// Bands slices the attack lines into one row band per player. The loop
// walks rise/fall pairs of the row minimum and stops once the next band
// would run past the bottom edge.
func (p *Pipeline) Bands(ctx *Context, alL imgutil.Region) ([]Band, error) {
	alH := alL.H()
	th := p.sample(alL, p.Presets.NewLine, profile.SampleOpts{Axis: profile.ByRows, Stat: profile.Min})

	var bands []Band
	for {
		ctx.absPos += ctx.nextLineTop
		ctx.lineTop = ctx.absPos

		prof := profile.Reduce(alL.CropY(ctx.lineTop+PxMargin, alH), profile.ByRows, profile.Min)
		bottomRel, nextRel := profile.Scan(prof, th, profile.Policy{First: profile.Rise, Second: profile.Fall})
		if nextRel == 0 {
			return bands, fmt.Errorf("line %d bottom: %w", len(bands), ErrNoBoundary)
		}
		ctx.lineBottom = ctx.lineTop + PxMargin + bottomRel
		ctx.nextLineTop = nextRel + PxMargin

		bands = append(bands, Band{Top: ctx.lineTop, Bottom: ctx.lineBottom})
		if ctx.lineBottom+(ctx.lineBottom-ctx.lineTop) >= alH {
			break
		}
	}
	return bands, nil
}
