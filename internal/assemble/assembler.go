// Package assemble turns measured screenshot geometry into roster rows. It
// crops each row band by the session's columns, isolates glyphs, reads them
// through OCR, and snaps the reads onto known player and enemy names.
package assemble

import (
	"fmt"
	"image"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"github.com/Brmanzo/clash-star-tracker/internal/config"
	"github.com/Brmanzo/clash-star-tracker/internal/imgutil"
	"github.com/Brmanzo/clash-star-tracker/internal/ocr"
	"github.com/Brmanzo/clash-star-tracker/internal/profile"
	"github.com/Brmanzo/clash-star-tracker/internal/roster"
	"github.com/Brmanzo/clash-star-tracker/internal/segment"
)

// Reader recognizes text in prepared glyph crops. *ocr.Engine satisfies it.
type Reader interface {
	Line(img gocv.Mat) (string, error)
	Digits(img gocv.Mat) (string, error)
}

// Assembler reads roster rows out of segmented screenshots. One assembler
// serves a whole session: its name books accumulate low-confidence reads so
// later screenshots snap to earlier spellings.
type Assembler struct {
	Reader  Reader
	Presets config.Sampling
	Pre     config.Preprocess
	Players *roster.NameBook
	Enemies *roster.NameBook
	Log     zerolog.Logger

	// Debug, when set, receives crops that failed recognition.
	Debug func(img gocv.Mat, name string)
}

// Line assembles one row band into a player record. lines is the BGR crop
// of the menu's attack lines and linesL its lightness; both share the
// coordinate space the columns were measured in. tag names the row in logs
// and debug dumps.
func (a *Assembler) Line(tag string, lines gocv.Mat, linesL imgutil.Region, band segment.Band, cols segment.Columns) (roster.PlayerRecord, error) {
	rank := a.rank(tag, lines, band, cols.Rank)
	name, err := a.player(tag, lines, band, cols.Player)
	if err != nil {
		return roster.PlayerRecord{}, err
	}

	enemyRect := image.Rect(cols.Enemy.Begin, band.Top, cols.Enemy.End, band.Bottom).
		Intersect(image.Rect(0, 0, lines.Cols(), lines.Rows()))
	if enemyRect.Empty() {
		return roster.PlayerRecord{}, fmt.Errorf("%s: enemy column outside image", tag)
	}
	enemySlice := lines.Region(enemyRect)
	defer enemySlice.Close()
	starsHalves := linesL.Crop(cols.Stars.Begin, band.Top, cols.Stars.End, band.Bottom).SplitRows(2)

	// Two attack sub-rows per line, top half one row taller when odd.
	mid := (enemySlice.Rows() + 1) / 2
	rows := [2]image.Rectangle{
		image.Rect(0, 0, enemySlice.Cols(), mid),
		image.Rect(0, mid, enemySlice.Cols(), enemySlice.Rows()),
	}
	attacks := make([]roster.AttackRecord, 0, 2)
	for n, rowRect := range rows {
		half := enemySlice.Region(rowRect)
		att, err := a.attack(fmt.Sprintf("%s_attack%d", tag, n+1), half, starsHalves[n])
		half.Close()
		if err != nil {
			return roster.PlayerRecord{}, err
		}
		attacks = append(attacks, att)
	}
	return roster.PlayerRecord{Rank: rank, Name: name, Attacks: attacks}, nil
}

// rank reads the war rank digits of a row. Ranks are recoverable from
// context, so failures log and return 0 instead of aborting the row.
func (a *Assembler) rank(tag string, lines gocv.Mat, band segment.Band, col segment.Column) int {
	crop, err := a.glyphCrop(lines, image.Rect(col.Begin, band.Top, col.End, band.Bottom))
	if err != nil {
		a.Log.Warn().Err(err).Str("line", tag).Msg("[assemble] rank crop unreadable")
		return 0
	}
	defer crop.Close()
	read, err := a.Reader.Digits(crop)
	if err != nil {
		a.Log.Warn().Err(err).Str("line", tag).Msg("[assemble] rank recognition failed")
		return 0
	}
	rank, ok := ocr.CorrectDigits(read)
	if !ok {
		a.Log.Warn().Str("line", tag).Str("read", read).Msg("[assemble] rank digits unreadable")
		a.debug(crop, tag+"_rank_error")
		return 0
	}
	return rank
}

// player reads and corrects the row's player name. The name keys the whole
// row, so an unreadable one fails the row.
func (a *Assembler) player(tag string, lines gocv.Mat, band segment.Band, col segment.Column) (string, error) {
	crop, err := a.glyphCrop(lines, image.Rect(col.Begin, band.Top, col.End, band.Bottom))
	if err != nil {
		return "", fmt.Errorf("%s: player crop: %w", tag, err)
	}
	defer crop.Close()
	read, err := a.Reader.Line(crop)
	if err != nil {
		return "", fmt.Errorf("%s: player recognition: %w", tag, err)
	}
	name, score, ok := ocr.NewMatcher(a.Players.Names(), a.Presets.PlayerConfidence).Match(read)
	if name == "" {
		a.debug(crop, tag+"_player_error")
		return "", fmt.Errorf("%s: player name unreadable", tag)
	}
	if !ok {
		a.Log.Info().Str("line", tag).Str("read", name).Int("score", score).
			Msg("[assemble] unmatched player kept as new spelling")
		a.Players.Add(name)
	}
	return name, nil
}

// attack assembles one attack sub-row from its BGR enemy crop and the
// lightness view of its star cells.
func (a *Assembler) attack(tag string, enemy gocv.Mat, stars imgutil.Region) (roster.AttackRecord, error) {
	glyphs, err := ocr.CleanGlyphs(enemy, a.Pre, true)
	if err != nil {
		return roster.AttackRecord{}, fmt.Errorf("%s: %w", tag, err)
	}
	defer glyphs.Close()

	// An attack slot the player never used preprocesses to pure white.
	if a.blank(glyphs) {
		return roster.NoAttack(), nil
	}

	lightness, err := imgutil.Lightness(enemy)
	if err != nil {
		return roster.AttackRecord{}, fmt.Errorf("%s: %w", tag, err)
	}
	th := a.sample(lightness, a.Presets.RankNameSep, profile.SampleOpts{
		Axis: profile.ByCols,
		Stat: profile.Min,
	})
	rankBegin, nameBegin := profile.Scan(
		profile.Reduce(lightness, profile.ByCols, profile.Min), th,
		profile.Policy{First: profile.Fall, Second: profile.Rise})
	if rankBegin == 0 || nameBegin == 0 {
		return roster.AttackRecord{}, fmt.Errorf("%s: enemy rank/name boundary: %w", tag, segment.ErrNoBoundary)
	}

	enemyRank := 0
	digits := glyphs.Region(image.Rect(rankBegin, 0, nameBegin, glyphs.Rows()))
	read, err := a.Reader.Digits(digits)
	if err != nil {
		a.Log.Warn().Err(err).Str("line", tag).Msg("[assemble] enemy rank recognition failed")
	} else if n, ok := ocr.CorrectDigits(read); ok {
		enemyRank = n
	} else {
		a.Log.Warn().Str("line", tag).Str("read", read).Msg("[assemble] enemy rank digits unreadable")
		a.debug(digits, tag+"_enemy_rank_error")
	}
	digits.Close()

	nameView := glyphs.Region(image.Rect(nameBegin, 0, glyphs.Cols(), glyphs.Rows()))
	nameRead, err := a.Reader.Line(nameView)
	nameView.Close()
	if err != nil {
		return roster.AttackRecord{}, fmt.Errorf("%s: enemy recognition: %w", tag, err)
	}
	name, _, ok := ocr.NewMatcher(a.Enemies.Names(), a.Presets.EnemyConfidence).Match(nameRead)
	if !ok && name != "" {
		a.Enemies.Add(name)
	}

	score, err := a.Score(stars)
	if err != nil {
		return roster.AttackRecord{}, fmt.Errorf("%s: %w", tag, err)
	}
	return roster.AttackRecord{EnemyRank: enemyRank, Target: name, Score: score}, nil
}

// glyphCrop cuts r out of m, clamped to the mat, and isolates its glyphs.
// The caller owns the returned mat.
func (a *Assembler) glyphCrop(m gocv.Mat, r image.Rectangle) (gocv.Mat, error) {
	r = r.Intersect(image.Rect(0, 0, m.Cols(), m.Rows()))
	if r.Empty() {
		return gocv.Mat{}, fmt.Errorf("crop %v outside image", r)
	}
	view := m.Region(r)
	defer view.Close()
	return ocr.CleanGlyphs(view, a.Pre, true)
}

// blank reports whether a preprocessed crop holds no glyphs at all.
func (a *Assembler) blank(glyphs gocv.Mat) bool {
	return a.sample(imgutil.FromGray(glyphs), a.Presets.EmptyLine, profile.SampleOpts{
		Axis: profile.ByRows,
		Stat: profile.Mean,
		Pick: profile.PickMean,
	}) == 1
}

func (a *Assembler) sample(r imgutil.Region, preset config.SamplePreset, o profile.SampleOpts) float64 {
	o.Tolerance = preset.Epsilon
	return profile.Sample(r, o) * preset.Scale
}

func (a *Assembler) debug(img gocv.Mat, name string) {
	if a.Debug != nil {
		a.Debug(img, name)
	}
}
