// Package session drives one tracker run: a batch of war screenshots
// measured, assembled, and reconciled into a roster, with the results held
// for review before they commit to history.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Brmanzo/clash-star-tracker/internal/assemble"
	"github.com/Brmanzo/clash-star-tracker/internal/config"
	"github.com/Brmanzo/clash-star-tracker/internal/history"
	"github.com/Brmanzo/clash-star-tracker/internal/imgutil"
	"github.com/Brmanzo/clash-star-tracker/internal/measure"
	"github.com/Brmanzo/clash-star-tracker/internal/ocr"
	"github.com/Brmanzo/clash-star-tracker/internal/roster"
	"github.com/Brmanzo/clash-star-tracker/internal/score"
	"github.com/Brmanzo/clash-star-tracker/internal/segment"
)

// Session holds the state of one run. Sessions are single-use: a rerun
// starts a fresh one so stale roster rows cannot leak between batches.
type Session struct {
	Paths   config.Paths
	Presets config.Sampling
	Pre     config.Preprocess
	Rules   score.Rules

	Pipeline  *segment.Pipeline
	Assembler *assemble.Assembler
	Roster    *roster.Roster

	store   *measure.Store
	players *roster.NameBook
	engine  *ocr.Engine
	log     zerolog.Logger

	fileNum int
	lines   []string
	scores  map[string]string
}

// New loads the operating data under paths and wires the pipeline. Every
// data file is optional; missing ones fall back to shipped defaults.
func New(paths config.Paths, log zerolog.Logger) (*Session, error) {
	s, err := load(paths, log)
	if err != nil {
		return nil, err
	}
	engine, err := ocr.NewEngine()
	if err != nil {
		return nil, err
	}
	s.engine = engine
	s.Assembler.Reader = engine
	return s, nil
}

// load builds the session from its data files. The OCR engine is left for
// New, so tests can drive the assembler with fakes.
func load(paths config.Paths, log zerolog.Logger) (*Session, error) {
	sampling, pre, err := config.LoadAdvanced(paths.Advanced())
	if err != nil {
		return nil, err
	}
	rules, err := config.LoadRules(paths.Rules())
	if err != nil {
		return nil, err
	}
	aliases, err := roster.LoadAliases(paths.Aliases)
	if err != nil {
		return nil, err
	}
	players, err := roster.LoadNames(paths.Players)
	if err != nil {
		return nil, err
	}
	store, err := measure.Load(paths.Measurements(), sampling.FallbackMargin)
	if err != nil {
		return nil, err
	}

	return &Session{
		Paths:    paths,
		Presets:  sampling,
		Pre:      pre,
		Rules:    rules,
		Pipeline: &segment.Pipeline{Presets: sampling, Store: store, Log: log},
		Assembler: &assemble.Assembler{
			Presets: sampling,
			Pre:     pre,
			Players: players,
			Enemies: roster.NewNameBook(),
			Log:     log,
		},
		Roster:  roster.New(aliases, log),
		store:   store,
		players: players,
		log:     log,
	}, nil
}

// Close releases the OCR engine.
func (s *Session) Close() error {
	if s.engine == nil {
		return nil
	}
	return s.engine.Close()
}

// ScanImages collects the screenshots under dir, sorted so file names
// order the batch.
func ScanImages(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && imgutil.HasImageExt(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("images dir %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// ListImages collects the screenshots under the session's images directory.
func (s *Session) ListImages() ([]string, error) {
	return ScanImages(s.Paths.ImagesDir)
}

// Run processes the batch. files may be an explicit selection; when empty
// the images directory is walked instead. An image that fails to decode or
// segment is skipped with a warning, but a score ordering violation or a
// full roster means the data cannot be trusted and aborts the run.
func (s *Session) Run(files []string) error {
	if len(files) == 0 {
		var err error
		if files, err = s.ListImages(); err != nil {
			return err
		}
	}
	if len(files) == 0 {
		return errors.New("no images to process")
	}

	for _, path := range files {
		if !imgutil.HasImageExt(path) {
			continue
		}
		s.fileNum++
		s.log.Info().Int("n", s.fileNum).Str("image", filepath.Base(path)).Msg("[session] processing")
		if err := s.processImage(path); err != nil {
			if errors.Is(err, assemble.ErrScoreOrder) || errors.Is(err, roster.ErrRosterFull) {
				return err
			}
			s.log.Warn().Err(err).Str("image", path).Msg("[session] image skipped")
		}
	}
	s.tabulate()
	if err := s.players.Save(s.Paths.Players); err != nil {
		s.log.Warn().Err(err).Msg("[session] player list not saved")
	}
	return s.store.Save(s.Paths.Measurements())
}

// processImage runs one screenshot through the pipeline: menu, columns,
// row bands, then a roster record per band. The measurements only reach
// the fallback store once the whole image assembled cleanly.
func (s *Session) processImage(path string) error {
	src, err := imgutil.ReadImage(path)
	if err != nil {
		return err
	}
	defer src.Close()
	srcL, err := imgutil.Lightness(src)
	if err != nil {
		return err
	}

	ctx := segment.NewContext(imageStem(path), s.fileNum)
	layout, err := s.Pipeline.Menu(ctx, srcL)
	if err != nil {
		return err
	}

	linesRect := layout.AttackLines()
	lines := src.Region(linesRect)
	defer lines.Close()
	linesL := srcL.CropRect(linesRect)

	cols, err := s.Pipeline.Columns(ctx, linesL)
	if err != nil {
		return err
	}
	bands, err := s.Pipeline.Bands(ctx, linesL)
	if err != nil {
		return err
	}

	for i, band := range bands {
		tag := fmt.Sprintf("%s_%d_line%d", imageStem(path), s.fileNum, i)
		rec, err := s.Assembler.Line(tag, lines, linesL, band, cols)
		if err != nil {
			return err
		}
		if err := s.Roster.Reconcile(&rec); err != nil {
			return err
		}
	}

	s.store.Update(ctx.Measurements())
	return nil
}

// tabulate snapshots the reconciled roster into review lines and a
// player → score map.
func (s *Session) tabulate() {
	s.lines = nil
	s.scores = make(map[string]string)
	for _, p := range s.Roster.Players() {
		s.lines = append(s.lines, Tabulate(p, s.Rules))
		s.scores[p.Name] = strconv.Itoa(score.Total(p, s.Rules))
	}
}

// Lines returns the tabulated roster of the last run, one row per player.
func (s *Session) Lines() []string { return s.lines }

// Commit merges the war scores into the history and writes it back. lines
// may carry review edits and parse the same way the originals were
// written; without any, the run's own scores merge unchanged. The merged
// table is returned for leaderboard display.
func (s *Session) Commit(lines []string) (*history.Table, error) {
	scores := s.scores
	if len(lines) != 0 {
		scores = ParseTabulated(lines)
	}
	table, err := history.Load(s.Paths.History)
	if err != nil {
		return nil, err
	}
	table.Merge(scores)
	if err := table.Save(s.Paths.History); err != nil {
		return nil, err
	}
	if err := s.store.Save(s.Paths.Measurements()); err != nil {
		return nil, err
	}
	return table, nil
}

// imageStem names an image for logs and debug dumps, spaces flattened so
// the name survives as a file name part.
func imageStem(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(base, " ", "_")
}
