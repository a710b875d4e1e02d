// Package main provides the entry point for the Clash Star Tracker.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Brmanzo/clash-star-tracker/internal/app"
	"github.com/Brmanzo/clash-star-tracker/internal/config"
	"github.com/Brmanzo/clash-star-tracker/internal/oscillo"
	"github.com/Brmanzo/clash-star-tracker/internal/session"
	"github.com/Brmanzo/clash-star-tracker/internal/version"
	"github.com/Brmanzo/clash-star-tracker/ui/mainwindow"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/rs/zerolog"
)

func main() {
	var (
		gui         = flag.Bool("gui", false, "open the review window")
		verbose     = flag.Bool("v", false, "verbose logging")
		debug       = flag.Bool("debug", false, "write oscilloscope dumps to the debug directory")
		commit      = flag.Bool("commit", false, "merge the run into the history file (headless only)")
		root        = flag.String("data", ".", "root directory holding the operating data")
		imagesDir   = flag.String("images", "", "screenshots directory (default <data>/Images)")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	log := newLogger(*verbose)
	log.Info().Str("version", version.Version).Msg("starting clash-star-tracker")

	if *gui {
		runGUI(*root, *imagesDir, *debug, log)
		return
	}
	if err := runHeadless(*root, *imagesDir, *debug, *commit, log); err != nil {
		log.Fatal().Err(err).Msg("run failed")
	}
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	cw := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(cw).Level(level).With().Timestamp().Logger()
}

// runHeadless processes the batch, prints the tabulated roster, and with
// -commit merges it into the history file and prints the leaderboard.
// Positional arguments select explicit screenshots; otherwise the images
// directory is walked.
func runHeadless(root, imagesDir string, debug, commit bool, log zerolog.Logger) error {
	paths, err := config.LoadPaths(root)
	if err != nil {
		return err
	}
	if imagesDir != "" {
		paths.ImagesDir = imagesDir
	}

	s, err := session.New(paths, log)
	if err != nil {
		return err
	}
	defer s.Close()

	if debug {
		r, err := oscillo.New(paths.DebugDir, log)
		if err != nil {
			return err
		}
		s.Pipeline.Debug = r.Hook()
		s.Assembler.Debug = r.SaveCrop
	}

	if err := s.Run(flag.Args()); err != nil {
		return err
	}
	for _, line := range s.Lines() {
		fmt.Println(line)
	}

	if commit {
		// Headless runs have no review step, so the run's own scores
		// merge as scored.
		table, err := s.Commit(nil)
		if err != nil {
			return err
		}
		for _, line := range table.Leaderboard() {
			fmt.Println(line)
		}
	}
	return nil
}

func runGUI(root, imagesDir string, debug bool, log zerolog.Logger) {
	state, err := app.NewState(root)
	if err != nil {
		log.Fatal().Err(err).Msg("state load failed")
	}
	if imagesDir != "" {
		state.Paths.ImagesDir = imagesDir
	}
	state.Debug = debug
	defer state.Close()

	fyneApp := fyneapp.New()
	fyneApp.Settings().SetTheme(&app.TrackerTheme{})

	win := mainwindow.New(fyneApp, state)
	win.ShowAndRun()
}
