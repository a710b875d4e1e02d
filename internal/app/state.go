// Package app carries the review shell's shared state: operating paths,
// editable presets, the live session, and an event fan-out the panels
// subscribe to.
package app

import (
	"errors"
	"strings"
	"sync"

	"github.com/Brmanzo/clash-star-tracker/internal/config"
	"github.com/Brmanzo/clash-star-tracker/internal/oscillo"
	"github.com/Brmanzo/clash-star-tracker/internal/score"
	"github.com/Brmanzo/clash-star-tracker/internal/session"

	"github.com/rs/zerolog"
)

// EventType identifies review shell events.
type EventType int

const (
	EventRunStarted EventType = iota
	EventRunFinished
	EventLogLine
	EventCommitted
	EventPathsChanged
	EventRulesChanged
	EventSettingsChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the review shell state. Fields are set at load time and by
// the mutating methods; panels read them directly.
type State struct {
	mu sync.RWMutex

	Paths    config.Paths
	Sampling config.Sampling
	Pre      config.Preprocess
	Rules    score.Rules

	// Debug renders oscilloscope dumps during runs.
	Debug bool

	sess      *session.Session
	lines     []string
	listeners map[EventType][]EventListener
}

// NewState loads the operating files under root. Missing files fall back
// to the shipped defaults.
func NewState(root string) (*State, error) {
	paths, err := config.LoadPaths(root)
	if err != nil {
		return nil, err
	}
	sampling, pre, err := config.LoadAdvanced(paths.Advanced())
	if err != nil {
		return nil, err
	}
	rules, err := config.LoadRules(paths.Rules())
	if err != nil {
		return nil, err
	}
	return &State{
		Paths:     paths,
		Sampling:  sampling,
		Pre:       pre,
		Rules:     rules,
		listeners: make(map[EventType][]EventListener),
	}, nil
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// logFeed forwards each finished console line to EventLogLine listeners.
type logFeed struct{ s *State }

func (f logFeed) Write(p []byte) (int, error) {
	for _, line := range strings.Split(string(p), "\n") {
		if line = strings.TrimRight(line, " "); line != "" {
			f.s.Emit(EventLogLine, line)
		}
	}
	return len(p), nil
}

// Logger returns a console-formatted logger whose lines stream into the
// shell's log view.
func (s *State) Logger() zerolog.Logger {
	cw := zerolog.ConsoleWriter{Out: logFeed{s}, NoColor: true, TimeFormat: "15:04:05"}
	return zerolog.New(cw).With().Timestamp().Logger()
}

// RunAnalysis processes the screenshot batch and returns the editable
// tabulated lines. It blocks; the shell calls it from a goroutine. The
// finished session stays open so a later Commit can reuse it.
func (s *State) RunAnalysis(files []string) ([]string, error) {
	s.Emit(EventRunStarted, nil)

	s.mu.Lock()
	if s.sess != nil {
		s.sess.Close()
		s.sess = nil
	}
	paths := s.Paths
	debug := s.Debug
	s.mu.Unlock()

	log := s.Logger()
	sess, err := session.New(paths, log)
	if err != nil {
		s.Emit(EventRunFinished, err)
		return nil, err
	}
	if debug {
		if r, rerr := oscillo.New(paths.DebugDir, log); rerr != nil {
			log.Warn().Err(rerr).Msg("[app] debug renderer unavailable")
		} else {
			sess.Pipeline.Debug = r.Hook()
			sess.Assembler.Debug = r.SaveCrop
		}
	}
	if err := sess.Run(files); err != nil {
		sess.Close()
		s.Emit(EventRunFinished, err)
		return nil, err
	}

	s.mu.Lock()
	s.sess = sess
	s.lines = sess.Lines()
	lines := s.lines
	s.mu.Unlock()

	s.Emit(EventRunFinished, nil)
	return lines, nil
}

// Commit merges the possibly edited lines into the history file and
// returns the refreshed leaderboard.
func (s *State) Commit(lines []string) ([]string, error) {
	s.mu.RLock()
	sess := s.sess
	s.mu.RUnlock()
	if sess == nil {
		return nil, errors.New("no completed run to commit")
	}
	table, err := sess.Commit(lines)
	if err != nil {
		return nil, err
	}
	board := table.Leaderboard()
	s.Emit(EventCommitted, board)
	return board, nil
}

// Lines returns the tabulated results of the last completed run.
func (s *State) Lines() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lines
}

// HasRun reports whether a completed run is available to commit.
func (s *State) HasRun() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess != nil
}

// SavePathSelections persists the operating-file selections for the next
// session.
func (s *State) SavePathSelections(p config.Paths) error {
	if err := config.SavePaths(p); err != nil {
		return err
	}
	s.mu.Lock()
	s.Paths = p
	s.mu.Unlock()
	s.Emit(EventPathsChanged, p)
	return nil
}

// UpdateRules persists edited game rules; the next run picks them up.
func (s *State) UpdateRules(r score.Rules) error {
	if err := config.SaveRules(s.Paths.Rules(), r); err != nil {
		return err
	}
	s.mu.Lock()
	s.Rules = r
	s.mu.Unlock()
	s.Emit(EventRulesChanged, r)
	return nil
}

// UpdateAdvanced persists edited sampling and preprocessing presets.
func (s *State) UpdateAdvanced(smp config.Sampling, pre config.Preprocess) error {
	if err := config.SaveAdvanced(s.Paths.Advanced(), smp, pre); err != nil {
		return err
	}
	s.mu.Lock()
	s.Sampling = smp
	s.Pre = pre
	s.mu.Unlock()
	s.Emit(EventSettingsChanged, nil)
	return nil
}

// Close releases the session's OCR engine.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess != nil {
		s.sess.Close()
		s.sess = nil
	}
}
