package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Brmanzo/clash-star-tracker/internal/score"
)

func TestLoadAdvancedMissingFile(t *testing.T) {
	s, p, err := LoadAdvanced(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatal(err)
	}
	if s != DefaultSampling() {
		t.Errorf("sampling = %+v", s)
	}
	if p != DefaultPreprocess() {
		t.Errorf("preprocess = %+v", p)
	}
}

func TestAdvancedRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "advanced_settings.json")

	s := DefaultSampling()
	s.NewLine.Scale = 0.5
	s.FallbackMargin = 1.5
	p := DefaultPreprocess()
	p.BlobMax = 0.1
	p.LineBgPatch = [4]int{1, 2, 3, 4}

	if err := SaveAdvanced(path, s, p); err != nil {
		t.Fatal(err)
	}
	gotS, gotP, err := LoadAdvanced(path)
	if err != nil {
		t.Fatal(err)
	}
	if gotS != s {
		t.Errorf("sampling = %+v, want %+v", gotS, s)
	}
	if gotP != p {
		t.Errorf("preprocess = %+v, want %+v", gotP, p)
	}
}

func TestLoadAdvancedNormalizesDeltas(t *testing.T) {
	// Older settings files stored filter deltas in 0-255 scale.
	path := filepath.Join(t.TempDir(), "advanced_settings.json")
	if err := os.WriteFile(path, []byte(`{"Light Row Filter Value": -28}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, p, err := LoadAdvanced(path)
	if err != nil {
		t.Fatal(err)
	}
	got := p.Thresholds[4].Delta
	if got < -0.111 || got > -0.109 {
		t.Errorf("delta = %v, want about -0.1098", got)
	}
}

func TestLoadRulesMissingFile(t *testing.T) {
	r, err := LoadRules(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatal(err)
	}
	if r != score.DefaultRules() {
		t.Errorf("rules = %+v", r)
	}
}

func TestRulesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gamerules.json")

	r := score.DefaultRules()
	r.IncompleteClean = score.Penalty{Negate: true}
	r.Stealing = score.Penalty{Points: -3}
	r.JumpGap = 7

	if err := SaveRules(path, r); err != nil {
		t.Fatal(err)
	}
	got, err := LoadRules(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != r {
		t.Errorf("rules = %+v, want %+v", got, r)
	}
}

func TestLoadRulesSentinel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gamerules.json")
	body := `{"Incomplete Clean Dropping Penalty": "Negate earned stars"}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := LoadRules(path)
	if err != nil {
		t.Fatal(err)
	}
	if !r.IncompleteClean.Negate {
		t.Error("sentinel not recognized")
	}
	if !r.Stealing.Negate {
		t.Error("default stealing penalty should stay negate")
	}
}

func TestPathsRoundTrip(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "Program_Files"), 0o755); err != nil {
		t.Fatal(err)
	}

	p := DefaultPaths(root)
	p.Players = filepath.Join(root, "elsewhere", "names.txt")
	p.ImagesDir = filepath.Join(root, "elsewhere", "shots")
	if err := SavePaths(p); err != nil {
		t.Fatal(err)
	}

	got, err := LoadPaths(root)
	if err != nil {
		t.Fatal(err)
	}
	if got.Players != p.Players {
		t.Errorf("players = %q, want %q", got.Players, p.Players)
	}
	if got.ImagesDir != p.ImagesDir {
		t.Errorf("images dir = %q, want %q", got.ImagesDir, p.ImagesDir)
	}
	if got.History != p.History {
		t.Errorf("history = %q, want %q", got.History, p.History)
	}
}

func TestLoadPathsMissingFile(t *testing.T) {
	root := t.TempDir()
	got, err := LoadPaths(root)
	if err != nil {
		t.Fatal(err)
	}
	if got != DefaultPaths(root) {
		t.Errorf("paths = %+v", got)
	}
}
