package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// Keys remembered in past_files.json between sessions.
const (
	keyImagesPath  = "images_filepath"
	keyPlayersPath = "players_filepath"
	keyMultiPath   = "multi_filepath"
	keyHistoryPath = "history_filepath"
)

// Paths locates the session's data files under one root directory.
type Paths struct {
	Root      string
	DataDir   string // settings, gamerules, measurements, past files
	ImagesDir string // screenshots to process
	DebugDir  string // oscilloscope dumps

	Players string // newline-delimited known player names
	Aliases string // multi-account family JSON
	History string // cross-war score CSV
}

// DefaultPaths lays the data files out under root the way the tracker
// ships them.
func DefaultPaths(root string) Paths {
	return Paths{
		Root:      root,
		DataDir:   filepath.Join(root, "Program_Files"),
		ImagesDir: filepath.Join(root, "Images"),
		DebugDir:  filepath.Join(root, "Debug"),
		Players:   filepath.Join(root, "players.txt"),
		Aliases:   filepath.Join(root, "multi_accounts.json"),
		History:   filepath.Join(root, "player_history.csv"),
	}
}

// Advanced returns the advanced settings file path.
func (p Paths) Advanced() string { return filepath.Join(p.DataDir, "advanced_settings.json") }

// Rules returns the gamerules file path.
func (p Paths) Rules() string { return filepath.Join(p.DataDir, "gamerules.json") }

// Measurements returns the fallback measurement store path.
func (p Paths) Measurements() string { return filepath.Join(p.DataDir, "measurements.json") }

// PastFiles returns the remembered-selections file path.
func (p Paths) PastFiles() string { return filepath.Join(p.DataDir, "past_files.json") }

// LoadPaths resolves the defaults under root, then applies any file
// selections remembered from earlier sessions.
func LoadPaths(root string) (Paths, error) {
	p := DefaultPaths(root)

	v := viper.New()
	v.SetConfigFile(p.PastFiles())
	v.SetConfigType("json")
	v.SetDefault(keyImagesPath, p.ImagesDir)
	v.SetDefault(keyPlayersPath, p.Players)
	v.SetDefault(keyMultiPath, p.Aliases)
	v.SetDefault(keyHistoryPath, p.History)

	if err := readOptional(v); err != nil {
		return p, fmt.Errorf("past files %s: %w", p.PastFiles(), err)
	}

	p.ImagesDir = v.GetString(keyImagesPath)
	p.Players = v.GetString(keyPlayersPath)
	p.Aliases = v.GetString(keyMultiPath)
	p.History = v.GetString(keyHistoryPath)
	return p, nil
}

// SavePaths remembers the session's file selections for next time.
func SavePaths(p Paths) error {
	v := viper.New()
	v.SetConfigFile(p.PastFiles())
	v.SetConfigType("json")
	v.Set(keyImagesPath, p.ImagesDir)
	v.Set(keyPlayersPath, p.Players)
	v.Set(keyMultiPath, p.Aliases)
	v.Set(keyHistoryPath, p.History)
	return v.WriteConfigAs(p.PastFiles())
}
