// Package config loads and stores the layered preset files: sampling
// tolerances and preprocessing bounds (advanced_settings.json), scoring
// rules (gamerules.json), and session paths. Stored values override
// registered defaults, so a partial or missing file is never an error.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// SamplePreset tunes one named threshold sample: Epsilon is the
// representative-extreme tolerance, Scale the factor applied to the sampled
// value before use.
type SamplePreset struct {
	Epsilon float64
	Scale   float64
}

// Sampling carries the per-threshold presets plus the fallback-store
// tolerance and name-match confidence floors.
type Sampling struct {
	HCrop       SamplePreset // source crop, jump of column averages
	VCrop       SamplePreset // source crop, jump of row averages
	MenuHCrop   SamplePreset // menu line bounds, column averages
	MenuVCrop   SamplePreset // menu header, row minimums
	LocalMin    SamplePreset // attack-lines local floor, baseline-excluded
	GlobalMin   SamplePreset // attack-lines global floor
	ColSep      SamplePreset // data column separations, jump profile
	RankNameSep SamplePreset // enemy rank/name split
	EmptyLine   SamplePreset // blank attack sub-row detection
	NewLine     SamplePreset // row band separation
	StarNoise   SamplePreset // old-star background noise

	FallbackMargin   float64
	PlayerConfidence int
	EnemyConfidence  int
}

// BackgroundThreshold maps a background lightness band to the offset added
// to the sampled background when binarizing glyph crops. Bounds and deltas
// are fractions of full scale.
type BackgroundThreshold struct {
	Bound float64
	Delta float64
}

// Preprocess tunes the glyph-cleanup pass applied to crops before OCR.
type Preprocess struct {
	LightnessLower int
	LightnessUpper int
	BlobMax        float64
	LineBgPatch    [4]int // x0, y0, x1, y1
	CornerBgPatch  [4]int

	// Thresholds in ascending Bound order; the last band whose bound the
	// sampled background reaches supplies the delta.
	Thresholds [5]BackgroundThreshold
}

// DefaultSampling returns the built-in sampling presets.
func DefaultSampling() Sampling {
	return Sampling{
		HCrop:       SamplePreset{0.2, 0.99},
		VCrop:       SamplePreset{0.2, 0.99},
		MenuHCrop:   SamplePreset{0.001, 0.99},
		MenuVCrop:   SamplePreset{0.001, 0.97},
		LocalMin:    SamplePreset{0.01, 0.95},
		GlobalMin:   SamplePreset{0.001, 0.99},
		ColSep:      SamplePreset{0.0005, 0.99},
		RankNameSep: SamplePreset{0.01, 0.99},
		EmptyLine:   SamplePreset{0.01, 1.00},
		NewLine:     SamplePreset{0.01, 0.97},
		StarNoise:   SamplePreset{0.01, 1.00},

		FallbackMargin:   1.2,
		PlayerConfidence: 65,
		EnemyConfidence:  65,
	}
}

// DefaultPreprocess returns the built-in preprocessing presets.
func DefaultPreprocess() Preprocess {
	return Preprocess{
		LightnessLower: 0,
		LightnessUpper: 150,
		BlobMax:        0.06,
		LineBgPatch:    [4]int{50, 20, 60, 30},
		CornerBgPatch:  [4]int{0, 0, 5, 5},
		Thresholds: [5]BackgroundThreshold{
			{0.00, 0.11},
			{0.62, 0.09},
			{0.70, 0.05},
			{0.77, 0.03},
			{0.80, -0.01},
		},
	}
}

type presetKeys struct {
	preset  *SamplePreset
	epsilon string
	scale   string
}

func (s *Sampling) keys() []presetKeys {
	return []presetKeys{
		{&s.HCrop, "Horizontal Background Crop Epsilon", "Horizontal Background Crop Scale Factor"},
		{&s.VCrop, "Vertical Background Crop Epsilon", "Vertical Background Crop Scale Factor"},
		{&s.MenuHCrop, "Horizontal Menu Crop Epsilon", "Horizontal Menu Crop Scale Factor"},
		{&s.MenuVCrop, "Vertical Menu Crop Epsilon", "Vertical Menu Crop Scale Factor"},
		{&s.LocalMin, "Horizontal Lines Local Minimum Epsilon", "Horizontal Lines Local Minimum Scale Factor"},
		{&s.GlobalMin, "Horizontal Lines Global Minimum Epsilon", "Horizontal Lines Global Minimum Scale Factor"},
		{&s.ColSep, "Horizontal Data Column Separation Epsilon", "Horizontal Data Column Separation Scale Factor"},
		{&s.RankNameSep, "Rank-Name Separation Epsilon", "Rank-Name Separation Scale Factor"},
		{&s.EmptyLine, "Empty Attack Line Epsilon", "Empty Attack Line Scale Factor"},
		{&s.NewLine, "New line separation Epsilon", "New line separation Scale Factor"},
		{&s.StarNoise, "Old Star Noise Epsilon", "Old Star Noise Scale Factor"},
	}
}

type thresholdKeys struct {
	th    *BackgroundThreshold
	bound string
	delta string
}

func (p *Preprocess) keys() []thresholdKeys {
	return []thresholdKeys{
		{&p.Thresholds[0], "Lower User Row Upper Bound", "Lower User Row Filter Value"},
		{&p.Thresholds[1], "Upper User Row Upper Bound", "Upper User Row Filter Value"},
		{&p.Thresholds[2], "Lower Dark Row Upper Bound", "Lower Dark Row Filter Value"},
		{&p.Thresholds[3], "Upper Dark Row Upper Bound", "Upper Dark Row Filter Value"},
		{&p.Thresholds[4], "Light Row Upper Bound", "Light Row Filter Value"},
	}
}

// LoadAdvanced reads advanced_settings.json over the defaults. A missing
// file yields the defaults.
func LoadAdvanced(path string) (Sampling, Preprocess, error) {
	s := DefaultSampling()
	p := DefaultPreprocess()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	for _, k := range s.keys() {
		v.SetDefault(k.epsilon, k.preset.Epsilon)
		v.SetDefault(k.scale, k.preset.Scale)
	}
	v.SetDefault("Fall-back Tolerance Margin", s.FallbackMargin)
	v.SetDefault("Player Match Confidence", s.PlayerConfidence)
	v.SetDefault("Enemy Match Confidence", s.EnemyConfidence)

	v.SetDefault("Preprocessing Light Upperbound", p.LightnessUpper)
	v.SetDefault("Preprocessing Light Lowerbound", p.LightnessLower)
	v.SetDefault("Blob to Remove Size Percentage", p.BlobMax)
	v.SetDefault("Line Background Sampling (x0, y0, x1, y1)", p.LineBgPatch[:])
	v.SetDefault("Small Corner Background Sampling (x0, y0, x1, y1)", p.CornerBgPatch[:])
	for _, k := range p.keys() {
		v.SetDefault(k.bound, k.th.Bound)
		v.SetDefault(k.delta, k.th.Delta)
	}

	if err := readOptional(v); err != nil {
		return s, p, fmt.Errorf("advanced settings %s: %w", path, err)
	}

	for _, k := range s.keys() {
		k.preset.Epsilon = v.GetFloat64(k.epsilon)
		k.preset.Scale = v.GetFloat64(k.scale)
	}
	s.FallbackMargin = v.GetFloat64("Fall-back Tolerance Margin")
	s.PlayerConfidence = v.GetInt("Player Match Confidence")
	s.EnemyConfidence = v.GetInt("Enemy Match Confidence")

	p.LightnessUpper = v.GetInt("Preprocessing Light Upperbound")
	p.LightnessLower = v.GetInt("Preprocessing Light Lowerbound")
	p.BlobMax = v.GetFloat64("Blob to Remove Size Percentage")
	copyPatch(&p.LineBgPatch, v.GetIntSlice("Line Background Sampling (x0, y0, x1, y1)"))
	copyPatch(&p.CornerBgPatch, v.GetIntSlice("Small Corner Background Sampling (x0, y0, x1, y1)"))
	for _, k := range p.keys() {
		k.th.Bound = v.GetFloat64(k.bound)
		// Stored deltas may be in full 0-255 scale; normalize to a fraction.
		delta := v.GetFloat64(k.delta)
		if delta > 1 || delta < -1 {
			delta /= 255
		}
		k.th.Delta = delta
	}
	return s, p, nil
}

// SaveAdvanced writes the full advanced settings file, defaults included,
// so users can edit every knob in place.
func SaveAdvanced(path string, s Sampling, p Preprocess) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	for _, k := range s.keys() {
		v.Set(k.epsilon, k.preset.Epsilon)
		v.Set(k.scale, k.preset.Scale)
	}
	v.Set("Fall-back Tolerance Margin", s.FallbackMargin)
	v.Set("Player Match Confidence", s.PlayerConfidence)
	v.Set("Enemy Match Confidence", s.EnemyConfidence)

	v.Set("Preprocessing Light Upperbound", p.LightnessUpper)
	v.Set("Preprocessing Light Lowerbound", p.LightnessLower)
	v.Set("Blob to Remove Size Percentage", p.BlobMax)
	v.Set("Line Background Sampling (x0, y0, x1, y1)", p.LineBgPatch[:])
	v.Set("Small Corner Background Sampling (x0, y0, x1, y1)", p.CornerBgPatch[:])
	for _, k := range p.keys() {
		v.Set(k.bound, k.th.Bound)
		v.Set(k.delta, k.th.Delta)
	}
	return v.WriteConfigAs(path)
}

// readOptional pulls in the config file when present, treating a missing
// file as defaults-only.
func readOptional(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func copyPatch(dst *[4]int, src []int) {
	if len(src) != 4 {
		return
	}
	copy(dst[:], src)
}
