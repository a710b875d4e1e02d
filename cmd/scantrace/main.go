// Command scantrace runs the segmentation stages on one war screenshot
// and renders an oscilloscope dump per stage.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Brmanzo/clash-star-tracker/internal/config"
	"github.com/Brmanzo/clash-star-tracker/internal/imgutil"
	"github.com/Brmanzo/clash-star-tracker/internal/measure"
	"github.com/Brmanzo/clash-star-tracker/internal/oscillo"
	"github.com/Brmanzo/clash-star-tracker/internal/profile"
	"github.com/Brmanzo/clash-star-tracker/internal/segment"

	"github.com/rs/zerolog"
)

func main() {
	imagePath := flag.String("image", "", "Path to a war screenshot (PNG or JPEG)")
	outDir := flag.String("out", "Debug", "Directory for oscilloscope dumps")
	measurePath := flag.String("measurements", "", "Optional measurements.json for fallback checks")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: scantrace -image <path> [-out Debug] [-measurements file]")
		os.Exit(1)
	}

	cw := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	log := zerolog.New(cw).With().Timestamp().Logger()

	render, err := oscillo.New(*outDir, log)
	if err != nil {
		fail("debug dir: %v", err)
	}

	presets := config.DefaultSampling()
	store, err := measure.Load(*measurePath, presets.FallbackMargin)
	if err != nil {
		fail("measurements: %v", err)
	}

	src, err := imgutil.ReadImage(*imagePath)
	if err != nil {
		fail("load image: %v", err)
	}
	defer src.Close()

	srcL, err := imgutil.Lightness(src)
	if err != nil {
		fail("lightness: %v", err)
	}
	fmt.Printf("Loaded %s: %dx%d pixels\n", filepath.Base(*imagePath), srcL.W(), srcL.H())

	pipe := &segment.Pipeline{
		Presets: presets,
		Store:   store,
		Log:     log,
		Debug:   render.Hook(),
	}
	name := stem(*imagePath)
	ctx := segment.NewContext(name, 1)

	layout, err := pipe.Menu(ctx, srcL)
	if err != nil {
		fail("menu: %v", err)
	}
	m := layout.Menu
	fmt.Printf("\nMenu: x %d-%d, y %d-%d (headers end at menu y %d)\n",
		m.Min.X, m.Max.X, m.Min.Y, m.Max.Y, layout.HeaderEnd)
	fmt.Printf("Attack lines: %v\n", layout.AttackLines())

	dump(render, srcL, profile.ByCols, []int{m.Min.X, m.Max.X}, name+"_1_menuCols")
	dump(render, srcL, profile.ByRows, []int{m.Min.Y, m.Max.Y}, name+"_1_menuRows")

	linesL := srcL.CropRect(layout.AttackLines())

	cols, err := pipe.Columns(ctx, linesL)
	if err != nil {
		fail("columns: %v", err)
	}
	fmt.Printf("\n%-12s %8s %8s %8s\n", "Column", "Begin", "End", "Width")
	for _, c := range []struct {
		name string
		col  segment.Column
	}{
		{"rank", cols.Rank},
		{"level", cols.Level},
		{"player", cols.Player},
		{"enemy", cols.Enemy},
		{"percentage", cols.Percentage},
		{"stars", cols.Stars},
	} {
		fmt.Printf("%-12s %8d %8d %8d\n", c.name, c.col.Begin, c.col.End, c.col.Width())
	}
	colCuts := []int{
		cols.Rank.Begin, cols.Rank.End, cols.Level.End, cols.Player.End,
		cols.Enemy.End, cols.Percentage.End, cols.Stars.End,
	}
	dump(render, linesL, profile.ByCols, colCuts, name+"_1_attackCols")

	bands, err := pipe.Bands(ctx, linesL)
	if err != nil {
		fail("bands: %v", err)
	}
	fmt.Printf("\n%d row bands:\n", len(bands))
	rowCuts := make([]int, 0, len(bands)+1)
	for i, b := range bands {
		fmt.Printf("  band %2d: y %4d-%4d (height %d)\n", i+1, b.Top, b.Bottom, b.Height())
		rowCuts = append(rowCuts, b.Top)
		if i == len(bands)-1 {
			rowCuts = append(rowCuts, b.Bottom)
		}
	}
	dump(render, linesL, profile.ByRows, rowCuts, name+"_1_attackRows")

	fmt.Printf("\nDumps written to %s\n", *outDir)
}

// dump renders one stage profile with its cut markers, plus the lightness
// strip the profile was reduced from.
func dump(r *oscillo.Renderer, region imgutil.Region, axis profile.Axis, cuts []int, name string) {
	prof := profile.Reduce(region, axis, profile.Mean)
	if err := r.Chart(prof, cuts, name); err != nil {
		fmt.Fprintf(os.Stderr, "chart %s: %v\n", name, err)
	}
	if err := r.Strip(region, name+"_strip"); err != nil {
		fmt.Fprintf(os.Stderr, "strip %s: %v\n", name, err)
	}
}

func stem(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(base, " ", "_")
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
