// Package oscillo renders segmentation debug artifacts: the 1-D lightness
// profile a scan saw with its cut positions marked, scaled strips of the
// region the profile came from, and the crops recognition gave up on.
package oscillo

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	chart "github.com/wcharczuk/go-chart/v2"
	"gocv.io/x/gocv"
	"golang.org/x/image/draw"

	"github.com/Brmanzo/clash-star-tracker/internal/imgutil"
	"github.com/Brmanzo/clash-star-tracker/internal/segment"
)

const (
	chartWidth  = 1280
	chartHeight = 400
	stripHeight = 120
)

// Renderer writes debug PNGs into one directory.
type Renderer struct {
	Dir string
	Log zerolog.Logger
}

// New returns a renderer writing into dir, creating it if needed.
func New(dir string, log zerolog.Logger) (*Renderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("debug dir %s: %w", dir, err)
	}
	return &Renderer{Dir: dir, Log: log}, nil
}

// Hook adapts the renderer to the segmentation pipeline's debug hook.
// Render failures only warn; a broken chart must not break the run.
func (r *Renderer) Hook() segment.DebugHook {
	return func(profile []float64, cuts []int, name string) {
		if err := r.Chart(profile, cuts, name); err != nil {
			r.Log.Warn().Err(err).Str("name", name).Msg("[oscillo] chart failed")
		}
	}
}

// Chart writes a line chart of the profile with a vertical marker per cut.
func (r *Renderer) Chart(profile []float64, cuts []int, name string) error {
	if len(profile) < 2 {
		return fmt.Errorf("profile too short for %s", name)
	}
	xs := make([]float64, len(profile))
	for i := range xs {
		xs[i] = float64(i)
	}
	series := []chart.Series{chart.ContinuousSeries{
		Style:   chart.Style{StrokeColor: chart.ColorBlue},
		XValues: xs,
		YValues: profile,
	}}
	for _, cut := range cuts {
		series = append(series, cutMarker(cut))
	}

	graph := chart.Chart{
		Title:  name,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: "position"},
		YAxis: chart.YAxis{
			Name:  "lightness",
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Series: series,
	}

	f, err := os.Create(r.path(name))
	if err != nil {
		return err
	}
	defer f.Close()
	return graph.Render(chart.PNG, f)
}

// cutMarker is a dashed vertical line at x spanning the value range.
func cutMarker(x int) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		Style: chart.Style{
			StrokeColor:     chart.ColorRed,
			StrokeDashArray: []float64{5.0, 5.0},
		},
		XValues: []float64{float64(x), float64(x)},
		YValues: []float64{0, 1},
	}
}

// Strip writes the region as a grayscale strip stretched to a fixed frame,
// so thin row and column crops stay visible next to their charts.
func (r *Renderer) Strip(region imgutil.Region, name string) error {
	if region.Empty() {
		return fmt.Errorf("empty region for %s", name)
	}
	dst := image.NewGray(image.Rect(0, 0, chartWidth, stripHeight))
	src := region.Gray()
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	f, err := os.Create(r.path(name))
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, dst)
}

// SaveCrop writes a recognition crop next to the charts. It matches the
// assembler's debug hook and never fails the caller.
func (r *Renderer) SaveCrop(img gocv.Mat, name string) {
	if img.Empty() {
		return
	}
	if ok := gocv.IMWrite(r.path(name), img); !ok {
		r.Log.Warn().Str("name", name).Msg("[oscillo] crop write failed")
	}
}

func (r *Renderer) path(name string) string {
	return filepath.Join(r.Dir, name+".png")
}
