package oscillo

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Brmanzo/clash-star-tracker/internal/imgutil"
)

var pngMagic = []byte("\x89PNG")

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(filepath.Join(t.TempDir(), "debug"), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if !bytes.HasPrefix(data, pngMagic) {
		t.Errorf("%s is not a PNG (starts %q)", path, data[:min(8, len(data))])
	}
}

func TestChart(t *testing.T) {
	r := testRenderer(t)
	profile := []float64{0.9, 0.9, 0.1, 0.1, 0.9, 0.9}
	if err := r.Chart(profile, []int{2, 4}, "war_1_rankCol_error"); err != nil {
		t.Fatalf("Chart: %v", err)
	}
	assertPNG(t, filepath.Join(r.Dir, "war_1_rankCol_error.png"))
}

func TestChartRejectsShortProfile(t *testing.T) {
	r := testRenderer(t)
	if err := r.Chart([]float64{0.5}, nil, "short"); err == nil {
		t.Fatal("want error for single-point profile")
	}
}

func TestHookSwallowsFailures(t *testing.T) {
	r := testRenderer(t)
	hook := r.Hook()
	hook([]float64{0.5}, nil, "short") // must not panic
	hook([]float64{0.2, 0.8, 0.2}, []int{1}, "war_2_menuTopMargin_error")
	assertPNG(t, filepath.Join(r.Dir, "war_2_menuTopMargin_error.png"))
}

func TestStrip(t *testing.T) {
	r := testRenderer(t)
	rows := make([][]float64, 20)
	for y := range rows {
		rows[y] = make([]float64, 300)
		for x := range rows[y] {
			rows[y][x] = float64(x%2) * 0.8
		}
	}
	if err := r.Strip(imgutil.FromRows(rows), "war_3_lineBegin_error"); err != nil {
		t.Fatalf("Strip: %v", err)
	}
	assertPNG(t, filepath.Join(r.Dir, "war_3_lineBegin_error.png"))
}

func TestStripRejectsEmpty(t *testing.T) {
	r := testRenderer(t)
	if err := r.Strip(imgutil.Region{}, "empty"); err == nil {
		t.Fatal("want error for empty region")
	}
}
