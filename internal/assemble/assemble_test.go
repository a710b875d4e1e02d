package assemble

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Brmanzo/clash-star-tracker/internal/config"
	"github.com/Brmanzo/clash-star-tracker/internal/imgutil"
	"github.com/Brmanzo/clash-star-tracker/internal/roster"
)

func testAssembler() *Assembler {
	return &Assembler{Presets: config.DefaultSampling(), Log: zerolog.Nop()}
}

func grid(w, h int, v float64) [][]float64 {
	rows := make([][]float64, h)
	for y := range rows {
		rows[y] = make([]float64, w)
		for x := range rows[y] {
			rows[y][x] = v
		}
	}
	return rows
}

func fill(rows [][]float64, x0, y0, x1, y1 int, v float64) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			rows[y][x] = v
		}
	}
}

// starCell draws one star into the 30px cell at x0: a dark outline on both
// flanks and a fill whose brightness decides old versus new.
func starCell(rows [][]float64, x0 int, body float64) {
	fill(rows, x0+6, 20, x0+8, 40, 0)
	fill(rows, x0+8, 20, x0+22, 40, body)
	fill(rows, x0+22, 20, x0+24, 40, 0)
}

func TestScore(t *testing.T) {
	a := testAssembler()

	t.Run("old new empty", func(t *testing.T) {
		rows := grid(90, 60, 0.4)
		starCell(rows, 0, 0.7)  // silver fill: earned on a previous attack
		starCell(rows, 30, 1.0) // white fill: earned now
		got, err := a.Score(imgutil.FromRows(rows))
		if err != nil {
			t.Fatalf("Score: %v", err)
		}
		want := roster.OldStar + roster.NewStar + roster.NoStar
		if got != want {
			t.Errorf("Score = %q, want %q", got, want)
		}
	})

	t.Run("no stars at all", func(t *testing.T) {
		got, err := a.Score(imgutil.FromRows(grid(90, 60, 0.4)))
		if err != nil {
			t.Fatalf("Score: %v", err)
		}
		if got != roster.NoAttackScore {
			t.Errorf("Score = %q, want %q", got, roster.NoAttackScore)
		}
	})

	t.Run("out of order is fatal", func(t *testing.T) {
		rows := grid(90, 60, 0.4)
		starCell(rows, 0, 1.0) // new star left of an old one cannot happen
		starCell(rows, 30, 0.7)
		_, err := a.Score(imgutil.FromRows(rows))
		if !errors.Is(err, ErrScoreOrder) {
			t.Fatalf("Score err = %v, want ErrScoreOrder", err)
		}
	})
}

func TestValidateScore(t *testing.T) {
	cases := []struct {
		score string
		ok    bool
	}{
		{"★★★", true},
		{"★★☆", true},
		{"★☆_", true},
		{"☆☆☆", true},
		{"★__", true},
		{"___", true},
		{"☆★_", false},
		{"_★★", false},
		{"★_☆", false},
		{"_☆☆", false},
		{"★_★", false},
	}
	for _, tc := range cases {
		err := ValidateScore(tc.score)
		if (err == nil) != tc.ok {
			t.Errorf("ValidateScore(%q) = %v, want ok=%v", tc.score, err, tc.ok)
		}
		if err != nil && !errors.Is(err, ErrScoreOrder) {
			t.Errorf("ValidateScore(%q) = %v, want ErrScoreOrder", tc.score, err)
		}
	}
}
