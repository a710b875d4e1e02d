package profile

import (
	"math"
	"testing"

	"github.com/Brmanzo/clash-star-tracker/internal/imgutil"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestReduce(t *testing.T) {
	r := imgutil.FromRows([][]float64{
		{0, 1, 1},
		{1, 0, 1},
	})

	tests := []struct {
		name string
		axis Axis
		stat Stat
		want []float64
	}{
		{"cols mean", ByCols, Mean, []float64{0.5, 0.5, 1}},
		{"cols min", ByCols, Min, []float64{0, 0, 1}},
		{"cols max", ByCols, Max, []float64{1, 1, 1}},
		{"rows mean", ByRows, Mean, []float64{2.0 / 3, 2.0 / 3}},
		{"rows min", ByRows, Min, []float64{0, 0}},
		{"rows max", ByRows, Max, []float64{1, 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Reduce(r, tc.axis, tc.stat)
			if len(got) != len(tc.want) {
				t.Fatalf("length %d, want %d", len(got), len(tc.want))
			}
			for i := range got {
				if !almostEqual(got[i], tc.want[i]) {
					t.Errorf("[%d] = %v, want %v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestDiff(t *testing.T) {
	d := Diff([]float64{0.1, 0.4, 0.2})
	if len(d) != 2 || !almostEqual(d[0], 0.3) || !almostEqual(d[1], -0.2) {
		t.Errorf("Diff = %v, want [0.3 -0.2]", d)
	}
	if Diff([]float64{1}) != nil {
		t.Error("Diff of single entry should be nil")
	}
}

// near allows for the byte quantization FromRows introduces.
func near(a, b float64) bool { return math.Abs(a-b) < 0.005 }

func TestSampleRepresentativeExtreme(t *testing.T) {
	// One row per profile entry so the rows-mean profile is the row itself.
	grid := func(vals ...float64) imgutil.Region {
		rows := make([][]float64, len(vals))
		for i, v := range vals {
			rows[i] = []float64{v}
		}
		return imgutil.FromRows(rows)
	}
	opts := func(tol float64) SampleOpts {
		return SampleOpts{Axis: ByRows, Stat: Mean, Pick: PickMax, Tolerance: tol}
	}

	t.Run("floor of top band", func(t *testing.T) {
		got := Sample(grid(0.2, 0.5, 0.48), opts(0.05))
		if !near(got, 0.48) {
			t.Errorf("got %v, want 0.48", got)
		}
	})

	t.Run("lone extreme returned as-is", func(t *testing.T) {
		got := Sample(grid(0.1, 0.4, 1.0), opts(0.05))
		if !near(got, 1.0) {
			t.Errorf("got %v, want 1.0", got)
		}
	})

	t.Run("band does not chain below tolerance", func(t *testing.T) {
		// 0.8 is within 0.2 of the max, 0.5 is not, even though 0.5 is
		// within 0.2 of 0.8.
		got := Sample(grid(0.5, 0.8, 1.0), opts(0.2))
		if !near(got, 0.8) {
			t.Errorf("got %v, want 0.8", got)
		}
	})
}

func TestSampleMeanAndRelative(t *testing.T) {
	r := imgutil.FromRows([][]float64{
		{0.2}, {0.2}, {0.8}, {0.8},
	})
	got := Sample(r, SampleOpts{Axis: ByRows, Stat: Mean, Pick: PickMean})
	if !near(got, 0.5) {
		t.Errorf("mean pick = %v, want 0.5", got)
	}

	// Jump profile |diff| = [0, 0.6, 0]; the dominant jump is the sample.
	got = Sample(r, SampleOpts{Axis: ByRows, Stat: Mean, Relative: true, Pick: PickMax, Tolerance: 0.01})
	if !near(got, 0.6) {
		t.Errorf("relative pick = %v, want 0.6", got)
	}
}

func TestSampleBaselineExclusion(t *testing.T) {
	// Column minimums: two true-black gaps at the global floor; excluding
	// the baseline exposes the local floor band.
	r := imgutil.FromRows([][]float64{
		{0.0, 0.4, 0.0, 0.52, 0.48},
	})
	got := Sample(r, SampleOpts{
		Axis: ByCols, Stat: Min, Pick: PickMax,
		Tolerance: 0.05, ExcludeBaseline: true, Baseline: 0,
	})
	if !near(got, 0.48) {
		t.Errorf("got %v, want 0.48", got)
	}

	// Everything excluded: sample reports failure as 0.
	got = Sample(r, SampleOpts{
		Axis: ByCols, Stat: Min, Pick: PickMax,
		Tolerance: 1.0, ExcludeBaseline: true, Baseline: 0.5,
	})
	if got != 0 {
		t.Errorf("got %v, want 0", got)
	}
}
