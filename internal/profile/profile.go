// Package profile reduces lightness regions to 1-D intensity profiles and
// implements the sampling and boundary scanning the segmentation pipeline
// is built on. All lightness values are in [0, 1].
package profile

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/Brmanzo/clash-star-tracker/internal/imgutil"
)

// Axis selects the direction a region is reduced along.
type Axis int

const (
	// ByCols produces one value per column (profile length = width).
	ByCols Axis = iota
	// ByRows produces one value per row (profile length = height).
	ByRows
)

// Stat selects the per-line statistic used during reduction.
type Stat int

const (
	Mean Stat = iota
	Min
	Max
)

// Reduce collapses each column (ByCols) or row (ByRows) of r to a single
// statistic.
func Reduce(r imgutil.Region, axis Axis, s Stat) []float64 {
	if r.Empty() {
		return nil
	}
	var n, span int
	if axis == ByCols {
		n, span = r.W(), r.H()
	} else {
		n, span = r.H(), r.W()
	}

	p := make([]float64, n)
	for i := 0; i < n; i++ {
		var acc float64
		switch s {
		case Min:
			acc = math.Inf(1)
		case Max:
			acc = math.Inf(-1)
		}
		for j := 0; j < span; j++ {
			var v float64
			if axis == ByCols {
				v = r.At(i, j)
			} else {
				v = r.At(j, i)
			}
			switch s {
			case Mean:
				acc += v
			case Min:
				if v < acc {
					acc = v
				}
			case Max:
				if v > acc {
					acc = v
				}
			}
		}
		if s == Mean {
			acc /= float64(span)
		}
		p[i] = acc
	}
	return p
}

// Diff returns the signed first difference of p: d[i] = p[i+1] - p[i].
func Diff(p []float64) []float64 {
	if len(p) < 2 {
		return nil
	}
	d := make([]float64, len(p)-1)
	for i := range d {
		d[i] = p[i+1] - p[i]
	}
	return d
}

// Pick selects how a profile is condensed to a single sample.
type Pick int

const (
	// PickMax takes the representative extreme: the smallest profile value
	// within Tolerance of the true maximum, i.e. the floor of the top
	// cluster rather than its single highest spike.
	PickMax Pick = iota
	// PickMean takes the plain mean of the profile.
	PickMean
)

// SampleOpts configures a threshold sample over a region.
type SampleOpts struct {
	Axis     Axis
	Stat     Stat
	Relative bool // sample the |first difference| jump profile instead
	Pick     Pick

	// Tolerance bounds both the outlier chain of PickMax and the baseline
	// exclusion band.
	Tolerance float64

	// When ExcludeBaseline is set, entries within Tolerance of Baseline are
	// dropped before picking, so a known global extreme does not mask the
	// local one.
	ExcludeBaseline bool
	Baseline        float64
}

// Sample reduces r along the requested axis and condenses the profile to a
// single adaptive threshold value. Returns 0 when nothing remains to
// sample, which callers treat as a detection failure.
func Sample(r imgutil.Region, o SampleOpts) float64 {
	p := Reduce(r, o.Axis, o.Stat)
	if o.Relative {
		d := Diff(p)
		for i, v := range d {
			d[i] = math.Abs(v)
		}
		p = d
	}
	if o.ExcludeBaseline {
		kept := p[:0]
		for _, v := range p {
			if math.Abs(v-o.Baseline) > o.Tolerance {
				kept = append(kept, v)
			}
		}
		p = kept
	}
	if len(p) == 0 {
		return 0
	}
	if o.Pick == PickMean {
		return stat.Mean(p, nil)
	}

	top := floats.Max(p)
	floor := top
	for _, v := range p {
		if v >= top-o.Tolerance && v < floor {
			floor = v
		}
	}
	return floor
}
