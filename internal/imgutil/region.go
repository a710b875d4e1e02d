// Package imgutil loads war screenshots and exposes their lightness as
// cheap rectangular views for the segmentation pipeline.
package imgutil

import "image"

// Region is a read-only view over an 8-bit lightness grid. Crops share the
// backing buffer; only FlipH copies.
type Region struct {
	pix    []byte
	stride int
	x, y   int // origin within the backing grid
	w, h   int
}

// FromBytes wraps a row-major single-channel buffer. The buffer is not
// copied; callers must not mutate it afterwards.
func FromBytes(pix []byte, w, h int) Region {
	return Region{pix: pix, stride: w, w: w, h: h}
}

// FromRows builds a Region from lightness values in [0, 1], one slice per
// row. Rows must all have the same length.
func FromRows(rows [][]float64) Region {
	if len(rows) == 0 {
		return Region{}
	}
	h, w := len(rows), len(rows[0])
	pix := make([]byte, w*h)
	for y, row := range rows {
		for x, v := range row {
			if v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			pix[y*w+x] = byte(v*255 + 0.5)
		}
	}
	return FromBytes(pix, w, h)
}

// W returns the view width in pixels.
func (r Region) W() int { return r.w }

// H returns the view height in pixels.
func (r Region) H() int { return r.h }

// Empty reports whether the view contains no pixels.
func (r Region) Empty() bool { return r.w <= 0 || r.h <= 0 }

// Bounds returns the view rectangle in backing-grid coordinates.
func (r Region) Bounds() image.Rectangle {
	return image.Rect(r.x, r.y, r.x+r.w, r.y+r.h)
}

// At returns the lightness at (x, y) scaled to [0, 1].
func (r Region) At(x, y int) float64 {
	return float64(r.pix[(r.y+y)*r.stride+r.x+x]) / 255
}

// Mean returns the mean lightness of the view in [0, 1], or 0 for an
// empty view.
func (r Region) Mean() float64 {
	if r.Empty() {
		return 0
	}
	sum := 0
	for y := 0; y < r.h; y++ {
		row := r.pix[(r.y+y)*r.stride+r.x:]
		for x := 0; x < r.w; x++ {
			sum += int(row[x])
		}
	}
	return float64(sum) / float64(r.w*r.h) / 255
}

// Crop returns the sub-view [x0, x1) x [y0, y1). Bounds are clamped to the
// view, so out-of-range requests yield a smaller (possibly empty) view
// rather than a panic, matching slice-style cropping.
func (r Region) Crop(x0, y0, x1, y1 int) Region {
	x0 = clamp(x0, 0, r.w)
	x1 = clamp(x1, x0, r.w)
	y0 = clamp(y0, 0, r.h)
	y1 = clamp(y1, y0, r.h)
	return Region{
		pix:    r.pix,
		stride: r.stride,
		x:      r.x + x0,
		y:      r.y + y0,
		w:      x1 - x0,
		h:      y1 - y0,
	}
}

// CropX returns the column slice [x0, x1) over the full height.
func (r Region) CropX(x0, x1 int) Region { return r.Crop(x0, 0, x1, r.h) }

// CropY returns the row slice [y0, y1) over the full width.
func (r Region) CropY(y0, y1 int) Region { return r.Crop(0, y0, r.w, y1) }

// CropRect crops to the given rectangle in view coordinates.
func (r Region) CropRect(rect image.Rectangle) Region {
	return r.Crop(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y)
}

// FlipH returns a horizontally mirrored copy of the view.
func (r Region) FlipH() Region {
	pix := make([]byte, r.w*r.h)
	for y := 0; y < r.h; y++ {
		src := r.pix[(r.y+y)*r.stride+r.x:]
		dst := pix[y*r.w:]
		for x := 0; x < r.w; x++ {
			dst[x] = src[r.w-1-x]
		}
	}
	return FromBytes(pix, r.w, r.h)
}

// SplitRows divides the view into n horizontal parts. When the height does
// not divide evenly the first h%n parts are one row taller, so the parts
// always cover the view exactly.
func (r Region) SplitRows(n int) []Region {
	parts := make([]Region, 0, n)
	base, extra := r.h/n, r.h%n
	y := 0
	for i := 0; i < n; i++ {
		hh := base
		if i < extra {
			hh++
		}
		parts = append(parts, r.CropY(y, y+hh))
		y += hh
	}
	return parts
}

// SplitCols divides the view into n vertical parts, first w%n parts one
// column wider.
func (r Region) SplitCols(n int) []Region {
	parts := make([]Region, 0, n)
	base, extra := r.w/n, r.w%n
	x := 0
	for i := 0; i < n; i++ {
		ww := base
		if i < extra {
			ww++
		}
		parts = append(parts, r.CropX(x, x+ww))
		x += ww
	}
	return parts
}

// Gray converts the view to an image.Gray copy, for rendering.
func (r Region) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, r.w, r.h))
	for y := 0; y < r.h; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+r.w], r.pix[(r.y+y)*r.stride+r.x:])
	}
	return img
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
