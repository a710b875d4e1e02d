package ocr

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/Brmanzo/clash-star-tracker/internal/config"
	"github.com/Brmanzo/clash-star-tracker/internal/imgutil"
)

// CleanGlyphs binarizes a text crop for recognition: font ink ends up
// black, outline and background white. The background lightness is sampled
// from a small patch and picks the binarization offset, so the pass copes
// with the alternating row shades and the highlighted own-row green.
func CleanGlyphs(img gocv.Mat, pre config.Preprocess, line bool) (gocv.Mat, error) {
	w, h := img.Cols(), img.Rows()
	if w == 0 || h == 0 {
		return gocv.Mat{}, errors.New("empty crop")
	}

	// Dark font outline: every BGR channel inside the configured band.
	lo := float64(pre.LightnessLower)
	hi := float64(pre.LightnessUpper)
	outline := gocv.NewMat()
	defer outline.Close()
	gocv.InRangeWithScalar(img,
		gocv.NewScalar(lo, lo, lo, 0),
		gocv.NewScalar(hi, hi, hi, 0),
		&outline)

	light, err := imgutil.Lightness(img)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("clean glyphs: %w", err)
	}

	patch := pre.LineBgPatch
	if !line {
		patch = pre.CornerBgPatch
	}
	bg := light.Crop(patch[0], patch[1], patch[2], patch[3]).Mean()

	// Thresholds are in ascending bound order; the last band the sampled
	// background reaches supplies the offset.
	delta := pre.Thresholds[0].Delta
	for _, t := range pre.Thresholds {
		if bg >= t.Bound {
			delta = t.Delta
		}
	}
	th := bg + delta

	// Barrier: outline plus everything at or below the background
	// threshold. Bright pixels reachable from the corner are flooded to
	// background, so only enclosed bright interiors survive as ink.
	ob := outline.ToBytes()
	g := &mask{pix: make([]byte, w*h), w: w, h: h}
	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if ob[i] != 0 || light.At(x, y) <= th {
				g.pix[i] = 255
			}
			i++
		}
	}
	g.flood(0, 0, 255)

	g.pruneBlobs(int(pre.BlobMax * float64(w*h)))
	g.wipeBorder(3)

	out, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8U, g.pix)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("clean glyphs: %w", err)
	}
	return out, nil
}

// mask is a binary glyph image: 0 ink, 255 background.
type mask struct {
	pix  []byte
	w, h int
}

// flood replaces the 4-connected run of pixels matching the seed's value
// with repl, starting at (x, y). A seed already equal to repl is a no-op.
func (m *mask) flood(x, y int, repl byte) {
	target := m.pix[y*m.w+x]
	if target == repl {
		return
	}
	m.pix[y*m.w+x] = repl
	queue := []image.Point{{X: x, Y: y}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range [4]image.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := cur.X+d.X, cur.Y+d.Y
			if nx < 0 || ny < 0 || nx >= m.w || ny >= m.h {
				continue
			}
			if m.pix[ny*m.w+nx] != target {
				continue
			}
			m.pix[ny*m.w+nx] = repl
			queue = append(queue, image.Point{X: nx, Y: ny})
		}
	}
}

// pruneBlobs erases 8-connected ink components larger than maxArea,
// dropping artifacts like row borders that survived the barrier pass.
func (m *mask) pruneBlobs(maxArea int) {
	visited := make([]bool, len(m.pix))
	for start := range m.pix {
		if m.pix[start] != 0 || visited[start] {
			continue
		}
		component := []int{start}
		visited[start] = true
		for qi := 0; qi < len(component); qi++ {
			cur := component[qi]
			cx, cy := cur%m.w, cur/m.w
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := cx+dx, cy+dy
					if nx < 0 || ny < 0 || nx >= m.w || ny >= m.h {
						continue
					}
					n := ny*m.w + nx
					if visited[n] || m.pix[n] != 0 {
						continue
					}
					visited[n] = true
					component = append(component, n)
				}
			}
		}
		if len(component) > maxArea {
			for _, p := range component {
				m.pix[p] = 255
			}
		}
	}
}

// wipeBorder floods away every ink component touching the outer margin
// pixels, clearing glyph fragments clipped by the crop.
func (m *mask) wipeBorder(margin int) {
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			if x >= margin && x < m.w-margin && y >= margin && y < m.h-margin {
				continue
			}
			if m.pix[y*m.w+x] == 0 {
				m.flood(x, y, 255)
			}
		}
	}
}
