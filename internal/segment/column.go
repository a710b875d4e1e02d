package segment

import (
	"fmt"

	"github.com/Brmanzo/clash-star-tracker/internal/measure"
)

// Column is a half-open [Begin, End) span of attack-lines x coordinates.
type Column struct {
	Begin int
	End   int
}

// Width returns the column width in pixels.
func (c Column) Width() int { return c.End - c.Begin }

// Context carries one screenshot's segmentation state: the column-tiling
// cursor, the band iterator, and the cuts staged for the fallback store.
// Contexts are single-use; allocate a fresh one per image.
type Context struct {
	Image   string // base name, used in debug artifact names
	FileNum int

	cursor int // x where the next column begins

	absPos      int // band iterator, in attack-lines y
	lineTop     int
	lineBottom  int
	nextLineTop int

	measured map[measure.Field]measure.Record
}

// NewContext returns a zeroed context for one screenshot.
func NewContext(image string, fileNum int) *Context {
	return &Context{
		Image:    image,
		FileNum:  fileNum,
		measured: make(map[measure.Field]measure.Record),
	}
}

// NewColumn lays the next column at the cursor: Begin = cursor + offset,
// End = Begin + width. The cursor advances to End, so consecutive columns
// with zero offset tile the image without gaps.
func (c *Context) NewColumn(width, offset int) Column {
	begin := c.cursor + offset
	col := Column{Begin: begin, End: begin + width}
	c.cursor = col.End
	return col
}

// Nudge widens col in place and advances the cursor by the same delta, so
// the next column still begins at this one's end.
func (c *Context) Nudge(col *Column, delta int) {
	col.End += delta
	c.cursor += delta
}

// Measurements returns the cuts recorded while segmenting this image,
// keyed for the fallback store. Callers fold them into the store only
// after the whole image succeeds.
func (c *Context) Measurements() map[measure.Field]measure.Record {
	return c.measured
}

func (c *Context) record(f measure.Field, cut int, fraction float64) {
	c.measured[f] = measure.Record{Cut: cut, Fraction: fraction}
}

func (c *Context) debugName(f measure.Field) string {
	return fmt.Sprintf("%s_%d_%s_error", c.Image, c.FileNum, f)
}
