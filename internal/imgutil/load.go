package imgutil

import (
	"fmt"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"
)

// Extensions accepted when scanning a directory for war screenshots.
var Extensions = []string{".png", ".jpg", ".jpeg"}

// HasImageExt reports whether path carries one of the accepted extensions.
func HasImageExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ReadImage decodes a screenshot into a BGR matrix.
func ReadImage(path string) (gocv.Mat, error) {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		img.Close()
		return gocv.Mat{}, fmt.Errorf("read image %s: empty or undecodable", path)
	}
	return img, nil
}

// Lightness extracts the HLS lightness channel of a BGR image as a Region.
// The channel bytes are copied, so the source matrix may be closed after.
func Lightness(img gocv.Mat) (Region, error) {
	hls := gocv.NewMat()
	defer hls.Close()
	gocv.CvtColor(img, &hls, gocv.ColorBGRToHLS)

	chans := gocv.Split(hls)
	defer func() {
		for i := range chans {
			chans[i].Close()
		}
	}()
	if len(chans) < 2 {
		return Region{}, fmt.Errorf("lightness: expected 3 HLS channels, got %d", len(chans))
	}

	l := chans[1]
	return FromBytes(l.ToBytes(), l.Cols(), l.Rows()), nil
}

// FromGray wraps a single-channel matrix (for example a preprocessed glyph
// mask) as a Region. The bytes are copied.
func FromGray(m gocv.Mat) Region {
	return FromBytes(m.ToBytes(), m.Cols(), m.Rows())
}
