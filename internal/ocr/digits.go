package ocr

import (
	"strconv"
	"strings"
)

// digitFor maps glyphs tesseract commonly returns in place of rank digits
// to the digits they stand in for.
var digitFor = map[rune]string{
	'l': "1", 'I': "1", '|': "1", 'L': "1", 'T': "1", 'd': "1", 'i': "1",
	'O': "0", 'o': "0",
	'Z': "2", 'z': "2", 'e': "2",
	'a': "4",
	'S': "5", 's': "5",
	'B': "8",
	'g': "9",
	'W': "11",
}

// CorrectDigits coerces a rank read to an integer: mistaken glyphs are
// substituted per digitFor and everything else is dropped. ok is false
// when nothing digit-like survives.
func CorrectDigits(read string) (int, bool) {
	var b strings.Builder
	for _, r := range read {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			if d, ok := digitFor[r]; ok {
				b.WriteString(d)
			}
		}
	}
	digits := b.String()
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}
