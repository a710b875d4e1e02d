package ocr

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// CleanName normalizes a name read for matching: lowercased, with every
// run of non-alphanumeric characters collapsed to a single space.
func CleanName(read string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(read) {
		alnum := r >= 'a' && r <= 'z' || r >= '0' && r <= '9'
		if alnum {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
			continue
		}
		space = true
	}
	return b.String()
}

// Matcher fuzzy-matches OCR name reads against a list of known names.
type Matcher struct {
	Known      []string
	Confidence int // minimum score in 0..100 to accept a match

	dice *metrics.SorensenDice
}

// NewMatcher returns a matcher over known names with the given confidence
// floor.
func NewMatcher(known []string, confidence int) *Matcher {
	return &Matcher{Known: known, Confidence: confidence, dice: metrics.NewSorensenDice()}
}

// Match returns the known name most similar to read. When no candidate
// reaches the confidence floor, the trimmed raw read is returned with
// ok false so the caller can register it as a new name.
func (m *Matcher) Match(read string) (name string, score int, ok bool) {
	if m.dice == nil {
		m.dice = metrics.NewSorensenDice()
	}
	clean := CleanName(read)
	best, bestScore := "", -1
	if clean != "" {
		for _, known := range m.Known {
			s := int(strutil.Similarity(clean, CleanName(known), m.dice) * 100)
			if s > bestScore {
				best, bestScore = known, s
			}
		}
	}
	if bestScore < m.Confidence || best == "" {
		return strings.TrimSpace(read), bestScore, false
	}
	return best, bestScore, true
}
