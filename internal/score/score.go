// Package score applies the war game rules to reconciled player records.
package score

import (
	"strings"

	"github.com/Brmanzo/clash-star-tracker/internal/roster"
)

// NegateEarnedStars is the sentinel a penalty field may hold instead of a
// point value: the attack's earned stars are subtracted back out.
const NegateEarnedStars = "Negate earned stars"

// Penalty is one rule's consequence, either a flat point delta or the
// negate sentinel.
type Penalty struct {
	Negate bool
	Points int
}

func (p Penalty) apply(stars int) int {
	if p.Negate {
		return -stars
	}
	return p.Points
}

// Rules holds the thresholds and consequences read from gamerules.json.
// Gaps are player rank minus enemy rank, so dropping to a weaker target
// is negative.
type Rules struct {
	IncompleteClean    Penalty // dropped and left stars on the table
	IncompleteCleanGap int
	Stealing           Penalty // dropped far and earned nothing new
	StealingGap        int
	JumpBonus          int // hit upward and earned a new star
	JumpGap            int
}

// DefaultRules returns the shipped rule set.
func DefaultRules() Rules {
	return Rules{
		IncompleteClean:    Penalty{Points: -1},
		IncompleteCleanGap: -5,
		Stealing:           Penalty{Negate: true},
		StealingGap:        -10,
		JumpBonus:          1,
		JumpGap:            5,
	}
}

// Total computes a player's war score. Each attack with a known enemy rank
// and a readable score string earns one point per star glyph, then the
// rank-gap rules adjust. Attacks missing either field contribute nothing.
func Total(rec *roster.PlayerRecord, r Rules) int {
	if rec == nil || rec.Rank == 0 || len(rec.Attacks) == 0 {
		return 0
	}
	total := 0
	for _, a := range rec.Attacks {
		if a.Missing() || a.EnemyRank == 0 || a.Score == "" {
			continue
		}
		stars := strings.Count(a.Score, roster.OldStar) + strings.Count(a.Score, roster.NewStar)
		total += stars

		gap := rec.Rank - a.EnemyRank
		if gap <= r.IncompleteCleanGap && strings.Contains(a.Score, roster.NoStar) {
			total += r.IncompleteClean.apply(stars)
		}
		if gap <= r.StealingGap && !strings.Contains(a.Score, roster.NewStar) {
			total += r.Stealing.apply(stars)
		}
		if gap >= r.JumpGap && strings.Contains(a.Score, roster.NewStar) {
			total += r.JumpBonus
		}
	}
	return total
}
