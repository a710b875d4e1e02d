package session

import (
	"strconv"
	"strings"

	"github.com/Brmanzo/clash-star-tracker/internal/roster"
	"github.com/Brmanzo/clash-star-tracker/internal/score"
)

// Tabulate renders one roster row the way the review grid shows it:
// rank, name, both attacks, then the scored total.
func Tabulate(p *roster.PlayerRecord, rules score.Rules) string {
	parts := []string{
		strconv.Itoa(p.Rank),
		flatten(p.Name),
	}
	for i := 0; i < 2; i++ {
		if i < len(p.Attacks) {
			parts = append(parts, TabulateAttack(p.Attacks[i]))
		} else {
			parts = append(parts, "No Attack, ___, 0")
		}
	}
	parts = append(parts, strconv.Itoa(score.Total(p, rules)))
	return strings.Join(parts, ", ")
}

// TabulateAttack renders one attack cell group: enemy rank, target, score.
func TabulateAttack(a roster.AttackRecord) string {
	if a.Missing() || a.EnemyRank == 0 {
		return "No Attack, ___, 0"
	}
	return strings.Join([]string{strconv.Itoa(a.EnemyRank), flatten(a.Target), a.Score}, ", ")
}

// ParseTabulated recovers the player → score map from tabulated lines,
// tolerating review edits: the second field names the player and the last
// field holds the score, whatever happened in between.
func ParseTabulated(lines []string) map[string]string {
	scores := make(map[string]string)
	for _, line := range lines {
		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			continue
		}
		name := strings.TrimSpace(parts[1])
		if name == "" {
			continue
		}
		scores[name] = strings.TrimSpace(parts[len(parts)-1])
	}
	return scores
}

func flatten(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}
