package score

import (
	"testing"

	"github.com/Brmanzo/clash-star-tracker/internal/roster"
)

func attack(rank int, glyphs string) roster.AttackRecord {
	return roster.AttackRecord{EnemyRank: rank, Target: "enemy", Score: glyphs}
}

func TestTotal(t *testing.T) {
	tests := []struct {
		name    string
		rank    int
		attacks []roster.AttackRecord
		want    int
	}{
		{
			// 3 stars upward, then a deep drop left incomplete (-1)
			// where nothing new was earned (negate the 1 star).
			name:    "deep drop penalized twice",
			rank:    10,
			attacks: []roster.AttackRecord{attack(9, "★★☆"), attack(40, "★__")},
			want:    2,
		},
		{
			name:    "new star on upward jump earns bonus",
			rank:    20,
			attacks: []roster.AttackRecord{attack(10, "★☆_")},
			want:    3,
		},
		{
			name:    "three star clean drop keeps its stars",
			rank:    5,
			attacks: []roster.AttackRecord{attack(12, "★★★")},
			want:    3,
		},
		{
			name:    "deep drop with no new star negated",
			rank:    5,
			attacks: []roster.AttackRecord{attack(15, "★★★")},
			want:    0,
		},
		{
			name:    "moderate drop incomplete loses a point",
			rank:    5,
			attacks: []roster.AttackRecord{attack(11, "★☆_")},
			want:    1,
		},
		{
			name:    "unknown enemy rank contributes nothing",
			rank:    10,
			attacks: []roster.AttackRecord{attack(0, "★★★")},
			want:    0,
		},
		{
			name:    "missing attacks contribute nothing",
			rank:    10,
			attacks: []roster.AttackRecord{roster.NoAttack(), roster.NoAttack()},
			want:    0,
		},
		{
			name:    "unknown player rank scores zero",
			rank:    0,
			attacks: []roster.AttackRecord{attack(9, "★★★")},
			want:    0,
		},
		{
			name: "no attacks scores zero",
			rank: 4,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &roster.PlayerRecord{Rank: tt.rank, Name: "p", Attacks: tt.attacks}
			if got := Total(rec, DefaultRules()); got != tt.want {
				t.Errorf("Total = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTotalNegatePenalty(t *testing.T) {
	// With the incomplete-clean penalty set to negate, a dropped
	// two-star attack contributes exactly zero.
	r := DefaultRules()
	r.IncompleteClean = Penalty{Negate: true}
	rec := &roster.PlayerRecord{
		Rank:    5,
		Name:    "p",
		Attacks: []roster.AttackRecord{attack(11, "★☆_")},
	}
	if got := Total(rec, r); got != 0 {
		t.Errorf("Total = %d, want 0", got)
	}
}
