// Package roster reconciles recognized player identities into war slots
// and tracks enemy ranks across a session's screenshots.
package roster

// MaxWarPlayers bounds the war size; usable ranks are 1..MaxWarPlayers-1
// for players and 1..MaxWarPlayers for enemies.
const MaxWarPlayers = 50

// Score glyphs, strongest first. A score string is three glyphs, one per
// star slot, ordered old, new, empty.
const (
	OldStar = "★"
	NewStar = "☆"
	NoStar  = "_"
)

// Markers for a sub-row with no attack in it.
const (
	NoAttackName  = "No attack"
	NoAttackScore = "___"
)

// AttackRecord is one attack sub-row as read from a screenshot.
type AttackRecord struct {
	EnemyRank int    // 1-based map position; 0 when unreadable
	Target    string // enemy name, or NoAttackName
	Score     string // three star glyphs, or NoAttackScore
}

// NoAttack returns the record for an empty attack sub-row.
func NoAttack() AttackRecord {
	return AttackRecord{Target: NoAttackName, Score: NoAttackScore}
}

// Missing reports whether the sub-row held no attack. Missing records are
// not identity-bearing: they take no part in enemy reconciliation or
// scoring.
func (a AttackRecord) Missing() bool {
	return a.Target == NoAttackName
}

// PlayerRecord is one assembled roster row: a clan member and their two
// attack sub-rows.
type PlayerRecord struct {
	Rank    int // 1-based war rank; 0 when unreadable
	Name    string
	Attacks []AttackRecord
}
