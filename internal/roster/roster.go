package roster

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrRosterFull is returned when no free slot remains for a player or
// enemy that must be placed.
var ErrRosterFull = errors.New("no free roster slot")

// Roster holds the reconciled war state: player slots by rank, enemy names
// by rank, and the identity sets that keep repeated screenshots from
// double-counting anyone.
type Roster struct {
	players [MaxWarPlayers]*PlayerRecord
	enemies [MaxWarPlayers + 1]string

	playersSeen map[string]bool
	enemiesSeen map[string]bool
	enemyRanks  map[string]int // canonical rank per enemy, first writer wins

	aliases     *AliasMap
	usedAliases map[string]map[string]bool // family -> aliases consumed

	log zerolog.Logger
}

// New returns an empty roster bound to an alias map.
func New(aliases *AliasMap, log zerolog.Logger) *Roster {
	if aliases == nil {
		aliases = NewAliasMap()
	}
	return &Roster{
		playersSeen: make(map[string]bool),
		enemiesSeen: make(map[string]bool),
		enemyRanks:  make(map[string]int),
		aliases:     aliases,
		usedAliases: make(map[string]map[string]bool),
		log:         log,
	}
}

// Reconcile folds one assembled record into the roster: alias resolution,
// slot assignment, then enemy rank bookkeeping for each attack. A record
// whose name was already reconciled this session is dropped, as is a
// multi-account record whose alias pool is exhausted.
func (r *Roster) Reconcile(rec *PlayerRecord) error {
	if rec == nil || rec.Name == "" {
		return nil
	}

	// Aliases resolve before the seen check: two rows reading the same
	// multi-account name are distinct accounts, not a duplicate.
	if family, ok := r.aliases.Family(rec.Name); ok {
		name, ok := r.resolveAlias(rec, family)
		if !ok {
			r.log.Info().Str("name", rec.Name).Str("family", family).
				Msg("[roster] alias pool exhausted, dropping record")
			return nil
		}
		rec.Name = name
	}
	if r.playersSeen[rec.Name] {
		return nil
	}

	if err := r.place(rec); err != nil {
		return err
	}

	for i := range rec.Attacks {
		if err := r.reconcileAttack(rec, &rec.Attacks[i]); err != nil {
			return err
		}
	}
	return nil
}

// resolveAlias maps a multi-account name onto the alias actually playing
// this war. When the record's rank slot is already held by a member of the
// same family, that occupant is the same physical row re-read; otherwise
// the family's next unused alias is taken.
func (r *Roster) resolveAlias(rec *PlayerRecord, family string) (string, bool) {
	if rec.Rank > 0 && rec.Rank < MaxWarPlayers && r.players[rec.Rank] != nil {
		occupant := r.players[rec.Rank].Name
		if of, ok := r.aliases.Family(occupant); ok && of == family {
			return occupant, true
		}
	}

	used := r.usedAliases[family]
	if used == nil {
		used = make(map[string]bool)
		r.usedAliases[family] = used
	}
	for _, alias := range r.aliases.Aliases(family) {
		if !used[alias] && !r.playersSeen[alias] {
			used[alias] = true
			if alias != rec.Name {
				r.log.Info().Str("read", rec.Name).Str("alias", alias).
					Msg("[roster] multi-account resolved")
			}
			return alias, true
		}
	}
	return "", false
}

// place assigns the record a slot: its own rank when free and in range,
// otherwise the lowest free slot.
func (r *Roster) place(rec *PlayerRecord) error {
	rank := rec.Rank
	if rank < 1 || rank >= MaxWarPlayers || r.players[rank] != nil {
		free := 0
		for j := 1; j < MaxWarPlayers; j++ {
			if r.players[j] == nil {
				free = j
				break
			}
		}
		if free == 0 {
			return fmt.Errorf("player %s: %w", rec.Name, ErrRosterFull)
		}
		if rank != 0 {
			r.log.Info().Str("name", rec.Name).Int("read", rank).Int("slot", free).
				Msg("[roster] rank slot reassigned")
		} else {
			r.log.Info().Str("name", rec.Name).Int("slot", free).
				Msg("[roster] rank unreadable, estimated")
		}
		rank = free
	}
	rec.Rank = rank
	r.players[rank] = rec
	r.playersSeen[rec.Name] = true
	return nil
}

// reconcileAttack settles one attack's enemy rank against the canonical
// enemy map.
func (r *Roster) reconcileAttack(rec *PlayerRecord, a *AttackRecord) error {
	if a.Missing() {
		return nil
	}
	if a.EnemyRank < 1 || a.EnemyRank > MaxWarPlayers {
		a.EnemyRank = 0
	}

	if a.EnemyRank == 0 {
		if canonical, ok := r.enemyRanks[a.Target]; ok {
			a.EnemyRank = canonical
		} else {
			free := 0
			for j := 1; j <= MaxWarPlayers; j++ {
				if r.enemies[j] == "" {
					free = j
					break
				}
			}
			if free == 0 {
				return fmt.Errorf("enemy %s: %w", a.Target, ErrRosterFull)
			}
			a.EnemyRank = free
			r.log.Info().Str("player", rec.Name).Str("enemy", a.Target).Int("rank", free).
				Msg("[roster] enemy rank unreadable, estimated")
		}
	} else if canonical, ok := r.enemyRanks[a.Target]; ok && canonical != a.EnemyRank {
		a.EnemyRank = canonical
	}

	if r.enemies[a.EnemyRank] == "" {
		r.enemies[a.EnemyRank] = a.Target
	}
	if _, ok := r.enemyRanks[a.Target]; !ok {
		r.enemyRanks[a.Target] = a.EnemyRank
	}
	r.enemiesSeen[a.Target] = true
	return nil
}

// Players returns the reconciled records in rank order.
func (r *Roster) Players() []*PlayerRecord {
	var out []*PlayerRecord
	for _, p := range r.players[:] {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// EnemyName returns the enemy holding a rank, or "".
func (r *Roster) EnemyName(rank int) string {
	if rank < 1 || rank > MaxWarPlayers {
		return ""
	}
	return r.enemies[rank]
}

// EnemyRank returns the canonical rank recorded for an enemy name.
func (r *Roster) EnemyRank(name string) (int, bool) {
	rank, ok := r.enemyRanks[name]
	return rank, ok
}

// SeenPlayer reports whether a player name was reconciled this session.
func (r *Roster) SeenPlayer(name string) bool { return r.playersSeen[name] }
