// Package history persists war scores across sessions as a CSV table, one
// row per player and one column per war.
package history

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Table holds the score history in first-seen player order. Cells stay
// unparsed strings so hand-edited values survive a round trip; "_" marks a
// war the player sat out.
type Table struct {
	players []string
	cells   map[string][]string
}

// NewTable returns an empty history.
func NewTable() *Table {
	return &Table{cells: make(map[string][]string)}
}

// Load reads a history CSV. The header row and each row's trailing total
// column are dropped; totals are rebuilt on save. A missing file is an
// empty history.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewTable(), nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // war counts may drift across hand edits
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("history %s: %w", path, err)
	}

	t := NewTable()
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		player := strings.TrimSpace(row[0])
		var scores []string
		if len(row) > 1 {
			for _, c := range row[1 : len(row)-1] {
				scores = append(scores, strings.TrimSpace(c))
			}
		}
		if _, ok := t.cells[player]; !ok {
			t.players = append(t.players, player)
		}
		t.cells[player] = scores
	}
	return t, nil
}

// Wars reports how many war columns the table carries.
func (t *Table) Wars() int {
	if len(t.players) == 0 {
		return 0
	}
	return len(t.cells[t.players[0]])
}

// Len reports how many players the table tracks.
func (t *Table) Len() int { return len(t.players) }

// Row returns a player's war cells.
func (t *Table) Row(player string) []string { return t.cells[player] }

// Merge appends one war column: every existing player gets "_", scored
// players get their score, and players new to the table join with "_"
// backfill for the wars they missed.
func (t *Table) Merge(scores map[string]string) {
	prev := t.Wars()
	for _, p := range t.players {
		t.cells[p] = append(t.cells[p], "_")
	}

	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, raw := range names {
		player := strings.TrimSpace(raw)
		if row, ok := t.cells[player]; ok {
			row[len(row)-1] = scores[raw]
			continue
		}
		row := make([]string, prev, prev+1)
		for i := range row {
			row[i] = "_"
		}
		t.players = append(t.players, player)
		t.cells[player] = append(row, scores[raw])
	}
}

// Totals sums each row's numeric cells. Signed cells count, so a penalty
// war subtracts; "_" and malformed cells add nothing.
func (t *Table) Totals() map[string]int {
	totals := make(map[string]int, len(t.players))
	for _, p := range t.players {
		tot := 0
		for _, c := range t.cells[p] {
			if n, err := strconv.Atoi(c); err == nil {
				tot += n
			}
		}
		totals[p] = tot
	}
	return totals
}

// ranked returns players by total descending, ties broken by name.
func (t *Table) ranked(totals map[string]int) []string {
	names := make([]string, len(t.players))
	copy(names, t.players)
	sort.Slice(names, func(i, j int) bool {
		if totals[names[i]] != totals[names[j]] {
			return totals[names[i]] > totals[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// Save writes the table with a fresh header and rebuilt totals, strongest
// player first.
func (t *Table) Save(path string) error {
	totals := t.Totals()
	wars := t.Wars()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := make([]string, 0, wars+2)
	header = append(header, "Player")
	for i := 1; i <= wars; i++ {
		header = append(header, fmt.Sprintf("War-%d", i))
	}
	header = append(header, "Total")
	if err := w.Write(header); err != nil {
		return err
	}
	for _, p := range t.ranked(totals) {
		row := make([]string, 0, wars+2)
		row = append(row, p)
		row = append(row, t.cells[p]...)
		row = append(row, strconv.Itoa(totals[p]))
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Leaderboard renders the standings, strongest player first, one line per
// player.
func (t *Table) Leaderboard() []string {
	totals := t.Totals()
	lines := make([]string, 0, len(t.players)+1)
	lines = append(lines, "=== Current Leaderboard ===")
	for i, p := range t.ranked(totals) {
		lines = append(lines, fmt.Sprintf("%2d. %-22s Total Score: %d", i+1, p, totals[p]))
	}
	return lines
}
