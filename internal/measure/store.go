// Package measure persists the pixel cuts of successful segmentations so
// later images can fall back on them when detection goes out of range.
package measure

import (
	"fmt"
	"math"
	"os"

	"github.com/bytedance/sonic"
)

// Field names one stored measurement. The JSON file carries two keys per
// field: "<field> Cut" (absolute pixel) and "<field> %" (fraction of the
// dimension it was measured against).
type Field string

// Stored fields: menu geometry, then row bounds, then data columns.
const (
	MenuTopMargin    Field = "menuTopMargin"
	MenuBottomMargin Field = "menuBottomMargin"
	MenuLeftMargin   Field = "menuLeftMargin"
	MenuRightMargin  Field = "menuRightMargin"

	HeaderEnd Field = "headerEnd"
	LineBegin Field = "lineBegin"
	LineEnd   Field = "lineEnd"

	EnemyStart      Field = "enemyStart"
	StarsColEnd     Field = "starsColEnd"
	PercentageBegin Field = "percentageBegin"

	RankCol       Field = "rankCol"
	LevelCol      Field = "levelCol"
	PlayerCol     Field = "playerCol"
	EnemyCol      Field = "enemyCol"
	PercentageCol Field = "percentageCol"
	StarsCol      Field = "starsCol"
)

func fields() []Field {
	return []Field{
		MenuTopMargin, MenuBottomMargin, MenuLeftMargin, MenuRightMargin,
		HeaderEnd, LineBegin, LineEnd,
		EnemyStart, StarsColEnd, PercentageBegin,
		RankCol, LevelCol, PlayerCol, EnemyCol, PercentageCol, StarsCol,
	}
}

// Record pairs an absolute pixel cut with its fractional position. Begin
// cuts store cut/dim, end cuts (dim-cut)/dim, columns width/dim; callers
// compare like against like.
type Record struct {
	Cut      int
	Fraction float64
}

// Store holds the last successful measurement per field and the tolerance
// margin used to judge new ones.
type Store struct {
	records map[Field]Record
	margin  float64
}

// Load reads the measurement file. A missing file yields an empty store,
// leaving every later failure without a fallback.
func Load(path string, margin float64) (*Store, error) {
	st := &Store{records: make(map[Field]Record), margin: margin}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return nil, fmt.Errorf("load measurements %s: %w", path, err)
	}
	var raw map[string]float64
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("load measurements %s: %w", path, err)
	}
	for _, f := range fields() {
		cut, okCut := raw[string(f)+" Cut"]
		pct, okPct := raw[string(f)+" %"]
		if okCut && okPct {
			st.records[f] = Record{Cut: int(math.Round(cut)), Fraction: pct}
		}
	}
	return st, nil
}

// Check reports whether a measured fraction is acceptable: inside the
// stored tolerance band, or unconstrained because nothing is stored yet.
// With margin 1.2 the band is [0.8·stored, 1.2·stored].
func (st *Store) Check(f Field, fraction float64) bool {
	rec, ok := st.records[f]
	if !ok {
		return true
	}
	low := rec.Fraction * (2 - st.margin)
	high := rec.Fraction * st.margin
	return low <= fraction && fraction <= high
}

// Cut returns the stored fallback cut for a field.
func (st *Store) Cut(f Field) (int, bool) {
	rec, ok := st.records[f]
	return rec.Cut, ok
}

// Update merges a successful image's measurements over the stored ones.
func (st *Store) Update(m map[Field]Record) {
	for f, rec := range m {
		st.records[f] = rec
	}
}

// Len returns the number of stored fields.
func (st *Store) Len() int { return len(st.records) }

// Save writes every stored field back out, fractions rounded to five
// decimals.
func (st *Store) Save(path string) error {
	out := make(map[string]float64, 2*len(st.records))
	for f, rec := range st.records {
		out[string(f)+" Cut"] = float64(rec.Cut)
		out[string(f)+" %"] = round5(rec.Fraction)
	}
	data, err := sonic.ConfigStd.MarshalIndent(out, "", "    ")
	if err != nil {
		return fmt.Errorf("save measurements %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save measurements %s: %w", path, err)
	}
	return nil
}

func round5(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}
