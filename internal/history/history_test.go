package history

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestMergeAndTotals(t *testing.T) {
	tbl := NewTable()

	tbl.Merge(map[string]string{"Ana": "5", "Bo": "3"})
	if got := tbl.Wars(); got != 1 {
		t.Fatalf("Wars = %d, want 1", got)
	}
	if got := tbl.Row("Ana"); !reflect.DeepEqual(got, []string{"5"}) {
		t.Errorf("Row(Ana) = %v", got)
	}

	tbl.Merge(map[string]string{"Bo": "2", "Cy": "4"})
	if got := tbl.Wars(); got != 2 {
		t.Fatalf("Wars = %d, want 2", got)
	}
	cases := []struct {
		player string
		row    []string
		total  int
	}{
		{"Ana", []string{"5", "_"}, 5},
		{"Bo", []string{"3", "2"}, 5},
		{"Cy", []string{"_", "4"}, 4},
	}
	totals := tbl.Totals()
	for _, tc := range cases {
		if got := tbl.Row(tc.player); !reflect.DeepEqual(got, tc.row) {
			t.Errorf("Row(%s) = %v, want %v", tc.player, got, tc.row)
		}
		if totals[tc.player] != tc.total {
			t.Errorf("total(%s) = %d, want %d", tc.player, totals[tc.player], tc.total)
		}
	}
}

func TestTotalsCountSignedCells(t *testing.T) {
	tbl := NewTable()
	tbl.Merge(map[string]string{"Ana": "5"})
	tbl.Merge(map[string]string{"Ana": "-2"})
	if got := tbl.Totals()["Ana"]; got != 3 {
		t.Errorf("total = %d, want 3", got)
	}
}

func TestSaveLoad(t *testing.T) {
	tbl := NewTable()
	tbl.Merge(map[string]string{"Ana": "5", "Bo": "3"})
	tbl.Merge(map[string]string{"Bo": "2", "Cy": "4"})

	path := filepath.Join(t.TempDir(), "player_history.csv")
	if err := tbl.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "Player,War-1,War-2,Total\nAna,5,_,5\nBo,3,2,5\nCy,_,4,4\n"
	if string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.Wars() != 2 || back.Len() != 3 {
		t.Fatalf("loaded %d wars, %d players", back.Wars(), back.Len())
	}
	if got := back.Row("Bo"); !reflect.DeepEqual(got, []string{"3", "2"}) {
		t.Errorf("Row(Bo) = %v", got)
	}
	if got := back.Totals(); !reflect.DeepEqual(got, tbl.Totals()) {
		t.Errorf("totals changed across round trip: %v", got)
	}
}

func TestLoadMissing(t *testing.T) {
	tbl, err := Load(filepath.Join(t.TempDir(), "absent.csv"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Wars() != 0 || tbl.Len() != 0 {
		t.Errorf("missing file should load empty, got %d wars, %d players", tbl.Wars(), tbl.Len())
	}
}

func TestLeaderboard(t *testing.T) {
	tbl := NewTable()
	tbl.Merge(map[string]string{"Ana": "5", "Bo": "7"})

	lines := tbl.Leaderboard()
	want := []string{
		"=== Current Leaderboard ===",
		" 1. Bo                     Total Score: 7",
		" 2. Ana                    Total Score: 5",
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("Leaderboard = %q, want %q", lines, want)
	}
}
