package measure

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	st, err := Load(filepath.Join(t.TempDir(), "absent.json"), 1.2)
	if err != nil {
		t.Fatal(err)
	}
	if st.Len() != 0 {
		t.Errorf("len = %d, want 0", st.Len())
	}
	if _, ok := st.Cut(HeaderEnd); ok {
		t.Error("empty store returned a cut")
	}
	if !st.Check(HeaderEnd, 0.42) {
		t.Error("unconstrained field should pass")
	}
}

func TestCheckBand(t *testing.T) {
	st := &Store{records: map[Field]Record{
		LineBegin: {Cut: 120, Fraction: 0.5},
	}, margin: 1.2}

	tests := []struct {
		fraction float64
		want     bool
	}{
		{0.5, true},
		{0.41, true},  // just inside 0.4 floor
		{0.59, true},  // just inside 0.6 ceiling
		{0.39, false}, // below band
		{0.61, false}, // above band
		{0.0, false},
	}
	for _, tt := range tests {
		if got := st.Check(LineBegin, tt.fraction); got != tt.want {
			t.Errorf("Check(%v) = %v, want %v", tt.fraction, got, tt.want)
		}
	}
}

func TestUpdateSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "measurements.json")

	st, err := Load(path, 1.2)
	if err != nil {
		t.Fatal(err)
	}
	st.Update(map[Field]Record{
		MenuTopMargin: {Cut: 57, Fraction: 0.052884615},
		RankCol:       {Cut: 131, Fraction: 0.0763},
	})
	if err := st.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path, 1.2)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("len = %d, want 2", loaded.Len())
	}
	cut, ok := loaded.Cut(MenuTopMargin)
	if !ok || cut != 57 {
		t.Errorf("cut = %d, %v", cut, ok)
	}
	// Fractions survive rounded to five decimals.
	if !loaded.Check(MenuTopMargin, 0.05288) {
		t.Error("stored fraction rejected its own value")
	}
	if loaded.Check(RankCol, 0.2) {
		t.Error("far-off fraction accepted")
	}
}

func TestUpdateOverwrites(t *testing.T) {
	st := &Store{records: map[Field]Record{
		HeaderEnd: {Cut: 10, Fraction: 0.1},
	}, margin: 1.2}
	st.Update(map[Field]Record{HeaderEnd: {Cut: 12, Fraction: 0.12}})
	if cut, _ := st.Cut(HeaderEnd); cut != 12 {
		t.Errorf("cut = %d, want 12", cut)
	}
}

func TestLoadIgnoresUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "measurements.json")
	body := `{"headerEnd Cut": 44, "headerEnd %": 0.09, "mystery Cut": 1, "lineEnd Cut": 3}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	st, err := Load(path, 1.2)
	if err != nil {
		t.Fatal(err)
	}
	if st.Len() != 1 {
		t.Errorf("len = %d, want 1 (lineEnd lacks its %%, mystery unknown)", st.Len())
	}
	if cut, ok := st.Cut(HeaderEnd); !ok || cut != 44 {
		t.Errorf("headerEnd cut = %d, %v", cut, ok)
	}
}
