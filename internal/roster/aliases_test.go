package roster

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAliasMapLookup(t *testing.T) {
	m := NewAliasMap()
	m.Put("Kit", []string{"Kit 1", "Kit 2"})

	for _, name := range []string{"Kit", "kit 1", "KIT 2"} {
		if f, ok := m.Family(name); !ok || f != "Kit" {
			t.Errorf("Family(%q) = %q, %v", name, f, ok)
		}
	}
	if _, ok := m.Family("stranger"); ok {
		t.Error("unrelated name matched a family")
	}
	if got := m.Aliases("Kit"); len(got) != 2 || got[0] != "Kit 1" {
		t.Errorf("Aliases = %v", got)
	}
}

func TestLoadAliases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "multi.json")
	if err := os.WriteFile(path, []byte(`{"Kit": ["Kit 1", "Kit 2"]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := LoadAliases(path)
	if err != nil {
		t.Fatal(err)
	}
	if f, ok := m.Family("kit 2"); !ok || f != "Kit" {
		t.Errorf("Family = %q, %v", f, ok)
	}

	missing, err := LoadAliases(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !missing.Empty() {
		t.Error("missing file should load empty")
	}
}

func TestNameBookRoundTrip(t *testing.T) {
	b := NewNameBook()
	if !b.Add("alpha") || !b.Add("beta") {
		t.Fatal("fresh adds rejected")
	}
	if b.Add("alpha") || b.Add("") {
		t.Error("duplicate or empty add accepted")
	}
	if !b.Contains("beta") || b.Len() != 2 {
		t.Errorf("book state: len=%d", b.Len())
	}

	path := filepath.Join(t.TempDir(), "players.txt")
	if err := b.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadNames(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := loaded.Names(); len(got) != 2 || got[0] != "alpha" || got[1] != "beta" {
		t.Errorf("loaded %v", got)
	}

	empty, err := LoadNames(filepath.Join(t.TempDir(), "absent.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if empty.Len() != 0 {
		t.Error("missing file should load empty")
	}
}
