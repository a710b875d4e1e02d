package roster

import (
	"fmt"
	"os"
	"strings"

	"github.com/bytedance/sonic"
)

// AliasMap resolves multi-account families: a family name maps to the
// ordered alias names its owner plays under. Lookups are case-insensitive
// over both family names and aliases.
type AliasMap struct {
	families map[string][]string // family -> ordered aliases
	index    map[string]string   // lowercased family or alias -> family
}

// NewAliasMap returns an empty map.
func NewAliasMap() *AliasMap {
	return &AliasMap{
		families: make(map[string][]string),
		index:    make(map[string]string),
	}
}

// LoadAliases reads the multi-account JSON file, a map of family name to
// alias list. A missing file yields an empty map.
func LoadAliases(path string) (*AliasMap, error) {
	m := NewAliasMap()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, fmt.Errorf("load aliases %s: %w", path, err)
	}
	var raw map[string][]string
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("load aliases %s: %w", path, err)
	}
	for family, aliases := range raw {
		m.Put(family, aliases)
	}
	return m, nil
}

// Put registers a family and (re)builds its index entries.
func (m *AliasMap) Put(family string, aliases []string) {
	m.families[family] = aliases
	m.index[strings.ToLower(family)] = family
	for _, a := range aliases {
		m.index[strings.ToLower(a)] = family
	}
}

// Family returns the family a name belongs to, matching the family name
// itself or any of its aliases.
func (m *AliasMap) Family(name string) (string, bool) {
	f, ok := m.index[strings.ToLower(name)]
	return f, ok
}

// Aliases returns the ordered alias list of a family.
func (m *AliasMap) Aliases(family string) []string {
	return m.families[family]
}

// Empty reports whether no families are registered.
func (m *AliasMap) Empty() bool { return len(m.families) == 0 }
