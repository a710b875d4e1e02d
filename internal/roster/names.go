package roster

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// NameBook is an ordered, de-duplicated list of known names. The order is
// load order then append order, so fuzzy matching sees stable candidates
// and newly learned names survive to the next session.
type NameBook struct {
	names []string
	seen  map[string]bool
}

// NewNameBook returns an empty book.
func NewNameBook() *NameBook {
	return &NameBook{seen: make(map[string]bool)}
}

// LoadNames reads a newline-delimited name list. A missing file yields an
// empty book.
func LoadNames(path string) (*NameBook, error) {
	b := NewNameBook()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return b, nil
		}
		return nil, fmt.Errorf("load names %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		b.Add(strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("load names %s: %w", path, err)
	}
	return b, nil
}

// Save writes the book back, one name per line.
func (b *NameBook) Save(path string) error {
	var sb strings.Builder
	for _, n := range b.names {
		sb.WriteString(n)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("save names %s: %w", path, err)
	}
	return nil
}

// Add appends a name unless it is empty or already present. Reports
// whether the book grew.
func (b *NameBook) Add(name string) bool {
	if name == "" || b.seen[name] {
		return false
	}
	b.names = append(b.names, name)
	b.seen[name] = true
	return true
}

// Contains reports whether name is in the book.
func (b *NameBook) Contains(name string) bool { return b.seen[name] }

// Names returns the names in order. The slice is shared; callers must not
// mutate it.
func (b *NameBook) Names() []string { return b.names }

// Len returns the number of names.
func (b *NameBook) Len() int { return len(b.names) }
