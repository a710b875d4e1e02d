package ocr

import "testing"

func TestCorrectDigits(t *testing.T) {
	tests := []struct {
		read string
		want int
		ok   bool
	}{
		{"12", 12, true},
		{"12\n", 12, true},
		{"l2", 12, true},
		{"|", 1, true},
		{"T", 1, true},
		{"W", 11, true},
		{"4o", 40, true},
		{"g", 9, true},
		{"Z8", 28, true},
		{"1.", 1, true},
		{"s", 5, true},
		{"", 0, false},
		{".", 0, false},
		{"★", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.read, func(t *testing.T) {
			got, ok := CorrectDigits(tt.read)
			if got != tt.want || ok != tt.ok {
				t.Errorf("CorrectDigits(%q) = %d, %v, want %d, %v", tt.read, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		read, want string
	}{
		{"xX_Dragon_Xx", "xx dragon xx"},
		{" Brognar ", "brognar"},
		{"War1ord", "war1ord"},
		{"A--B", "a b"},
		{"___", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanName(tt.read); got != tt.want {
			t.Errorf("CleanName(%q) = %q, want %q", tt.read, got, tt.want)
		}
	}
}

func TestMatcher(t *testing.T) {
	known := []string{"Alpha", "Brognar", "xX Dragon Xx"}

	t.Run("exact read matches", func(t *testing.T) {
		m := NewMatcher(known, 65)
		name, score, ok := m.Match("Brognar")
		if !ok || name != "Brognar" || score != 100 {
			t.Errorf("Match = %q, %d, %v, want Brognar, 100, true", name, score, ok)
		}
	})

	t.Run("noisy read picks nearest", func(t *testing.T) {
		m := NewMatcher(known, 50)
		name, _, ok := m.Match("Brognav")
		if !ok || name != "Brognar" {
			t.Errorf("Match = %q, %v, want Brognar, true", name, ok)
		}
	})

	t.Run("garbage falls below confidence", func(t *testing.T) {
		m := NewMatcher(known, 65)
		name, _, ok := m.Match(" Qwpzk \n")
		if ok || name != "Qwpzk" {
			t.Errorf("Match = %q, %v, want trimmed raw and false", name, ok)
		}
	})

	t.Run("unreadable text returns raw", func(t *testing.T) {
		m := NewMatcher(known, 65)
		name, _, ok := m.Match("___")
		if ok || name != "___" {
			t.Errorf("Match = %q, %v, want raw and false", name, ok)
		}
	})

	t.Run("no candidates", func(t *testing.T) {
		m := NewMatcher(nil, 65)
		if name, _, ok := m.Match("Brognar"); ok || name != "Brognar" {
			t.Errorf("Match = %q, %v, want Brognar, false", name, ok)
		}
	})
}

func newMask(w, h int) *mask {
	m := &mask{pix: make([]byte, w*h), w: w, h: h}
	for i := range m.pix {
		m.pix[i] = 255
	}
	return m
}

func (m *mask) ink(points ...[2]int) {
	for _, p := range points {
		m.pix[p[1]*m.w+p[0]] = 0
	}
}

func (m *mask) countInk() int {
	n := 0
	for _, v := range m.pix {
		if v == 0 {
			n++
		}
	}
	return n
}

func TestMaskFlood(t *testing.T) {
	// A full-height barrier splits the grid; flooding from the corner must
	// stop at it.
	m := &mask{pix: make([]byte, 25), w: 5, h: 5}
	for y := 0; y < 5; y++ {
		m.pix[y*5+2] = 255
	}
	m.flood(0, 0, 255)

	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			want := byte(0)
			if x <= 2 {
				want = 255
			}
			if m.pix[y*5+x] != want {
				t.Fatalf("pixel (%d,%d) = %d, want %d", x, y, m.pix[y*5+x], want)
			}
		}
	}
}

func TestMaskFloodNoop(t *testing.T) {
	m := newMask(4, 4)
	m.flood(0, 0, 255)
	if m.countInk() != 0 {
		t.Fatal("flood over background mutated the mask")
	}
}

func TestPruneBlobs(t *testing.T) {
	m := newMask(12, 12)
	m.ink([2]int{1, 1}, [2]int{2, 1}, [2]int{1, 2}, [2]int{2, 2}) // 4 px glyph
	for y := 5; y < 10; y++ {
		for x := 5; x < 10; x++ {
			m.ink([2]int{x, y}) // 25 px artifact
		}
	}

	m.pruneBlobs(10)

	if got := m.countInk(); got != 4 {
		t.Fatalf("ink after prune = %d, want only the 4 px glyph", got)
	}
	if m.pix[1*12+1] != 0 {
		t.Error("small glyph was erased")
	}
}

func TestWipeBorder(t *testing.T) {
	m := newMask(10, 10)
	m.ink([2]int{2, 5}, [2]int{3, 5}, [2]int{4, 5}) // touches x < 3 frame
	m.ink([2]int{5, 3}, [2]int{6, 3})               // interior glyph

	m.wipeBorder(3)

	if m.pix[5*10+4] != 255 {
		t.Error("component touching the border survived")
	}
	if m.pix[3*10+5] != 0 || m.pix[3*10+6] != 0 {
		t.Error("interior glyph was wiped")
	}
	if got := m.countInk(); got != 2 {
		t.Errorf("ink after wipe = %d, want 2", got)
	}
}
