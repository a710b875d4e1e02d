package profile

import "testing"

func TestScanAbsolutePolicies(t *testing.T) {
	// Bright, dips below 0.5 at 3..4, recovers at 5, dips again at 8..9,
	// recovers at 10.
	p := []float64{0.9, 0.9, 0.9, 0.2, 0.2, 0.9, 0.9, 0.9, 0.1, 0.1, 0.9, 0.9}

	tests := []struct {
		name       string
		pol        Policy
		wantFirst  int
		wantSecond int
	}{
		{"first fall next rise", Policy{First: Fall, Second: Rise}, 3, 5},
		{"first fall next fall", Policy{First: Fall, Second: Fall}, 3, 8},
		{"first rise next fall", Policy{First: Rise, Second: Fall}, 5, 8},
		{"from start next rise", Policy{Second: Rise}, 0, 5},
		{"from start next fall", Policy{Second: Fall}, 0, 3},
		{"first fall last rise", Policy{First: Fall, Second: Rise, Last: true}, 3, 10},
		{"first rise last fall", Policy{First: Rise, Second: Fall, Last: true}, 5, 8},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			first, second := Scan(p, 0.5, tc.pol)
			if first != tc.wantFirst || second != tc.wantSecond {
				t.Errorf("got (%d, %d), want (%d, %d)", first, second, tc.wantFirst, tc.wantSecond)
			}
		})
	}
}

func TestScanMissingCrossings(t *testing.T) {
	flat := []float64{0.9, 0.9, 0.9, 0.9}

	first, second := Scan(flat, 0.5, Policy{First: Fall, Second: Rise})
	if first != 0 || second != 0 {
		t.Errorf("flat profile: got (%d, %d), want (0, 0)", first, second)
	}

	// A fall with no later rise: the second slot reports failure.
	p := []float64{0.9, 0.9, 0.2, 0.2}
	first, second = Scan(p, 0.5, Policy{First: Fall, Second: Rise})
	if first != 2 || second != 0 {
		t.Errorf("got (%d, %d), want (2, 0)", first, second)
	}

	if f, s := Scan(nil, 0.5, Policy{Second: Rise}); f != 0 || s != 0 {
		t.Errorf("nil profile: got (%d, %d), want (0, 0)", f, s)
	}
}

func TestScanRelative(t *testing.T) {
	// Jumps: up 0.6 between 1 and 2 (event at 2), down 0.6 between 4 and 5
	// (event at 5).
	p := []float64{0.2, 0.2, 0.8, 0.8, 0.8, 0.2, 0.2}

	first, second := Scan(p, 0.5, Policy{Relative: true, First: Rise, Second: Fall})
	if first != 2 || second != 5 {
		t.Errorf("got (%d, %d), want (2, 5)", first, second)
	}

	// Sub-threshold wobble produces no events.
	first, second = Scan(p, 0.7, Policy{Relative: true, First: Rise, Second: Fall})
	if first != 0 || second != 0 {
		t.Errorf("got (%d, %d), want (0, 0)", first, second)
	}
}

func TestScanGuard(t *testing.T) {
	// Two rises; the first sits where the minimum profile is still inked,
	// so only the second passes the guard.
	p := []float64{0.2, 0.8, 0.2, 0.2, 0.8, 0.8}
	minP := []float64{0.1, 0.1, 0.1, 0.1, 0.9, 0.9}

	guarded := Policy{Second: Rise, Guard: &Guard{Min: minP, Limit: 0.5}}
	_, second := Scan(p, 0.5, guarded)
	if second != 4 {
		t.Errorf("guarded rise at %d, want 4", second)
	}

	// Without the guard the first rise wins.
	_, second = Scan(p, 0.5, Policy{Second: Rise})
	if second != 1 {
		t.Errorf("unguarded rise at %d, want 1", second)
	}

	// Guard that nothing satisfies: failure.
	_, second = Scan(p, 0.5, Policy{Second: Rise, Guard: &Guard{Min: minP, Limit: 2}})
	if second != 0 {
		t.Errorf("impossible guard: rise at %d, want 0", second)
	}
}

func TestScanDivergence(t *testing.T) {
	avg := []float64{0.8, 0.8, 0.8, 0.8, 0.8, 0.8}
	minP := []float64{0.8, 0.8, 0.1, 0.1, 0.8, 0.8}

	top, bottom := ScanDivergence(minP, avg, 0.01)
	if top != 2 || bottom != 3 {
		t.Errorf("got (%d, %d), want (2, 3)", top, bottom)
	}

	// Parity everywhere: both slots report failure.
	top, bottom = ScanDivergence(avg, avg, 0.01)
	if top != 0 || bottom != 0 {
		t.Errorf("got (%d, %d), want (0, 0)", top, bottom)
	}
}

func TestCountPeaks(t *testing.T) {
	tests := []struct {
		name string
		p    []float64
		want int
	}{
		{"two peaks", []float64{0, 1, 0, 1, 0}, 2},
		{"run counts once", []float64{0, 1, 1, 1, 0}, 1},
		{"starts above", []float64{1, 1, 0, 1, 0}, 2},
		{"none", []float64{0.2, 0.3, 0.1}, 0},
		{"empty", nil, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CountPeaks(tc.p, 0.99); got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}
