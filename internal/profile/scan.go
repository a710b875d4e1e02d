package profile

// Edge is a threshold crossing direction.
type Edge int

const (
	// EdgeNone in Policy.First means the scan starts from index 0 without
	// requiring a leading crossing.
	EdgeNone Edge = iota
	Rise
	Fall
)

// Guard qualifies rise candidates during a scan: a crossing only counts
// where the auxiliary minimum profile exceeds Limit, so boundaries inside
// inked regions are passed over.
type Guard struct {
	Min   []float64
	Limit float64
}

// Policy describes one boundary scan over a profile.
//
// In absolute mode crossings are state changes of the profile against the
// threshold: a rise enters the >=th regime, a fall drops below it, and the
// reported position is the first index of the new regime. In relative mode
// the signed first difference is scanned instead: a jump >= th is a rise, a
// jump <= -th a fall, positioned at the index after the jump.
type Policy struct {
	Relative bool
	First    Edge // leading crossing, or EdgeNone for "from start"
	Second   Edge // trailing crossing to report
	Last     bool // take the last Second crossing instead of the next
	Guard    *Guard
}

type event struct {
	pos  int
	edge Edge
}

// Scan locates a (first, second) crossing pair in p according to pol.
// A slot is 0 when no matching crossing exists; callers treat 0 as a
// detection failure.
func Scan(p []float64, th float64, pol Policy) (int, int) {
	events := crossings(p, th, pol.Relative)

	first := 0
	if pol.First != EdgeNone {
		found := false
		for _, e := range events {
			if e.edge == pol.First {
				first, found = e.pos, true
				break
			}
		}
		if !found {
			return 0, 0
		}
	}

	second := 0
	if pol.Last {
		for i := len(events) - 1; i >= 0; i-- {
			if events[i].edge != pol.Second {
				continue
			}
			if pol.Guard != nil && !pol.Guard.passes(events[i].pos) {
				continue
			}
			second = events[i].pos
			break
		}
		return first, second
	}
	for _, e := range events {
		if e.pos <= first || e.edge != pol.Second {
			continue
		}
		if pol.Guard != nil && !pol.Guard.passes(e.pos) {
			continue
		}
		second = e.pos
		break
	}
	return first, second
}

func (g *Guard) passes(pos int) bool {
	if pos < 0 || pos >= len(g.Min) {
		return false
	}
	return g.Min[pos] > g.Limit
}

func crossings(p []float64, th float64, relative bool) []event {
	var events []event
	if relative {
		for i := 0; i+1 < len(p); i++ {
			d := p[i+1] - p[i]
			if d >= th {
				events = append(events, event{i + 1, Rise})
			} else if d <= -th {
				events = append(events, event{i + 1, Fall})
			}
		}
		return events
	}
	if len(p) == 0 {
		return nil
	}
	above := p[0] >= th
	for i := 1; i < len(p); i++ {
		if !above && p[i] >= th {
			events = append(events, event{i, Rise})
			above = true
		} else if above && p[i] < th {
			events = append(events, event{i, Fall})
			above = false
		}
	}
	return events
}

// ScanDivergence compares a minimum profile against an average profile:
// it returns the first index where the minimum drops more than th below
// the average (ink present) and the last index where it still does.
// Either slot is 0 when the condition never holds.
func ScanDivergence(minP, avgP []float64, th float64) (int, int) {
	n := len(minP)
	if len(avgP) < n {
		n = len(avgP)
	}
	diverged, converged := 0, 0
	for i := 0; i < n; i++ {
		if minP[i] < avgP[i]-th {
			diverged = i
			break
		}
	}
	for i := n - 1; i >= 0; i-- {
		if minP[i] < avgP[i]-th {
			converged = i
			break
		}
	}
	return diverged, converged
}

// CountPeaks counts maximal runs of profile entries at or above th.
func CountPeaks(p []float64, th float64) int {
	peaks := 0
	above := false
	for _, v := range p {
		if v >= th {
			if !above {
				peaks++
				above = true
			}
		} else {
			above = false
		}
	}
	return peaks
}
