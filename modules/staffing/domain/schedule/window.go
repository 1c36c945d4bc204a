package schedule

import "time"

// Window is a half-open time interval [Start, End). All comparisons happen on
// absolute instants, so windows built from different zones compare correctly.
type Window struct {
	Start time.Time
	End   time.Time
}

func NewWindow(start, end time.Time) Window {
	return Window{Start: start.UTC(), End: end.UTC()}
}

// IsZero reports whether the window carries no usable interval. Callers treat
// zero windows as non-conflicting so a corrupt record cannot block scheduling.
func (w Window) IsZero() bool {
	return w.Start.IsZero() || w.End.IsZero()
}

// Duration returns End minus Start; negative or zero means an empty interval.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Conflicts reports whether two half-open intervals overlap. Boundary-touching
// windows (a.End == b.Start) do not conflict, and empty intervals conflict
// with nothing.
func (w Window) Conflicts(other Window) bool {
	if w.IsZero() || other.IsZero() {
		return false
	}
	if w.Duration() <= 0 || other.Duration() <= 0 {
		return false
	}
	return Overlaps(w.Start, w.End, other.Start, other.End)
}

// Overlaps implements the half-open interval overlap predicate:
// [aStart, aEnd) and [bStart, bEnd) overlap iff aStart < bEnd && bStart < aEnd.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
