package interest

import (
	"bytes"
	"sort"
)

// SortOption selects the ranking key and direction for candidate ordering.
// The literal values are a stable contract with callers.
type SortOption string

const (
	SortLastAssignmentAsc  SortOption = "lastAssignmentDate_asc"
	SortLastAssignmentDesc SortOption = "lastAssignmentDate_desc"
	SortDistanceAsc        SortOption = "distance_asc"
	SortDistanceDesc       SortOption = "distance_desc"
	SortInterestDateAsc    SortOption = "interestDate_asc"
	SortInterestDateDesc   SortOption = "interestDate_desc"
)

// DefaultSortOption prioritizes workers who have gone longest without work.
const DefaultSortOption = SortLastAssignmentAsc

// ParseSortOption maps the input onto the known option set. Unknown or empty
// input falls back to the fairness default rather than failing.
func ParseSortOption(s string) SortOption {
	switch SortOption(s) {
	case SortLastAssignmentAsc, SortLastAssignmentDesc,
		SortDistanceAsc, SortDistanceDesc,
		SortInterestDateAsc, SortInterestDateDesc:
		return SortOption(s)
	}
	return DefaultSortOption
}

// Rank orders candidates in place by the requested key and direction and
// returns the same slice. Null semantics: a nil LastAssignmentDate means the
// worker has never completed a job and counts as infinitely idle (first
// ascending, last descending); a nil DistanceKm means no location is known
// and sorts last in both directions. Ties break by expressedAt ascending
// (earliest interest wins), then by user id bytes, so the ordering is total
// and deterministic: ranking the same inputs twice yields the same order.
func Rank(candidates []*Candidate, opt SortOption) []*Candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		if c := compare(candidates[i], candidates[j], opt); c != 0 {
			return c < 0
		}
		return tieBreak(candidates[i], candidates[j]) < 0
	})
	return candidates
}

func compare(a, b *Candidate, opt SortOption) int {
	switch opt {
	case SortLastAssignmentDesc:
		return compareLastAssignment(b, a)
	case SortDistanceAsc:
		return compareDistance(a, b, false)
	case SortDistanceDesc:
		return compareDistance(a, b, true)
	case SortInterestDateAsc:
		return a.ExpressedAt.Compare(b.ExpressedAt)
	case SortInterestDateDesc:
		return b.ExpressedAt.Compare(a.ExpressedAt)
	default:
		// SortLastAssignmentAsc and the fallback for anything unmapped.
		return compareLastAssignment(a, b)
	}
}

// compareLastAssignment treats nil as older than any date, so never-assigned
// workers come first ascending and last descending.
func compareLastAssignment(a, b *Candidate) int {
	switch {
	case a.LastAssignmentDate == nil && b.LastAssignmentDate == nil:
		return 0
	case a.LastAssignmentDate == nil:
		return -1
	case b.LastAssignmentDate == nil:
		return 1
	}
	return a.LastAssignmentDate.Compare(*b.LastAssignmentDate)
}

// compareDistance sorts unknown distances last regardless of direction.
func compareDistance(a, b *Candidate, desc bool) int {
	switch {
	case a.DistanceKm == nil && b.DistanceKm == nil:
		return 0
	case a.DistanceKm == nil:
		return 1
	case b.DistanceKm == nil:
		return -1
	}
	left, right := *a.DistanceKm, *b.DistanceKm
	if desc {
		left, right = right, left
	}
	switch {
	case left < right:
		return -1
	case left > right:
		return 1
	}
	return 0
}

func tieBreak(a, b *Candidate) int {
	if c := a.ExpressedAt.Compare(b.ExpressedAt); c != 0 {
		return c
	}
	return bytes.Compare(a.UserID[:], b.UserID[:])
}
