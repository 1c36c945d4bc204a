package interest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var rankBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func candidate(name string, distanceKm float64, lastAssignmentDaysAgo int, expressedOffset time.Duration) *Candidate {
	c := &Candidate{
		UserID:      uuid.New(),
		FirstName:   name,
		LastName:    "Tester",
		Email:       name + "@example.com",
		ExpressedAt: rankBase.Add(expressedOffset),
	}
	if distanceKm >= 0 {
		c.DistanceKm = &distanceKm
	}
	if lastAssignmentDaysAgo >= 0 {
		t := rankBase.AddDate(0, 0, -lastAssignmentDaysAgo)
		c.LastAssignmentDate = &t
	}
	return c
}

func names(candidates []*Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.FirstName
	}
	return out
}

func TestParseSortOption(t *testing.T) {
	t.Parallel()

	require.Equal(t, SortDistanceDesc, ParseSortOption("distance_desc"))
	require.Equal(t, SortInterestDateAsc, ParseSortOption("interestDate_asc"))

	// Anything unknown falls back to the fairness default.
	require.Equal(t, DefaultSortOption, ParseSortOption(""))
	require.Equal(t, DefaultSortOption, ParseSortOption("distance"))
	require.Equal(t, DefaultSortOption, ParseSortOption("DISTANCE_ASC"))
}

func TestRankLastAssignmentAscPutsNeverAssignedFirst(t *testing.T) {
	t.Parallel()

	ranked := Rank([]*Candidate{
		candidate("recent", 5, 2, time.Minute),
		candidate("never", 5, -1, 2*time.Minute),
		candidate("idle", 5, 30, 3*time.Minute),
	}, SortLastAssignmentAsc)

	require.Equal(t, []string{"never", "idle", "recent"}, names(ranked))
}

func TestRankLastAssignmentDescPutsNeverAssignedLast(t *testing.T) {
	t.Parallel()

	ranked := Rank([]*Candidate{
		candidate("never", 5, -1, time.Minute),
		candidate("idle", 5, 30, 2*time.Minute),
		candidate("recent", 5, 2, 3*time.Minute),
	}, SortLastAssignmentDesc)

	require.Equal(t, []string{"recent", "idle", "never"}, names(ranked))
}

func TestRankDistanceNilSortsLastBothDirections(t *testing.T) {
	t.Parallel()

	build := func() []*Candidate {
		return []*Candidate{
			candidate("far", 40, 1, time.Minute),
			candidate("unknown", -1, 1, 2*time.Minute),
			candidate("near", 3, 1, 3*time.Minute),
		}
	}

	require.Equal(t, []string{"near", "far", "unknown"},
		names(Rank(build(), SortDistanceAsc)))
	require.Equal(t, []string{"far", "near", "unknown"},
		names(Rank(build(), SortDistanceDesc)))
}

func TestRankInterestDate(t *testing.T) {
	t.Parallel()

	build := func() []*Candidate {
		return []*Candidate{
			candidate("second", 5, 1, 2*time.Hour),
			candidate("first", 5, 1, time.Hour),
			candidate("third", 5, 1, 3*time.Hour),
		}
	}

	require.Equal(t, []string{"first", "second", "third"},
		names(Rank(build(), SortInterestDateAsc)))
	require.Equal(t, []string{"third", "second", "first"},
		names(Rank(build(), SortInterestDateDesc)))
}

func TestRankInvalidOptionMatchesDefault(t *testing.T) {
	t.Parallel()

	build := func() []*Candidate {
		return []*Candidate{
			candidate("recent", 5, 2, time.Minute),
			candidate("never", 5, -1, 2*time.Minute),
			candidate("idle", 5, 30, 3*time.Minute),
		}
	}

	want := names(Rank(build(), SortLastAssignmentAsc))
	got := names(Rank(build(), ParseSortOption("bogus")))
	require.Equal(t, want, got)
}

func TestRankTieBreaksByEarliestInterest(t *testing.T) {
	t.Parallel()

	// Same last assignment date; the earlier expression of interest wins.
	ranked := Rank([]*Candidate{
		candidate("later", 5, 10, 2*time.Hour),
		candidate("earlier", 5, 10, time.Hour),
	}, SortLastAssignmentAsc)

	require.Equal(t, []string{"earlier", "later"}, names(ranked))
}

func TestRankIsDeterministic(t *testing.T) {
	t.Parallel()

	build := func() []*Candidate {
		a := candidate("a", 5, 10, time.Hour)
		b := candidate("b", 5, 10, time.Hour)
		// Pin user ids so both runs rank the exact same inputs.
		a.UserID = uuid.MustParse("00000000-0000-0000-0000-0000000000aa")
		b.UserID = uuid.MustParse("00000000-0000-0000-0000-0000000000bb")
		return []*Candidate{b, a}
	}

	first := names(Rank(build(), SortLastAssignmentAsc))
	second := names(Rank(build(), SortLastAssignmentAsc))
	require.Equal(t, first, second)
	require.Equal(t, []string{"a", "b"}, first)
}

func TestRankEmptySliceIsFine(t *testing.T) {
	t.Parallel()

	require.Empty(t, Rank(nil, SortDistanceAsc))
	require.Empty(t, Rank([]*Candidate{}, DefaultSortOption))
}
