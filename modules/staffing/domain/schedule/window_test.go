package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 6, 15, hour, minute, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		a, b     Window
		conflict bool
	}{
		{
			name:     "disjoint",
			a:        NewWindow(at(9, 0), at(11, 0)),
			b:        NewWindow(at(12, 0), at(14, 0)),
			conflict: false,
		},
		{
			name:     "back to back never conflict",
			a:        NewWindow(at(9, 0), at(12, 0)),
			b:        NewWindow(at(12, 0), at(14, 0)),
			conflict: false,
		},
		{
			name:     "partial overlap",
			a:        NewWindow(at(14, 0), at(20, 0)),
			b:        NewWindow(at(18, 0), at(22, 0)),
			conflict: true,
		},
		{
			name:     "containment",
			a:        NewWindow(at(9, 0), at(18, 0)),
			b:        NewWindow(at(10, 0), at(11, 0)),
			conflict: true,
		},
		{
			name:     "identical",
			a:        NewWindow(at(9, 0), at(11, 0)),
			b:        NewWindow(at(9, 0), at(11, 0)),
			conflict: true,
		},
		{
			name:     "zero duration conflicts with nothing",
			a:        NewWindow(at(10, 0), at(10, 0)),
			b:        NewWindow(at(9, 0), at(11, 0)),
			conflict: false,
		},
		{
			name:     "zero duration at boundary",
			a:        NewWindow(at(9, 0), at(9, 0)),
			b:        NewWindow(at(9, 0), at(11, 0)),
			conflict: false,
		},
		{
			name:     "inverted window conflicts with nothing",
			a:        NewWindow(at(11, 0), at(9, 0)),
			b:        NewWindow(at(8, 0), at(12, 0)),
			conflict: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.conflict, tc.a.Conflicts(tc.b))
			// Conflict detection is symmetric.
			require.Equal(t, tc.conflict, tc.b.Conflicts(tc.a))
		})
	}
}

func TestOverlapsNormalizesZones(t *testing.T) {
	t.Parallel()

	// 10:00–16:00 at UTC-4 is 14:00–20:00 UTC; the instant is what matters,
	// not the wall clock.
	ny := time.FixedZone("UTC-4", -4*60*60)
	a := NewWindow(
		time.Date(2025, 6, 15, 10, 0, 0, 0, ny),
		time.Date(2025, 6, 15, 16, 0, 0, 0, ny),
	)
	b := NewWindow(at(18, 0), at(22, 0))

	// a is 14:00–20:00 UTC, so it overlaps 18:00–22:00 UTC.
	require.True(t, a.Conflicts(b))
}

func TestZeroWindowFailsOpen(t *testing.T) {
	t.Parallel()

	var corrupt Window
	require.False(t, corrupt.Conflicts(NewWindow(at(9, 0), at(11, 0))))
	require.False(t, NewWindow(at(9, 0), at(11, 0)).Conflicts(corrupt))
}
