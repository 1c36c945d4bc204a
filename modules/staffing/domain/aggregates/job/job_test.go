package job

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aisleworks/aisle/pkg/serrors"
)

func newTestJob(status Status) *Job {
	start := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
	return New("Garden wedding", start, start.Add(6*time.Hour), WithStatus(status))
}

func TestStatusTransitions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusDraft, StatusAvailable, true},
		{StatusDraft, StatusCancelled, true},
		{StatusDraft, StatusInProgress, false},
		{StatusAvailable, StatusUpcoming, true},
		{StatusAvailable, StatusInProgress, true},
		{StatusUpcoming, StatusAvailable, true},
		{StatusUpcoming, StatusInProgress, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusCompleted, StatusAvailable, false},
		{StatusCancelled, StatusDraft, false},
		{StatusCompleted, StatusCancelled, false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestTransitionRejectsIllegalMove(t *testing.T) {
	t.Parallel()

	j := newTestJob(StatusCompleted)
	err := j.Transition(StatusAvailable)
	require.Error(t, err)
	require.Equal(t, serrors.CodeInvalidStateTransition, serrors.CodeOf(err))
	require.Equal(t, StatusCompleted, j.Status())
}

func TestTransitionRefusesDirectCompletion(t *testing.T) {
	t.Parallel()

	j := newTestJob(StatusInProgress)
	require.Error(t, j.Transition(StatusCompleted))
	require.Equal(t, StatusInProgress, j.Status())
}

func TestCompleteRecordsAnalytics(t *testing.T) {
	t.Parallel()

	j := newTestJob(StatusInProgress)
	created := j.CreatedAt()
	filled := created.Add(2 * time.Hour)
	done := created.Add(26 * time.Hour)

	require.NoError(t, j.Complete(done, filled))
	require.Equal(t, StatusCompleted, j.Status())
	require.NotNil(t, j.CompletedAt())
	require.NotNil(t, j.TimeToFill())
	require.NotNil(t, j.AssignmentToCompletion())
	require.Equal(t, 2*time.Hour, *j.TimeToFill())
	require.Equal(t, 24*time.Hour, *j.AssignmentToCompletion())
}

func TestCompleteWithoutAssignmentsLeavesAnalyticsNil(t *testing.T) {
	t.Parallel()

	j := newTestJob(StatusInProgress)
	require.NoError(t, j.Complete(time.Now(), time.Time{}))
	require.Nil(t, j.TimeToFill())
	require.Nil(t, j.AssignmentToCompletion())
}

func TestCompleteFromTerminalFails(t *testing.T) {
	t.Parallel()

	j := newTestJob(StatusCancelled)
	err := j.Complete(time.Now(), time.Time{})
	require.Equal(t, serrors.CodeInvalidStateTransition, serrors.CodeOf(err))
	require.Nil(t, j.CompletedAt())
}

func TestRoleCapacity(t *testing.T) {
	t.Parallel()

	c := RoleCapacity{Role: "server", Required: 3, Filled: 2}
	require.Equal(t, 1, c.Remaining())
	require.False(t, c.IsFull())

	c.Filled = 3
	require.True(t, c.IsFull())
	require.Equal(t, 0, c.Remaining())
}
