package droprequest_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/aisleworks/aisle/modules/staffing/domain/aggregates/droprequest"
)

func TestNewStartsPending(t *testing.T) {
	t.Parallel()

	r := droprequest.New(uuid.New(), uuid.New(), "family emergency")

	require.Equal(t, droprequest.StatusPending, r.Status)
	require.False(t, r.RequestedAt.IsZero())
	require.Nil(t, r.EscalatedAt)
	require.Nil(t, r.ResolvedAt)
	require.Nil(t, r.ResolvedBy)
}

func TestStatusClassification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status   droprequest.Status
		valid    bool
		terminal bool
		active   bool
	}{
		{droprequest.StatusPending, true, false, true},
		{droprequest.StatusEscalated, true, false, true},
		{droprequest.StatusApproved, true, true, false},
		{droprequest.StatusRejected, true, true, false},
		{droprequest.Status("cancelled"), false, false, false},
		{droprequest.Status(""), false, false, false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(string(tc.status), func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.valid, tc.status.IsValid())
			require.Equal(t, tc.terminal, tc.status.IsTerminal())
			require.Equal(t, tc.active, tc.status.IsActive())
		})
	}
}

func TestResolvableFrom(t *testing.T) {
	t.Parallel()

	require.ElementsMatch(t,
		[]droprequest.Status{droprequest.StatusPending, droprequest.StatusEscalated},
		droprequest.ResolvableFrom(),
	)
}

func TestIsEscalationDue(t *testing.T) {
	t.Parallel()

	window := 24 * time.Hour
	requested := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	pending := &droprequest.DropRequest{Status: droprequest.StatusPending, RequestedAt: requested}

	require.False(t, droprequest.IsEscalationDue(pending, requested.Add(23*time.Hour), window))
	require.True(t, droprequest.IsEscalationDue(pending, requested.Add(24*time.Hour), window))
	require.True(t, droprequest.IsEscalationDue(pending, requested.Add(48*time.Hour), window))

	// Only pending requests escalate; a request already escalated or resolved
	// never becomes due again.
	for _, s := range []droprequest.Status{
		droprequest.StatusEscalated,
		droprequest.StatusApproved,
		droprequest.StatusRejected,
	} {
		r := &droprequest.DropRequest{Status: s, RequestedAt: requested}
		require.False(t, droprequest.IsEscalationDue(r, requested.Add(72*time.Hour), window))
	}
}
