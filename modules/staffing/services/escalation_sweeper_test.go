package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/aisleworks/aisle/modules/staffing/domain/aggregates/droprequest"
	"github.com/aisleworks/aisle/pkg/composables"
	"github.com/aisleworks/aisle/pkg/configuration"
)

func newSweeperFixture(t *testing.T) (*EscalationSweeper, *memoryDropRequestRepo) {
	t.Cleanup(func() { authorizeStaffingFn = defaultAuthorizeStaffing })
	authorizeStaffingFn = allowAllStaffing()

	requests := newMemoryDropRequestRepo()
	service := NewDropRequestService(requests, newMemoryAssignmentRepo(), &stubPublisher{}, nil)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	sweeper := NewEscalationSweeper(requests, service, nil, nil, configuration.EscalationOptions{
		Enabled:       true,
		SLAWindow:     24 * time.Hour,
		SweepInterval: time.Minute,
		BatchSize:     10,
	}, logger)
	return sweeper, requests
}

func seedRequest(repo *memoryDropRequestRepo, status droprequest.Status, age time.Duration) *droprequest.DropRequest {
	r := droprequest.New(testTenantID, testTenantID, "needs coverage")
	r.TenantID = testTenantID
	r.Status = status
	r.RequestedAt = time.Now().Add(-age)
	repo.requests[r.ID] = r
	return r
}

func TestEscalationSweeper_EscalatesOverduePending(t *testing.T) {
	sweeper, requests := newSweeperFixture(t)

	overdue := seedRequest(requests, droprequest.StatusPending, 25*time.Hour)
	fresh := seedRequest(requests, droprequest.StatusPending, time.Hour)
	resolved := seedRequest(requests, droprequest.StatusApproved, 48*time.Hour)

	ctx := composables.WithTx(context.Background(), stubTx{})
	sweeper.Sweep(ctx)

	require.Equal(t, droprequest.StatusEscalated, requests.requests[overdue.ID].Status)
	require.NotNil(t, requests.requests[overdue.ID].EscalatedAt)
	require.Equal(t, droprequest.StatusPending, requests.requests[fresh.ID].Status,
		"a request inside the SLA window stays pending")
	require.Equal(t, droprequest.StatusApproved, requests.requests[resolved.ID].Status,
		"resolved requests are never touched")
}

func TestEscalationSweeper_SweepIsIdempotent(t *testing.T) {
	sweeper, requests := newSweeperFixture(t)
	overdue := seedRequest(requests, droprequest.StatusPending, 30*time.Hour)

	ctx := composables.WithTx(context.Background(), stubTx{})
	sweeper.Sweep(ctx)
	first := *requests.requests[overdue.ID].EscalatedAt
	sweeper.Sweep(ctx)

	require.Equal(t, droprequest.StatusEscalated, requests.requests[overdue.ID].Status)
	require.Equal(t, first, *requests.requests[overdue.ID].EscalatedAt,
		"a second sweep must not re-escalate")
}
