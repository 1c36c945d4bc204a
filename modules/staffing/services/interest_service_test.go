package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	coreuser "github.com/aisleworks/aisle/modules/core/domain/aggregates/user"
	"github.com/aisleworks/aisle/modules/staffing/domain/aggregates/assignment"
	"github.com/aisleworks/aisle/modules/staffing/domain/aggregates/job"
	"github.com/aisleworks/aisle/modules/staffing/domain/entities/interest"
	"github.com/aisleworks/aisle/pkg/serrors"
)

type interestFixture struct {
	service     *InterestService
	jobs        *memoryJobRepo
	interests   *memoryInterestRepo
	assignments *memoryAssignmentRepo
	manager     coreuser.User
	worker      coreuser.User
	job         *job.Job
}

func newInterestFixture(t *testing.T) *interestFixture {
	t.Cleanup(func() { authorizeStaffingFn = defaultAuthorizeStaffing })
	authorizeStaffingFn = allowAllStaffing()

	manager := testUser(coreuser.RoleManager)
	worker := testUser(coreuser.RoleEmployee)
	jobs := newMemoryJobRepo()
	interests := newMemoryInterestRepo()
	assignments := newMemoryAssignmentRepo()

	j := job.New("Reception", jobWindowStart, jobWindowStart.Add(6*time.Hour),
		job.WithTenantID(testTenantID),
		job.WithStatus(job.StatusAvailable),
		job.WithRequirements([]job.RoleRequirement{{Role: "server", Required: 2}}),
		job.WithCreatedBy(manager.ID()),
	)
	jobs.jobs[j.ID()] = j

	return &interestFixture{
		service:     NewInterestService(interests, jobs, assignments, &stubPublisher{}),
		jobs:        jobs,
		interests:   interests,
		assignments: assignments,
		manager:     manager,
		worker:      worker,
		job:         j,
	}
}

func TestInterestService_Express(t *testing.T) {
	f := newInterestFixture(t)

	created, err := f.service.Express(testCtx(f.worker), f.job.ID())
	require.NoError(t, err)
	require.Equal(t, f.worker.ID(), created.UserID)
	require.Equal(t, f.job.ID(), created.JobID)
}

func TestInterestService_ExpressTwiceConflicts(t *testing.T) {
	f := newInterestFixture(t)
	ctx := testCtx(f.worker)

	_, err := f.service.Express(ctx, f.job.ID())
	require.NoError(t, err)

	_, err = f.service.Express(ctx, f.job.ID())
	require.Error(t, err)
	require.Equal(t, serrors.CodeConflict, serrors.CodeOf(err))
}

func TestInterestService_ExpressOnClosedJobConflicts(t *testing.T) {
	f := newInterestFixture(t)

	for _, status := range []job.Status{job.StatusDraft, job.StatusUpcoming, job.StatusCancelled} {
		f.jobs.jobs[f.job.ID()] = cloneJobWithStatus(f.job, status)
		_, err := f.service.Express(testCtx(f.worker), f.job.ID())
		require.Error(t, err, "status %s", status)
		require.Equal(t, serrors.CodeConflict, serrors.CodeOf(err))
	}
}

// The worker holds a 18:00-22:00 commitment; expressing interest in the
// overlapping 14:00-20:00 job fails up front with a time conflict.
func TestInterestService_ExpressOverlappingCommitment(t *testing.T) {
	f := newInterestFixture(t)

	other := job.New("Evening gala", jobWindowStart.Add(4*time.Hour), jobWindowStart.Add(8*time.Hour),
		job.WithTenantID(testTenantID),
		job.WithStatus(job.StatusUpcoming),
	)
	held := assignment.New(other.ID(), f.worker.ID(), "server", f.manager.ID())
	f.assignments.commitments = []assignment.Commitment{
		{AssignmentID: held.ID, JobID: other.ID(), Window: other.Window()},
	}

	_, err := f.service.Express(testCtx(f.worker), f.job.ID())
	require.Error(t, err)
	require.Equal(t, serrors.CodeTimeConflict, serrors.CodeOf(err))
}

// A commitment whose job window could not be resolved never blocks a worker.
func TestInterestService_ExpressZeroWindowCommitmentIgnored(t *testing.T) {
	f := newInterestFixture(t)

	f.assignments.commitments = []assignment.Commitment{{}}

	_, err := f.service.Express(testCtx(f.worker), f.job.ID())
	require.NoError(t, err)
}

func TestInterestService_Withdraw(t *testing.T) {
	f := newInterestFixture(t)
	ctx := testCtx(f.worker)

	_, err := f.service.Express(ctx, f.job.ID())
	require.NoError(t, err)

	require.NoError(t, f.service.Withdraw(ctx, f.job.ID()))
	require.Empty(t, f.interests.interests)

	err = f.service.Withdraw(ctx, f.job.ID())
	require.Error(t, err)
	require.Equal(t, serrors.CodeNotFound, serrors.CodeOf(err))
}

func TestInterestService_RankCandidatesUnknownJob(t *testing.T) {
	f := newInterestFixture(t)

	_, err := f.service.RankCandidates(testCtx(f.manager), uuid.New(), interest.DefaultSortOption, "")
	require.Error(t, err)
	require.Equal(t, serrors.CodeNotFound, serrors.CodeOf(err))
}

func TestInterestService_RankCandidatesAppliesSortAndFilter(t *testing.T) {
	f := newInterestFixture(t)

	never := &interest.Candidate{UserID: uuid.New(), FirstName: "Nora", LastName: "Nguyen", Email: "nora@example.com", ExpressedAt: jobWindowStart}
	recentDate := jobWindowStart.AddDate(0, 0, -2)
	recent := &interest.Candidate{UserID: uuid.New(), FirstName: "Rita", LastName: "Reyes", Email: "rita@example.com", LastAssignmentDate: &recentDate, ExpressedAt: jobWindowStart}
	f.interests.candidates[f.job.ID()] = []*interest.Candidate{recent, never}

	ranked, err := f.service.RankCandidates(testCtx(f.manager), f.job.ID(), interest.SortLastAssignmentAsc, "")
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	require.Equal(t, "Nora", ranked[0].FirstName, "never-assigned worker ranks first")

	filtered, err := f.service.RankCandidates(testCtx(f.manager), f.job.ID(), interest.SortLastAssignmentAsc, "rita")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, "Rita", filtered[0].FirstName)
}
