package persistence_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aisleworks/aisle/modules/core"
	coreuser "github.com/aisleworks/aisle/modules/core/domain/aggregates/user"
	"github.com/aisleworks/aisle/modules/staffing"
	"github.com/aisleworks/aisle/modules/staffing/domain/aggregates/assignment"
	"github.com/aisleworks/aisle/modules/staffing/domain/aggregates/droprequest"
	"github.com/aisleworks/aisle/modules/staffing/domain/aggregates/job"
	"github.com/aisleworks/aisle/modules/staffing/domain/entities/interest"
	"github.com/aisleworks/aisle/modules/staffing/domain/entities/venue"
	"github.com/aisleworks/aisle/modules/staffing/infrastructure/persistence"
	"github.com/aisleworks/aisle/pkg/geo"
	"github.com/aisleworks/aisle/pkg/itf"
	"github.com/aisleworks/aisle/pkg/serrors"
)

var windowStart = time.Date(2025, time.June, 14, 14, 0, 0, 0, time.UTC)

func seedJob(t *testing.T, env *itf.Env, status job.Status) *job.Job {
	t.Helper()
	created, err := persistence.NewJobRepository().Create(env.Ctx, job.New(
		"Reception", windowStart, windowStart.Add(6*time.Hour),
		job.WithStatus(status),
		job.WithRequirements([]job.RoleRequirement{{Role: "server", Required: 2}}),
	))
	require.NoError(t, err)
	return created
}

func TestPgJobRepository_ConditionalStatusUpdate(t *testing.T) {
	env := itf.Setup(t, core.NewModule(), staffing.NewModule())
	repo := persistence.NewJobRepository()
	created := seedJob(t, env, job.StatusAvailable)

	affected, err := repo.UpdateStatus(env.Ctx, created.ID(),
		[]job.Status{job.StatusAvailable}, job.StatusUpcoming)
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)

	// The guard set no longer matches, so the update must not fire.
	affected, err = repo.UpdateStatus(env.Ctx, created.ID(),
		[]job.Status{job.StatusAvailable}, job.StatusInProgress)
	require.NoError(t, err)
	require.EqualValues(t, 0, affected)

	current, err := repo.GetByID(env.Ctx, created.ID())
	require.NoError(t, err)
	require.Equal(t, job.StatusUpcoming, current.Status())
}

func TestPgAssignmentRepository_CommitmentsAndCapacity(t *testing.T) {
	env := itf.Setup(t, core.NewModule(), staffing.NewModule())
	jobs := persistence.NewJobRepository()
	assignments := persistence.NewAssignmentRepository()

	manager := env.CreateUser(coreuser.RoleManager)
	worker := env.CreateUser(coreuser.RoleEmployee)
	created := seedJob(t, env, job.StatusAvailable)

	_, err := assignments.Create(env.Ctx,
		assignment.New(created.ID(), worker.ID(), "server", manager.ID()))
	require.NoError(t, err)

	commitments, err := assignments.ActiveCommitments(env.Ctx, worker.ID())
	require.NoError(t, err)
	require.Len(t, commitments, 1)
	require.Equal(t, created.ID(), commitments[0].JobID)
	require.True(t, commitments[0].Window.Start.Equal(windowStart))

	capacities, err := jobs.RoleCapacities(env.Ctx, created.ID())
	require.NoError(t, err)
	require.Len(t, capacities, 1)
	require.Equal(t, "server", capacities[0].Role)
	require.Equal(t, 2, capacities[0].Required)
	require.Equal(t, 1, capacities[0].Filled)

	completedAt := windowStart.Add(6 * time.Hour)
	require.NoError(t, assignments.PropagateCompletion(env.Ctx, created.ID(), completedAt))
	commitments, err = assignments.ActiveCommitments(env.Ctx, worker.ID())
	require.NoError(t, err)
	require.Empty(t, commitments, "completed assignments are no longer commitments")

	last, err := assignments.LastCompletedBefore(env.Ctx, worker.ID(), completedAt.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, last)

	// Duplicate (job, user) pair. Last statement: the unique violation
	// aborts the enclosing test transaction.
	_, err = assignments.Create(env.Ctx,
		assignment.New(created.ID(), worker.ID(), "server", manager.ID()))
	require.Equal(t, serrors.CodeConflict, serrors.CodeOf(err))
}

func TestPgInterestRepository_CandidateProjection(t *testing.T) {
	env := itf.Setup(t, core.NewModule(), staffing.NewModule())
	jobs := persistence.NewJobRepository()
	interests := persistence.NewInterestRepository()

	downtown := geo.NewPoint(-97.7431, 30.2672)
	roundRock := geo.NewPoint(-97.6789, 30.5083)
	worker := env.CreateUser(coreuser.RoleEmployee, coreuser.WithLocation(&downtown))

	loc, err := persistence.NewVenueRepository().Create(env.Ctx,
		venue.New("Barton Hall", "123 Lakeshore Dr", &roundRock))
	require.NoError(t, err)

	venueID := loc.ID
	created, err := jobs.Create(env.Ctx, job.New(
		"Gala", windowStart, windowStart.Add(4*time.Hour),
		job.WithStatus(job.StatusAvailable),
		job.WithVenueID(&venueID),
	))
	require.NoError(t, err)

	_, err = interests.Create(env.Ctx, interest.New(created.ID(), worker.ID()))
	require.NoError(t, err)

	candidates, err := interests.Candidates(env.Ctx, created.ID())
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, worker.ID(), candidates[0].UserID)
	require.NotNil(t, candidates[0].DistanceKm, "both ends have coordinates")
	require.InDelta(t, 27.5, *candidates[0].DistanceKm, 2.0)
	require.Nil(t, candidates[0].LastAssignmentDate, "never worked a completed job")
}

func TestPgDropRequestRepository_ActiveUniquenessAndResolve(t *testing.T) {
	env := itf.Setup(t, core.NewModule(), staffing.NewModule())
	assignments := persistence.NewAssignmentRepository()
	requests := persistence.NewDropRequestRepository()

	manager := env.CreateUser(coreuser.RoleManager)
	worker := env.CreateUser(coreuser.RoleEmployee)
	created := seedJob(t, env, job.StatusUpcoming)
	assigned, err := assignments.Create(env.Ctx,
		assignment.New(created.ID(), worker.ID(), "server", manager.ID()))
	require.NoError(t, err)

	first, err := requests.Create(env.Ctx,
		droprequest.New(assigned.ID, worker.ID(), "family emergency"))
	require.NoError(t, err)
	require.Equal(t, droprequest.StatusPending, first.Status)

	active, err := requests.GetActiveByAssignment(env.Ctx, assigned.ID)
	require.NoError(t, err)
	require.NotNil(t, active)
	require.Equal(t, first.ID, active.ID)

	affected, err := requests.Resolve(env.Ctx, first.ID,
		[]droprequest.Status{droprequest.StatusPending},
		droprequest.StatusApproved, manager.ID(), time.Now())
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)

	// Already approved, so the second resolution loses.
	affected, err = requests.Resolve(env.Ctx, first.ID,
		[]droprequest.Status{droprequest.StatusPending, droprequest.StatusEscalated},
		droprequest.StatusRejected, manager.ID(), time.Now())
	require.NoError(t, err)
	require.EqualValues(t, 0, affected)

	resolved, err := requests.GetByID(env.Ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, droprequest.StatusApproved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)

	// A resolved request no longer blocks a new one.
	active, err = requests.GetActiveByAssignment(env.Ctx, assigned.ID)
	require.NoError(t, err)
	require.Nil(t, active)
	_, err = requests.Create(env.Ctx,
		droprequest.New(assigned.ID, worker.ID(), "second thoughts"))
	require.NoError(t, err)
}

func TestPgDropRequestRepository_EscalateOnlyFromPending(t *testing.T) {
	env := itf.Setup(t, core.NewModule(), staffing.NewModule())
	assignments := persistence.NewAssignmentRepository()
	requests := persistence.NewDropRequestRepository()

	manager := env.CreateUser(coreuser.RoleManager)
	worker := env.CreateUser(coreuser.RoleEmployee)
	created := seedJob(t, env, job.StatusUpcoming)
	assigned, err := assignments.Create(env.Ctx,
		assignment.New(created.ID(), worker.ID(), "server", manager.ID()))
	require.NoError(t, err)

	request, err := requests.Create(env.Ctx,
		droprequest.New(assigned.ID, worker.ID(), "double booked"))
	require.NoError(t, err)

	affected, err := requests.Escalate(env.Ctx, request.ID, time.Now())
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)

	// Second escalation is a no-op: the status guard no longer matches.
	affected, err = requests.Escalate(env.Ctx, request.ID, time.Now())
	require.NoError(t, err)
	require.EqualValues(t, 0, affected)

	escalated, err := requests.GetByID(env.Ctx, request.ID)
	require.NoError(t, err)
	require.Equal(t, droprequest.StatusEscalated, escalated.Status)
	require.NotNil(t, escalated.EscalatedAt)

	due, err := requests.FindEscalationDue(env.Ctx, time.Now().Add(time.Minute), 10)
	require.NoError(t, err)
	require.Empty(t, due, "escalated requests are out of the sweeper's reach")
}
