package services

import (
	"context"
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

type memoryJobRepo struct {
	jobs       map[uuid.UUID]*job.Job
	capacities map[uuid.UUID][]job.RoleCapacity
	lastFilled map[uuid.UUID]time.Time
}

func newMemoryJobRepo() *memoryJobRepo {
	return &memoryJobRepo{
		jobs:       map[uuid.UUID]*job.Job{},
		capacities: map[uuid.UUID][]job.RoleCapacity{},
		lastFilled: map[uuid.UUID]time.Time{},
	}
}

func (m *memoryJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	j, ok := m.jobs[id]
	if !ok {
		return nil, serrors.NewNotFound("job not found", "Errors.Job.NotFound")
	}
	return j, nil
}

func (m *memoryJobRepo) GetPaginated(ctx context.Context, params *job.FindParams) ([]*job.Job, error) {
	var out []*job.Job
	for _, j := range m.jobs {
		out = append(out, j)
	}
	return out, nil
}

func (m *memoryJobRepo) Create(ctx context.Context, j *job.Job) (*job.Job, error) {
	m.jobs[j.ID()] = j
	return j, nil
}

func (m *memoryJobRepo) Update(ctx context.Context, j *job.Job) error {
	if _, ok := m.jobs[j.ID()]; !ok {
		return serrors.NewNotFound("job not found", "Errors.Job.NotFound")
	}
	m.jobs[j.ID()] = j
	return nil
}

func (m *memoryJobRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.jobs, id)
	return nil
}

func (m *memoryJobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, allowed []job.Status, next job.Status) (int64, error) {
	j, ok := m.jobs[id]
	if !ok {
		return 0, nil
	}
	for _, s := range allowed {
		if j.Status() == s {
			m.jobs[id] = cloneJobWithStatus(j, next)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memoryJobRepo) RoleCapacities(ctx context.Context, jobID uuid.UUID) ([]job.RoleCapacity, error) {
	return m.capacities[jobID], nil
}

func (m *memoryJobRepo) LastSlotFilledAt(ctx context.Context, jobID uuid.UUID) (time.Time, error) {
	return m.lastFilled[jobID], nil
}

func cloneJobWithStatus(j *job.Job, status job.Status) *job.Job {
	return job.New(j.Title(), j.StartTime(), j.EndTime(),
		job.WithID(j.ID()),
		job.WithTenantID(j.TenantID()),
		job.WithDescription(j.Description()),
		job.WithVenueID(j.VenueID()),
		job.WithStatus(status),
		job.WithTravelPay(j.TravelPay()),
		job.WithRequirements(j.Requirements()),
		job.WithCreatedBy(j.CreatedBy()),
		job.WithCreatedAt(j.CreatedAt()),
		job.WithCompletedAt(j.CompletedAt()),
	)
}

type memoryInterestRepo struct {
	interests  map[uuid.UUID]*interest.Interest
	candidates map[uuid.UUID][]*interest.Candidate
}

func newMemoryInterestRepo() *memoryInterestRepo {
	return &memoryInterestRepo{
		interests:  map[uuid.UUID]*interest.Interest{},
		candidates: map[uuid.UUID][]*interest.Candidate{},
	}
}

func (m *memoryInterestRepo) GetByJob(ctx context.Context, jobID uuid.UUID) ([]*interest.Interest, error) {
	var out []*interest.Interest
	for _, i := range m.interests {
		if i.JobID == jobID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (m *memoryInterestRepo) Create(ctx context.Context, i *interest.Interest) (*interest.Interest, error) {
	for _, existing := range m.interests {
		if existing.JobID == i.JobID && existing.UserID == i.UserID {
			return nil, serrors.NewConflict("interest already expressed for this job", "Errors.Interest.Exists")
		}
	}
	clone := *i
	clone.TenantID = testTenantID
	m.interests[i.ID] = &clone
	return &clone, nil
}

func (m *memoryInterestRepo) Delete(ctx context.Context, jobID, userID uuid.UUID) error {
	for id, i := range m.interests {
		if i.JobID == jobID && i.UserID == userID {
			delete(m.interests, id)
			return nil
		}
	}
	return serrors.NewNotFound("interest not found", "Errors.Interest.NotFound")
}

func (m *memoryInterestRepo) Candidates(ctx context.Context, jobID uuid.UUID) ([]*interest.Candidate, error) {
	return m.candidates[jobID], nil
}

type memoryUserRepo struct {
	users map[uuid.UUID]coreuser.User
}

func newMemoryUserRepo(users ...coreuser.User) *memoryUserRepo {
	m := &memoryUserRepo{users: map[uuid.UUID]coreuser.User{}}
	for _, u := range users {
		m.users[u.ID()] = u
	}
	return m
}

func (m *memoryUserRepo) Count(ctx context.Context) (int64, error) { return int64(len(m.users)), nil }

func (m *memoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (coreuser.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, serrors.NewNotFound("user not found", "Errors.User.NotFound")
	}
	return u, nil
}

func (m *memoryUserRepo) GetByEmail(ctx context.Context, email string) (coreuser.User, error) {
	for _, u := range m.users {
		if u.Email() == email {
			return u, nil
		}
	}
	return nil, serrors.NewNotFound("user not found", "Errors.User.NotFound")
}

func (m *memoryUserRepo) GetPaginated(ctx context.Context, params *coreuser.FindParams) ([]coreuser.User, error) {
	return nil, nil
}

func (m *memoryUserRepo) Create(ctx context.Context, u coreuser.User) (coreuser.User, error) {
	m.users[u.ID()] = u
	return u, nil
}

func (m *memoryUserRepo) Update(ctx context.Context, u coreuser.User) error {
	m.users[u.ID()] = u
	return nil
}

func (m *memoryUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.users, id)
	return nil
}

type assignmentFixture struct {
	service     *AssignmentService
	jobs        *memoryJobRepo
	assignments *memoryAssignmentRepo
	interests   *memoryInterestRepo
	users       *memoryUserRepo
	manager     coreuser.User
	worker      coreuser.User
	job         *job.Job
}

var jobWindowStart = time.Date(2025, 6, 14, 14, 0, 0, 0, time.UTC)

func newAssignmentFixture(t *testing.T) *assignmentFixture {
	t.Cleanup(func() { authorizeStaffingFn = defaultAuthorizeStaffing })
	authorizeStaffingFn = allowAllStaffing()

	manager := testUser(coreuser.RoleManager)
	worker := testUser(coreuser.RoleEmployee)
	jobs := newMemoryJobRepo()
	assignments := newMemoryAssignmentRepo()
	interests := newMemoryInterestRepo()
	users := newMemoryUserRepo(manager, worker)

	// A reception running 14:00-20:00 needing two servers.
	j := job.New("Reception", jobWindowStart, jobWindowStart.Add(6*time.Hour),
		job.WithTenantID(testTenantID),
		job.WithStatus(job.StatusAvailable),
		job.WithRequirements([]job.RoleRequirement{{Role: "server", Required: 2}}),
		job.WithCreatedBy(manager.ID()),
	)
	jobs.jobs[j.ID()] = j
	jobs.capacities[j.ID()] = []job.RoleCapacity{{Role: "server", Required: 2, Filled: 0}}

	return &assignmentFixture{
		service:     NewAssignmentService(assignments, jobs, interests, users, &stubPublisher{}),
		jobs:        jobs,
		assignments: assignments,
		interests:   interests,
		users:       users,
		manager:     manager,
		worker:      worker,
		job:         j,
	}
}

func TestAssignmentService_Assign(t *testing.T) {
	f := newAssignmentFixture(t)

	created, err := f.service.Assign(testCtx(f.manager), f.job.ID(), f.worker.ID(), "server")
	require.NoError(t, err)
	require.Equal(t, f.worker.ID(), created.UserID)
	require.Equal(t, "server", created.Role)
	require.Equal(t, f.manager.ID(), created.AssignedBy)
}

func TestAssignmentService_AssignConsumesInterest(t *testing.T) {
	f := newAssignmentFixture(t)
	_, err := f.interests.Create(context.Background(), interest.New(f.job.ID(), f.worker.ID()))
	require.NoError(t, err)

	_, err = f.service.Assign(testCtx(f.manager), f.job.ID(), f.worker.ID(), "server")
	require.NoError(t, err)
	require.Empty(t, f.interests.interests, "assignment should consume the expressed interest")
}

func TestAssignmentService_AssignJobNotAssignable(t *testing.T) {
	f := newAssignmentFixture(t)
	f.jobs.jobs[f.job.ID()] = cloneJobWithStatus(f.job, job.StatusDraft)

	_, err := f.service.Assign(testCtx(f.manager), f.job.ID(), f.worker.ID(), "server")
	require.Error(t, err)
	require.Equal(t, serrors.CodeConflict, serrors.CodeOf(err))
}

func TestAssignmentService_AssignUnknownRole(t *testing.T) {
	f := newAssignmentFixture(t)

	_, err := f.service.Assign(testCtx(f.manager), f.job.ID(), f.worker.ID(), "photographer")
	require.Error(t, err)
	require.Equal(t, serrors.CodeValidation, serrors.CodeOf(err))
}

func TestAssignmentService_AssignRoleFull(t *testing.T) {
	f := newAssignmentFixture(t)
	f.jobs.capacities[f.job.ID()] = []job.RoleCapacity{{Role: "server", Required: 2, Filled: 2}}

	_, err := f.service.Assign(testCtx(f.manager), f.job.ID(), f.worker.ID(), "server")
	require.Error(t, err)
	require.Equal(t, serrors.CodeConflict, serrors.CodeOf(err))
}

func TestAssignmentService_AssignUnknownWorkerNotFound(t *testing.T) {
	f := newAssignmentFixture(t)

	_, err := f.service.Assign(testCtx(f.manager), f.job.ID(), uuid.New(), "server")
	require.Error(t, err)
	require.Equal(t, serrors.CodeNotFound, serrors.CodeOf(err))
}

func TestAssignmentService_AssignAdminNotStaffable(t *testing.T) {
	f := newAssignmentFixture(t)
	admin := testUser(coreuser.RoleAdmin)
	f.users.users[admin.ID()] = admin

	_, err := f.service.Assign(testCtx(f.manager), f.job.ID(), admin.ID(), "server")
	require.Error(t, err)
	require.Equal(t, serrors.CodeValidation, serrors.CodeOf(err))

	require.Empty(t, f.assignments.assignments, "admins never occupy job slots")
}

// The worker already holds a 18:00-22:00 job; booking them into the
// 14:00-20:00 reception must fail with a time conflict.
func TestAssignmentService_AssignOverlappingCommitment(t *testing.T) {
	f := newAssignmentFixture(t)

	other := job.New("Evening gala", jobWindowStart.Add(4*time.Hour), jobWindowStart.Add(8*time.Hour),
		job.WithTenantID(testTenantID),
		job.WithStatus(job.StatusUpcoming),
	)
	held := assignment.New(other.ID(), f.worker.ID(), "server", f.manager.ID())
	held.TenantID = testTenantID
	f.assignments.assignments[held.ID] = held
	f.assignments.commitments = []assignment.Commitment{
		{AssignmentID: held.ID, JobID: other.ID(), Window: other.Window()},
	}

	_, err := f.service.Assign(testCtx(f.manager), f.job.ID(), f.worker.ID(), "server")
	require.Error(t, err)
	require.Equal(t, serrors.CodeTimeConflict, serrors.CodeOf(err))
}

// Back-to-back jobs share a boundary instant and must not conflict.
func TestAssignmentService_AssignBackToBackAllowed(t *testing.T) {
	f := newAssignmentFixture(t)

	other := job.New("Afterparty", jobWindowStart.Add(6*time.Hour), jobWindowStart.Add(10*time.Hour),
		job.WithTenantID(testTenantID),
		job.WithStatus(job.StatusUpcoming),
	)
	held := assignment.New(other.ID(), f.worker.ID(), "server", f.manager.ID())
	f.assignments.commitments = []assignment.Commitment{
		{AssignmentID: held.ID, JobID: other.ID(), Window: other.Window()},
	}

	_, err := f.service.Assign(testCtx(f.manager), f.job.ID(), f.worker.ID(), "server")
	require.NoError(t, err)
}

func TestAssignmentService_Release(t *testing.T) {
	f := newAssignmentFixture(t)

	created, err := f.service.Assign(testCtx(f.manager), f.job.ID(), f.worker.ID(), "server")
	require.NoError(t, err)

	require.NoError(t, f.service.Release(testCtx(f.manager), created.ID))
	_, err = f.assignments.GetByID(context.Background(), created.ID)
	require.Error(t, err)
}
