package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aisleworks/aisle/modules/core/domain/aggregates/user"
	"github.com/aisleworks/aisle/modules/staffing/domain/aggregates/assignment"
	"github.com/aisleworks/aisle/modules/staffing/domain/aggregates/job"
	"github.com/aisleworks/aisle/modules/staffing/domain/entities/interest"
	"github.com/aisleworks/aisle/modules/staffing/domain/events"
	"github.com/aisleworks/aisle/modules/staffing/domain/schedule"
	"github.com/aisleworks/aisle/pkg/composables"
	"github.com/aisleworks/aisle/pkg/eventbus"
	"github.com/aisleworks/aisle/pkg/serrors"
)

var (
	ErrJobNotAssignable = serrors.NewConflict("the job is not open for assignments", "Errors.Assignment.JobNotAssignable")
	ErrRoleNotRequired  = serrors.NewValidationError("the job does not require this role", "Errors.Assignment.RoleNotRequired")
	ErrRoleFull         = serrors.NewConflict("all slots for this role are filled", "Errors.Assignment.RoleFull")
	ErrScheduleConflict = serrors.NewTimeConflict("the worker already has a job in this time window", "Errors.Assignment.ScheduleConflict")
	ErrNotStaffable     = serrors.NewValidationError("only employees and managers can be booked into job slots", "Errors.Assignment.NotStaffable")
)

type AssignmentService struct {
	repo      assignment.Repository
	jobs      job.Repository
	interests interest.Repository
	users     user.Repository
	publisher eventbus.EventBus
}

func NewAssignmentService(
	repo assignment.Repository,
	jobs job.Repository,
	interests interest.Repository,
	users user.Repository,
	publisher eventbus.EventBus,
) *AssignmentService {
	return &AssignmentService{
		repo:      repo,
		jobs:      jobs,
		interests: interests,
		users:     users,
		publisher: publisher,
	}
}

func (s *AssignmentService) GetByID(ctx context.Context, id uuid.UUID) (*assignment.Assignment, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*assignment.Assignment, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *AssignmentService) GetByJob(ctx context.Context, jobID uuid.UUID) ([]*assignment.Assignment, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*assignment.Assignment, error) {
		return s.repo.GetByJob(txCtx, jobID)
	})
}

func (s *AssignmentService) GetByUser(ctx context.Context, userID uuid.UUID) ([]*assignment.Assignment, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*assignment.Assignment, error) {
		return s.repo.GetByUser(txCtx, userID)
	})
}

// Assign books a worker into a job slot. The job must be open for staffing,
// the role must be one the job requires with capacity left, and the worker's
// open commitments must not overlap the job's window. A matching expressed
// interest is consumed on success.
func (s *AssignmentService) Assign(ctx context.Context, jobID, userID uuid.UUID, role string) (*assignment.Assignment, error) {
	if err := authorizeStaffing(ctx, AssignmentsAuthzObject, "create"); err != nil {
		return nil, err
	}
	actor, err := composables.UseUser(ctx)
	if err != nil {
		return nil, serrors.NewPermissionDenied("no acting user", "Errors.Authorization.NoUser")
	}

	created, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*assignment.Assignment, error) {
		target, err := s.jobs.GetByID(txCtx, jobID)
		if err != nil {
			return nil, err
		}
		if !target.Status().Assignable() {
			return nil, ErrJobNotAssignable
		}
		if target.RequiredCount(role) == 0 {
			return nil, ErrRoleNotRequired
		}
		capacities, err := s.jobs.RoleCapacities(txCtx, jobID)
		if err != nil {
			return nil, err
		}
		for _, c := range capacities {
			if c.Role == role && c.IsFull() {
				return nil, ErrRoleFull
			}
		}
		// Tenant-scoped lookup, so a cross-tenant worker reads as missing.
		worker, err := s.users.GetByID(txCtx, userID)
		if err != nil {
			return nil, err
		}
		if worker.Role() != user.RoleEmployee && worker.Role() != user.RoleManager {
			return nil, ErrNotStaffable
		}
		if err := s.screenConflicts(txCtx, userID, target.Window()); err != nil {
			return nil, err
		}

		entity, err := s.repo.Create(txCtx, assignment.New(jobID, userID, role, actor.ID()))
		if err != nil {
			return nil, err
		}
		// The worker's interest, if any, is consumed by the assignment.
		if err := s.interests.Delete(txCtx, jobID, userID); err != nil &&
			!serrors.HasCode(err, serrors.CodeNotFound) {
			return nil, err
		}
		return entity, nil
	})
	if err != nil {
		return nil, err
	}
	s.publishChanged(created, "assigned")
	return created, nil
}

// Release removes the worker from the job, freeing the slot.
func (s *AssignmentService) Release(ctx context.Context, id uuid.UUID) error {
	if err := authorizeStaffing(ctx, AssignmentsAuthzObject, "delete"); err != nil {
		return err
	}
	released, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*assignment.Assignment, error) {
		entity, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return nil, err
		}
		return entity, nil
	})
	if err != nil {
		return err
	}
	s.publishChanged(released, "released")
	return nil
}

// screenConflicts rejects the booking when any of the worker's open
// commitments overlaps the window. Commitments with unusable windows are
// skipped rather than blocking the worker.
func (s *AssignmentService) screenConflicts(ctx context.Context, userID uuid.UUID, window schedule.Window) error {
	commitments, err := s.repo.ActiveCommitments(ctx, userID)
	if err != nil {
		return err
	}
	for _, c := range commitments {
		if window.Conflicts(c.Window) {
			return ErrScheduleConflict
		}
	}
	return nil
}

func (s *AssignmentService) publishChanged(entity *assignment.Assignment, changeType string) {
	s.publisher.Publish(events.TopicAssignmentChangedV1, events.AssignmentChangedV1{
		EventID:      uuid.New(),
		EventVersion: events.EventVersionV1,
		TenantID:     entity.TenantID,
		AssignmentID: entity.ID,
		JobID:        entity.JobID,
		UserID:       entity.UserID,
		ChangeType:   changeType,
		OccurredAt:   time.Now(),
	})
}
