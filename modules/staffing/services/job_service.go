package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aisleworks/aisle/modules/staffing/domain/aggregates/assignment"
	"github.com/aisleworks/aisle/modules/staffing/domain/aggregates/job"
	"github.com/aisleworks/aisle/modules/staffing/domain/events"
	"github.com/aisleworks/aisle/pkg/composables"
	"github.com/aisleworks/aisle/pkg/eventbus"
	"github.com/aisleworks/aisle/pkg/serrors"
)

type JobService struct {
	repo        job.Repository
	assignments assignment.Repository
	publisher   eventbus.EventBus
}

func NewJobService(repo job.Repository, assignments assignment.Repository, publisher eventbus.EventBus) *JobService {
	return &JobService{
		repo:        repo,
		assignments: assignments,
		publisher:   publisher,
	}
}

func (s *JobService) GetByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*job.Job, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *JobService) GetPaginated(ctx context.Context, params *job.FindParams) ([]*job.Job, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*job.Job, error) {
		return s.repo.GetPaginated(txCtx, params)
	})
}

func (s *JobService) RoleCapacities(ctx context.Context, jobID uuid.UUID) ([]job.RoleCapacity, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]job.RoleCapacity, error) {
		if _, err := s.repo.GetByID(txCtx, jobID); err != nil {
			return nil, err
		}
		return s.repo.RoleCapacities(txCtx, jobID)
	})
}

func (s *JobService) Create(ctx context.Context, data *job.Job) (*job.Job, error) {
	if err := authorizeStaffing(ctx, JobsAuthzObject, "create"); err != nil {
		return nil, err
	}
	if err := validateJob(data); err != nil {
		return nil, err
	}
	created, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*job.Job, error) {
		return s.repo.Create(txCtx, data)
	})
	if err != nil {
		return nil, err
	}
	s.publishChanged(created, "created")
	return created, nil
}

func (s *JobService) Update(ctx context.Context, data *job.Job) error {
	if err := authorizeStaffing(ctx, JobsAuthzObject, "update"); err != nil {
		return err
	}
	if err := validateJob(data); err != nil {
		return err
	}
	if err := composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.Update(txCtx, data)
	}); err != nil {
		return err
	}
	s.publishChanged(data, "updated")
	return nil
}

func (s *JobService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := authorizeStaffing(ctx, JobsAuthzObject, "delete"); err != nil {
		return err
	}
	deleted, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*job.Job, error) {
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
	s.publishChanged(deleted, "deleted")
	return nil
}

// Transition moves the job to next through the status machine with a
// conditional update, so two managers racing the same job cannot both win.
// Completion goes through Complete instead.
func (s *JobService) Transition(ctx context.Context, id uuid.UUID, next job.Status) (*job.Job, error) {
	if err := authorizeStaffing(ctx, JobsAuthzObject, "transition"); err != nil {
		return nil, err
	}
	updated, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*job.Job, error) {
		current, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		if next == job.StatusCompleted || !current.Status().CanTransitionTo(next) {
			return nil, job.ErrInvalidTransition
		}
		affected, err := s.repo.UpdateStatus(txCtx, id, []job.Status{current.Status()}, next)
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			// Lost the race; re-read for the accurate failure.
			if _, err := s.repo.GetByID(txCtx, id); err != nil {
				return nil, err
			}
			return nil, job.ErrInvalidTransition
		}
		return s.repo.GetByID(txCtx, id)
	})
	if err != nil {
		return nil, err
	}
	s.publishChanged(updated, "transitioned")
	return updated, nil
}

// Complete finishes an in-progress job: flips the status, records the staffing
// analytics and stamps completed_at onto the job's assignments so the workers'
// history reflects it.
func (s *JobService) Complete(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	if err := authorizeStaffing(ctx, JobsAuthzObject, "complete"); err != nil {
		return nil, err
	}
	now := time.Now()
	completed, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*job.Job, error) {
		current, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		// Win the status race first; only then touch the aggregate.
		affected, err := s.repo.UpdateStatus(txCtx, id, []job.Status{job.StatusInProgress}, job.StatusCompleted)
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, job.ErrInvalidTransition
		}
		lastFilled, err := s.repo.LastSlotFilledAt(txCtx, id)
		if err != nil {
			return nil, err
		}
		if err := current.Complete(now, lastFilled); err != nil {
			return nil, err
		}
		if err := s.repo.Update(txCtx, current); err != nil {
			return nil, err
		}
		if err := s.assignments.PropagateCompletion(txCtx, id, now); err != nil {
			return nil, err
		}
		return current, nil
	})
	if err != nil {
		return nil, err
	}
	s.publishChanged(completed, "completed")
	return completed, nil
}

func validateJob(data *job.Job) error {
	if data.Title() == "" {
		return serrors.NewValidationError("job title is required", "Errors.Job.TitleRequired")
	}
	if !data.StartTime().Before(data.EndTime()) {
		return serrors.NewValidationError("job start time must be before its end time", "Errors.Job.InvalidWindow")
	}
	for _, req := range data.Requirements() {
		if req.Role == "" || req.Required <= 0 {
			return serrors.NewValidationError("each role requirement needs a role and a positive headcount", "Errors.Job.InvalidRequirement")
		}
	}
	return nil
}

func (s *JobService) publishChanged(entity *job.Job, changeType string) {
	s.publisher.Publish(events.TopicJobChangedV1, events.JobChangedV1{
		EventID:      uuid.New(),
		EventVersion: events.EventVersionV1,
		TenantID:     entity.TenantID(),
		JobID:        entity.ID(),
		Status:       string(entity.Status()),
		ChangeType:   changeType,
		OccurredAt:   time.Now(),
	})
}
