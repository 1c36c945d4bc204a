package assignment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aisleworks/aisle/modules/staffing/domain/schedule"
)

// Assignment links one worker to one job for one required role. Immutable
// after creation except for completion propagated from the job.
type Assignment struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	JobID       uuid.UUID  `json:"job_id"`
	UserID      uuid.UUID  `json:"user_id"`
	Role        string     `json:"role"`
	AssignedBy  uuid.UUID  `json:"assigned_by"`
	AssignedAt  time.Time  `json:"assigned_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func New(jobID, userID uuid.UUID, role string, assignedBy uuid.UUID) *Assignment {
	return &Assignment{
		ID:         uuid.New(),
		JobID:      jobID,
		UserID:     userID,
		Role:       role,
		AssignedBy: assignedBy,
		AssignedAt: time.Now(),
	}
}

// Commitment is an assignment projected onto its job's scheduling window,
// used for time-conflict screening. A commitment whose job window could not
// be resolved carries a zero window and never conflicts.
type Commitment struct {
	AssignmentID uuid.UUID
	JobID        uuid.UUID
	Window       schedule.Window
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Assignment, error)
	GetByJob(ctx context.Context, jobID uuid.UUID) ([]*Assignment, error)
	GetByUser(ctx context.Context, userID uuid.UUID) ([]*Assignment, error)
	Create(ctx context.Context, a *Assignment) (*Assignment, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ActiveCommitments returns the user's not-yet-completed assignments
	// joined to their jobs' time windows, excluding cancelled jobs.
	ActiveCommitments(ctx context.Context, userID uuid.UUID) ([]Commitment, error)

	// LastCompletedBefore returns the completed_at of the user's most recent
	// assignment completed before the cutoff, or nil when there is none.
	LastCompletedBefore(ctx context.Context, userID uuid.UUID, cutoff time.Time) (*time.Time, error)

	// PropagateCompletion stamps completed_at on all of a job's assignments.
	PropagateCompletion(ctx context.Context, jobID uuid.UUID, completedAt time.Time) error
}
