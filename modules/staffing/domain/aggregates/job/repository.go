package job

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type FindParams struct {
	Status Status
	Search string
	Limit  int
	Offset int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Job, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Job, error)
	Create(ctx context.Context, j *Job) (*Job, error)
	Update(ctx context.Context, j *Job) error
	Delete(ctx context.Context, id uuid.UUID) error

	// UpdateStatus conditionally moves the job's status, returning the number
	// of rows affected. Zero means the job was missing or no longer in one of
	// the allowed states.
	UpdateStatus(ctx context.Context, id uuid.UUID, allowed []Status, next Status) (int64, error)

	// RoleCapacities joins the job's role requirements with current
	// assignment counts.
	RoleCapacities(ctx context.Context, jobID uuid.UUID) ([]RoleCapacity, error)

	// LastSlotFilledAt returns the assigned_at of the most recent assignment
	// on the job, or the zero time when it has none.
	LastSlotFilledAt(ctx context.Context, jobID uuid.UUID) (time.Time, error)
}
