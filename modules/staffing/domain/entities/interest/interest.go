package interest

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Interest is a worker's expressed interest in an available job. Unique per
// (job, worker); withdrawal deletes the row.
type Interest struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	JobID       uuid.UUID `json:"job_id"`
	UserID      uuid.UUID `json:"user_id"`
	ExpressedAt time.Time `json:"expressed_at"`
}

func New(jobID, userID uuid.UUID) *Interest {
	return &Interest{
		ID:          uuid.New(),
		JobID:       jobID,
		UserID:      userID,
		ExpressedAt: time.Now(),
	}
}

type Repository interface {
	GetByJob(ctx context.Context, jobID uuid.UUID) ([]*Interest, error)
	Create(ctx context.Context, i *Interest) (*Interest, error)
	Delete(ctx context.Context, jobID, userID uuid.UUID) error

	// Candidates returns the job's interested workers enriched with profile,
	// distance inputs and prior-assignment history for ranking.
	Candidates(ctx context.Context, jobID uuid.UUID) ([]*Candidate, error)
}
