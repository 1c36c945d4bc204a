package interest

import (
	"time"

	"github.com/google/uuid"
)

// Candidate is an interested worker enriched for manager review: profile,
// distance from the job's venue, and prior-assignment recency. Computed per
// request, never persisted.
//
// DistanceKm is nil when either the worker or the venue has no registered
// location; such candidates sort last on distance regardless of direction.
// LastAssignmentDate is nil when the worker has never completed a job; under
// ascending last-assignment ordering that reads as infinite idle time, so
// those candidates sort first.
type Candidate struct {
	UserID             uuid.UUID  `json:"user_id"`
	FirstName          string     `json:"first_name"`
	LastName           string     `json:"last_name"`
	Email              string     `json:"email"`
	DistanceKm         *float64   `json:"distance_km,omitempty"`
	LastAssignmentDate *time.Time `json:"last_assignment_date,omitempty"`
	ExpressedAt        time.Time  `json:"expressed_at"`
}

func (c *Candidate) FullName() string {
	return c.FirstName + " " + c.LastName
}
