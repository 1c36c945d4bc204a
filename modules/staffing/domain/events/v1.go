package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TopicJobChangedV1         = "staffing.job.changed.v1"
	TopicAssignmentChangedV1  = "staffing.assignment.changed.v1"
	TopicInterestChangedV1    = "staffing.interest.changed.v1"
	TopicDropRequestChangedV1 = "staffing.drop_request.changed.v1"
	EventVersionV1            = 1
)

// JobChangedV1 fires on job creation, status transitions and completion.
type JobChangedV1 struct {
	EventID      uuid.UUID `json:"event_id"`
	EventVersion int       `json:"event_version"`
	TenantID     uuid.UUID `json:"tenant_id"`
	JobID        uuid.UUID `json:"job_id"`
	Status       string    `json:"status"`
	ChangeType   string    `json:"change_type"` // created | updated | transitioned | completed | deleted
	OccurredAt   time.Time `json:"occurred_at"`
}

type AssignmentChangedV1 struct {
	EventID      uuid.UUID `json:"event_id"`
	EventVersion int       `json:"event_version"`
	TenantID     uuid.UUID `json:"tenant_id"`
	AssignmentID uuid.UUID `json:"assignment_id"`
	JobID        uuid.UUID `json:"job_id"`
	UserID       uuid.UUID `json:"user_id"`
	ChangeType   string    `json:"change_type"` // assigned | released
	OccurredAt   time.Time `json:"occurred_at"`
}

type InterestChangedV1 struct {
	EventID      uuid.UUID `json:"event_id"`
	EventVersion int       `json:"event_version"`
	TenantID     uuid.UUID `json:"tenant_id"`
	JobID        uuid.UUID `json:"job_id"`
	UserID       uuid.UUID `json:"user_id"`
	ChangeType   string    `json:"change_type"` // expressed | withdrawn
	OccurredAt   time.Time `json:"occurred_at"`
}

type DropRequestChangedV1 struct {
	EventID       uuid.UUID `json:"event_id"`
	EventVersion  int       `json:"event_version"`
	TenantID      uuid.UUID `json:"tenant_id"`
	DropRequestID uuid.UUID `json:"drop_request_id"`
	AssignmentID  uuid.UUID `json:"assignment_id"`
	RequesterID   uuid.UUID `json:"requester_id"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}
