package droprequest

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a drop request.
//
//	pending → approved | rejected | escalated
//	escalated → approved | rejected
//
// approved and rejected are terminal; escalated requests may only be resolved
// by an admin.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusEscalated Status = "escalated"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusEscalated:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// IsActive reports whether the request still blocks a new one for the same
// assignment.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusEscalated
}

// ResolvableFrom lists the states a resolution (approve/reject) may start
// from. The conditional update in the store enforces the same set, so a
// concurrent resolution loses cleanly instead of double-resolving.
func ResolvableFrom() []Status {
	return []Status{StatusPending, StatusEscalated}
}

// DropRequest is a worker's request to be released from a job assignment.
// ResolvedAt is set iff the status is terminal.
type DropRequest struct {
	ID           uuid.UUID  `json:"id"`
	TenantID     uuid.UUID  `json:"tenant_id"`
	AssignmentID uuid.UUID  `json:"assignment_id"`
	RequesterID  uuid.UUID  `json:"requester_id"`
	Reason       string     `json:"reason"`
	Status       Status     `json:"status"`
	RequestedAt  time.Time  `json:"requested_at"`
	EscalatedAt  *time.Time `json:"escalated_at,omitempty"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy   *uuid.UUID `json:"resolved_by,omitempty"`
}

func New(assignmentID, requesterID uuid.UUID, reason string) *DropRequest {
	return &DropRequest{
		ID:           uuid.New(),
		AssignmentID: assignmentID,
		RequesterID:  requesterID,
		Reason:       reason,
		Status:       StatusPending,
		RequestedAt:  time.Now(),
	}
}

// IsEscalationDue reports whether the request has sat pending for at least
// the SLA window. Pure predicate; the sweeper (or a manager) still has to
// invoke the escalation itself.
func IsEscalationDue(r *DropRequest, now time.Time, slaWindow time.Duration) bool {
	return r.Status == StatusPending && now.Sub(r.RequestedAt) >= slaWindow
}
