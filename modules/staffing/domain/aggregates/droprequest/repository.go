package droprequest

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type FindParams struct {
	Status      Status
	RequesterID uuid.UUID
	Limit       int
	Offset      int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*DropRequest, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*DropRequest, error)

	// GetActiveByAssignment returns the pending or escalated request for the
	// assignment, or nil when there is none.
	GetActiveByAssignment(ctx context.Context, assignmentID uuid.UUID) (*DropRequest, error)

	Create(ctx context.Context, r *DropRequest) (*DropRequest, error)

	// Resolve conditionally moves the request to a terminal status, stamping
	// resolved_at/resolved_by, only while the current status is in allowed.
	// Returns the number of rows affected; zero means the request was missing
	// or the race was lost.
	Resolve(ctx context.Context, id uuid.UUID, allowed []Status, next Status, resolvedBy uuid.UUID, resolvedAt time.Time) (int64, error)

	// Escalate conditionally moves a pending request to escalated, stamping
	// escalated_at. Same zero-rows contract as Resolve.
	Escalate(ctx context.Context, id uuid.UUID, escalatedAt time.Time) (int64, error)

	// FindEscalationDue lists pending requests whose requested_at is at or
	// before the cutoff, oldest first, capped at limit.
	FindEscalationDue(ctx context.Context, cutoff time.Time, limit int) ([]*DropRequest, error)

	// TenantsWithEscalationDue returns the tenants that currently have
	// overdue pending requests. Used by the sweeper, which runs per tenant.
	TenantsWithEscalationDue(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error)
}
