package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/aisleworks/aisle/modules/staffing/domain/aggregates/droprequest"
	"github.com/aisleworks/aisle/modules/staffing/infrastructure/persistence/models"
	"github.com/aisleworks/aisle/pkg/composables"
	"github.com/aisleworks/aisle/pkg/repo"
	"github.com/aisleworks/aisle/pkg/serrors"
)

var (
	ErrDropRequestNotFound = serrors.NewNotFound("drop request not found", "Errors.DropRequest.NotFound")
	ErrDropRequestExists   = serrors.NewConflict("an active drop request already exists for this assignment", "Errors.DropRequest.Exists")
)

const (
	dropRequestFindQuery = `
		SELECT
			d.id,
			d.tenant_id,
			d.assignment_id,
			d.requester_id,
			d.reason,
			d.status,
			d.requested_at,
			d.escalated_at,
			d.resolved_at,
			d.resolved_by
		FROM drop_requests d`

	dropRequestInsertQuery = `
		INSERT INTO drop_requests (
			id, tenant_id, assignment_id, requester_id, reason, status, requested_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	// Both conditional updates guard on the current status so losers of a
	// race see zero rows affected instead of overwriting a resolution.
	dropRequestResolveQuery = `
		UPDATE drop_requests
		SET status = $3, resolved_at = $4, resolved_by = $5
		WHERE id = $1 AND tenant_id = $2 AND status = ANY($6)`

	dropRequestEscalateQuery = `
		UPDATE drop_requests
		SET status = 'escalated', escalated_at = $3
		WHERE id = $1 AND tenant_id = $2 AND status = 'pending'`

	dropRequestDueQuery = `
		SELECT
			d.id,
			d.tenant_id,
			d.assignment_id,
			d.requester_id,
			d.reason,
			d.status,
			d.requested_at,
			d.escalated_at,
			d.resolved_at,
			d.resolved_by
		FROM drop_requests d
		WHERE d.tenant_id = $1 AND d.status = 'pending' AND d.requested_at <= $2
		ORDER BY d.requested_at
		LIMIT $3`

	// Deliberately unscoped: the sweeper uses this to discover which tenants
	// need a per-tenant pass. Runs on the pool, not a tenant transaction.
	dropRequestDueTenantsQuery = `
		SELECT DISTINCT d.tenant_id
		FROM drop_requests d
		WHERE d.status = 'pending' AND d.requested_at <= $1`
)

type PgDropRequestRepository struct{}

func NewDropRequestRepository() droprequest.Repository {
	return &PgDropRequestRepository{}
}

func (r *PgDropRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*droprequest.DropRequest, error) {
	requests, err := r.queryDropRequests(ctx, repo.JoinWhere("d.tenant_id = $1", "d.id = $2"), id)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, ErrDropRequestNotFound
	}
	return requests[0], nil
}

func (r *PgDropRequestRepository) GetPaginated(ctx context.Context, params *droprequest.FindParams) ([]*droprequest.DropRequest, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	where := []string{"d.tenant_id = $1"}
	args := []interface{}{tenantID}
	if params.Status != "" {
		args = append(args, string(params.Status))
		where = append(where, fmt.Sprintf("d.status = $%d", len(args)))
	}
	if params.RequesterID != uuid.Nil {
		args = append(args, params.RequesterID)
		where = append(where, fmt.Sprintf("d.requester_id = $%d", len(args)))
	}

	query := repo.Join(
		dropRequestFindQuery,
		repo.JoinWhere(where...),
		"ORDER BY d.requested_at DESC",
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get paginated drop requests")
	}
	defer rows.Close()
	return scanDropRequests(rows.Next, rows.Scan, rows.Err)
}

func (r *PgDropRequestRepository) GetActiveByAssignment(ctx context.Context, assignmentID uuid.UUID) (*droprequest.DropRequest, error) {
	requests, err := r.queryDropRequests(ctx,
		repo.JoinWhere("d.tenant_id = $1", "d.assignment_id = $2", "d.status IN ('pending', 'escalated')"),
		assignmentID,
	)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, nil
	}
	return requests[0], nil
}

func (r *PgDropRequestRepository) Create(ctx context.Context, data *droprequest.DropRequest) (*droprequest.DropRequest, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	dbRequest := ToDBDropRequest(data)
	dbRequest.TenantID = tenantID.String()
	_, err = tx.Exec(ctx, dropRequestInsertQuery,
		dbRequest.ID,
		dbRequest.TenantID,
		dbRequest.AssignmentID,
		dbRequest.RequesterID,
		dbRequest.Reason,
		dbRequest.Status,
		dbRequest.RequestedAt,
	)
	if err != nil {
		return nil, translateDBError(err, nil, ErrDropRequestExists)
	}
	return r.GetByID(ctx, data.ID)
}

func (r *PgDropRequestRepository) Resolve(ctx context.Context, id uuid.UUID, allowed []droprequest.Status, next droprequest.Status, resolvedBy uuid.UUID, resolvedAt time.Time) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get tenant from context")
	}

	allowedValues := make([]string, len(allowed))
	for i, s := range allowed {
		allowedValues[i] = string(s)
	}
	tag, err := tx.Exec(ctx, dropRequestResolveQuery, id, tenantID, string(next), resolvedAt, resolvedBy, allowedValues)
	if err != nil {
		return 0, errors.Wrap(err, "failed to resolve drop request")
	}
	return tag.RowsAffected(), nil
}

func (r *PgDropRequestRepository) Escalate(ctx context.Context, id uuid.UUID, escalatedAt time.Time) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get tenant from context")
	}
	tag, err := tx.Exec(ctx, dropRequestEscalateQuery, id, tenantID, escalatedAt)
	if err != nil {
		return 0, errors.Wrap(err, "failed to escalate drop request")
	}
	return tag.RowsAffected(), nil
}

func (r *PgDropRequestRepository) FindEscalationDue(ctx context.Context, cutoff time.Time, limit int) ([]*droprequest.DropRequest, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	rows, err := tx.Query(ctx, dropRequestDueQuery, tenantID, cutoff, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query overdue drop requests")
	}
	defer rows.Close()
	return scanDropRequests(rows.Next, rows.Scan, rows.Err)
}

func (r *PgDropRequestRepository) TenantsWithEscalationDue(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	pool, err := composables.UsePool(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx, dropRequestDueTenantsQuery, cutoff)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query tenants with overdue drop requests")
	}
	defer rows.Close()

	var tenants []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "failed to scan tenant id")
		}
		tenants = append(tenants, id)
	}
	return tenants, rows.Err()
}

func (r *PgDropRequestRepository) queryDropRequests(ctx context.Context, where string, args ...any) ([]*droprequest.DropRequest, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	queryArgs := append([]interface{}{tenantID}, args...)
	rows, err := tx.Query(ctx, repo.Join(dropRequestFindQuery, where), queryArgs...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query drop requests")
	}
	defer rows.Close()
	return scanDropRequests(rows.Next, rows.Scan, rows.Err)
}

func scanDropRequests(next func() bool, scan func(...any) error, rowsErr func() error) ([]*droprequest.DropRequest, error) {
	var requests []*droprequest.DropRequest
	for next() {
		var dbRequest models.DropRequest
		if err := scan(
			&dbRequest.ID,
			&dbRequest.TenantID,
			&dbRequest.AssignmentID,
			&dbRequest.RequesterID,
			&dbRequest.Reason,
			&dbRequest.Status,
			&dbRequest.RequestedAt,
			&dbRequest.EscalatedAt,
			&dbRequest.ResolvedAt,
			&dbRequest.ResolvedBy,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan drop request")
		}
		entity, err := ToDomainDropRequest(&dbRequest)
		if err != nil {
			return nil, err
		}
		requests = append(requests, entity)
	}
	return requests, rowsErr()
}
