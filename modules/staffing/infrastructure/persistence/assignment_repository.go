package persistence

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/aisleworks/aisle/modules/staffing/domain/aggregates/assignment"
	"github.com/aisleworks/aisle/modules/staffing/domain/schedule"
	"github.com/aisleworks/aisle/modules/staffing/infrastructure/persistence/models"
	"github.com/aisleworks/aisle/pkg/composables"
	"github.com/aisleworks/aisle/pkg/repo"
	"github.com/aisleworks/aisle/pkg/serrors"
)

var (
	ErrAssignmentNotFound = serrors.NewNotFound("assignment not found", "Errors.Assignment.NotFound")
	ErrAssignmentExists   = serrors.NewConflict("the worker is already assigned to this job", "Errors.Assignment.Exists")
)

const (
	assignmentFindQuery = `
		SELECT
			a.id,
			a.tenant_id,
			a.job_id,
			a.user_id,
			a.role,
			a.assigned_by,
			a.assigned_at,
			a.completed_at
		FROM assignments a`

	assignmentInsertQuery = `
		INSERT INTO assignments (
			id, tenant_id, job_id, user_id, role, assigned_by, assigned_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	assignmentDeleteQuery = `DELETE FROM assignments WHERE id = $1 AND tenant_id = $2`

	// Open commitments: not yet completed, on a job that is still going to
	// happen. Cancelled jobs stop blocking the worker's calendar.
	assignmentCommitmentsQuery = `
		SELECT a.id, a.job_id, j.start_time, j.end_time
		FROM assignments a
		JOIN jobs j ON j.id = a.job_id
		WHERE a.tenant_id = $1
			AND a.user_id = $2
			AND a.completed_at IS NULL
			AND j.status <> 'cancelled'`

	assignmentLastCompletedQuery = `
		SELECT MAX(a.completed_at)
		FROM assignments a
		WHERE a.tenant_id = $1
			AND a.user_id = $2
			AND a.completed_at IS NOT NULL
			AND a.completed_at < $3`

	assignmentPropagateQuery = `
		UPDATE assignments
		SET completed_at = $3
		WHERE tenant_id = $1 AND job_id = $2 AND completed_at IS NULL`
)

type PgAssignmentRepository struct{}

func NewAssignmentRepository() assignment.Repository {
	return &PgAssignmentRepository{}
}

func (r *PgAssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*assignment.Assignment, error) {
	assignments, err := r.queryAssignments(ctx, repo.JoinWhere("a.tenant_id = $1", "a.id = $2"), id)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return nil, ErrAssignmentNotFound
	}
	return assignments[0], nil
}

func (r *PgAssignmentRepository) GetByJob(ctx context.Context, jobID uuid.UUID) ([]*assignment.Assignment, error) {
	return r.queryAssignments(ctx,
		repo.Join(repo.JoinWhere("a.tenant_id = $1", "a.job_id = $2"), "ORDER BY a.assigned_at"),
		jobID,
	)
}

func (r *PgAssignmentRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*assignment.Assignment, error) {
	return r.queryAssignments(ctx,
		repo.Join(repo.JoinWhere("a.tenant_id = $1", "a.user_id = $2"), "ORDER BY a.assigned_at DESC"),
		userID,
	)
}

func (r *PgAssignmentRepository) Create(ctx context.Context, data *assignment.Assignment) (*assignment.Assignment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	dbAssignment := ToDBAssignment(data)
	dbAssignment.TenantID = tenantID.String()
	_, err = tx.Exec(ctx, assignmentInsertQuery,
		dbAssignment.ID,
		dbAssignment.TenantID,
		dbAssignment.JobID,
		dbAssignment.UserID,
		dbAssignment.Role,
		dbAssignment.AssignedBy,
		dbAssignment.AssignedAt,
	)
	if err != nil {
		return nil, translateDBError(err, nil, ErrAssignmentExists)
	}
	return r.GetByID(ctx, data.ID)
}

func (r *PgAssignmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get tenant from context")
	}
	tag, err := tx.Exec(ctx, assignmentDeleteQuery, id, tenantID)
	if err != nil {
		return errors.Wrap(err, "failed to delete assignment")
	}
	if tag.RowsAffected() == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}

func (r *PgAssignmentRepository) ActiveCommitments(ctx context.Context, userID uuid.UUID) ([]assignment.Commitment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	rows, err := tx.Query(ctx, assignmentCommitmentsQuery, tenantID, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query active commitments")
	}
	defer rows.Close()

	var commitments []assignment.Commitment
	for rows.Next() {
		var (
			assignmentID, jobID uuid.UUID
			start, end          time.Time
		)
		if err := rows.Scan(&assignmentID, &jobID, &start, &end); err != nil {
			return nil, errors.Wrap(err, "failed to scan commitment")
		}
		commitments = append(commitments, assignment.Commitment{
			AssignmentID: assignmentID,
			JobID:        jobID,
			Window:       schedule.NewWindow(start, end),
		})
	}
	return commitments, rows.Err()
}

func (r *PgAssignmentRepository) LastCompletedBefore(ctx context.Context, userID uuid.UUID, cutoff time.Time) (*time.Time, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	var last *time.Time
	if err := tx.QueryRow(ctx, assignmentLastCompletedQuery, tenantID, userID, cutoff).Scan(&last); err != nil {
		return nil, errors.Wrap(err, "failed to query last completed assignment")
	}
	return last, nil
}

func (r *PgAssignmentRepository) PropagateCompletion(ctx context.Context, jobID uuid.UUID, completedAt time.Time) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get tenant from context")
	}
	if _, err := tx.Exec(ctx, assignmentPropagateQuery, tenantID, jobID, completedAt); err != nil {
		return errors.Wrap(err, "failed to propagate job completion")
	}
	return nil
}

func (r *PgAssignmentRepository) queryAssignments(ctx context.Context, where string, args ...any) ([]*assignment.Assignment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	queryArgs := append([]interface{}{tenantID}, args...)
	rows, err := tx.Query(ctx, repo.Join(assignmentFindQuery, where), queryArgs...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query assignments")
	}
	defer rows.Close()

	var assignments []*assignment.Assignment
	for rows.Next() {
		var dbAssignment models.Assignment
		if err := rows.Scan(
			&dbAssignment.ID,
			&dbAssignment.TenantID,
			&dbAssignment.JobID,
			&dbAssignment.UserID,
			&dbAssignment.Role,
			&dbAssignment.AssignedBy,
			&dbAssignment.AssignedAt,
			&dbAssignment.CompletedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan assignment")
		}
		entity, err := ToDomainAssignment(&dbAssignment)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, entity)
	}
	return assignments, rows.Err()
}
